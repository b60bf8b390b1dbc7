package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/dkarklins/jobfolio/internal/profile"
)

// osOpen is a test seam for os.Open.
var osOpen = func(name string) (io.ReadCloser, error) { return os.Open(name) }

// UploadResume sends a resume file to the blob store and points the
// profile's resume field at it. The profile still needs a 'save'.
func (a *App) UploadResume(ctx context.Context, args []string) error {
	id, ok := a.requireAuth()
	if !ok {
		return nil
	}
	if len(args) != 1 {
		fmt.Println("Usage: upload <file>")
		return nil
	}

	path := args[0]
	f, err := osOpen(path)
	if err != nil {
		log.Printf("error opening file: %s", err.Error())
		return err
	}
	defer f.Close()

	filename := filepath.Base(path)
	key := fmt.Sprintf("%s_resume_%d%s", id.ID, time.Now().Unix(), filepath.Ext(path))

	if err := a.backend.Upload(ctx, a.config.ResumeBucket, key, f); err != nil {
		log.Printf("error uploading: %s", err.Error())
		return err
	}

	resume := profile.Record{
		"path":     key,
		"filename": filename,
		"file_url": a.backend.PublicURL(a.config.ResumeBucket, key),
	}
	if err := a.sync.SetProfileField(profile.FieldPath(profile.SectionMyExperience, "resume"), resume); err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	fmt.Printf("Uploaded %s (run 'save' to persist the profile)\n", filename)
	return nil
}
