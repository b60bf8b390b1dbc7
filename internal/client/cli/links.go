package cli

import (
	"context"
	"fmt"
	"log"
	"os"
)

// List prints the tracked job links, newest first.
func (a *App) List(ctx context.Context) error {
	id, ok := a.requireAuth()
	if !ok {
		return nil
	}

	records, err := a.sync.LoadRecords(ctx, id)
	if err != nil {
		log.Printf("error loading links: %s", err.Error())
		return err
	}

	if len(records) == 0 {
		fmt.Println("No links yet, use 'addlink' to track one.")
		return nil
	}

	for _, r := range records {
		marker := " "
		if r.Applied() {
			marker = "*"
		}
		fmt.Printf("%s %s  %s\n    %s\n", marker, r.ID, r.Title, r.URL)
		if r.Applied() && r.AppliedAt != nil {
			fmt.Printf("    applied %s\n", r.AppliedAt.Format("2006-01-02 15:04"))
		}
	}
	return nil
}

// AddLink tracks a new job posting.
func (a *App) AddLink(ctx context.Context) error {
	id, ok := a.requireAuth()
	if !ok {
		return nil
	}

	url, err := getSimpleText(a.reader, "Enter job posting URL", os.Stdout)
	if err != nil {
		return err
	}
	title, err := getSimpleText(a.reader, "Enter title (empty to reuse the URL)", os.Stdout)
	if err != nil {
		return err
	}
	description, err := getSimpleText(a.reader, "Enter description (optional)", os.Stdout)
	if err != nil {
		return err
	}

	rec, err := a.sync.CreateRecord(ctx, id, url, title, description)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	fmt.Printf("Tracking %s (%s)\n", rec.Title, rec.ID)
	return nil
}

// DeleteLink stops tracking a link.
func (a *App) DeleteLink(ctx context.Context) error {
	id, ok := a.requireAuth()
	if !ok {
		return nil
	}

	recordID, err := getSimpleText(a.reader, "Enter link id to delete", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.sync.DeleteRecord(ctx, id, recordID); err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	fmt.Println("Deleted.")
	return nil
}
