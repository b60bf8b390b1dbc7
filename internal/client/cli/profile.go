package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/dkarklins/jobfolio/internal/profile"
)

// ShowProfile prints the whole document, section by section.
func (a *App) ShowProfile(ctx context.Context) error {
	id, ok := a.requireAuth()
	if !ok {
		return nil
	}

	doc, loaded := a.sync.Profile()
	if !loaded {
		var err error
		doc, err = a.sync.LoadProfile(ctx, id)
		if err != nil {
			log.Printf("error loading profile: %s", err.Error())
			return err
		}
	}

	if a.sync.HasPersistedProfile() {
		fmt.Println("Profile (saved)")
	} else {
		fmt.Println("Profile (not saved yet)")
	}

	for _, sec := range profile.Sections() {
		fmt.Printf("\n[%s]\n", sec)
		for _, field := range profile.Fields(sec) {
			v, err := doc.Get(profile.FieldPath(sec, field))
			if err != nil {
				continue
			}
			printField(field, v)
		}
	}
	return nil
}

func printField(field string, v any) {
	switch value := v.(type) {
	case string:
		fmt.Printf("  %s: %s\n", field, value)
	case profile.Record:
		fmt.Printf("  %s: %s\n", field, formatRecord(value))
	case []profile.Record:
		fmt.Printf("  %s:\n", field)
		for i, item := range value {
			fmt.Printf("    [%d] %s\n", i, formatRecord(item))
		}
	default:
		fmt.Printf("  %s: %v\n", field, value)
	}
}

func formatRecord(r profile.Record) string {
	parts := make([]string, 0, len(r))
	for k, v := range r {
		if v == "" {
			continue
		}
		parts = append(parts, k+"="+v)
	}
	if len(parts) == 0 {
		return "(empty)"
	}
	return strings.Join(parts, ", ")
}

// SetField writes one value at a dotted path, locally. Nothing reaches
// the server until "save".
func (a *App) SetField(ctx context.Context, args []string) error {
	if _, ok := a.requireAuth(); !ok {
		return nil
	}
	if len(args) < 2 {
		fmt.Println("Usage: set <section.field[.index.subfield]> <value>")
		return nil
	}

	p, err := profile.ParsePath(args[0])
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	value := strings.Join(args[1:], " ")
	if err := a.sync.SetProfileField(p, value); err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	fmt.Printf("%s = %s (run 'save' to persist)\n", p, value)
	return nil
}

// AddItem appends an entry to a sequence field, prompting for its keys.
func (a *App) AddItem(ctx context.Context, args []string) error {
	if _, ok := a.requireAuth(); !ok {
		return nil
	}
	if len(args) != 2 {
		fmt.Println("Usage: add <section> <field>")
		return nil
	}

	sec, field := profile.Section(args[0]), args[1]
	fields, err := GetRecordFields(a.reader, os.Stdout)
	if err != nil {
		return err
	}

	if err := a.sync.AppendProfileItem(sec, field, profile.Record(fields)); err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	fmt.Println("Added (run 'save' to persist)")
	return nil
}

// RemoveItem drops one entry of a sequence field by index.
func (a *App) RemoveItem(ctx context.Context, args []string) error {
	if _, ok := a.requireAuth(); !ok {
		return nil
	}
	if len(args) != 3 {
		fmt.Println("Usage: remove <section> <field> <index>")
		return nil
	}

	index, err := strconv.Atoi(args[2])
	if err != nil {
		fmt.Println("Usage: remove <section> <field> <index>")
		return nil
	}

	if err := a.sync.RemoveProfileItem(profile.Section(args[0]), args[1], index); err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	fmt.Println("Removed (run 'save' to persist)")
	return nil
}

// SaveProfile persists the local document wholesale.
func (a *App) SaveProfile(ctx context.Context) error {
	id, ok := a.requireAuth()
	if !ok {
		return nil
	}

	if err := a.sync.SaveProfile(ctx, id); err != nil {
		log.Printf("error saving profile: %s", err.Error())
		return err
	}
	fmt.Println("Profile saved.")
	return nil
}

// ReloadProfile discards local edits and pulls the persisted document.
func (a *App) ReloadProfile(ctx context.Context) error {
	id, ok := a.requireAuth()
	if !ok {
		return nil
	}

	if _, err := a.sync.LoadProfile(ctx, id); err != nil {
		log.Printf("error reloading profile: %s", err.Error())
		return err
	}
	fmt.Println("Profile reloaded.")
	return nil
}
