package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/dkarklins/jobfolio/internal/client/apply"
)

// Apply submits the saved profile to one tracked link. A link can be
// applied to once; a failure leaves it open for another attempt.
func (a *App) Apply(ctx context.Context) error {
	id, ok := a.requireAuth()
	if !ok {
		return nil
	}

	recordID, err := getSimpleText(a.reader, "Enter link id to apply to", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.machine.Apply(ctx, id, recordID); err != nil {
		switch {
		case errors.Is(err, apply.ErrNoProfile):
			fmt.Println("Save your profile before applying.")
		case errors.Is(err, apply.ErrAlreadyApplied):
			fmt.Println("Already applied to that link.")
		case errors.Is(err, apply.ErrInFlight):
			fmt.Println("An application for that link is already in progress.")
		default:
			log.Printf("Error: %s", err.Error())
			if apply.Retryable(err) {
				fmt.Println("Nothing was recorded, you can try again.")
			}
		}
		return err
	}

	fmt.Println("Applied!")
	return nil
}
