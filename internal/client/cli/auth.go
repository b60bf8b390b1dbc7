package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dkarklins/jobfolio/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for an email and password and creates a new account.
// A successful sign-up also signs the user in.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	sess, err := a.backend.SignUp(ctx, email, string(password))
	if err != nil {
		log.Printf("Registration unsuccessful: %s", err.Error())
		return err
	}

	fmt.Println("Success!")
	a.loadAll(ctx, sess.Identity)
	return nil
}

// Login prompts for credentials and authenticates against the server. On
// success the profile document and tracked links are loaded.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	sess, err := a.backend.SignIn(ctx, email, string(password))
	if err != nil {
		log.Printf("Login unsuccessful: %s", err.Error())
		return err
	}

	log.Printf("Login successful")
	a.loadAll(ctx, sess.Identity)
	return nil
}

// Logout revokes the session server-side and drops all local state.
func (a *App) Logout(ctx context.Context) error {
	if err := a.backend.SignOut(ctx); err != nil {
		log.Printf("error signing out: %s", err.Error())
		return err
	}
	a.sync.Reset()
	return nil
}

// RequestReset asks the server to start the password reset flow. The
// reply is identical whether or not the address has an account.
func (a *App) RequestReset(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.backend.RequestPasswordReset(ctx, email, a.config.ServerBaseURL+"/reset"); err != nil {
		log.Printf("error requesting reset: %s", err.Error())
		return err
	}

	fmt.Println("If the address has an account, a reset link is on its way.")
	return nil
}

// ChangePassword sets a new password for the signed-in user.
func (a *App) ChangePassword(ctx context.Context) error {
	if _, ok := a.requireAuth(); !ok {
		return nil
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.backend.UpdatePassword(ctx, string(password)); err != nil {
		log.Printf("error updating password: %s", err.Error())
		return err
	}

	fmt.Println("Password updated.")
	return nil
}
