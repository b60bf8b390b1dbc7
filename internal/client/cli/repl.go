package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	RequestReset(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	ShowProfile(ctx context.Context) error
	SetField(ctx context.Context, args []string) error
	AddItem(ctx context.Context, args []string) error
	RemoveItem(ctx context.Context, args []string) error
	SaveProfile(ctx context.Context) error
	ReloadProfile(ctx context.Context) error
	List(ctx context.Context) error
	AddLink(ctx context.Context) error
	DeleteLink(ctx context.Context) error
	Apply(ctx context.Context) error
	UploadResume(ctx context.Context, args []string) error
}

// runREPL starts a simple read-eval-print loop.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("jf> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: profile, set, add, remove, save, reload, (l)ist, addlink, dellink, apply, upload, passwd, logout, exit")
			} else {
				printlnFn("Available commands: register, login, reset, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "reset":
			_ = a.RequestReset(ctx)

		case "passwd":
			_ = a.ChangePassword(ctx)

		case "profile":
			_ = a.ShowProfile(ctx)

		case "set":
			_ = a.SetField(ctx, args)

		case "add":
			_ = a.AddItem(ctx, args)

		case "remove":
			_ = a.RemoveItem(ctx, args)

		case "save":
			_ = a.SaveProfile(ctx)

		case "reload":
			_ = a.ReloadProfile(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "addlink":
			_ = a.AddLink(ctx)

		case "dellink":
			_ = a.DeleteLink(ctx)

		case "apply":
			_ = a.Apply(ctx)

		case "upload":
			_ = a.UploadResume(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
