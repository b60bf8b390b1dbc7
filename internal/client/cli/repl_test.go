package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  [][]string
}

func (f *fakeExec) record(name string, args ...[]string) {
	f.calls = append(f.calls, name)
	if len(args) > 0 {
		f.args = append(f.args, args[0])
	}
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	f.record("register")
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.record("login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.record("logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) RequestReset(ctx context.Context) error   { f.record("reset"); return nil }
func (f *fakeExec) ChangePassword(ctx context.Context) error { f.record("passwd"); return nil }
func (f *fakeExec) ShowProfile(ctx context.Context) error    { f.record("profile"); return nil }
func (f *fakeExec) SetField(ctx context.Context, args []string) error {
	f.record("set", args)
	return nil
}
func (f *fakeExec) AddItem(ctx context.Context, args []string) error {
	f.record("add", args)
	return nil
}
func (f *fakeExec) RemoveItem(ctx context.Context, args []string) error {
	f.record("remove", args)
	return nil
}
func (f *fakeExec) SaveProfile(ctx context.Context) error   { f.record("save"); return nil }
func (f *fakeExec) ReloadProfile(ctx context.Context) error { f.record("reload"); return nil }
func (f *fakeExec) List(ctx context.Context) error          { f.record("list"); return nil }
func (f *fakeExec) AddLink(ctx context.Context) error       { f.record("addlink"); return nil }
func (f *fakeExec) DeleteLink(ctx context.Context) error    { f.record("dellink"); return nil }
func (f *fakeExec) Apply(ctx context.Context) error         { f.record("apply"); return nil }
func (f *fakeExec) UploadResume(ctx context.Context, args []string) error {
	f.record("upload", args)
	return nil
}

func silencePrintln(t *testing.T) {
	t.Helper()
	orig := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = orig })
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	silencePrintln(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"help",
		"profile",
		"set my_information.first_name Kate",
		"save",
		"list",
		"addlink",
		"apply",
		"foobar",
		"exit",
	}, "\n"))

	exec := &fakeExec{loggedIn: false}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "status" }, sc)

	wantOrder := []string{"login", "profile", "set", "save", "list", "addlink", "apply"}
	idx := 0
	for _, c := range exec.calls {
		if idx < len(wantOrder) && c == wantOrder[idx] {
			idx++
		}
	}
	if idx != len(wantOrder) {
		t.Fatalf("commands order mismatch: got %v, want subseq %v", exec.calls, wantOrder)
	}
}

func TestRunREPL_ArgsArePassedThrough(t *testing.T) {
	silencePrintln(t)

	input := strings.NewReader("set my_information.first_name Kate Anne\nremove my_experience skills 2\nquit\n")
	exec := &fakeExec{loggedIn: true}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	if len(exec.args) != 2 {
		t.Fatalf("unexpected args: %v", exec.args)
	}
	if got := strings.Join(exec.args[0], " "); got != "my_information.first_name Kate Anne" {
		t.Fatalf("set args: %q", got)
	}
	if got := strings.Join(exec.args[1], " "); got != "my_experience skills 2" {
		t.Fatalf("remove args: %q", got)
	}
}

func TestRunREPL_BlankLinesAndEOF(t *testing.T) {
	silencePrintln(t)

	input := strings.NewReader("\n\n   \n")
	exec := &fakeExec{}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "" }, sc)

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}
