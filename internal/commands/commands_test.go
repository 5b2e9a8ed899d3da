package commands_test

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"io"
	"strings"
	"testing"

	"todoapp/internal/commands"
	"todoapp/internal/config"
	"todoapp/internal/exitcode"
	"todoapp/internal/session"
	"todoapp/internal/testutil"
	"todoapp/internal/todo"
)

// seed is the remote data used by most tests.
var seed = []todo.Item{
	{ID: 1, Title: "delectus aut autem"},
	{ID: 2, Title: "quis ut nam facilis", Completed: true},
	{ID: 3, Title: "fugiat veniam minus"},
}

// newSession returns a session already initialized from seed.
func newSession(t *testing.T) *session.Session {
	t.Helper()
	sess := session.New(nil, testutil.NewFakeSource(seed...), nil)
	if err := sess.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return sess
}

// runCommand is a helper to run a command against a session. Flags in
// args are parsed with the command's own flag set.
func runCommand(t *testing.T, cmd commands.Command, sess *session.Session, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cmd.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	args = fs.Args()

	var outBuf, errBuf bytes.Buffer

	cfg := &config.Config{
		Dir:    t.TempDir(),
		Quiet:  quiet,
		Source: config.SourcePlaceholder,
	}

	code = cmd.Run(context.Background(), cfg, sess, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestVersionCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.VersionCmd{}, newSession(t), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "todo 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

func TestHelpCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.HelpCmd{}, newSession(t), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	for _, want := range []string{"Usage:", "todo add <title...>", "todo toggle <id>", "aliases: ls", "Common flags:"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("help output should contain %q", want)
		}
	}
}

func TestListCommand_All(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, newSession(t), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	testutil.GoldenString(t, "list_all", stdout)
}

func TestListCommand_FollowsActiveFilter(t *testing.T) {
	sess := newSession(t)
	sess.Store.SetFilter(todo.FilterCompleted)

	stdout, _, code := runCommand(t, &commands.ListCmd{}, sess, nil, false)
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expected := "     2  [x] quis ut nam facilis\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_FilterFlagDoesNotChangeStore(t *testing.T) {
	sess := newSession(t)
	stdout, _, code := runCommand(t, &commands.ListCmd{}, sess, []string{"--filter", "todo"}, false)
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	testutil.GoldenString(t, "list_todo", stdout)
	if sess.Store.Filter() != todo.FilterAll {
		t.Errorf("store filter changed to %s", sess.Store.Filter())
	}
}

func TestListCommand_JSON(t *testing.T) {
	args := []string{"--format", "json", "-f", "completed"}
	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, newSession(t), args, false)
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
	testutil.GoldenString(t, "list_completed_json", stdout)
}

func TestListCommand_YAML(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.ListCmd{}, newSession(t), []string{"--format", "yaml"}, false)
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	testutil.GoldenString(t, "list_all_yaml", stdout)
}

func TestListCommand_Empty(t *testing.T) {
	sess := session.New(nil, nil, nil)

	stdout, _, code := runCommand(t, &commands.ListCmd{}, sess, nil, false)
	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "no items\n" {
		t.Errorf("expected 'no items\\n', got %q", stdout)
	}

	stdout, _, _ = runCommand(t, &commands.ListCmd{}, sess, nil, true)
	if stdout != "" {
		t.Errorf("expected empty stdout in quiet mode, got %q", stdout)
	}
}

func TestListCommand_BadFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad filter", []string{"--filter", "urgent"}, "error: invalid filter: urgent\n"},
		{"bad format", []string{"--format", "xml"}, "error: unknown format: xml\n"},
		{"extra arg", []string{"Shopping"}, "error: unexpected argument: Shopping\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, code := runCommand(t, &commands.ListCmd{}, newSession(t), tt.args, false)
			if code != exitcode.UserError {
				t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
			}
			if stdout != "" {
				t.Errorf("expected no stdout, got %q", stdout)
			}
			if stderr != tt.want {
				t.Errorf("expected %q, got %q", tt.want, stderr)
			}
		})
	}
}

func TestAddCommand_Success(t *testing.T) {
	sess := newSession(t)

	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, sess, []string{"Buy", "milk"}, false)
	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok 3001\n" {
		t.Errorf("expected 'ok 3001\\n', got %q", stdout)
	}

	it, ok := sess.Store.Get(todo.DefaultSeed + 1)
	if !ok {
		t.Fatal("expected new item")
	}
	if it.Title != "Buy milk" || it.Completed {
		t.Errorf("unexpected item %+v", it)
	}
}

func TestAddCommand_Quiet(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, newSession(t), []string{"Walk dog"}, true)
	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" || stdout != "" {
		t.Errorf("expected no output in quiet mode, got %q / %q", stdout, stderr)
	}
}

func TestAddCommand_BlankTitle(t *testing.T) {
	for _, args := range [][]string{nil, {"   "}, {"", "\t"}} {
		sess := newSession(t)
		stdout, stderr, code := runCommand(t, &commands.AddCmd{}, sess, args, false)

		if code != exitcode.UserError {
			t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
		}
		if stdout != "" {
			t.Errorf("expected no stdout, got %q", stdout)
		}
		if stderr != "error: title required\n" {
			t.Errorf("expected title required error, got %q", stderr)
		}
		if sess.Store.Len() != len(seed) || sess.Store.Counter() != todo.DefaultSeed {
			t.Error("blank add changed the store")
		}
	}
}

func TestToggleCommand(t *testing.T) {
	sess := newSession(t)

	stdout, stderr, code := runCommand(t, &commands.ToggleCmd{}, sess, []string{"1"}, false)
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	if it, _ := sess.Store.Get(1); !it.Completed {
		t.Error("item 1 should be completed")
	}

	// '#' prefix is accepted
	runCommand(t, &commands.ToggleCmd{}, sess, []string{"#1"}, true)
	if it, _ := sess.Store.Get(1); it.Completed {
		t.Error("item 1 should be open again")
	}
}

func TestToggleAndRmErrors(t *testing.T) {
	cmds := []commands.Command{&commands.ToggleCmd{}, &commands.RmCmd{}}
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing id", nil, "error: item id required\n"},
		{"not a number", []string{"abc"}, "error: invalid item id: abc\n"},
		{"too many", []string{"1", "2"}, "error: too many arguments: 2\n"},
		{"unknown id", []string{"42"}, "error: item not found: 42\n"},
	}

	for _, cmd := range cmds {
		for _, tt := range tests {
			t.Run(cmd.Name()+"/"+tt.name, func(t *testing.T) {
				sess := newSession(t)
				stdout, stderr, code := runCommand(t, cmd, sess, tt.args, false)
				if code != exitcode.UserError {
					t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
				}
				if stdout != "" {
					t.Errorf("expected no stdout, got %q", stdout)
				}
				if stderr != tt.want {
					t.Errorf("expected %q, got %q", tt.want, stderr)
				}
				if len(sess.Store.Items()) != len(seed) {
					t.Error("store changed on error")
				}
			})
		}
	}
}

func TestRmCommand(t *testing.T) {
	sess := newSession(t)

	stdout, _, code := runCommand(t, &commands.RmCmd{}, sess, []string{"2"}, false)
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	if _, ok := sess.Store.Get(2); ok {
		t.Error("item 2 should be gone")
	}

	// second delete of the same id is reported, store unchanged
	_, stderr, code := runCommand(t, &commands.RmCmd{}, sess, []string{"2"}, false)
	if code != exitcode.UserError || stderr != "error: item not found: 2\n" {
		t.Errorf("unexpected second delete result: %d %q", code, stderr)
	}
	if sess.Store.Len() != 2 {
		t.Errorf("expected 2 items, got %d", sess.Store.Len())
	}
}

func TestFilterCommand(t *testing.T) {
	sess := newSession(t)

	stdout, _, _ := runCommand(t, &commands.FilterCmd{}, sess, nil, false)
	if stdout != "all\n" {
		t.Errorf("expected 'all\\n', got %q", stdout)
	}

	stdout, _, code := runCommand(t, &commands.FilterCmd{}, sess, []string{"Todo"}, false)
	if code != exitcode.Success || stdout != "ok\n" {
		t.Errorf("unexpected result: %d %q", code, stdout)
	}
	if sess.Store.Filter() != todo.FilterTodo {
		t.Errorf("expected filter todo, got %s", sess.Store.Filter())
	}

	_, stderr, code := runCommand(t, &commands.FilterCmd{}, sess, []string{"done"}, false)
	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: invalid filter: done\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if sess.Store.Filter() != todo.FilterTodo {
		t.Error("invalid filter should leave the filter unchanged")
	}
}

func TestLoadCommand(t *testing.T) {
	src := testutil.NewFakeSource(seed...)
	sess := session.New(nil, src, nil)
	sess.Store.Add("local")

	stdout, stderr, code := runCommand(t, &commands.LoadCmd{}, sess, nil, false)
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (%s)", exitcode.Success, code, stderr)
	}
	if stdout != "loaded 3 items\n" {
		t.Errorf("expected 'loaded 3 items\\n', got %q", stdout)
	}
	if sess.Store.Len() != 3 {
		t.Errorf("load should replace items, have %d", sess.Store.Len())
	}
}

func TestLoadCommand_Failure(t *testing.T) {
	src := testutil.NewFakeSource()
	src.FetchErr = errors.New("connection refused")
	sess := session.New(nil, src, nil)

	stdout, stderr, code := runCommand(t, &commands.LoadCmd{}, sess, nil, false)
	if code != exitcode.LoadError {
		t.Errorf("expected exit code %d, got %d", exitcode.LoadError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: load failed: connection refused\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestStatusCommand(t *testing.T) {
	sess := newSession(t)
	sess.Store.SetFilter(todo.FilterTodo)

	stdout, _, code := runCommand(t, &commands.StatusCmd{}, sess, nil, false)
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	testutil.GoldenString(t, "status_loaded", stdout)
}

func TestStatusCommand_Failed(t *testing.T) {
	src := testutil.NewFakeSource()
	src.FetchErr = errors.New("timeout")
	sess := session.New(nil, src, nil)
	sess.Load(context.Background())

	stdout, _, _ := runCommand(t, &commands.StatusCmd{}, sess, nil, false)
	if !strings.Contains(stdout, "load:    failed\n") || !strings.Contains(stdout, "error:   load failed: timeout\n") {
		t.Errorf("status should report the failure, got %q", stdout)
	}
}

func TestParseItemID(t *testing.T) {
	id, err := commands.ParseItemID([]string{" 3001 "})
	if err != nil || id != 3001 {
		t.Errorf("ParseItemID: got %d, %v", id, err)
	}
	if _, err := commands.ParseItemID(nil); !errors.Is(err, commands.ErrIDRequired) {
		t.Errorf("expected ErrIDRequired, got %v", err)
	}
}

func TestDefaultRegistryAliases(t *testing.T) {
	for alias, name := range map[string]string{
		"ls": "list", "create": "add", "new": "add", "delete": "rm",
		"del": "rm", "done": "toggle", "reload": "load",
	} {
		cmd, ok := commands.DefaultRegistry.Find(alias)
		if !ok {
			t.Errorf("alias %q not registered", alias)
			continue
		}
		if cmd.Name() != name {
			t.Errorf("alias %q: got %q, want %q", alias, cmd.Name(), name)
		}
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := commands.NewRegistry()
	if err := r.Register(&commands.ListCmd{}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(&commands.ListCmd{}); err == nil {
		t.Error("expected duplicate registration error")
	}
	if got := len(r.All()); got != 1 {
		t.Errorf("expected 1 command, got %d", got)
	}
}
