package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/smileynet/addressbook/internal/assistant"
	"github.com/smileynet/addressbook/internal/config"
	"github.com/smileynet/addressbook/internal/contact"
	"github.com/smileynet/addressbook/internal/tui"
)

// errExitCalled is a sentinel used to catch kong's os.Exit calls in tests.
var errExitCalled = errors.New("exit called")

// isolate points HOME and the working directory at empty temp dirs so user
// and project config files do not leak into a test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const seedYAML = `
contacts:
  - name: John
    phones: ["1234567890"]
    birthday: "27.10.1990"
`

func TestFeature_CLIParsing(t *testing.T) {
	t.Run("version flag prints version commit and date", func(t *testing.T) {
		// Given: a CLI parser with version, commit, and date fields
		var cli CLI
		var buf bytes.Buffer
		versionStr := "v1.0.0 abc1234 2026-01-01T00:00:00Z"
		k, err := kong.New(&cli,
			kong.Vars{"version": versionStr},
			kong.Writers(&buf, &buf),
			kong.Exit(func(int) { panic(errExitCalled) }),
		)
		if err != nil {
			t.Fatal(err)
		}

		// When: --version flag is passed
		defer func() {
			r := recover()
			if r == nil {
				t.Fatal("expected panic from --version flag")
			}
			err, ok := r.(error)
			if !ok || !errors.Is(err, errExitCalled) {
				panic(r)
			}

			// Then: version, commit, and date are all present in output
			output := buf.String()
			for _, want := range []string{"v1.0.0", "abc1234", "2026-01-01T00:00:00Z"} {
				if !strings.Contains(output, want) {
					t.Errorf("version output = %q, want to contain %q", output, want)
				}
			}
		}()

		k.Parse([]string{"--version"}) //nolint:errcheck // --version triggers panic via Exit hook
	})

	t.Run("no args runs repl", func(t *testing.T) {
		var cli CLI
		k, err := kong.New(&cli, kong.Vars{"version": "test"})
		if err != nil {
			t.Fatal(err)
		}

		kctx, err := k.Parse([]string{})
		if err != nil {
			t.Fatal(err)
		}

		if kctx.Command() != "repl" {
			t.Errorf("got command %q, want %q", kctx.Command(), "repl")
		}
	})

	t.Run("repl flags without command name", func(t *testing.T) {
		var cli CLI
		k, err := kong.New(&cli, kong.Vars{"version": "test"})
		if err != nil {
			t.Fatal(err)
		}

		_, err = k.Parse([]string{"--seed", "contacts.yaml", "--no-tui", "--config", "extra.yaml"})
		if err != nil {
			t.Fatal(err)
		}

		if !cli.Repl.NoTUI {
			t.Error("NoTUI = false, want true")
		}
		if filepath.Base(cli.Repl.Seed) != "contacts.yaml" {
			t.Errorf("seed = %q, want path ending in contacts.yaml", cli.Repl.Seed)
		}
		if filepath.Base(cli.Config) != "extra.yaml" {
			t.Errorf("config = %q, want path ending in extra.yaml", cli.Config)
		}
	})

	t.Run("exec collects the command line", func(t *testing.T) {
		var cli CLI
		k, err := kong.New(&cli, kong.Vars{"version": "test"})
		if err != nil {
			t.Fatal(err)
		}

		_, err = k.Parse([]string{"exec", "--", "add", "John", "1234567890"})
		if err != nil {
			t.Fatal(err)
		}

		if got := strings.Join(cli.Exec.Command, " "); got != "add John 1234567890" {
			t.Errorf("command = %q, want %q", got, "add John 1234567890")
		}
	})

	t.Run("exec requires a command", func(t *testing.T) {
		var cli CLI
		k, err := kong.New(&cli, kong.Vars{"version": "test"})
		if err != nil {
			t.Fatal(err)
		}

		if _, err := k.Parse([]string{"exec"}); err == nil {
			t.Fatal("expected error when exec has no command")
		}
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults when no files exist", func(t *testing.T) {
		isolate(t)

		cfg, err := loadConfig("")
		if err != nil {
			t.Fatalf("loadConfig() error = %v", err)
		}
		if *cfg != config.DefaultConfig() {
			t.Errorf("cfg = %+v, want defaults", *cfg)
		}
	})

	t.Run("project and extra layers with env on top", func(t *testing.T) {
		isolate(t)
		if err := os.MkdirAll(".addressbook", 0o755); err != nil {
			t.Fatal(err)
		}
		project := "birthdays:\n  window_days: 10\nui:\n  mode: tui\n"
		if err := os.WriteFile(".addressbook/config.yaml", []byte(project), 0o644); err != nil {
			t.Fatal(err)
		}
		extra := writeFile(t, "extra.yaml", "ui:\n  mode: plain\n")
		t.Setenv("ADDRESSBOOK_WINDOW_DAYS", "3")

		cfg, err := loadConfig(extra)
		if err != nil {
			t.Fatalf("loadConfig() error = %v", err)
		}
		if cfg.UI.Mode != config.UIPlain {
			t.Errorf("ui mode = %q, want %q from extra layer", cfg.UI.Mode, config.UIPlain)
		}
		if cfg.Birthdays.WindowDays != 3 {
			t.Errorf("window = %d, want 3 from env", cfg.Birthdays.WindowDays)
		}
	})

	t.Run("missing explicit config is an error", func(t *testing.T) {
		isolate(t)

		_, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("loadConfig(missing) error = %v, want os.ErrNotExist", err)
		}
	})
}

func TestBuildAssistant_Seeded(t *testing.T) {
	// Given: a config pointing at a seed file
	cfg := config.DefaultConfig()
	cfg.Log.File = os.DevNull
	cfg.Book.Seed = writeFile(t, "contacts.yaml", seedYAML)

	// When: the assistant is built
	a, err := buildAssistant(&cfg)
	if err != nil {
		t.Fatalf("buildAssistant() error = %v", err)
	}

	// Then: seeded contacts are available
	if got, _ := a.Execute("phone John"); got != "1234567890" {
		t.Errorf("phone John = %q, want %q", got, "1234567890")
	}
	if got, _ := a.Execute("show-birthday John"); got != "27.10.1990" {
		t.Errorf("show-birthday John = %q, want %q", got, "27.10.1990")
	}
}

func TestBuildAssistant_BadSeed(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Log.File = os.DevNull
	cfg.Book.Seed = writeFile(t, "contacts.yaml", "contacts:\n  - name: John\n    phones: [\"12\"]\n")

	_, err := buildAssistant(&cfg)
	if !errors.Is(err, contact.ErrInvalid) {
		t.Fatalf("buildAssistant() error = %v, want contact.ErrInvalid", err)
	}
	if code := exitCode(fmt.Errorf("exec: %w", err)); code != exitSetup {
		t.Errorf("exit code = %d, want %d for a bad seed", code, exitSetup)
	}
}

func TestExecCmd_Run(t *testing.T) {
	tests := []struct {
		name     string
		command  []string
		want     string
		wantCode int
	}{
		{name: "success", command: []string{"add", "John", "1234567890"}, want: "Contact added.\n", wantCode: exitSuccess},
		{name: "mixed case command", command: []string{"HELLO"}, want: "How can I help you?\n", wantCode: exitSuccess},
		{name: "unknown command", command: []string{"frobnicate"}, want: "Invalid command.\n", wantCode: exitCommand},
		{name: "invalid phone", command: []string{"add", "John", "12"}, want: "Phone number must be 10 digits.\n", wantCode: exitCommand},
		{name: "not found is not a failure", command: []string{"phone", "Jane"}, want: "Jane not found.\n", wantCode: exitSuccess},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Log.File = os.DevNull
			a, err := buildAssistant(&cfg)
			if err != nil {
				t.Fatal(err)
			}
			var buf bytes.Buffer
			cmd := &ExecCmd{Command: tt.command}

			err = cmd.run(&buf, a)

			if buf.String() != tt.want {
				t.Errorf("output = %q, want %q", buf.String(), tt.want)
			}
			if code := exitCode(err); code != tt.wantCode {
				t.Errorf("exitCode(%v) = %d, want %d", err, code, tt.wantCode)
			}
		})
	}
}

func TestExecCmd_RunWithSeed(t *testing.T) {
	isolate(t)
	var buf bytes.Buffer
	cmd := &ExecCmd{
		Seed:    writeFile(t, "contacts.yaml", seedYAML),
		Command: []string{"all"},
	}
	t.Setenv("ADDRESSBOOK_LOG_LEVEL", "error")

	_, a, err := setup(&Globals{}, cmd.Seed, nil)
	if err != nil {
		t.Fatalf("setup() error = %v", err)
	}
	if err := cmd.run(&buf, a); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	want := "Contact name: John, phones: 1234567890, birthday: 27.10.1990\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestSetup_InvalidOverride(t *testing.T) {
	isolate(t)

	_, _, err := setup(&Globals{}, "", func(c *config.Config) { c.Birthdays.WindowDays = 0 })
	if err == nil {
		t.Fatal("setup() should reject an invalid config")
	}
	if code := exitCode(err); code != exitSetup {
		t.Errorf("exit code = %d, want %d", code, exitSetup)
	}
}

func TestReplCmd_PlainSession(t *testing.T) {
	// Given: a plain session over scripted input
	cfg := config.DefaultConfig()
	cfg.Log.File = os.DevNull
	cfg.UI.Mode = config.UIPlain
	a, err := buildAssistant(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	in := strings.NewReader("hello\nadd John 1234567890\nphone John\nexit\n")
	var out bytes.Buffer

	// When: the repl runs
	r := &ReplCmd{}
	if err := r.run(context.Background(), newSession(a, cfg.UI, in, &out)); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	// Then: every reply is printed after its prompt
	want := "Welcome to the assistant bot!\n" +
		"Enter a command: How can I help you?\n" +
		"Enter a command: Contact added.\n" +
		"Enter a command: 1234567890\n" +
		"Enter a command: Good bye!\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

// stubSession returns a fixed error from Run.
type stubSession struct{ err error }

func (s stubSession) Run(context.Context) error { return s.err }

func TestReplCmd_RunErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{name: "clean exit", err: nil},
		{name: "interrupt", err: context.Canceled},
		{name: "read failure", err: errors.New("broken pipe"), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &ReplCmd{}
			err := r.run(context.Background(), stubSession{err: tt.err})
			if (err != nil) != tt.wantErr {
				t.Errorf("run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewSession_Mode(t *testing.T) {
	a := assistant.New(nil)
	tests := []struct {
		mode      string
		wantPlain bool
	}{
		{mode: config.UIAuto, wantPlain: true}, // buffer is not a TTY
		{mode: config.UIPlain, wantPlain: true},
		{mode: config.UITUI, wantPlain: false},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			ui := config.UI{Mode: tt.mode, Prompt: "> "}
			s := newSession(a, ui, strings.NewReader(""), &bytes.Buffer{})
			_, isPlain := s.(*tui.PlainSession)
			if isPlain != tt.wantPlain {
				t.Errorf("newSession(%s) = %T, wantPlain %v", tt.mode, s, tt.wantPlain)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: exitSuccess},
		{name: "command error", err: &CommandError{Command: "add", Err: assistant.ErrArgumentCount}, want: exitCommand},
		{name: "wrapped command error", err: fmt.Errorf("exec: %w", &CommandError{Command: "x", Err: assistant.ErrUnknownCommand}), want: exitCommand},
		{name: "setup error", err: errors.New("config: parsing"), want: exitSetup},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestCommandError_Unwrap(t *testing.T) {
	err := &CommandError{Command: "add", Err: contact.ErrInvalid}
	if !errors.Is(err, contact.ErrInvalid) {
		t.Error("CommandError should unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "add") {
		t.Errorf("Error() = %q, want command name", err.Error())
	}
}
