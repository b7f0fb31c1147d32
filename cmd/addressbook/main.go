package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/smileynet/addressbook/internal/assistant"
	"github.com/smileynet/addressbook/internal/book"
	"github.com/smileynet/addressbook/internal/config"
	"github.com/smileynet/addressbook/internal/logger"
	"github.com/smileynet/addressbook/internal/seed"
	"github.com/smileynet/addressbook/internal/tui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Exit codes.
const (
	exitSuccess = 0
	exitCommand = 1
	exitSetup   = 2
)

// Globals holds flags shared by every command.
type Globals struct {
	Config string `help:"Extra config file, applied after user and project config." type:"path"`
}

// CLI is the top-level command structure for addressbook.
type CLI struct {
	Globals

	Version kong.VersionFlag `help:"Show version." short:"V"`
	Repl    ReplCmd          `cmd:"" default:"withargs" help:"Start the interactive assistant (default)."`
	Exec    ExecCmd          `cmd:"" help:"Run a single command and print the reply."`
}

// ReplCmd runs the interactive command loop.
type ReplCmd struct {
	Seed  string `help:"YAML contact list loaded at start-up." type:"path"`
	NoTUI bool   `help:"Force the line-based prompt even if stdout is a TTY." default:"false"`
}

// ExecCmd runs one command against a freshly seeded book.
type ExecCmd struct {
	Seed    string   `help:"YAML contact list loaded before the command runs." type:"path"`
	Command []string `arg:"" passthrough:"" help:"Command and its arguments, e.g. 'phone John'."`
}

// CommandError reports a command that ran but failed; its reply was already
// printed.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// commandHandler abstracts assistant.Assistant.Handle for testing.
type commandHandler interface {
	Handle(cmd string, args []string) assistant.Reply
}

// loadConfig loads layered config from user, project and extra paths with env
// overrides. An explicit extra path must exist.
func loadConfig(extra string) (*config.Config, error) {
	if extra != "" {
		if _, err := os.Stat(extra); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	cfg, err := config.LoadLayered(
		os.ExpandEnv("$HOME/.config/addressbook/config.yaml"),
		".addressbook/config.yaml",
		extra,
	)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildAssistant wires the logger, the seeded book and the assistant from cfg.
func buildAssistant(cfg *config.Config) (*assistant.Assistant, error) {
	log := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		File:   cfg.Log.File,
		Format: cfg.Log.Format,
	})

	records, err := seed.Load(cfg.Book.Seed)
	if err != nil {
		return nil, err
	}

	b := book.New(
		book.WithWindow(cfg.Birthdays.WindowDays),
		book.WithWeekendShift(cfg.Birthdays.ShiftWeekends),
		book.WithLogger(log),
	)
	for _, r := range records {
		b.AddRecord(r)
	}
	log.Debug("address book ready", "contacts", b.Len(), "seed", cfg.Book.Seed)

	return assistant.New(b, assistant.WithLogger(log)), nil
}

// setup loads config, applies command flag overrides and builds the assistant.
func setup(g *Globals, seedPath string, override func(*config.Config)) (*config.Config, *assistant.Assistant, error) {
	cfg, err := loadConfig(g.Config)
	if err != nil {
		return nil, nil, err
	}
	if seedPath != "" {
		cfg.Book.Seed = seedPath
	}
	if override != nil {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	a, err := buildAssistant(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, a, nil
}

// Run executes the repl command.
func (r *ReplCmd) Run(g *Globals) error {
	cfg, a, err := setup(g, r.Seed, func(c *config.Config) {
		if r.NoTUI {
			c.UI.Mode = config.UIPlain
		}
	})
	if err != nil {
		return fmt.Errorf("repl: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return r.run(ctx, newSession(a, cfg.UI, os.Stdin, os.Stdout))
}

// run drives session until the user quits. An interrupt ends the session
// cleanly.
func (r *ReplCmd) run(ctx context.Context, session tui.Session) error {
	err := session.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("repl: %w", err)
	}
	return nil
}

// newSession picks the session type for the configured UI mode.
func newSession(exec tui.Executor, ui config.UI, r io.Reader, w io.Writer) tui.Session {
	return tui.NewSession(exec, tui.SessionOptions{
		Reader:     r,
		Writer:     w,
		Prompt:     ui.Prompt,
		ForcePlain: ui.Mode == config.UIPlain,
		ForceTUI:   ui.Mode == config.UITUI,
	})
}

// Run executes the exec command.
func (e *ExecCmd) Run(g *Globals) error {
	_, a, err := setup(g, e.Seed, nil)
	if err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return e.run(os.Stdout, a)
}

func (e *ExecCmd) run(w io.Writer, h commandHandler) error {
	cmd, args := assistant.ParseInput(strings.Join(e.Command, " "))
	reply := h.Handle(cmd, args)
	_, _ = fmt.Fprintln(w, reply.Text)
	if reply.Err != nil {
		return &CommandError{Command: cmd, Err: reply.Err}
	}
	return nil
}

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ce *CommandError
	if errors.As(err, &ce) {
		return exitCommand
	}
	return exitSetup
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("addressbook"),
		kong.Description("A command-line assistant for contacts and birthdays."),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	err := ctx.Run(&cli.Globals)
	if err != nil {
		code := exitCode(err)
		// The reply already explained a failed command.
		if code != exitCommand {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
		}
		os.Exit(code)
	}
}
