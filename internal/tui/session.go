package tui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// Welcome is printed when a session starts.
const Welcome = "Welcome to the assistant bot!"

// DefaultPrompt is shown before each command.
const DefaultPrompt = "Enter a command: "

// Executor runs one input line and returns the reply and whether the session
// should end.
type Executor interface {
	Execute(line string) (reply string, quit bool)
}

// Session reads commands from the user until quit, EOF or cancellation.
type Session interface {
	Run(ctx context.Context) error
}

// SessionOptions configures session creation.
type SessionOptions struct {
	Reader     io.Reader // Input source (default: os.Stdin).
	Writer     io.Writer // Output destination (default: os.Stdout).
	Prompt     string    // Prompt before each command (default: DefaultPrompt).
	ForcePlain bool      // Force the line-based session even if TTY.
	ForceTUI   bool      // Use the TUI even when output is not a TTY.
}

// NewSession returns a TUI session when stdout is a TTY, or a plain line
// session otherwise. ForcePlain wins over ForceTUI.
func NewSession(exec Executor, opts SessionOptions) Session {
	if opts.Reader == nil {
		opts.Reader = os.Stdin
	}
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.Prompt == "" {
		opts.Prompt = DefaultPrompt
	}

	plain := &PlainSession{exec: exec, r: opts.Reader, w: opts.Writer, prompt: opts.Prompt}
	if opts.ForcePlain || (!opts.ForceTUI && !isTTY(opts.Writer)) {
		return plain
	}
	return &TUISession{exec: exec, r: opts.Reader, w: opts.Writer, prompt: opts.Prompt, fallback: plain}
}

// isTTY reports whether w is connected to a terminal.
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// PlainSession prompts and reads one command per line.
type PlainSession struct {
	exec   Executor
	r      io.Reader
	w      io.Writer
	prompt string
}

// Run prints the welcome line, then loops: prompt, read, execute, print.
// Blank lines are skipped. It returns nil on quit or EOF and the context
// error if ctx is cancelled first.
func (s *PlainSession) Run(ctx context.Context) error {
	readCtx, stop := context.WithCancel(ctx)
	defer stop()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(s.r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-readCtx.Done():
				return
			}
		}
		scanErr <- sc.Err()
	}()

	_, _ = fmt.Fprintln(s.w, Welcome)
	for {
		_, _ = fmt.Fprint(s.w, s.prompt)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				_, _ = fmt.Fprintln(s.w)
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("tui: reading input: %w", err)
					}
				default:
				}
				return nil
			}
			if isBlank(line) {
				continue
			}
			reply, quit := s.exec.Execute(line)
			_, _ = fmt.Fprintln(s.w, reply)
			if quit {
				return nil
			}
		}
	}
}

// TUISession runs the Bubble Tea prompt.
// Falls back to PlainSession if the TUI program fails to start.
type TUISession struct {
	exec     Executor
	r        io.Reader
	w        io.Writer
	prompt   string
	fallback Session
}

// Run starts the Bubble Tea program and blocks until the user quits.
func (s *TUISession) Run(ctx context.Context) error {
	p := tea.NewProgram(NewModel(s.exec, WithPrompt(s.prompt)),
		tea.WithContext(ctx),
		tea.WithInput(s.r),
		tea.WithOutput(s.w),
	)
	_, err := p.Run()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return s.fallback.Run(ctx)
	}
	return nil
}
