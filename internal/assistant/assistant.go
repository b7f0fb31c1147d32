// Package assistant routes parsed user commands to the address book and turns
// every outcome, including validation and argument errors, into a reply.
package assistant

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/smileynet/addressbook/internal/book"
	"github.com/smileynet/addressbook/internal/contact"
)

// Fixed replies.
const (
	msgGreeting     = "How can I help you?"
	msgGoodbye      = "Good bye!"
	msgInvalid      = "Invalid command."
	msgEmptyBook    = "The contact list is empty"
	msgNoBirthdays  = "No upcoming birthdays."
	msgAdded        = "Contact added."
	msgAddedPhone   = "Contact added new phone."
	msgUpdated      = "Contact updated."
	msgDeleted      = "Contact deleted."
	msgBirthdaySet  = "Birthday added."
	lineSeparator   = "\r\n"
	phonesSeparator = "; "
)

// ErrUnknownCommand is set on the reply to a command that is not registered.
var ErrUnknownCommand = errors.New("assistant: unknown command")

// Reply is the outcome of one command. Err is the failure behind Text, if
// any; Text is always what the user sees.
type Reply struct {
	Text string
	Quit bool
	Err  error
}

// handlerFunc runs one command. A returned error is converted to a reply by
// Handle and never reaches the caller.
type handlerFunc func(args []string) (string, error)

type command struct {
	name  string
	usage string
	run   handlerFunc
}

// Assistant dispatches commands against a Book.
type Assistant struct {
	book     *book.Book
	logger   *slog.Logger
	commands map[string]command
	order    []string
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Assistant) { a.logger = l }
}

// New creates an Assistant working on b.
func New(b *book.Book, opts ...Option) *Assistant {
	a := &Assistant{
		book:     b,
		logger:   slog.New(slog.DiscardHandler),
		commands: make(map[string]command),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.register("hello", "", func([]string) (string, error) { return msgGreeting, nil })
	a.register("add", "<name> <phone>", a.add)
	a.register("change", "<name> <old phone> <new phone>", a.change)
	a.register("phone", "<name>", a.phone)
	a.register("all", "", a.all)
	a.register("add-birthday", "<name> <DD.MM.YYYY>", a.addBirthday)
	a.register("show-birthday", "<name>", a.showBirthday)
	a.register("birthdays", "", a.birthdays)
	a.register("delete", "<name>", a.deleteContact)
	a.register("help", "", a.help)
	return a
}

func (a *Assistant) register(name, usage string, run handlerFunc) {
	a.commands[name] = command{name: name, usage: usage, run: run}
	a.order = append(a.order, name)
}

// ParseInput splits line on whitespace and returns the trimmed, lower-cased
// command with its arguments. A blank line yields an empty command.
func ParseInput(line string) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return strings.ToLower(strings.TrimSpace(fields[0])), fields[1:]
}

// Execute parses line and handles it. It reports the reply text and whether
// the session should end.
func (a *Assistant) Execute(line string) (string, bool) {
	cmd, args := ParseInput(line)
	r := a.Handle(cmd, args)
	return r.Text, r.Quit
}

// Handle runs cmd with args. cmd must already be trimmed and lower-cased.
func (a *Assistant) Handle(cmd string, args []string) Reply {
	switch cmd {
	case "close", "exit":
		return Reply{Text: msgGoodbye, Quit: true}
	}

	c, ok := a.commands[cmd]
	if !ok {
		a.logger.Debug("unknown command", "command", cmd)
		return Reply{Text: msgInvalid, Err: fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)}
	}

	a.logger.Debug("handling command", "command", cmd, "args", len(args))
	text, err := c.run(args)
	if err != nil {
		return Reply{Text: a.errorReply(cmd, err), Err: err}
	}
	return Reply{Text: text}
}

// errorReply converts a handler error to the text shown to the user.
func (a *Assistant) errorReply(cmd string, err error) string {
	var argErr *ArgumentCountError
	if errors.As(err, &argErr) {
		a.logger.Info("bad arguments", "command", cmd, "err", err)
		return argErr.Message
	}
	var valErr *contact.ValidationError
	if errors.As(err, &valErr) {
		a.logger.Info("invalid value", "command", cmd, "err", err)
		return valErr.Message
	}
	a.logger.Error("command failed", "command", cmd, "err", err)
	return err.Error()
}

func notFound(name string) string { return name + " not found." }

func (a *Assistant) add(args []string) (string, error) {
	if err := exactArgs("add", args, 2); err != nil {
		return "", err
	}
	name, phone := args[0], args[1]

	if r, ok := a.book.Find(name); ok {
		if err := r.AddPhone(phone); err != nil {
			return "", err
		}
		return msgAddedPhone, nil
	}

	r := contact.NewRecord(name)
	if err := r.AddPhone(phone); err != nil {
		return "", err
	}
	a.book.AddRecord(r)
	return msgAdded, nil
}

func (a *Assistant) change(args []string) (string, error) {
	if err := exactArgs("change", args, 3); err != nil {
		return "", err
	}
	name, old, next := args[0], args[1], args[2]

	r, ok := a.book.Find(name)
	if !ok {
		return notFound(name), nil
	}
	if _, err := contact.NewPhone(next); err != nil {
		return "", err
	}
	// EditPhone ignores an absent old phone; surface it here instead.
	if _, ok := r.FindPhone(old); !ok {
		return "Phone " + notFound(old), nil
	}
	if err := r.EditPhone(old, next); err != nil {
		return "", err
	}
	return msgUpdated, nil
}

func (a *Assistant) phone(args []string) (string, error) {
	name, err := nameArg("phone", args)
	if err != nil {
		return "", err
	}
	r, ok := a.book.Find(name)
	if !ok {
		return notFound(name), nil
	}
	phones := r.Phones()
	out := make([]string, len(phones))
	for i, p := range phones {
		out[i] = p.String()
	}
	return strings.Join(out, phonesSeparator), nil
}

func (a *Assistant) all([]string) (string, error) {
	if a.book.Len() == 0 {
		return msgEmptyBook, nil
	}
	records := a.book.Records()
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = r.String()
	}
	return strings.Join(lines, lineSeparator), nil
}

func (a *Assistant) addBirthday(args []string) (string, error) {
	if err := exactArgs("add-birthday", args, 2); err != nil {
		return "", err
	}
	name, date := args[0], args[1]

	r, ok := a.book.Find(name)
	if !ok {
		return notFound(name), nil
	}
	if err := r.AddBirthday(date); err != nil {
		return "", err
	}
	return msgBirthdaySet, nil
}

func (a *Assistant) showBirthday(args []string) (string, error) {
	name, err := nameArg("show-birthday", args)
	if err != nil {
		return "", err
	}
	r, ok := a.book.Find(name)
	if !ok {
		return notFound(name), nil
	}
	bd, ok := r.Birthday()
	if !ok {
		return name + " has no birthday set.", nil
	}
	return bd.String(), nil
}

func (a *Assistant) birthdays([]string) (string, error) {
	if a.book.Len() == 0 {
		return msgEmptyBook, nil
	}
	report := a.book.UpcomingBirthdays()
	if report.Empty() {
		return msgNoBirthdays, nil
	}
	return report.String(), nil
}

func (a *Assistant) deleteContact(args []string) (string, error) {
	name, err := nameArg("delete", args)
	if err != nil {
		return "", err
	}
	if _, ok := a.book.Find(name); !ok {
		return notFound(name), nil
	}
	a.book.Delete(name)
	return msgDeleted, nil
}

func (a *Assistant) help([]string) (string, error) {
	lines := make([]string, 0, len(a.order)+1)
	for _, name := range a.order {
		c := a.commands[name]
		line := c.name
		if c.usage != "" {
			line += " " + c.usage
		}
		lines = append(lines, line)
	}
	lines = append(lines, "close | exit")
	return strings.Join(lines, lineSeparator), nil
}
