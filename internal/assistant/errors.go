package assistant

import (
	"errors"
	"fmt"
)

// ErrArgumentCount is wrapped by every ArgumentCountError.
var ErrArgumentCount = errors.New("assistant: wrong number of arguments")

// Replies for missing arguments.
const (
	msgNeedNameAndPhone = "Give me name and phone please."
	msgNeedName         = "Give me the name please."
)

// ArgumentCountError reports a command called with the wrong number of
// arguments. Message is the user-facing text.
type ArgumentCountError struct {
	Command string
	Want    int
	Got     int
	Message string
}

func (e *ArgumentCountError) Error() string {
	return fmt.Sprintf("assistant: %s: want %d arguments, got %d", e.Command, e.Want, e.Got)
}

func (e *ArgumentCountError) Unwrap() error { return ErrArgumentCount }

// exactArgs fails unless args has exactly n elements.
func exactArgs(cmd string, args []string, n int) error {
	if len(args) != n {
		return &ArgumentCountError{Command: cmd, Want: n, Got: len(args), Message: msgNeedNameAndPhone}
	}
	return nil
}

// nameArg returns the first argument; extra arguments are ignored.
func nameArg(cmd string, args []string) (string, error) {
	if len(args) == 0 {
		return "", &ArgumentCountError{Command: cmd, Want: 1, Got: 0, Message: msgNeedName}
	}
	return args[0], nil
}
