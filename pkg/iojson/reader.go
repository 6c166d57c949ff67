package iojson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// ErrNoInput is returned by Read when neither a file nor piped stdin is available.
var ErrNoInput = errors.New("no input provided (stdin is a terminal); use -f or pipe JSON")

// FileReader decodes a T from the file named by its --file flag, or from
// stdin when the flag is empty and stdin is not a terminal. Unknown fields
// are rejected so typos in hand-written payloads surface early.
type FileReader[T any] struct {
	path string

	// Stdin and IsTerminal default to os.Stdin and a term check on it.
	Stdin      io.Reader
	IsTerminal func() bool
}

// Flag returns the --file/-f flag bound to the reader.
func (fr *FileReader[T]) Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "path to a JSON payload (reads stdin when piped)",
		Destination: &fr.path,
	}
}

// Provided reports whether input is available without prompting.
func (fr *FileReader[T]) Provided() bool {
	return fr.path != "" || !fr.isTerminal()
}

// Read decodes the payload.
func (fr *FileReader[T]) Read() (T, error) {
	var input T

	var r io.Reader
	switch {
	case fr.path != "":
		f, err := os.Open(fr.path)
		if err != nil {
			return input, fmt.Errorf("open file: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	case fr.isTerminal():
		return input, ErrNoInput
	default:
		r = fr.stdin()
	}

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		return input, fmt.Errorf("decode JSON: %w", err)
	}
	return input, nil
}

func (fr *FileReader[T]) stdin() io.Reader {
	if fr.Stdin != nil {
		return fr.Stdin
	}
	return os.Stdin
}

func (fr *FileReader[T]) isTerminal() bool {
	if fr.IsTerminal != nil {
		return fr.IsTerminal()
	}
	return term.IsTerminal(int(os.Stdin.Fd()))
}
