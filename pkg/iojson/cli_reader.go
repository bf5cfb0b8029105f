package iojson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// FileReader decodes a JSON document from the file named by its --file flag,
// or from stdin when the flag is unset.
type FileReader[T any] struct {
	fileFlagValue string
}

// Flag returns the --file flag bound to the reader.
func (fr *FileReader[T]) Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "path to JSON file (reads from stdin when set to -)",
		Destination: &fr.fileFlagValue,
	}
}

// IsSet reports whether the --file flag was given.
func (fr *FileReader[T]) IsSet() bool {
	return fr.fileFlagValue != ""
}

// Read decodes the input.
func (fr *FileReader[T]) Read() (T, error) {
	var input T

	if fr.fileFlagValue != "" && fr.fileFlagValue != "-" {
		f, err := os.Open(fr.fileFlagValue)
		if err != nil {
			return input, fmt.Errorf("open file: %w", err)
		}
		defer func() { _ = f.Close() }()
		return Decode[T](f)
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		return input, fmt.Errorf("no input provided (stdin is a terminal); use -f flag or pipe JSON input")
	}
	return Decode[T](os.Stdin)
}

// Decode reads one JSON document of type T from r.
func Decode[T any](r io.Reader) (T, error) {
	var input T
	if err := json.NewDecoder(r).Decode(&input); err != nil {
		return input, fmt.Errorf("decode JSON: %w", err)
	}
	return input, nil
}
