package commands

import (
	"errors"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

var errNonInteractive = errors.New("confirmation required; pass --yes when not running in a terminal")

// confirm asks the user to confirm an action. With yes set it returns true
// without prompting. Without a terminal on stdin it refuses rather than
// block on a prompt nobody can answer.
func confirm(title, description string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, errNonInteractive
	}

	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}
