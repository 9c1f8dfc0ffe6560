package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var errAborted = errors.New("aborted")

// confirmDestructive asks before an irreversible change when a person is at
// the terminal. --yes and non-interactive runs skip the question.
func confirmDestructive(cmd *cobra.Command, app *App, yes bool, message string) error {
	if yes || !app.IsInteractive {
		return nil
	}
	if !promptYesNoIO(cmd.InOrStdin(), cmd.OutOrStdout(), message+" [y/N]: ") {
		return errAborted
	}
	return nil
}

func promptYesNoIO(in io.Reader, out io.Writer, message string) bool {
	if out != nil {
		fmt.Fprint(out, message)
	}
	text, err := readPromptLine(in)
	if err != nil && text == "" {
		return false
	}
	text = strings.TrimSpace(strings.ToLower(text))
	return text == "y" || text == "yes"
}

// readPromptLine reads until either LF or CR so Enter works in normal and raw terminal modes.
func readPromptLine(in io.Reader) (string, error) {
	if in == nil {
		return "", io.EOF
	}

	var buf []byte
	var one [1]byte

	for {
		n, err := in.Read(one[:])
		if n > 0 {
			switch one[0] {
			case '\n', '\r':
				return string(buf), nil
			default:
				buf = append(buf, one[0])
			}
		}

		if err != nil {
			if err == io.EOF && len(buf) > 0 {
				return string(buf), nil
			}
			return string(buf), err
		}
	}
}
