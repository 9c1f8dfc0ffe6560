package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestPromptYesNoIO(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "yes lowercase lf", input: "y\n", want: true},
		{name: "yes word lf", input: "yes\n", want: true},
		{name: "yes mixed case lf", input: "YeS\n", want: true},
		{name: "yes lowercase cr", input: "y\r", want: true},
		{name: "empty defaults no", input: "\n", want: false},
		{name: "explicit no cr", input: "n\r", want: false},
		{name: "closed input", input: "", want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer
			got := promptYesNoIO(strings.NewReader(tc.input), &out, "Delete? [y/N]: ")
			assert.Equal(t, tc.want, got)
			assert.Equal(t, "Delete? [y/N]: ", out.String())
		})
	}
}

func TestReadPromptLine_EOFWithoutNewline(t *testing.T) {
	t.Parallel()

	got, err := readPromptLine(strings.NewReader("yes"))
	assert.NoError(t, err)
	assert.Equal(t, "yes", got)
}

func TestConfirmDestructive(t *testing.T) {
	t.Parallel()

	run := func(app *App, yes bool, input string) (string, error) {
		cmd := &cobra.Command{}
		var out bytes.Buffer
		cmd.SetIn(strings.NewReader(input))
		cmd.SetOut(&out)
		err := confirmDestructive(cmd, app, yes, "Delete team t1?")
		return out.String(), err
	}

	out, err := run(&App{IsInteractive: false}, false, "")
	assert.NoError(t, err)
	assert.Empty(t, out, "non-interactive runs never prompt")

	out, err = run(&App{IsInteractive: true}, true, "")
	assert.NoError(t, err)
	assert.Empty(t, out)

	out, err = run(&App{IsInteractive: true}, false, "n\n")
	assert.ErrorIs(t, err, errAborted)
	assert.Equal(t, "Delete team t1? [y/N]: ", out)

	_, err = run(&App{IsInteractive: true}, false, "y\n")
	assert.NoError(t, err)
}
