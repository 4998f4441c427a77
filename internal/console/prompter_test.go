package console

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPrompter(input string) (*Prompter, *bytes.Buffer) {
	var out bytes.Buffer
	return NewPrompter(strings.NewReader(input), &out), &out
}

func TestReadBoundedInt(t *testing.T) {
	p, out := newTestPrompter("abc\n0\n7\n 3 \n")

	val, err := p.ReadBoundedInt(1, 4, "Enter table number (1-4): ")
	require.NoError(t, err)
	assert.Equal(t, 3, val)
	assert.Equal(t, 3, strings.Count(out.String(), invalidInput))
	assert.Equal(t, 4, strings.Count(out.String(), "Enter table number (1-4): "))
}

func TestReadBoundedIntLastLineWithoutNewline(t *testing.T) {
	p, _ := newTestPrompter("2")

	val, err := p.ReadBoundedInt(1, 4, "> ")
	require.NoError(t, err)
	assert.Equal(t, 2, val)
}

func TestReadBoundedIntEndOfInput(t *testing.T) {
	p, _ := newTestPrompter("nope\n")

	_, err := p.ReadBoundedInt(1, 4, "> ")
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadYesNo(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Yes\n", true},
		{"n\n", false},
		{"maybe\n", false},
		{"\n\nY\n", true},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			p, _ := newTestPrompter(tt.input)
			got, err := p.ReadYesNo("Confirm payment? (y/n): ")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	p, _ := newTestPrompter("")
	_, err := p.ReadYesNo("? ")
	assert.ErrorIs(t, err, io.EOF)
}

func TestSayAndWarn(t *testing.T) {
	p, out := newTestPrompter("")
	p.Say("Table #%d status: %s", 1, "all done")
	p.Warn("Sorry! Table %d is full.", 2)

	assert.Equal(t, "Table #1 status: all done\nSorry! Table 2 is full.\n", out.String())
}
