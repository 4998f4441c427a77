package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

const invalidInput = "Invalid input. Try again."

// Prompter reads operator answers line by line. It only gives up when the
// input is exhausted, in which case io.EOF is returned.
type Prompter struct {
	in   *bufio.Reader
	out  io.Writer
	warn *color.Color
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	warn := color.New(color.FgYellow)
	if out != os.Stdout {
		warn.DisableColor()
	}
	return &Prompter{in: bufio.NewReader(in), out: out, warn: warn}
}

// ReadBoundedInt prompts until the operator enters an integer in [min, max].
func (p *Prompter) ReadBoundedInt(min, max int, prompt string) (int, error) {
	for {
		fmt.Fprint(p.out, prompt)
		line, err := p.readLine()
		if err != nil {
			return 0, err
		}
		val, convErr := strconv.Atoi(line)
		if convErr != nil || val < min || val > max {
			p.warn.Fprintln(p.out, invalidInput)
			continue
		}
		return val, nil
	}
}

// ReadYesNo is true when the answer starts with y or Y. Blank answers are
// asked again.
func (p *Prompter) ReadYesNo(prompt string) (bool, error) {
	for {
		fmt.Fprint(p.out, prompt)
		line, err := p.readLine()
		if err != nil {
			return false, err
		}
		if line == "" {
			continue
		}
		return line[0] == 'y' || line[0] == 'Y', nil
	}
}

// Say writes one line of output.
func (p *Prompter) Say(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Warn writes one highlighted line of output.
func (p *Prompter) Warn(format string, args ...interface{}) {
	p.warn.Fprintf(p.out, format+"\n", args...)
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
