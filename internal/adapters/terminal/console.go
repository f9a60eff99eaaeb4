// Package terminal adapts an io.Reader/io.Writer pair to the cabinet's
// Terminal port. In production the pair is stdin and stdout.
package terminal

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Console is a line-based terminal over a reader and writer.
type Console struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewConsole creates a console reading lines from in and writing to out.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewScanner(in), out: out}
}

// Println writes each argument on its own line.
func (c *Console) Println(lines ...string) {
	for _, line := range lines {
		fmt.Fprintln(c.out, line)
	}
}

// Printf writes formatted output.
func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// ReadLine writes the prompt and blocks for one line of input. It returns
// io.EOF once the input is exhausted.
func (c *Console) ReadLine(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}
