// Package approval collects the operator's decision on each proposed
// consolidation.
package approval

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrClosed is returned by reads on a closed session.
var ErrClosed = errors.New("session closed")

// textTerminator ends a multi-line response.
const textTerminator = "."

// Session is the single interactive input/output stream of a run. It is not
// safe for concurrent use; prompts are strictly sequential.
type Session struct {
	in     *bufio.Reader
	out    io.Writer
	closer io.Closer
	closed bool
}

// NewSession reads answers from in and writes prompts to out. If in is an
// io.Closer it is closed by Close.
func NewSession(in io.Reader, out io.Writer) *Session {
	s := &Session{in: bufio.NewReader(in), out: out}
	if c, ok := in.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// Out is the writer prompts go to.
func (s *Session) Out() io.Writer {
	return s.out
}

// Printf writes formatted output to the session.
func (s *Session) Printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

// Ask prints prompt and reads one line without its line ending. A final
// unterminated line is returned as is; end of input with nothing read returns
// io.EOF.
func (s *Session) Ask(prompt string) (string, error) {
	if s.closed {
		return "", ErrClosed
	}
	fmt.Fprint(s.out, prompt)

	line, err := s.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadText prints prompt and reads lines until one containing only "." or
// end of input. Lines are joined with newlines.
func (s *Session) ReadText(prompt string) (string, error) {
	if s.closed {
		return "", ErrClosed
	}
	fmt.Fprint(s.out, prompt)

	var lines []string
	for {
		line, err := s.in.ReadString('\n')
		trimmed := strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(trimmed) == textTerminator {
			break
		}
		if line != "" {
			lines = append(lines, trimmed)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return strings.Join(lines, "\n"), nil
}

// Confirm asks a yes/no question. Only "y" (any case) is yes; end of input
// is no.
func (s *Session) Confirm(prompt string) (bool, error) {
	answer, err := s.Ask(prompt)
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return strings.EqualFold(strings.TrimSpace(answer), "y"), nil
}

// Close releases the input. It is safe to call more than once.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
