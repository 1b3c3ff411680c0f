package drive

import (
	"context"
	"io"
	"strings"
)

// LineReader supplies lines of text, without the trailing newline.
// It returns io.EOF when there are no more lines.
type LineReader interface {
	Readline() (string, error)
}

// ASCII is a Device for programs that talk in ASCII character codes.
// Input lines are sent a character at a time followed by a newline.
// Outputs below 128 are written to W as characters; larger outputs
// are not text and are kept as results instead.
type ASCII struct {
	W     io.Writer
	Lines LineReader // may be nil if all input is queued with Send

	// Logf, if set, is called for each non-ASCII output.
	Logf func(format string, args ...any)

	pending []int64
	results []int64
}

// Encode returns the character codes of line followed by a newline.
func Encode(line string) []int64 {
	vs := make([]int64, 0, len(line)+1)
	for _, b := range []byte(line) {
		vs = append(vs, int64(b))
	}
	return append(vs, '\n')
}

// Send queues lines of input ahead of any read from Lines.
func (a *ASCII) Send(lines ...string) {
	for _, l := range lines {
		a.pending = append(a.pending, Encode(strings.TrimSuffix(l, "\n"))...)
	}
}

func (a *ASCII) In(ctx context.Context) (int64, error) {
	for len(a.pending) == 0 {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if a.Lines == nil {
			return 0, ErrNoInput
		}
		l, err := a.Lines.Readline()
		if err == io.EOF {
			return 0, ErrNoInput
		} else if err != nil {
			return 0, err
		}
		a.pending = Encode(l)
	}
	v := a.pending[0]
	a.pending = a.pending[1:]
	return v, nil
}

func (a *ASCII) Out(v int64) error {
	if v < 0 || v > 127 {
		a.results = append(a.results, v)
		if a.Logf != nil {
			a.Logf("ascii: non-text output %d", v)
		}
		return nil
	}
	if a.W == nil {
		return nil
	}
	_, err := a.W.Write([]byte{byte(v)})
	return err
}

// Results returns the outputs that were not ASCII characters.
func (a *ASCII) Results() []int64 { return a.results }
