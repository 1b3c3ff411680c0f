package drive

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoLine echoes one line of input and then outputs 1000.
const echoLine = "3,100,4,100,1008,100,10,101,1006,101,0,104,1000,99"

type lines []string

func (l *lines) Readline() (string, error) {
	if len(*l) == 0 {
		return "", io.EOF
	}
	s := (*l)[0]
	*l = (*l)[1:]
	return s, nil
}

func TestEncode(t *testing.T) {
	assert.Equal(t, []int64{'A', ',', 'B', '\n'}, Encode("A,B"))
}

func TestASCIISend(t *testing.T) {
	var out strings.Builder
	a := &ASCII{W: &out}
	a.Send("hi")
	require.NoError(t, Run(context.Background(), load(t, echoLine, 128), a))
	assert.Equal(t, "hi\n", out.String())
	assert.Equal(t, []int64{1000}, a.Results())
}

func TestASCIILines(t *testing.T) {
	var (
		out    strings.Builder
		logged []string
	)
	a := &ASCII{
		W:     &out,
		Lines: &lines{"ok"},
		Logf: func(format string, args ...any) {
			logged = append(logged, format)
		},
	}
	require.NoError(t, Run(context.Background(), load(t, echoLine, 128), a))
	assert.Equal(t, "ok\n", out.String())
	assert.Len(t, logged, 1)

	a = &ASCII{W: &out, Lines: &lines{}}
	err := Run(context.Background(), load(t, echoLine, 128), a)
	assert.ErrorIs(t, err, ErrNoInput)
}
