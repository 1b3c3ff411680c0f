package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nf/intcode/intcode"
)

func TestReadSymbols(t *testing.T) {
	ss, err := readSymbols(strings.NewReader(`
# labels
12 loop
0 start
12 again
100 counter
`))
	require.NoError(t, err)
	require.Len(t, ss, 4)
	assert.Equal(t, "start", ss[0].label)
	assert.Equal(t, []symbol{{12, "loop"}, {12, "again"}}, ss.forAddr(12))
	assert.Empty(t, ss.forAddr(5))
	assert.Len(t, ss.withLabelPrefix("c"), 1)

	s, ok := ss.resolve("counter")
	assert.True(t, ok)
	assert.Equal(t, "counter (100)", s.String())
	s, ok = ss.resolve("42")
	assert.True(t, ok)
	assert.Equal(t, "42", s.String())
	_, ok = ss.resolve("nowhere")
	assert.False(t, ok)

	for _, bad := range []string{"12", "x loop", "-1 neg", "1 a b"} {
		_, err := readSymbols(strings.NewReader(bad))
		assert.Error(t, err, bad)
	}
}

func TestDisasm(t *testing.T) {
	m, err := intcode.Load("1002,4,3,4,33", intcode.Options{Size: -1})
	require.NoError(t, err)
	assert.Equal(t, "     0 MUL @ # @      4 3 4", disasm(m, 0))
	assert.Equal(t, "     4 33 ?", disasm(m, 4))
	assert.Equal(t, "     9 <out of memory>", disasm(m, 9))
}
