package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigest(t *testing.T) {
	a := writeFile(t, "a.int", "1,0,0,0,99")
	b := writeFile(t, "b.int", "1,0,0,0,99")
	c := writeFile(t, "c.int", "2,0,0,0,99")

	sa, err := digest(a)
	require.NoError(t, err)
	sb, err := digest(b, "")
	require.NoError(t, err)
	sc, err := digest(c)
	require.NoError(t, err)
	assert.Equal(t, sa, sb)
	assert.NotEqual(t, sa, sc)

	both, err := digest(a, c)
	require.NoError(t, err)
	assert.NotEqual(t, sa, both)

	_, err = digest(a, "missing.int")
	assert.Error(t, err)
}
