package drive

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nf/intcode/intcode"
)

func load(t *testing.T, text string, size int) *intcode.Machine {
	t.Helper()
	m, err := intcode.Load(text, intcode.Options{Size: size})
	require.NoError(t, err)
	return m
}

func TestRunValues(t *testing.T) {
	m := load(t, "3,0,4,0,99", -1)
	d := &Values{Input: []int64{42}}
	require.NoError(t, Run(context.Background(), m, d))
	assert.Equal(t, []int64{42}, d.Output)
	assert.Empty(t, d.Input)
}

func TestRunNoInput(t *testing.T) {
	m := load(t, "3,0,99", -1)
	err := Run(context.Background(), m, &Values{})
	assert.ErrorIs(t, err, ErrNoInput)
	assert.Equal(t, intcode.NeedsInput, m.Status())
}

func TestRunFault(t *testing.T) {
	m := load(t, "104,7,98", -1)
	d := &Values{}
	err := Run(context.Background(), m, d)
	assert.ErrorIs(t, err, intcode.IllegalOpcode)
	assert.Equal(t, []int64{7}, d.Output)
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Run(ctx, load(t, "99", -1), &Values{})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestCollect(t *testing.T) {
	p, err := intcode.Parse("3,9,8,9,10,9,4,9,99,-1,8")
	require.NoError(t, err)
	out, err := Collect(context.Background(), p, intcode.Options{Size: -1}, 8)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, out)
}

func TestNextOutput(t *testing.T) {
	m := load(t, "104,1,3,0,99", -1)
	v, err := NextOutput(m)
	require.NoError(t, err)
	assert.EqualValues(t, 1, v)
	_, err = NextOutput(m)
	assert.ErrorIs(t, err, ErrNoInput)
	m.PushInput(5)
	_, err = NextOutput(m)
	assert.ErrorIs(t, err, ErrHalted)
}
