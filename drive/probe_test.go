package drive

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// product reads x and y and outputs x*y.
const product = "3,20,3,21,2,20,21,22,4,22,99"

func TestProbe(t *testing.T) {
	base := load(t, product, 32)
	v, err := Probe(context.Background(), base, 3, 4)
	require.NoError(t, err)
	assert.EqualValues(t, 12, v)
	assert.Zero(t, base.PendingInput())
	assert.Zero(t, base.Mem[22])

	v, err = Probe(context.Background(), base, 5, 6)
	require.NoError(t, err)
	assert.EqualValues(t, 30, v)
}

func TestScan(t *testing.T) {
	g, err := Scan(context.Background(), load(t, product, 32), 3, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Count())
	assert.EqualValues(t, 2, g.At(2, 1))
	assert.Equal(t, "...\n.##\n", g.String())
}

func TestScanFault(t *testing.T) {
	_, err := Scan(context.Background(), load(t, "3,20,98", 32), 2, 2)
	assert.Error(t, err)
}
