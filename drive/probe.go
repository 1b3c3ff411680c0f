package drive

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/nf/intcode/intcode"
)

// Probe runs a copy of base with the given inputs and returns its first
// output. base itself is not modified, so one loaded machine can answer
// any number of queries.
func Probe(ctx context.Context, base *intcode.Machine, inputs ...int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m := base.Clone()
	m.PushInput(inputs...)
	return NextOutput(m)
}

// Grid holds the result of probing every point of a rectangle.
type Grid struct {
	W, H  int
	Cells []int64 // row-major
}

// At returns the value probed at x, y.
func (g *Grid) At(x, y int) int64 { return g.Cells[y*g.W+x] }

// Count returns the number of non-zero cells.
func (g *Grid) Count() int {
	n := 0
	for _, v := range g.Cells {
		if v != 0 {
			n++
		}
	}
	return n
}

// String renders the grid with '#' for non-zero cells and '.' otherwise.
func (g *Grid) String() string {
	var b strings.Builder
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			if g.At(x, y) != 0 {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Scan probes base with the inputs (x, y) for every point of a w×h grid.
// Rows are probed in parallel.
func Scan(ctx context.Context, base *intcode.Machine, w, h int) (*Grid, error) {
	g := &Grid{W: w, H: h, Cells: make([]int64, w*h)}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for y := 0; y < h; y++ {
		y := y
		eg.Go(func() error {
			for x := 0; x < w; x++ {
				v, err := Probe(ctx, base, int64(x), int64(y))
				if err != nil {
					return fmt.Errorf("probe %d,%d: %w", x, y, err)
				}
				g.Cells[y*w+x] = v
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return g, nil
}
