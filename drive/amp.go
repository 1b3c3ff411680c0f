package drive

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/nf/intcode/intcode"
)

// Chain runs one copy of p per phase, each given its phase as first input.
// The signal is passed to the first machine, whose output is passed to the
// second, and so on. Without feedback the signal makes one pass; with
// feedback the last machine's output is fed back to the first until a
// machine halts. Chain returns the last signal produced. A machine that
// halts during the first pass is an error (ErrHalted), since the chain
// never produced a signal.
func Chain(p intcode.Program, phases []int64, signal int64, feedback bool, opts intcode.Options) (int64, error) {
	amps := make([]*intcode.Machine, len(phases))
	for i, ph := range phases {
		amps[i] = intcode.New(p, opts)
		amps[i].PushInput(ph)
	}
	for pass := 0; ; pass++ {
		for i, m := range amps {
			m.PushInput(signal)
			v, err := NextOutput(m)
			if errors.Is(err, ErrHalted) {
				if pass == 0 {
					return 0, fmt.Errorf("amplifier %d: %w", i, err)
				}
				return signal, nil
			}
			if err != nil {
				return 0, err
			}
			signal = v
		}
		if !feedback {
			return signal, nil
		}
	}
}

// Permutations returns every ordering of values.
func Permutations(values []int64) [][]int64 {
	var (
		out [][]int64
		a   = append([]int64(nil), values...)
	)
	var permute func(k int)
	permute = func(k int) {
		if k == len(a) {
			out = append(out, append([]int64(nil), a...))
			return
		}
		for i := k; i < len(a); i++ {
			a[k], a[i] = a[i], a[k]
			permute(k + 1)
			a[k], a[i] = a[i], a[k]
		}
	}
	permute(0)
	return out
}

// Best is the result of a phase sweep.
type Best struct {
	Phases  []int64
	Signal  int64
	Tried   int
	Skipped int // configurations that faulted or stopped early
}

// BestPhases runs Chain for every permutation of phases and returns the
// one producing the largest signal. Configurations are run in parallel;
// those whose machines fault or halt early are skipped rather than
// ending the sweep.
func BestPhases(ctx context.Context, p intcode.Program, phases []int64, signal int64, feedback bool, opts intcode.Options) (Best, error) {
	var (
		mu   sync.Mutex
		best Best
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, perm := range Permutations(phases) {
		perm := perm
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := Chain(p, perm, signal, feedback, opts)
			var f *intcode.Fault
			if err != nil && !errors.As(err, &f) &&
				!errors.Is(err, ErrNoInput) && !errors.Is(err, ErrHalted) {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			best.Tried++
			if err != nil {
				best.Skipped++
				return nil
			}
			if best.Phases == nil || v > best.Signal ||
				(v == best.Signal && lessInt64s(perm, best.Phases)) {
				best.Phases, best.Signal = perm, v
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Best{}, err
	}
	if best.Phases == nil {
		return best, errors.New("every phase configuration failed")
	}
	return best, nil
}

func lessInt64s(a, b []int64) bool {
	for i := range a {
		if i >= len(b) {
			return false
		}
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
