// Package drive implements drivers that connect Intcode machines to the
// outside world: devices that feed input and consume output, chains of
// machines feeding each other, and search strategies that steer a program.
package drive

import (
	"context"
	"errors"
	"fmt"

	"github.com/nf/intcode/intcode"
)

var (
	// ErrNoInput is returned by a Device that has no more input to give.
	ErrNoInput = errors.New("no input available")
	// ErrHalted is returned when a machine halts before a driver got
	// the output it was waiting for.
	ErrHalted = errors.New("machine halted")
)

// Device provides input to and accepts output from a running machine.
type Device interface {
	// In returns the next input value. It may block until one is
	// available or ctx is done.
	In(ctx context.Context) (int64, error)
	// Out accepts one output value.
	Out(v int64) error
}

// Nopf is a logf function that does nothing.
func Nopf(string, ...any) {}

// Run executes m until it halts, pumping input from dev when the machine
// needs it and passing every output to dev. It returns nil when the machine
// halts, the fault when it faults, or the first error from dev or ctx.
func Run(ctx context.Context, m *intcode.Machine, dev Device) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s, err := m.Execute()
		switch s {
		case intcode.ProducedOutput:
			for _, v := range m.DrainOutputs() {
				if err := dev.Out(v); err != nil {
					return err
				}
			}
		case intcode.NeedsInput:
			v, err := dev.In(ctx)
			if err != nil {
				return fmt.Errorf("input at %d: %w", m.PC, err)
			}
			m.PushInput(v)
		case intcode.Halted:
			return nil
		default:
			return err
		}
	}
}

// Values is a Device that supplies a fixed list of inputs and collects
// outputs.
type Values struct {
	Input  []int64
	Output []int64
}

func (d *Values) In(context.Context) (int64, error) {
	if len(d.Input) == 0 {
		return 0, ErrNoInput
	}
	v := d.Input[0]
	d.Input = d.Input[1:]
	return v, nil
}

func (d *Values) Out(v int64) error {
	d.Output = append(d.Output, v)
	return nil
}

// Collect runs a fresh copy of p with the given inputs and returns all of
// its outputs.
func Collect(ctx context.Context, p intcode.Program, opts intcode.Options, inputs ...int64) ([]int64, error) {
	d := &Values{Input: inputs}
	err := Run(ctx, intcode.New(p, opts), d)
	return d.Output, err
}

// NextOutput executes m until it produces one output and returns it.
// If the machine needs input it returns ErrNoInput; if it halts, ErrHalted.
func NextOutput(m *intcode.Machine) (int64, error) {
	if v, ok := m.PopOutput(); ok {
		return v, nil
	}
	s, err := m.Execute()
	switch s {
	case intcode.ProducedOutput:
		v, _ := m.PopOutput()
		return v, nil
	case intcode.NeedsInput:
		return 0, ErrNoInput
	case intcode.Halted:
		return 0, ErrHalted
	}
	return 0, err
}
