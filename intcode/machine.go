// Package intcode provides an implementation of an Intcode computer, called
// Machine, that executes Intcode programs and can be suspended whenever the
// program needs input or produces output.
package intcode

import (
	"fmt"
	"strconv"
	"strings"
)

// Program is a parsed Intcode program.
type Program []int64

// Parse parses a comma-separated list of decimal integers.
// Whitespace around tokens and empty tokens are ignored.
func Parse(text string) (Program, error) {
	var (
		p Program
		i int
	)
	for _, tok := range strings.Split(text, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		v, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			if ne, ok := err.(*strconv.NumError); ok {
				err = ne.Err
			}
			return nil, &LoadError{Index: i, Token: tok, Err: err}
		}
		p = append(p, v)
		i++
	}
	return p, nil
}

func (p Program) String() string {
	var b strings.Builder
	for i, v := range p {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(v, 10))
	}
	return b.String()
}

const (
	// DefaultSize is the memory size used when Options.Size is zero,
	// large enough that real programs never see the end of memory.
	DefaultSize = 1000000
	// DefaultStepLimit is the per-Execute step limit used when
	// Options.StepLimit is zero.
	DefaultStepLimit = 1000000
)

// Options configures a Machine.
type Options struct {
	// Padding is the number of zero words appended to the program.
	Padding int
	// Size is the minimum total memory size. Zero means DefaultSize;
	// a negative value means the padded program length.
	Size int
	// StepLimit bounds the number of instructions a single Execute call
	// may run. Zero means DefaultStepLimit; a negative value disables it.
	StepLimit int
	// Set is the accepted instruction set.
	Set Set
}

func (o Options) memSize(progLen int) int {
	n := progLen + o.Padding
	size := o.Size
	if size == 0 {
		size = DefaultSize
	}
	if size > n {
		n = size
	}
	return n
}

func (o Options) stepLimit() int {
	switch {
	case o.StepLimit == 0:
		return DefaultStepLimit
	case o.StepLimit < 0:
		return 0
	}
	return o.StepLimit
}

// Status is the run state of a Machine.
type Status byte

const (
	Running Status = iota
	NeedsInput
	ProducedOutput
	Halted
	Faulted
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case NeedsInput:
		return "needs input"
	case ProducedOutput:
		return "produced output"
	case Halted:
		return "halted"
	case Faulted:
		return "faulted"
	}
	return fmt.Sprintf("status(%d)", byte(s))
}

// Done reports whether the status is terminal.
func (s Status) Done() bool { return s == Halted || s == Faulted }

// Machine is an Intcode computer.
// A Machine is not safe for concurrent use.
type Machine struct {
	Mem     []int64
	PC      int
	RelBase int64

	// Trace, if non-nil, is called before each instruction executes.
	Trace func(pc int, in Instruction)

	opts   Options
	status Status
	err    *Fault

	in     []int64
	inPos  int
	out    []int64
	outPos int
}

// New returns a Machine loaded with a copy of p.
func New(p Program, opts Options) *Machine {
	m := &Machine{
		Mem:  make([]int64, opts.memSize(len(p))),
		opts: opts,
	}
	copy(m.Mem, p)
	return m
}

// Load parses text and returns a Machine loaded with the program.
func Load(text string, opts Options) (*Machine, error) {
	p, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return New(p, opts), nil
}

// Options returns the options the machine was created with.
func (m *Machine) Options() Options { return m.opts }

// Status returns the status reported by the last Execute or Step call.
func (m *Machine) Status() Status { return m.status }

// Err returns the fault that stopped the machine, if any.
func (m *Machine) Err() error {
	if m.err == nil {
		return nil
	}
	return m.err
}

// Clone returns a deep copy of m. The Trace hook is not copied.
func (m *Machine) Clone() *Machine {
	c := *m
	c.Trace = nil
	c.Mem = append([]int64(nil), m.Mem...)
	c.in = append([]int64(nil), m.in...)
	c.out = append([]int64(nil), m.out...)
	if m.err != nil {
		e := *m.err
		c.err = &e
	}
	return &c
}

// PushInput appends values to the input queue.
func (m *Machine) PushInput(values ...int64) {
	m.in = append(m.in, values...)
}

// PendingInput returns the number of queued inputs not yet consumed.
func (m *Machine) PendingInput() int { return len(m.in) - m.inPos }

// PopOutput returns the oldest output not yet popped.
func (m *Machine) PopOutput() (int64, bool) {
	if m.outPos >= len(m.out) {
		return 0, false
	}
	v := m.out[m.outPos]
	m.outPos++
	return v, true
}

// DrainOutputs returns all outputs not yet popped and marks them popped.
func (m *Machine) DrainOutputs() []int64 {
	vs := append([]int64(nil), m.out[m.outPos:]...)
	m.outPos = len(m.out)
	return vs
}

// Outputs returns every value the machine has output.
// The returned slice must not be modified.
func (m *Machine) Outputs() []int64 { return m.out }

// LastOutput returns the most recent output.
func (m *Machine) LastOutput() (int64, bool) {
	if len(m.out) == 0 {
		return 0, false
	}
	return m.out[len(m.out)-1], true
}

// Peek returns the word at addr.
func (m *Machine) Peek(addr int64) (int64, error) {
	if addr < 0 || addr >= int64(len(m.Mem)) {
		return 0, &Fault{Kind: OutOfBounds, Addr: m.PC, Target: addr}
	}
	return m.Mem[addr], nil
}

// Poke sets the word at addr.
func (m *Machine) Poke(addr, v int64) error {
	if addr < 0 || addr >= int64(len(m.Mem)) {
		return &Fault{Kind: OutOfBounds, Addr: m.PC, Target: addr}
	}
	m.Mem[addr] = v
	return nil
}
