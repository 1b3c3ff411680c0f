package intcode

// Execute runs the machine until the program needs input, produces an
// output, halts or faults. It returns the resulting status and, when the
// status is Faulted, a *Fault describing the failure.
//
// A machine that needs input may be resumed by pushing input and calling
// Execute again; the input instruction is retried from the start.
// Once halted or faulted, Execute returns the same status and error
// without executing anything.
func (m *Machine) Execute() (Status, error) {
	limit := m.opts.stepLimit()
	for n := 0; ; n++ {
		if limit > 0 && n >= limit && !m.status.Done() {
			f := &Fault{Kind: StepLimitExceeded, Addr: m.PC}
			if m.PC >= 0 && m.PC < len(m.Mem) {
				f.Word = m.Mem[m.PC]
			}
			return m.fault(f)
		}
		if s, err := m.Step(); s != Running {
			return s, err
		}
	}
}

// Step executes the instruction at m.PC. It returns Running if the machine
// may continue, and otherwise the status Execute would report.
func (m *Machine) Step() (s Status, err error) {
	if m.status.Done() {
		return m.status, m.Err()
	}
	m.status = Running
	if m.PC >= len(m.Mem) {
		m.status = Halted
		return Halted, nil
	}
	if m.PC < 0 {
		return m.fault(&Fault{Kind: OutOfBounds, Addr: m.PC, Target: int64(m.PC)})
	}

	var (
		pc   = m.PC
		word = m.Mem[pc]
	)
	defer func() {
		if e := recover(); e != nil {
			if t, ok := e.(trap); ok {
				s, err = m.fault(&Fault{
					Kind:   t.kind,
					Addr:   pc,
					Word:   word,
					Param:  t.param,
					Target: t.target,
				})
			} else {
				panic(e)
			}
		}
	}()

	in, k, param := decode(word)
	if k != 0 {
		return m.fault(&Fault{Kind: k, Addr: pc, Word: word, Param: param})
	}
	m.check(in)

	if in.Op == In && m.PendingInput() == 0 {
		m.status = NeedsInput
		return NeedsInput, nil
	}
	if m.Trace != nil {
		m.Trace(pc, in)
	}

	switch in.Op {
	case Add, Mul, LessThan, Equals:
		a, b := m.read(in, 0), m.read(in, 1)
		dst := m.addr(in, 2)
		var v int64
		switch in.Op {
		case Add:
			v = a + b
		case Mul:
			v = a * b
		case LessThan:
			v = bool64(a < b)
		case Equals:
			v = bool64(a == b)
		}
		m.Mem[dst] = v
		m.PC += 4
	case In:
		dst := m.addr(in, 0)
		m.Mem[dst] = m.in[m.inPos]
		m.inPos++
		m.PC += 2
	case Out:
		v := m.read(in, 0)
		m.out = append(m.out, v)
		m.PC += 2
		m.status = ProducedOutput
		return ProducedOutput, nil
	case JumpIfTrue, JumpIfFalse:
		c, target := m.read(in, 0), m.read(in, 1)
		if (c != 0) == (in.Op == JumpIfTrue) {
			m.PC = int(target)
		} else {
			m.PC += 3
		}
	case AdjustBase:
		m.RelBase += m.read(in, 0)
		m.PC += 2
	case Halt:
		m.status = Halted
		return Halted, nil
	}
	return Running, nil
}

// check panics if in is not valid for the machine's instruction set.
func (m *Machine) check(in Instruction) {
	if !m.opts.Set.Has(in.Op) {
		panic(trap{kind: IllegalOpcode})
	}
	for i := 0; i < in.Op.Params(); i++ {
		if !m.opts.Set.Allows(in.Modes[i]) {
			panic(trap{kind: IllegalMode, param: i + 1})
		}
	}
	if w := in.Op.Writes(); w >= 0 && in.Modes[w] == Immediate {
		panic(trap{kind: IllegalWriteMode, param: w + 1})
	}
}

func (m *Machine) fault(f *Fault) (Status, error) {
	m.status = Faulted
	m.err = f
	return Faulted, f
}

// trap is the panic value used to abandon an instruction.
type trap struct {
	kind   FaultKind
	param  int
	target int64
}

// param returns the raw value of parameter i (0-based).
func (m *Machine) param(i int) int64 {
	a := m.PC + 1 + i
	if a >= len(m.Mem) {
		panic(trap{kind: OutOfBounds, param: i + 1, target: int64(a)})
	}
	return m.Mem[a]
}

// read returns the value of parameter i according to its mode.
func (m *Machine) read(in Instruction, i int) int64 {
	if in.Modes[i] == Immediate {
		return m.param(i)
	}
	return m.Mem[m.addr(in, i)]
}

// addr returns the address parameter i refers to.
func (m *Machine) addr(in Instruction, i int) int64 {
	a := m.param(i)
	if in.Modes[i] == Relative {
		a += m.RelBase
	}
	if a < 0 || a >= int64(len(m.Mem)) {
		panic(trap{kind: OutOfBounds, param: i + 1, target: a})
	}
	return a
}

func bool64(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
