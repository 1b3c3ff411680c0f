package intcode

import "fmt"

// Op represents an Intcode opcode.
type Op int64

const (
	Add         Op = 1
	Mul         Op = 2
	In          Op = 3
	Out         Op = 4
	JumpIfTrue  Op = 5
	JumpIfFalse Op = 6
	LessThan    Op = 7
	Equals      Op = 8
	AdjustBase  Op = 9
	Halt        Op = 99
)

var opStrings = map[Op]string{
	Add:         "ADD",
	Mul:         "MUL",
	In:          "IN",
	Out:         "OUT",
	JumpIfTrue:  "JNZ",
	JumpIfFalse: "JZ",
	LessThan:    "LT",
	Equals:      "EQ",
	AdjustBase:  "ARB",
	Halt:        "HALT",
}

func (o Op) String() string {
	if s, ok := opStrings[o]; ok {
		return s
	}
	return fmt.Sprintf("op(%d)", int64(o))
}

// Params reports the number of parameters that follow the opcode.
func (o Op) Params() int {
	switch o {
	case Add, Mul, LessThan, Equals:
		return 3
	case JumpIfTrue, JumpIfFalse:
		return 2
	case In, Out, AdjustBase:
		return 1
	}
	return 0
}

// Writes reports the index (0-based) of the parameter the opcode writes
// through, or -1 if it writes nothing.
func (o Op) Writes() int {
	switch o {
	case Add, Mul, LessThan, Equals:
		return 2
	case In:
		return 0
	}
	return -1
}

// Mode is a parameter addressing mode.
type Mode byte

const (
	Position  Mode = 0
	Immediate Mode = 1
	Relative  Mode = 2
)

func (m Mode) String() string {
	switch m {
	case Position:
		return "position"
	case Immediate:
		return "immediate"
	case Relative:
		return "relative"
	}
	return fmt.Sprintf("mode(%d)", byte(m))
}

// Set is an instruction set level. Each level accepts the opcodes and modes
// of the previous one.
type Set byte

const (
	// Complete accepts every opcode and the relative addressing mode.
	// It is the zero value.
	Complete Set = iota
	// Basic accepts only Add, Mul and Halt in position mode.
	Basic
	// Extended adds I/O, jumps, comparisons and immediate mode.
	Extended
)

var setStrings = map[Set]string{
	Complete: "complete",
	Basic:    "basic",
	Extended: "extended",
}

func (s Set) String() string {
	if n, ok := setStrings[s]; ok {
		return n
	}
	return fmt.Sprintf("set(%d)", byte(s))
}

// ParseSet returns the Set with the given name.
func ParseSet(name string) (Set, error) {
	for s, n := range setStrings {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown instruction set %q", name)
}

// Has reports whether op belongs to the set.
func (s Set) Has(op Op) bool {
	switch op {
	case Add, Mul, Halt:
		return true
	case In, Out, JumpIfTrue, JumpIfFalse, LessThan, Equals:
		return s != Basic
	case AdjustBase:
		return s == Complete
	}
	return false
}

// Allows reports whether mode is available in the set.
func (s Set) Allows(m Mode) bool {
	switch m {
	case Position:
		return true
	case Immediate:
		return s != Basic
	case Relative:
		return s == Complete
	}
	return false
}

// Instruction is a decoded instruction word.
type Instruction struct {
	Op    Op
	Modes [3]Mode
}

func (in Instruction) String() string {
	s := in.Op.String()
	for i := 0; i < in.Op.Params(); i++ {
		switch in.Modes[i] {
		case Immediate:
			s += " #"
		case Relative:
			s += " ~"
		default:
			s += " @"
		}
	}
	return s
}

// Decode splits an instruction word into its opcode and parameter modes.
// The opcode is not checked against any instruction set, but a mode digit
// other than 0, 1 or 2 is reported as IllegalMode and a negative word or
// unknown opcode as IllegalOpcode.
func Decode(word int64) (Instruction, error) {
	in, k, _ := decode(word)
	if k != 0 {
		return in, k
	}
	return in, nil
}

// decode is Decode, also reporting the 1-based parameter of an illegal mode.
func decode(word int64) (in Instruction, k FaultKind, param int) {
	if word < 0 {
		return in, IllegalOpcode, 0
	}
	in.Op = Op(word % 100)
	if _, ok := opStrings[in.Op]; !ok {
		return in, IllegalOpcode, 0
	}
	word /= 100
	for i := range in.Modes {
		d := Mode(word % 10)
		if d > Relative {
			return in, IllegalMode, i + 1
		}
		in.Modes[i] = d
		word /= 10
	}
	return in, 0, 0
}
