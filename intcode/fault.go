package intcode

import (
	"fmt"
	"strconv"
)

// FaultKind signifies the type of condition that stopped execution.
// Each kind is also an error, so callers may test a Fault with errors.Is.
type FaultKind byte

const (
	IllegalOpcode FaultKind = iota + 1
	IllegalMode
	IllegalWriteMode
	OutOfBounds
	StepLimitExceeded
)

func (k FaultKind) String() string {
	if s, ok := map[FaultKind]string{
		IllegalOpcode:     "illegal opcode",
		IllegalMode:       "illegal addressing mode",
		IllegalWriteMode:  "immediate mode write",
		OutOfBounds:       "address out of bounds",
		StepLimitExceeded: "step limit exceeded",
	}[k]; ok {
		return s
	}
	return fmt.Sprintf("unknown fault (%d)", byte(k))
}

func (k FaultKind) Error() string { return k.String() }

// Fault is returned by Execute and Step when the machine cannot continue.
type Fault struct {
	Kind FaultKind
	Addr int   // pc of the faulting instruction
	Word int64 // instruction word at Addr
	// Param is the 1-based parameter involved in the fault, or 0.
	Param int
	// Target is the offending address for OutOfBounds faults.
	Target int64
}

func (e *Fault) Error() string {
	switch {
	case e.Kind == OutOfBounds && e.Param > 0:
		return fmt.Sprintf("%s executing %d at %d (param %d addresses %d)",
			e.Kind, e.Word, e.Addr, e.Param, e.Target)
	case e.Kind == OutOfBounds:
		return fmt.Sprintf("%s: %d", e.Kind, e.Target)
	case e.Param > 0:
		return fmt.Sprintf("%s executing %d at %d (param %d)", e.Kind, e.Word, e.Addr, e.Param)
	}
	return fmt.Sprintf("%s executing %d at %d", e.Kind, e.Word, e.Addr)
}

func (e *Fault) Unwrap() error { return e.Kind }

// LoadError reports a program token that is not a decimal integer.
type LoadError struct {
	Index int // 0-based token index
	Token string
	Err   error
}

func (e *LoadError) Error() string {
	return "token " + strconv.Itoa(e.Index) + " " + strconv.Quote(e.Token) + ": " + e.Err.Error()
}

func (e *LoadError) Unwrap() error { return e.Err }
