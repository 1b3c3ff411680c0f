package intcode

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// snapshot is the serialized form of a Machine. Trailing zero words of
// memory are not stored; Size restores the full length.
type snapshot struct {
	Version int     `cbor:"1,keyasint"`
	Mem     []int64 `cbor:"2,keyasint"`
	Size    int     `cbor:"3,keyasint"`
	PC      int     `cbor:"4,keyasint"`
	RelBase int64   `cbor:"5,keyasint"`
	In      []int64 `cbor:"6,keyasint,omitempty"`
	InPos   int     `cbor:"7,keyasint,omitempty"`
	Out     []int64 `cbor:"8,keyasint,omitempty"`
	OutPos  int     `cbor:"9,keyasint,omitempty"`
	Status  Status  `cbor:"10,keyasint"`
	Fault   *Fault  `cbor:"11,keyasint,omitempty"`

	Padding   int `cbor:"12,keyasint,omitempty"`
	StepLimit int `cbor:"13,keyasint,omitempty"`
	Set       Set `cbor:"14,keyasint,omitempty"`
	MinSize   int `cbor:"15,keyasint,omitempty"`
}

const snapshotVersion = 1

var snapshotEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	snapshotEncMode = em
}

// MarshalBinary encodes the complete machine state, including its queues,
// as CBOR. A machine suspended for input can be saved and resumed later.
func (m *Machine) MarshalBinary() ([]byte, error) {
	n := len(m.Mem)
	for n > 0 && m.Mem[n-1] == 0 {
		n--
	}
	s := snapshot{
		Version:   snapshotVersion,
		Mem:       m.Mem[:n],
		Size:      len(m.Mem),
		PC:        m.PC,
		RelBase:   m.RelBase,
		In:        m.in,
		InPos:     m.inPos,
		Out:       m.out,
		OutPos:    m.outPos,
		Status:    m.status,
		Fault:     m.err,
		Padding:   m.opts.Padding,
		StepLimit: m.opts.StepLimit,
		Set:       m.opts.Set,
		MinSize:   m.opts.Size,
	}
	return snapshotEncMode.Marshal(s)
}

// UnmarshalBinary replaces the state of m with a snapshot produced by
// MarshalBinary. The Trace hook is left unchanged.
func (m *Machine) UnmarshalBinary(data []byte) error {
	var s snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decoding snapshot: %w", err)
	}
	if s.Version != snapshotVersion {
		return fmt.Errorf("unsupported snapshot version %d", s.Version)
	}
	if s.Size < len(s.Mem) ||
		s.InPos < 0 || s.InPos > len(s.In) ||
		s.OutPos < 0 || s.OutPos > len(s.Out) {
		return errors.New("inconsistent snapshot")
	}
	if (s.Status == Faulted) != (s.Fault != nil) {
		return errors.New("inconsistent snapshot fault")
	}
	mem := make([]int64, s.Size)
	copy(mem, s.Mem)
	*m = Machine{
		Mem:     mem,
		PC:      s.PC,
		RelBase: s.RelBase,
		Trace:   m.Trace,
		opts: Options{
			Padding:   s.Padding,
			Size:      s.MinSize,
			StepLimit: s.StepLimit,
			Set:       s.Set,
		},
		status: s.Status,
		err:    s.Fault,
		in:     s.In,
		inPos:  s.InPos,
		out:    s.Out,
		outPos: s.OutPos,
	}
	return nil
}
