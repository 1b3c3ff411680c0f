package main

import (
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/nf/intcode/intcode"
)

// Snapshot files hold a machine's binary encoding compressed with zstd.

func writeSnapshot(file string, m *intcode.Machine) error {
	b, err := m.MarshalBinary()
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	defer enc.Close()
	return os.WriteFile(file, enc.EncodeAll(b, nil), 0o644)
}

func readSnapshot(file string) (*intcode.Machine, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	if b, err = dec.DecodeAll(b, nil); err != nil {
		return nil, err
	}
	m := new(intcode.Machine)
	if err := m.UnmarshalBinary(b); err != nil {
		return nil, err
	}
	return m, nil
}
