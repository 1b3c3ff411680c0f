package main

import (
	"bytes"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nf/intcode/intcode"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var b bytes.Buffer
	log.SetOutput(&b)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &b
}

func newTestDebugger(t *testing.T, prog string, opts intcode.Options) (*debugger, *intcode.Machine) {
	t.Helper()
	m, err := intcode.Load(prog, opts)
	require.NoError(t, err)
	d := &debugger{pause: make(chan bool, 1)}
	d.load(m)
	return d, m
}

func TestDebuggerCommands(t *testing.T) {
	const (
		addThenIn = "1,0,0,0,3,0,99"
		twoAdds   = "1,0,0,0,1,0,0,0,99"
	)
	small := intcode.Options{Size: -1}
	for _, c := range []struct {
		name string
		prog string
		opts intcode.Options
		syms symbols
		cmds []string

		want stateKind
		ok   bool
		pc   int
	}{
		{name: "step", prog: addThenIn, cmds: []string{"step"}, want: pauseState, ok: true, pc: 4},
		{name: "step n stops for input", prog: addThenIn, cmds: []string{"step 5"}, want: inputState, ok: true, pc: 4},
		{name: "input then step to halt", prog: addThenIn, cmds: []string{"s", "input 7", "s 3"}, want: haltState, ok: true, pc: 6},
		{name: "continue to halt", prog: "104,5,99", cmds: []string{"continue"}, want: haltState, ok: true, pc: 2},
		{name: "continue to input", prog: addThenIn, cmds: []string{"c"}, want: inputState, ok: true, pc: 4},
		{name: "continue to step limit", prog: "1105,1,0", opts: intcode.Options{Size: -1, StepLimit: 10}, cmds: []string{"c"}, want: pauseState, ok: true, pc: 0},
		{name: "break", prog: twoAdds, cmds: []string{"break 4", "c"}, want: breakState, ok: true, pc: 4},
		{name: "break at label", prog: twoAdds, syms: symbols{{4, "second"}}, cmds: []string{"b second", "c"}, want: breakState, ok: true, pc: 4},
		{name: "cleared break", prog: twoAdds, cmds: []string{"b 4", "b", "c"}, want: haltState, ok: true, pc: 8},
		{name: "fault", prog: "98", cmds: []string{"s"}, want: haltState, ok: true, pc: 0},
		{name: "bad count", prog: addThenIn, cmds: []string{"step x"}},
		{name: "empty input", prog: addThenIn, cmds: []string{"input"}},
		{name: "bad input", prog: addThenIn, cmds: []string{"i 1,x"}},
		{name: "unknown label", prog: addThenIn, cmds: []string{"watch nowhere"}},
		{name: "unknown command", prog: addThenIn, cmds: []string{"jump 3"}},
	} {
		t.Run(c.name, func(t *testing.T) {
			captureLog(t)
			opts := c.opts
			if opts == (intcode.Options{}) {
				opts = small
			}
			d, m := newTestDebugger(t, c.prog, opts)
			d.setSymbols(c.syms)
			var (
				k  stateKind
				ok bool
			)
			for _, cmd := range c.cmds {
				k, ok = d.do(m, cmd)
			}
			assert.Equal(t, c.ok, ok)
			if !c.ok {
				return
			}
			assert.Equal(t, c.want, k)
			assert.Equal(t, c.pc, m.PC)
		})
	}
}

func TestDebuggerInput(t *testing.T) {
	captureLog(t)
	d, m := newTestDebugger(t, "3,0,3,1,99", intcode.Options{Size: -1})
	_, ok := d.do(m, "input 7, 8")
	require.True(t, ok)
	assert.Equal(t, 2, m.PendingInput())
	k, _ := d.do(m, "c")
	assert.Equal(t, haltState, k)
	assert.Equal(t, []int64{7, 8}, m.Mem[:2])
}

func TestDebuggerWatch(t *testing.T) {
	captureLog(t)
	d, m := newTestDebugger(t, "1,0,0,0,3,0,99", intcode.Options{Size: -1})
	d.setSymbols(symbols{{0, "sum"}})
	for _, cmd := range []string{"watch sum", "w 4", "b 4"} {
		_, ok := d.do(m, cmd)
		require.True(t, ok, cmd)
	}
	assert.Equal(t, "4 brk!\nsum (0) 1\n4 3", d.watchContent(m))
	d.do(m, "s")
	assert.Equal(t, "4 brk!\nsum (0) 2\n4 3", d.watchContent(m))
}

func TestDebuggerTraceSurvivesReset(t *testing.T) {
	buf := captureLog(t)
	d, m := newTestDebugger(t, "1,0,0,0,99", intcode.Options{Size: -1})
	_, ok := d.do(m, "trace")
	require.True(t, ok)
	require.NotNil(t, m.Trace)

	m2, err := intcode.Load("2,0,0,0,99", intcode.Options{Size: -1})
	require.NoError(t, err)
	d.load(m2)
	require.NotNil(t, m2.Trace, "reset machine should still be traced")
	buf.Reset()
	d.do(m2, "s")
	assert.Contains(t, buf.String(), "MUL")

	d.do(m2, "t")
	assert.Nil(t, m2.Trace)
	m3, err := intcode.Load("99", intcode.Options{Size: -1})
	require.NoError(t, err)
	m3.Trace = func(int, intcode.Instruction) {}
	d.load(m3)
	assert.Nil(t, m3.Trace)
}
