package main

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/nf/intcode/intcode"
)

type debugger struct {
	log   *tview.TextView
	watch *tview.TextView
	state *tview.TextView
	input *tview.InputField
	cols  *tview.Flex
	rows  *tview.Flex
	app   *tview.Application

	cmds  chan string
	pause chan bool
	reset chan *intcode.Machine

	tracing bool // owned by Exec

	mu      sync.Mutex
	syms    symbols
	brk     *symbol
	watches []symbol
}

func (d *debugger) symbols() symbols {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.syms
}

func (d *debugger) setSymbols(s symbols) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.syms = s
}

func newDebugger() *debugger {
	d := &debugger{
		log: tview.NewTextView().
			SetMaxLines(1000),
		watch: tview.NewTextView().
			SetWrap(false).
			SetTextAlign(tview.AlignRight),
		state: tview.NewTextView().
			SetWrap(false),
		input: tview.NewInputField(),
		cols:  tview.NewFlex(),
		rows: tview.NewFlex().
			SetDirection(tview.FlexRow),
		app: tview.NewApplication(),

		cmds:  make(chan string, 16),
		pause: make(chan bool, 1),
		reset: make(chan *intcode.Machine),
	}
	d.log.SetChangedFunc(func() { d.app.Draw() })
	d.watch.SetBackgroundColor(tcell.ColorDarkBlue)
	d.state.SetBackgroundColor(tcell.ColorDarkGrey)
	d.cols.
		AddItem(d.watch, 0, 1, false).
		AddItem(d.log, 0, 2, false)
	d.rows.
		AddItem(d.cols, 0, 1, false).
		AddItem(d.state, 3, 0, false).
		AddItem(d.input, 1, 0, true)
	d.app.SetRoot(d.rows, true)

	d.input.SetAutocompleteFunc(func(t string) (entries []string) {
		if cmd, arg, ok := strings.Cut(t, " "); ok {
			switch cmd {
			case "b", "break", "w", "watch":
				for _, s := range d.symbols().withLabelPrefix(arg) {
					entries = append(entries, cmd+" "+s.label)
				}
			}
		}
		return
	})
	d.input.SetAutocompletedFunc(func(t string, index, src int) bool {
		if src != tview.AutocompletedNavigate {
			d.input.SetText(t)
		}
		return src == tview.AutocompletedEnter || src == tview.AutocompletedClick
	})
	d.input.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		cmd := strings.TrimSpace(d.input.GetText())
		if cmd == "" {
			return
		}
		d.input.SetText("")
		switch cmd {
		case "exit":
			d.app.Stop()
			return
		case "p", "pause":
			select {
			case d.pause <- true:
			default:
			}
			return
		}
		select {
		case d.cmds <- cmd:
		default:
			log.Printf("busy; dropped %q", cmd)
		}
	})
	return d
}

func (d *debugger) Run() error { return d.app.Run() }

// Reset replaces the machine being debugged.
func (d *debugger) Reset(m *intcode.Machine) { d.reset <- m }

// Exec owns m and executes debugger commands against it until done
// is closed.
func (d *debugger) Exec(m *intcode.Machine, done <-chan bool) {
	d.load(m)
	d.show(m, pauseState)
	for {
		select {
		case cmd := <-d.cmds:
			if k, ok := d.do(m, cmd); ok {
				d.show(m, k)
			}
		case nm := <-d.reset:
			m = nm
			d.load(m)
			log.Printf("reset")
			d.show(m, pauseState)
		case <-done:
			return
		}
	}
}

// load prepares a newly loaded machine, keeping tracing on if it was.
func (d *debugger) load(m *intcode.Machine) {
	if d.tracing {
		m.Trace = func(pc int, in intcode.Instruction) {
			log.Print(disasm(m, pc))
		}
	} else {
		m.Trace = nil
	}
}

type stateKind int

const (
	pauseState stateKind = iota
	breakState
	inputState
	haltState
)

// do executes one command against m. It returns the state to display,
// and false if the command was rejected and the display is unchanged.
func (d *debugger) do(m *intcode.Machine, cmd string) (stateKind, bool) {
	cmd, arg, _ := strings.Cut(cmd, " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case "s", "step":
		n := 1
		if arg != "" {
			var err error
			if n, err = strconv.Atoi(arg); err != nil || n < 1 {
				log.Printf("invalid count %q", arg)
				return 0, false
			}
		}
		k := pauseState
		for i := 0; i < n && k == pauseState; i++ {
			k = d.step(m)
		}
		return k, true
	case "c", "cont", "continue":
		return d.cont(m), true
	case "b", "break":
		if arg == "" {
			d.mu.Lock()
			d.brk = nil
			d.mu.Unlock()
			log.Print("cleared break")
			return pauseState, true
		}
		s, ok := d.symbols().resolve(arg)
		if !ok {
			log.Printf("invalid addr %q", arg)
			return 0, false
		}
		d.mu.Lock()
		d.brk = &s
		d.mu.Unlock()
		log.Printf("set break %v", s)
		return pauseState, true
	case "w", "watch":
		s, ok := d.symbols().resolve(arg)
		if !ok {
			log.Printf("invalid addr %q", arg)
			return 0, false
		}
		d.mu.Lock()
		d.watches = append(d.watches, s)
		d.mu.Unlock()
		log.Printf("watching %v", s)
		return pauseState, true
	case "i", "in", "input":
		vs, err := intcode.Parse(arg)
		if err != nil || len(vs) == 0 {
			log.Printf("input: want comma-separated values, got %q", arg)
			return 0, false
		}
		m.PushInput(vs...)
		log.Printf("queued %v", []int64(vs))
		return pauseState, true
	case "t", "trace":
		d.tracing = !d.tracing
		d.load(m)
		log.Printf("trace %v", d.tracing)
		return pauseState, true
	}
	log.Printf("unknown command %q", cmd)
	return 0, false
}

// step executes one instruction, logging any output, and returns the
// state to stop in, or pauseState if execution may go on.
func (d *debugger) step(m *intcode.Machine) stateKind {
	s, err := m.Step()
	for _, v := range m.DrainOutputs() {
		log.Printf("out: %d", v)
	}
	switch s {
	case intcode.NeedsInput:
		log.Printf("waiting for input at %d", m.PC)
		return inputState
	case intcode.Halted:
		log.Print("halted")
		return haltState
	case intcode.Faulted:
		log.Print(err)
		return haltState
	}
	d.mu.Lock()
	brk := d.brk
	d.mu.Unlock()
	if brk != nil && brk.addr == m.PC {
		log.Printf("break at %v", brk)
		return breakState
	}
	return pauseState
}

// cont steps until step asks to stop, the machine's step limit is
// reached or a pause is requested.
func (d *debugger) cont(m *intcode.Machine) stateKind {
	select {
	case <-d.pause:
	default:
	}
	limit := m.Options().StepLimit
	if limit == 0 {
		limit = intcode.DefaultStepLimit
	}
	for n := 1; ; n++ {
		if k := d.step(m); k != pauseState {
			return k
		}
		if limit > 0 && n >= limit {
			log.Printf("paused after %d steps", n)
			return pauseState
		}
		if n%1000 == 0 {
			select {
			case <-d.pause:
				log.Print("paused")
				return pauseState
			default:
			}
		}
	}
}

func (d *debugger) show(m *intcode.Machine, k stateKind) {
	var (
		watch = d.watchContent(m)
		state = stateMsg(d.symbols(), m, k)
	)
	d.app.QueueUpdateDraw(func() {
		switch k {
		case pauseState:
			d.state.SetTextColor(tcell.ColorBlack)
			d.state.SetBackgroundColor(tcell.ColorDarkGrey)
		case breakState:
			d.state.SetTextColor(tcell.ColorYellow)
			d.state.SetBackgroundColor(tcell.ColorDarkBlue)
		case inputState:
			d.state.SetTextColor(tcell.ColorWhite)
			d.state.SetBackgroundColor(tcell.ColorDarkBlue)
		case haltState:
			d.state.SetTextColor(tcell.ColorWhite)
			d.state.SetBackgroundColor(tcell.ColorDarkRed)
		}
		d.watch.SetText(watch)
		d.state.SetText(state)
	})
}

func stateMsg(syms symbols, m *intcode.Machine, k stateKind) string {
	var pcSym string
	if s := syms.forAddr(m.PC); len(s) > 0 {
		pcSym = s[0].label + ": "
	}
	kind := "       "
	switch k {
	case breakState:
		kind = "[break]"
	case inputState:
		kind = "[input]"
	case haltState:
		kind = "[HALT!]"
	}
	last := "-"
	if v, ok := m.LastOutput(); ok {
		last = strconv.FormatInt(v, 10)
	}
	return fmt.Sprintf("%s %s%s\nrb: %d  status: %v  input: %d queued  last output: %s\n",
		kind, pcSym, disasm(m, m.PC), m.RelBase, m.Status(), m.PendingInput(), last)
}

// disasm formats the instruction at pc with its raw parameters.
func disasm(m *intcode.Machine, pc int) string {
	if pc < 0 || pc >= len(m.Mem) {
		return fmt.Sprintf("%6d <out of memory>", pc)
	}
	in, err := intcode.Decode(m.Mem[pc])
	if err != nil {
		return fmt.Sprintf("%6d %d ?", pc, m.Mem[pc])
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%6d %-14s", pc, in)
	for i := 1; i <= in.Op.Params() && pc+i < len(m.Mem); i++ {
		fmt.Fprintf(&b, " %d", m.Mem[pc+i])
	}
	return b.String()
}

func (d *debugger) watchContent(m *intcode.Machine) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var b strings.Builder
	if s := d.brk; s != nil {
		fmt.Fprintf(&b, "%v brk!", *s)
	}
	for _, w := range d.watches {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		v, err := m.Peek(int64(w.addr))
		if err != nil {
			fmt.Fprintf(&b, "%v ?", w)
			continue
		}
		fmt.Fprintf(&b, "%v %d", w, v)
	}
	return b.String()
}
