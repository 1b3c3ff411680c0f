package intcode

import (
	"errors"
	"reflect"
	"strconv"
	"testing"
)

func TestParse(t *testing.T) {
	for _, c := range []struct {
		text string
		want Program
	}{
		{"1,0,0,0,99", Program{1, 0, 0, 0, 99}},
		{" 1, -2 ,3\n", Program{1, -2, 3}},
		{"104,1125899906842624,99,\n", Program{104, 1125899906842624, 99}},
		{"", nil},
	} {
		g, err := Parse(c.text)
		if err != nil {
			t.Errorf("Parse(%q) returned error %v", c.text, err)
			continue
		}
		if !reflect.DeepEqual(g, c.want) {
			t.Errorf("Parse(%q) = %v, want %v", c.text, g, c.want)
		}
	}
}

func TestParseError(t *testing.T) {
	_, err := Parse("1,2,x3,4")
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("got error %v, want a *LoadError", err)
	}
	if le.Index != 2 || le.Token != "x3" {
		t.Errorf("error names token %d %q, want 2 %q", le.Index, le.Token, "x3")
	}
	if !errors.Is(err, strconv.ErrSyntax) {
		t.Errorf("error %v does not wrap %v", err, strconv.ErrSyntax)
	}
	if _, err := Load("1,99999999999999999999", Options{}); !errors.Is(err, strconv.ErrRange) {
		t.Errorf("Load error %v, want %v", err, strconv.ErrRange)
	}
}

func TestProgramString(t *testing.T) {
	p := Program{1, -2, 3}
	if g, w := p.String(), "1,-2,3"; g != w {
		t.Errorf("String() = %q, want %q", g, w)
	}
}

func TestNewMemorySize(t *testing.T) {
	p := Program{1, 2, 3, 4, 5}
	for _, c := range []struct {
		opts Options
		want int
	}{
		{Options{}, DefaultSize},
		{Options{Size: -1}, 5},
		{Options{Padding: 3, Size: -1}, 8},
		{Options{Size: 2}, 5},
		{Options{Size: 100, Padding: 3}, 100},
	} {
		m := New(p, c.opts)
		if len(m.Mem) != c.want {
			t.Errorf("New with %+v: memory size %d, want %d", c.opts, len(m.Mem), c.want)
		}
		for i, w := range p {
			if m.Mem[i] != w {
				t.Errorf("Mem[%d] = %d, want %d", i, m.Mem[i], w)
			}
		}
		for i := len(p); i < len(m.Mem); i++ {
			if m.Mem[i] != 0 {
				t.Fatalf("Mem[%d] = %d, want 0", i, m.Mem[i])
			}
		}
	}
	p[0] = 42
	if m := New(Program{7}, Options{Size: -1}); m.Mem[0] != 7 {
		t.Error("New did not copy the program")
	}
}
