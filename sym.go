package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// symbols is a list of labelled addresses, sorted by address.
type symbols []symbol

func (s symbols) forAddr(addr int) (ss []symbol) {
	i := sort.Search(len(s), func(i int) bool { return s[i].addr >= addr })
	for ; i < len(s); i++ {
		if s[i].addr == addr {
			ss = append(ss, s[i])
		}
	}
	return ss
}

func (s symbols) withLabelPrefix(prefix string) (ss []symbol) {
	for _, s := range s {
		if strings.HasPrefix(s.label, prefix) {
			ss = append(ss, s)
		}
	}
	return ss
}

// resolve returns the symbol with the given label or, failing that,
// an unlabelled symbol for a decimal address.
func (s symbols) resolve(arg string) (symbol, bool) {
	for _, s := range s {
		if s.label == arg {
			return s, true
		}
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 0 {
		return symbol{}, false
	}
	return symbol{addr: n}, true
}

type symbol struct {
	addr  int
	label string
}

func (s symbol) String() string {
	if s.label == "" {
		return strconv.Itoa(s.addr)
	}
	return fmt.Sprintf("%s (%d)", s.label, s.addr)
}

func parseSymbols(symFile string) (symbols, error) {
	f, err := os.Open(symFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readSymbols(f)
}

// readSymbols reads a labels file: one "address label" pair per line.
// Blank lines and lines starting with '#' are ignored.
func readSymbols(r io.Reader) (symbols, error) {
	var (
		ss   symbols
		line int
		sc   = bufio.NewScanner(r)
	)
	for sc.Scan() {
		line++
		t := strings.TrimSpace(sc.Text())
		if t == "" || t[0] == '#' {
			continue
		}
		f := strings.Fields(t)
		if len(f) != 2 {
			return nil, fmt.Errorf("line %d: want address and label, got %q", line, t)
		}
		addr, err := strconv.Atoi(f[0])
		if err != nil || addr < 0 {
			return nil, fmt.Errorf("line %d: invalid address %q", line, f[0])
		}
		ss = append(ss, symbol{addr: addr, label: f[1]})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(ss, func(i, j int) bool {
		return ss[i].addr < ss[j].addr
	})
	return ss, nil
}
