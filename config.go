package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/nf/intcode/intcode"
)

// config holds the settings for one run of a program. The exported fields
// with toml tags may be set in a configuration file; command-line flags
// override them.
type config struct {
	Padding   int              `toml:"padding"`
	Size      int              `toml:"size"`
	StepLimit int              `toml:"step-limit"`
	Set       string           `toml:"set"`
	IO        string           `toml:"io"`
	Input     []int64          `toml:"input"`
	Patch     map[string]int64 `toml:"patch"` // address -> value
	Labels    string           `toml:"labels"`
	Scale     int              `toml:"scale"`

	Program string `toml:"-"`
	Resume  string `toml:"-"`
	Save    string `toml:"-"`
	PNG     string `toml:"-"`
	GUI     bool   `toml:"-"`
}

func defaultConfig() *config {
	return &config{
		Set:   "complete",
		IO:    "numeric",
		Scale: 8,
	}
}

// loadConfig reads a TOML configuration file. Settings missing from the
// file keep their defaults.
func loadConfig(file string) (*config, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	c := defaultConfig()
	md, err := toml.Decode(string(b), c)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", file, err)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return nil, fmt.Errorf("%s: unknown setting %q", file, keys[0].String())
	}
	if err := c.check(); err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return c, nil
}

func (c *config) check() error {
	switch c.IO {
	case "numeric", "ascii", "screen":
	default:
		return fmt.Errorf("unknown I/O mode %q", c.IO)
	}
	if _, err := intcode.ParseSet(c.Set); err != nil {
		return err
	}
	if c.Padding < 0 {
		return fmt.Errorf("negative padding %d", c.Padding)
	}
	if c.Scale < 1 {
		return fmt.Errorf("invalid scale %d", c.Scale)
	}
	_, err := c.patches()
	return err
}

func (c *config) options() (intcode.Options, error) {
	set, err := intcode.ParseSet(c.Set)
	if err != nil {
		return intcode.Options{}, err
	}
	return intcode.Options{
		Padding:   c.Padding,
		Size:      c.Size,
		StepLimit: c.StepLimit,
		Set:       set,
	}, nil
}

type patch struct {
	addr, value int64
}

// patches returns the memory patches in address order.
func (c *config) patches() ([]patch, error) {
	var ps []patch
	for k, v := range c.Patch {
		addr, err := strconv.ParseInt(strings.TrimSpace(k), 10, 64)
		if err != nil || addr < 0 {
			return nil, fmt.Errorf("invalid patch address %q", k)
		}
		ps = append(ps, patch{addr, v})
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i].addr < ps[j].addr })
	return ps, nil
}

// addPatch records a patch given as "addr=value".
func (c *config) addPatch(s string) error {
	a, v, ok := strings.Cut(s, "=")
	if !ok {
		return fmt.Errorf("patch %q is not addr=value", s)
	}
	addr, err := strconv.ParseInt(strings.TrimSpace(a), 10, 64)
	if err != nil || addr < 0 {
		return fmt.Errorf("invalid patch address %q", a)
	}
	value, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid patch value %q", v)
	}
	if c.Patch == nil {
		c.Patch = map[string]int64{}
	}
	c.Patch[strconv.FormatInt(addr, 10)] = value
	return nil
}

// machine loads the program, or the snapshot to resume, and applies the
// configured patches and initial input.
func (c *config) machine() (*intcode.Machine, error) {
	var m *intcode.Machine
	if c.Resume != "" {
		var err error
		if m, err = readSnapshot(c.Resume); err != nil {
			return nil, fmt.Errorf("%s: %w", c.Resume, err)
		}
	} else {
		opts, err := c.options()
		if err != nil {
			return nil, err
		}
		b, err := os.ReadFile(c.Program)
		if err != nil {
			return nil, err
		}
		m, err = intcode.Load(string(b), opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.Program, err)
		}
	}
	ps, err := c.patches()
	if err != nil {
		return nil, err
	}
	for _, p := range ps {
		if err := m.Poke(p.addr, p.value); err != nil {
			return nil, fmt.Errorf("patch: %w", err)
		}
	}
	m.PushInput(c.Input...)
	return m, nil
}
