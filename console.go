package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/nf/intcode/drive"
)

// Console is a numeric Device on the terminal. Each input is read as one
// line; each output is printed on its own line.
type Console struct {
	rl *readline.Instance
	w  io.Writer
}

func newConsole(prompt string) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}
	return &Console{rl: rl, w: rl.Stdout()}, nil
}

func (c *Console) Close() error { return c.rl.Close() }

// Readline reads one line of text, so a Console can feed a drive.ASCII.
func (c *Console) Readline() (string, error) {
	l, err := c.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", io.EOF
	}
	return l, err
}

func (c *Console) In(ctx context.Context) (int64, error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		l, err := c.Readline()
		if err == io.EOF {
			return 0, drive.ErrNoInput
		} else if err != nil {
			return 0, err
		}
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		v, err := strconv.ParseInt(l, 10, 64)
		if err != nil {
			log.Printf("not a number: %q", l)
			continue
		}
		return v, nil
	}
}

func (c *Console) Out(v int64) error {
	_, err := fmt.Fprintln(c.w, v)
	return err
}
