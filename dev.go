package main

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/howeyc/fsnotify"
	"github.com/zeebo/blake3"

	"github.com/nf/intcode/drive"
	"github.com/nf/intcode/intcode"
)

// devMode runs the program and runs it again whenever its file, or the
// labels file, changes. With debug set the program runs under the debugger
// instead, and a change resets the debugger's machine.
func devMode(cfg *config, debug bool) error {
	progFile := filepath.Clean(cfg.Program)
	labelsFile := ""
	if cfg.Labels != "" {
		labelsFile = filepath.Clean(cfg.Labels)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Watch(filepath.Dir(progFile)); err != nil {
		return err
	}
	if labelsFile != "" && filepath.Dir(labelsFile) != filepath.Dir(progFile) {
		if err := watcher.Watch(filepath.Dir(labelsFile)); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var (
		dbg  *debugger
		quit = ctx.Done()
		done = make(chan bool)
	)
	defer close(done)
	if debug {
		dbg = newDebugger()
		log.SetPrefix("")
		log.SetOutput(dbg.log)
		exited := make(chan struct{})
		go func() {
			if err := dbg.Run(); err != nil {
				log.Fatalf("debug: %v", err)
			}
			log.SetOutput(os.Stderr)
			log.SetPrefix("intcode: ")
			close(exited)
		}()
		quit = exited
	}

	var (
		started = false
		loaded  = false
		last    [32]byte
		cancel  = context.CancelFunc(func() {})
		run     = time.After(1 * time.Millisecond)
	)
	defer func() { cancel() }()
	for {
		select {
		case <-run:
			sum, err := digest(progFile, labelsFile)
			if err != nil {
				log.Printf("dev: %v", err)
				break
			}
			if loaded && sum == last {
				break
			}
			last, loaded = sum, true
			log.Printf("dev: load %s (%x)", filepath.Base(progFile), sum[:4])
			m, err := cfg.machine()
			if err != nil {
				log.Printf("dev: %v", err)
				break
			}
			if dbg == nil {
				cancel()
				var runCtx context.Context
				runCtx, cancel = context.WithCancel(ctx)
				go devRun(runCtx, cfg, m)
				break
			}
			if labelsFile != "" {
				syms, err := parseSymbols(labelsFile)
				if err != nil {
					log.Printf("dev: reading labels: %v", err)
					break
				}
				dbg.setSymbols(syms)
			}
			if !started {
				log.Printf("dev: start")
				go dbg.Exec(m, done)
				started = true
			} else {
				dbg.Reset(m)
			}
		case ev := <-watcher.Event:
			if (ev.Name == progFile || ev.Name == labelsFile) && !ev.IsAttrib() {
				run = time.After(100 * time.Millisecond)
			}
		case err := <-watcher.Error:
			log.Printf("dev: watcher: %v", err)
		case <-quit:
			return nil
		}
	}
}

// devRun runs one load of the program without interaction: input comes
// only from the configured initial values.
func devRun(ctx context.Context, cfg *config, m *intcode.Machine) {
	var (
		dev    drive.Device
		report func()
	)
	switch cfg.IO {
	case "ascii":
		a := &drive.ASCII{W: os.Stdout, Logf: log.Printf}
		dev, report = a, func() {}
	case "screen":
		s := &drive.Screen{}
		dev, report = s, func() {
			os.Stdout.WriteString(s.String())
			log.Printf("dev: score %d", s.Score())
		}
	default:
		v := &drive.Values{}
		dev, report = v, func() { log.Printf("dev: output %v", v.Output) }
	}
	err := drive.Run(ctx, m, dev)
	switch {
	case errors.Is(err, context.Canceled):
		return
	case errors.Is(err, drive.ErrNoInput):
		log.Printf("dev: waiting for input at %d", m.PC)
	case err != nil:
		log.Printf("dev: %v", err)
	default:
		log.Printf("dev: halted")
	}
	report()
}

// digest hashes the contents of the named files. Empty names are skipped.
func digest(files ...string) (sum [32]byte, err error) {
	h := blake3.New()
	for _, name := range files {
		if name == "" {
			continue
		}
		f, err := os.Open(name)
		if err != nil {
			return sum, err
		}
		_, err = io.Copy(h, f)
		f.Close()
		if err != nil {
			return sum, err
		}
	}
	copy(sum[:], h.Sum(nil))
	return sum, nil
}
