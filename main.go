// Command intcode runs Intcode programs.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime/pprof"

	"github.com/nf/intcode/drive"
	"github.com/nf/intcode/intcode"
)

func main() {
	log.SetPrefix("intcode: ")
	log.SetFlags(0)

	var (
		cliFlag    = flag.Bool("cli", false, "disable GUI features")
		devFlag    = flag.Bool("dev", false, "enable developer mode (re-run the program when its file changes)")
		debugFlag  = flag.Bool("debug", false, "enable debugger (implies -dev)")
		configFlag = flag.String("config", "", "read settings from TOML `file`")

		ioFlag        = flag.String("io", "numeric", "I/O `mode`: numeric, ascii or screen")
		inputFlag     = flag.String("input", "", "comma-separated initial input `values`")
		setFlag       = flag.String("set", "complete", "instruction `set`: basic, extended or complete")
		paddingFlag   = flag.Int("padding", 0, "append `n` zero words to the program")
		sizeFlag      = flag.Int("size", 0, "minimum memory size in `words` (0 means 1000000, negative means program length)")
		stepLimitFlag = flag.Int("step-limit", 0, "maximum instructions between inputs and outputs (0 means 1000000, negative means no limit)")
		labelsFlag    = flag.String("labels", "", "read debugger labels from `file`")
		scaleFlag     = flag.Int("scale", 8, "screen pixels per tile")

		pngFlag    = flag.String("png", "", "write the final screen to PNG `file`")
		saveFlag   = flag.String("save", "", "write a snapshot to `file` when the program stops")
		resumeFlag = flag.String("resume", "", "resume from snapshot `file`")

		cpuProfileFlag = flag.String("cpu_profile", "", "write CPU profile to `file`")

		patches []string
	)
	flag.Func("patch", "set memory `addr=value` before running (repeatable)", func(s string) error {
		patches = append(patches, s)
		return nil
	})

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <program.int>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       %s [flags] -resume <snapshot>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       %s [flags] <-dev | -debug> <program.int>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()
	switch {
	case flag.NArg() == 1:
	case flag.NArg() == 0 && *resumeFlag != "" && !*devFlag && !*debugFlag:
	default:
		flag.Usage()
	}

	cfg := defaultConfig()
	if *configFlag != "" {
		var err error
		if cfg, err = loadConfig(*configFlag); err != nil {
			log.Fatal(err)
		}
	}
	var flagErr error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "io":
			cfg.IO = *ioFlag
		case "input":
			p, err := intcode.Parse(*inputFlag)
			if err != nil {
				flagErr = fmt.Errorf("-input: %w", err)
			}
			cfg.Input = p
		case "set":
			cfg.Set = *setFlag
		case "padding":
			cfg.Padding = *paddingFlag
		case "size":
			cfg.Size = *sizeFlag
		case "step-limit":
			cfg.StepLimit = *stepLimitFlag
		case "labels":
			cfg.Labels = *labelsFlag
		case "scale":
			cfg.Scale = *scaleFlag
		}
	})
	for _, p := range patches {
		if err := cfg.addPatch(p); err != nil && flagErr == nil {
			flagErr = fmt.Errorf("-patch: %w", err)
		}
	}
	if flagErr == nil {
		flagErr = cfg.check()
	}
	if flagErr != nil {
		log.Fatal(flagErr)
	}
	cfg.Program = flag.Arg(0)
	cfg.Resume = *resumeFlag
	cfg.Save = *saveFlag
	cfg.PNG = *pngFlag
	cfg.GUI = !*cliFlag

	if *devFlag || *debugFlag {
		if err := devMode(cfg, *debugFlag); err != nil {
			log.Fatal(err)
		}
		return
	}

	var cpuProfile io.Closer
	if prof := *cpuProfileFlag; prof != "" {
		f, err := os.Create(prof)
		if err != nil {
			log.Fatalf("creating CPU profile file: %v", err)
		}
		pprof.StartCPUProfile(f)
		cpuProfile = f
	}

	err := run(cfg)

	if f := cpuProfile; f != nil {
		pprof.StopCPUProfile()
		f.Close()
	}

	if err != nil {
		log.Fatal(err)
	}
}

func run(cfg *config) error {
	m, err := cfg.machine()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch cfg.IO {
	case "numeric":
		c, err := newConsole("? ")
		if err != nil {
			return err
		}
		err = drive.Run(ctx, m, c)
		c.Close()
		return finish(cfg, m, err)

	case "ascii":
		c, err := newConsole("")
		if err != nil {
			return err
		}
		a := &drive.ASCII{W: os.Stdout, Lines: c, Logf: log.Printf}
		err = drive.Run(ctx, m, a)
		c.Close()
		if rs := a.Results(); len(rs) > 0 {
			fmt.Println(rs[len(rs)-1])
		}
		return finish(cfg, m, err)

	case "screen":
		s := &drive.Screen{}
		if cfg.GUI {
			err = runGUI(ctx, m, s, cfg.Scale)
		} else {
			err = drive.Run(ctx, m, s)
			fmt.Print(s.String())
		}
		log.Printf("score %d after %d frames, %d blocks left", s.Score(), s.Frames(), s.Count(drive.Block))
		if cfg.PNG != "" {
			if err := writePNG(cfg.PNG, s, cfg.Scale); err != nil {
				return err
			}
		}
		return finish(cfg, m, err)
	}
	return fmt.Errorf("unknown I/O mode %q", cfg.IO)
}

// finish saves a snapshot if one was requested. A program that stopped for
// lack of input is not an error when it was saved for resumption.
func finish(cfg *config, m *intcode.Machine, err error) error {
	if cfg.Save == "" {
		return err
	}
	if err != nil && !errors.Is(err, drive.ErrNoInput) {
		return err
	}
	if err := writeSnapshot(cfg.Save, m); err != nil {
		return err
	}
	log.Printf("saved %s at %d (%v)", cfg.Save, m.PC, m.Status())
	return nil
}

func writePNG(file string, s *drive.Screen, scale int) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	if err := png.Encode(f, s.Image(scale)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
