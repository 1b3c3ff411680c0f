package main

import (
	"context"
	"image"
	"image/draw"
	"log"
	"sync/atomic"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/nf/intcode/drive"
	"github.com/nf/intcode/intcode"
)

const frameRate = 30

// joystick reads the arrow keys, or tracks the ball itself in autopilot
// mode. Reads are paced to one per frame.
type joystick struct {
	dir  atomic.Int64
	auto atomic.Bool
	tick <-chan time.Time
}

func (j *joystick) read(s *drive.Screen) int64 {
	<-j.tick
	if j.auto.Load() {
		return drive.TrackBall(s)
	}
	return j.dir.Load()
}

func (j *joystick) key(e key.Event) {
	var d int64
	switch e.Code {
	case key.CodeLeftArrow:
		d = -1
	case key.CodeRightArrow:
		d = 1
	case key.CodeA:
		if e.Direction == key.DirPress {
			j.auto.Store(!j.auto.Load())
			log.Printf("autopilot: %v", j.auto.Load())
		}
		return
	default:
		return
	}
	switch e.Direction {
	case key.DirPress:
		j.dir.Store(d)
	case key.DirRelease:
		j.dir.CompareAndSwap(d, 0)
	}
}

// runGUI runs m with s as its device while showing s in a window.
// It returns when the program stops or the window is closed.
func runGUI(ctx context.Context, m *intcode.Machine, s *drive.Screen, scale int) (err error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	t := time.NewTicker(time.Second / frameRate)
	defer t.Stop()
	j := &joystick{tick: t.C}
	s.Joystick = j.read

	var (
		exit   = make(chan bool)
		runErr = make(chan error, 1)
	)
	go func() {
		runErr <- drive.Run(ctx, m, s)
		close(exit)
	}()

	driver.Main(func(sc screen.Screen) {
		w, err := sc.NewWindow(&screen.NewWindowOptions{
			Title:  "intcode",
			Width:  40 * scale,
			Height: 25 * scale,
		})
		if err != nil {
			log.Fatal(err)
		}
		defer w.Release()

		type update struct{}
		closed := make(chan bool)
		defer close(closed)
		go func() {
			t := time.NewTicker(time.Second / 60)
			defer t.Stop()
			done := exit
			for {
				select {
				case <-t.C:
					w.Send(update{})
				case <-done:
					log.Printf("program stopped with score %d; press Esc to close", s.Score())
					done = nil
				case <-closed:
					return
				}
			}
		}()

		var v view
		defer v.release()

		var sz size.Event
		for {
			switch e := w.NextEvent().(type) {
			case size.Event:
				sz = e
				if sz.WidthPx+sz.HeightPx == 0 {
					return
				}

			case lifecycle.Event:
				if e.To == lifecycle.StageDead {
					return
				}

			case key.Event:
				if e.Code == key.CodeEscape {
					return
				}
				j.key(e)

			case paint.Event, update:
				if err := v.update(sc, s); err != nil {
					log.Fatalf("update: %v", err)
				}
				if v.tex != nil {
					w.Scale(sz.Bounds(), v.tex, v.tex.Bounds(), draw.Src, nil)
					w.Publish()
				}

			case error:
				log.Print(e)
			}
		}
	})
	cancel()
	return <-runErr
}

type view struct {
	size image.Point
	buf  screen.Buffer
	tex  screen.Texture
}

func (v *view) update(sc screen.Screen, s *drive.Screen) (err error) {
	img := s.Image(1)
	sz := img.Bounds().Size()
	if sz.X == 0 || sz.Y == 0 {
		return nil
	}
	if v.tex == nil || v.size != sz {
		v.release()
		v.size = sz
		v.buf, err = sc.NewBuffer(sz)
		if err != nil {
			return
		}
		v.tex, err = sc.NewTexture(sz)
		if err != nil {
			return
		}
	}
	draw.Draw(v.buf.RGBA(), v.buf.Bounds(), img, image.Point{}, draw.Src)
	v.tex.Upload(image.Point{}, v.buf, v.buf.Bounds())
	return nil
}

func (v *view) release() {
	if v.tex != nil {
		v.tex.Release()
		v.tex = nil
	}
	if v.buf != nil {
		v.buf.Release()
		v.buf = nil
	}
}
