package drive

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sort"
	"strings"
	"sync"

	"golang.org/x/image/draw"
)

// Tile is the content of one screen cell.
type Tile byte

const (
	Empty Tile = iota
	Wall
	Block
	Paddle
	Ball
)

var tileRunes = [...]rune{Empty: ' ', Wall: '#', Block: '*', Paddle: '_', Ball: 'o'}

func (t Tile) String() string {
	if int(t) < len(tileRunes) {
		return string(tileRunes[t])
	}
	return fmt.Sprintf("tile(%d)", byte(t))
}

// Palette holds the colors used by Screen.Image, indexed by Tile.
var Palette = [...]color.RGBA{
	Empty:  {0x10, 0x10, 0x18, 0xff},
	Wall:   {0x80, 0x80, 0x90, 0xff},
	Block:  {0xd0, 0x60, 0x30, 0xff},
	Paddle: {0x40, 0xa0, 0xe0, 0xff},
	Ball:   {0xf0, 0xf0, 0xf0, 0xff},
}

// Joystick chooses the next joystick position (-1 left, 0 neutral,
// 1 right) for a screen.
type Joystick func(s *Screen) int64

// TrackBall is a Joystick that moves the paddle towards the ball.
func TrackBall(s *Screen) int64 {
	ball, okB := s.Find(Ball)
	paddle, okP := s.Find(Paddle)
	switch {
	case !okB || !okP:
		return 0
	case ball.X < paddle.X:
		return -1
	case ball.X > paddle.X:
		return 1
	}
	return 0
}

// Screen is a Device for programs that draw on a tile display. Outputs are
// consumed in (x, y, tile) triples; the triple (-1, 0, v) sets the score.
// Screen is safe for use by one running machine and concurrent readers.
type Screen struct {
	// Joystick provides input. If nil, TrackBall is used.
	Joystick Joystick

	mu      sync.Mutex
	tiles   map[image.Point]Tile
	bounds  image.Rectangle
	score   int64
	partial []int64
	frames  int // number of inputs read, one per game tick
}

func (s *Screen) In(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	j := s.Joystick
	if j == nil {
		j = TrackBall
	}
	v := j(s)
	s.mu.Lock()
	s.frames++
	s.mu.Unlock()
	return v, nil
}

func (s *Screen) Out(v int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.partial = append(s.partial, v)
	if len(s.partial) < 3 {
		return nil
	}
	x, y, t := s.partial[0], s.partial[1], s.partial[2]
	s.partial = s.partial[:0]
	if x == -1 && y == 0 {
		s.score = t
		return nil
	}
	if t < 0 || int(t) >= len(tileRunes) {
		return fmt.Errorf("screen: bad tile %d at %d,%d", t, x, y)
	}
	p := image.Pt(int(x), int(y))
	if s.tiles == nil {
		s.tiles = map[image.Point]Tile{}
		s.bounds = image.Rectangle{p, p.Add(image.Pt(1, 1))}
	} else {
		s.bounds = s.bounds.Union(image.Rectangle{p, p.Add(image.Pt(1, 1))})
	}
	s.tiles[p] = Tile(t)
	return nil
}

// Score returns the last score the program displayed.
func (s *Screen) Score() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// Frames returns the number of joystick inputs read so far.
func (s *Screen) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Count returns the number of cells showing t.
func (s *Screen) Count(t Tile) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.tiles {
		if v == t {
			n++
		}
	}
	return n
}

// Find returns the position of a cell showing t. If several cells show t
// the topmost, leftmost one is returned.
func (s *Screen) Find(t Tile) (image.Point, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ps []image.Point
	for p, v := range s.tiles {
		if v == t {
			ps = append(ps, p)
		}
	}
	if len(ps) == 0 {
		return image.Point{}, false
	}
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].Y != ps[j].Y {
			return ps[i].Y < ps[j].Y
		}
		return ps[i].X < ps[j].X
	})
	return ps[0], true
}

// Bounds returns the smallest rectangle containing every drawn cell.
func (s *Screen) Bounds() image.Rectangle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bounds
}

// String renders the screen as text, one line per row.
func (s *Screen) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var b strings.Builder
	for y := s.bounds.Min.Y; y < s.bounds.Max.Y; y++ {
		for x := s.bounds.Min.X; x < s.bounds.Max.X; x++ {
			b.WriteRune(tileRunes[s.tiles[image.Pt(x, y)]])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Image renders the screen with each cell scale pixels square.
func (s *Screen) Image(scale int) *image.RGBA {
	if scale < 1 {
		scale = 1
	}
	s.mu.Lock()
	r := s.bounds
	src := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			src.SetRGBA(x-r.Min.X, y-r.Min.Y, Palette[s.tiles[image.Pt(x, y)]])
		}
	}
	s.mu.Unlock()

	dst := image.NewRGBA(image.Rect(0, 0, r.Dx()*scale, r.Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
