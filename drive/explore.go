package drive

import (
	"context"
	"fmt"
	"image"
	"math/rand"
	"strings"

	"github.com/nf/intcode/intcode"
)

// Direction is a movement command understood by robot programs.
type Direction int64

const (
	North Direction = 1
	South Direction = 2
	West  Direction = 3
	East  Direction = 4
)

// Directions lists every movement command.
var Directions = []Direction{North, South, West, East}

// Delta returns the position change of a move in d. North is up (-y).
func (d Direction) Delta() image.Point {
	switch d {
	case North:
		return image.Pt(0, -1)
	case South:
		return image.Pt(0, 1)
	case West:
		return image.Pt(-1, 0)
	case East:
		return image.Pt(1, 0)
	}
	return image.Point{}
}

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case West:
		return East
	case East:
		return West
	}
	return d
}

// Cell is what is known about a map position.
type Cell byte

const (
	Unknown Cell = iota
	Open
	Blocked
	Target
)

// Map is the area discovered by Explore.
type Map struct {
	Cells  map[image.Point]Cell
	Pos    image.Point // robot position
	Target image.Point
	Found  bool
	Moves  int
}

// NewMap returns a map whose only known cell is the open origin.
func NewMap() *Map {
	return &Map{Cells: map[image.Point]Cell{{}: Open}}
}

// At returns the cell at p.
func (mp *Map) At(p image.Point) Cell { return mp.Cells[p] }

// Distances returns the length of the shortest known path from from to every
// reachable cell.
func (mp *Map) Distances(from image.Point) map[image.Point]int {
	dist := map[image.Point]int{from: 0}
	queue := []image.Point{from}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, d := range Directions {
			q := p.Add(d.Delta())
			if c := mp.Cells[q]; c != Open && c != Target {
				continue
			}
			if _, seen := dist[q]; seen {
				continue
			}
			dist[q] = dist[p] + 1
			queue = append(queue, q)
		}
	}
	return dist
}

// Distance returns the shortest known path length between two cells,
// or -1 if to cannot be reached from from.
func (mp *Map) Distance(from, to image.Point) int {
	if d, ok := mp.Distances(from)[to]; ok {
		return d
	}
	return -1
}

// Farthest returns the largest distance from from to any reachable cell.
func (mp *Map) Farthest(from image.Point) int {
	max := 0
	for _, d := range mp.Distances(from) {
		if d > max {
			max = d
		}
	}
	return max
}

func (mp *Map) String() string {
	var r image.Rectangle
	for p := range mp.Cells {
		r = r.Union(image.Rectangle{p, p.Add(image.Pt(1, 1))})
	}
	var b strings.Builder
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			p := image.Pt(x, y)
			switch {
			case p == mp.Pos:
				b.WriteByte('D')
			case mp.Cells[p] == Open:
				b.WriteByte('.')
			case mp.Cells[p] == Blocked:
				b.WriteByte('#')
			case mp.Cells[p] == Target:
				b.WriteByte('O')
			default:
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Policy chooses the robot's moves. Next returns false to stop exploring.
type Policy interface {
	Next(mp *Map) (Direction, bool)
}

// RandomPolicy moves in uniformly random directions forever.
type RandomPolicy struct {
	Rand *rand.Rand
}

func (p RandomPolicy) Next(*Map) (Direction, bool) {
	return Directions[p.Rand.Intn(len(Directions))], true
}

// DepthFirst visits every reachable cell, backtracking along its path when
// it runs out of unknown neighbours, and stops back at the start.
type DepthFirst struct {
	path []Direction
	last Direction
	back bool
	from image.Point
}

func (p *DepthFirst) Next(mp *Map) (Direction, bool) {
	if p.last != 0 && mp.Pos != p.from && !p.back {
		p.path = append(p.path, p.last)
	}
	p.from = mp.Pos
	for _, d := range Directions {
		if mp.At(mp.Pos.Add(d.Delta())) == Unknown {
			p.last, p.back = d, false
			return d, true
		}
	}
	if len(p.path) == 0 {
		return 0, false
	}
	d := p.path[len(p.path)-1].Reverse()
	p.path = p.path[:len(p.path)-1]
	p.last, p.back = d, true
	return d, true
}

// Explore drives a robot program: it sends the moves chosen by policy and
// records the replies (0 wall, 1 moved, 2 moved onto the target) in a map.
// It stops when the policy stops, after maxMoves moves (if positive),
// or on error.
func Explore(ctx context.Context, m *intcode.Machine, policy Policy, maxMoves int) (*Map, error) {
	mp := NewMap()
	for maxMoves <= 0 || mp.Moves < maxMoves {
		if err := ctx.Err(); err != nil {
			return mp, err
		}
		d, ok := policy.Next(mp)
		if !ok {
			break
		}
		m.PushInput(int64(d))
		v, err := NextOutput(m)
		if err != nil {
			return mp, fmt.Errorf("move %d: %w", mp.Moves, err)
		}
		mp.Moves++
		next := mp.Pos.Add(d.Delta())
		switch v {
		case 0:
			mp.Cells[next] = Blocked
		case 1:
			mp.Cells[next] = Open
			mp.Pos = next
		case 2:
			mp.Cells[next] = Target
			mp.Pos = next
			mp.Target, mp.Found = next, true
		default:
			return mp, fmt.Errorf("move %d: unexpected reply %d", mp.Moves, v)
		}
	}
	return mp, nil
}
