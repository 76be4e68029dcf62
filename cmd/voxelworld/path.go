package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// parsePath reads waypoints written as "x,y,z;x,y,z;...".
func parsePath(s string) ([]mgl32.Vec3, error) {
	var out []mgl32.Vec3
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.Split(part, ",")
		if len(fields) != 3 {
			return nil, fmt.Errorf("waypoint %q: want x,y,z", part)
		}
		var p mgl32.Vec3
		for i, f := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 32)
			if err != nil {
				return nil, fmt.Errorf("waypoint %q: %w", part, err)
			}
			p[i] = float32(v)
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty path")
	}
	return out, nil
}

// walker moves an observer along waypoints at a fixed speed per step.
type walker struct {
	points []mgl32.Vec3
	speed  float32
	next   int
	pos    mgl32.Vec3
}

func newWalker(points []mgl32.Vec3, speed float32) *walker {
	return &walker{points: points, speed: speed, next: 1, pos: points[0]}
}

// Done reports whether the last waypoint was reached.
func (w *walker) Done() bool { return w.next >= len(w.points) }

// Step advances by speed and returns the new position.
func (w *walker) Step() mgl32.Vec3 {
	budget := w.speed
	for budget > 0 && !w.Done() {
		target := w.points[w.next]
		d := target.Sub(w.pos)
		dist := d.Len()
		if dist <= budget {
			w.pos = target
			w.next++
			budget -= dist
			continue
		}
		w.pos = w.pos.Add(d.Mul(budget / dist))
		budget = 0
	}
	return w.pos
}
