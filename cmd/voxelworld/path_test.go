package main

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestParsePath(t *testing.T) {
	pts, err := parsePath(" 0,0,0 ; 80, 0,-16.5;")
	if err != nil {
		t.Fatalf("parsePath: %v", err)
	}
	if len(pts) != 2 || pts[1] != (mgl32.Vec3{80, 0, -16.5}) {
		t.Fatalf("points = %v", pts)
	}
	for _, bad := range []string{"", "1,2", "a,b,c", ";;"} {
		if _, err := parsePath(bad); err == nil {
			t.Errorf("parsePath(%q) succeeded", bad)
		}
	}
}

func TestWalkerFollowsWaypoints(t *testing.T) {
	w := newWalker([]mgl32.Vec3{{0, 0, 0}, {10, 0, 0}, {10, 0, 5}}, 4)
	want := []mgl32.Vec3{{4, 0, 0}, {8, 0, 0}, {10, 0, 2}, {10, 0, 5}}
	for i, p := range want {
		if w.Done() {
			t.Fatalf("done early at step %d", i)
		}
		if got := w.Step(); got.Sub(p).Len() > 1e-5 {
			t.Fatalf("step %d = %v, want %v", i, got, p)
		}
	}
	if !w.Done() {
		t.Fatal("walker should be done")
	}
	if got := w.Step(); got != (mgl32.Vec3{10, 0, 5}) {
		t.Fatalf("step after done = %v", got)
	}
}
