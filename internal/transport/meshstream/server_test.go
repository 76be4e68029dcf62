package meshstream

import (
	"errors"
	"io"
	"log"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"voxel-engine/internal/meshing"
	"voxel-engine/internal/render"
	"voxel-engine/internal/world"
)

func stoneMesh() *meshing.MeshData {
	c := world.NewChunk(world.Coord{}, world.DefaultDims)
	_ = c.Set(1, 2, 3, world.StoneVoxel)
	return meshing.BuildGreedyMesh(c, nil)
}

func TestFrameRoundTrip(t *testing.T) {
	mesh := stoneMesh()
	origin := world.Coord{X: -16, Y: 32, Z: 0}
	f, err := DecodeFrame(EncodeApply(7, origin, mesh))
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if f.Kind != KindApply || f.Handle != 7 || f.Origin != origin {
		t.Fatalf("header = %+v", f)
	}
	if !reflect.DeepEqual(f.Mesh, mesh) {
		t.Fatal("mesh changed in transit")
	}

	f, err = DecodeFrame(EncodeClear(3))
	if err != nil || f.Kind != KindClear || f.Handle != 3 {
		t.Fatalf("clear frame = %+v, %v", f, err)
	}
}

func TestDecodeFrameRejectsMalformed(t *testing.T) {
	good := EncodeApply(1, world.Coord{}, stoneMesh())
	bad := [][]byte{
		nil,
		{KindClear, 0, 0},
		append(EncodeClear(1), 0),
		{9, 0, 0, 0, 0},
		good[:len(good)-1],
	}
	for i, b := range bad {
		if _, err := DecodeFrame(b); !errors.Is(err, ErrBadFrame) {
			t.Errorf("case %d: err = %v, want ErrBadFrame", i, err)
		}
	}
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	kind, b, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if kind != websocket.BinaryMessage {
		t.Fatalf("message type = %d, want binary", kind)
	}
	f, err := DecodeFrame(b)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	return f
}

func TestServerStreamsSnapshotAndUpdates(t *testing.T) {
	srv := NewServer(log.New(io.Discard, "", 0))
	pool := render.NewPool(4)
	a, _ := pool.Acquire(world.Coord{})
	b, _ := pool.Acquire(world.Coord{X: 1})
	gone, _ := pool.Acquire(world.Coord{X: 2})

	mesh := stoneMesh()
	srv.Apply(b, world.Coord{X: 16}, mesh)
	srv.Apply(a, world.Coord{}, mesh)
	srv.Apply(gone, world.Coord{X: 32}, mesh)
	srv.Clear(gone)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	// Snapshot arrives in handle order and omits cleared handles.
	if f := readFrame(t, conn); f.Handle != a.ID || f.Origin != (world.Coord{}) {
		t.Fatalf("first snapshot frame = %+v", f)
	}
	if f := readFrame(t, conn); f.Handle != b.ID || f.Origin != (world.Coord{X: 16}) {
		t.Fatalf("second snapshot frame = %+v", f)
	}
	if srv.Clients() != 1 {
		t.Fatalf("clients = %d, want 1", srv.Clients())
	}

	srv.Clear(a)
	if f := readFrame(t, conn); f.Kind != KindClear || f.Handle != a.ID {
		t.Fatalf("clear frame = %+v", f)
	}
	srv.Apply(b, world.Coord{X: 16}, &meshing.MeshData{})
	if f := readFrame(t, conn); f.Kind != KindApply || !f.Mesh.Empty() {
		t.Fatalf("update frame = %+v", f)
	}

	srv.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := conn.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Fatalf("after Close: err = %v, want normal closure", err)
	}
}
