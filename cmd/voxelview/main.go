// Command voxelview opens a window onto a streamed voxel world. The fly
// camera is the streaming observer: WASD moves, space and shift rise and
// sink, the mouse looks around, left click digs, right click places stone and
// escape quits.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"voxel-engine/internal/config"
	"voxel-engine/internal/game"
	"voxel-engine/internal/graphics"
	"voxel-engine/internal/graphics/camera"
	"voxel-engine/internal/physics"
	"voxel-engine/internal/profiling"
	"voxel-engine/internal/world"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

func init() {
	// GL calls must stay on the main thread.
	runtime.LockOSThread()
}

const (
	winW = 1280
	winH = 720
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	worldName := flag.String("world", "", "world name (overrides config)")
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags)
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	if *worldName != "" {
		cfg.World.Name = *worldName
		if err := cfg.Validate(); err != nil {
			logger.Fatalf("config: %v", err)
		}
	}

	if err := glfw.Init(); err != nil {
		logger.Fatalf("glfw: %v", err)
	}
	defer glfw.Terminate()

	window, err := setupWindow(winW, winH)
	if err != nil {
		logger.Fatalf("window: %v", err)
	}

	surface, err := graphics.NewGLSurface()
	if err != nil {
		logger.Fatalf("surface: %v", err)
	}
	defer surface.Dispose()

	highlight, err := graphics.NewHighlight()
	if err != nil {
		logger.Fatalf("highlight: %v", err)
	}
	defer highlight.Dispose()

	prof := profiling.New()
	w, err := game.OpenWorld(cfg, surface, logger, prof)
	if err != nil {
		logger.Fatalf("open world: %v", err)
	}
	defer func() {
		if err := w.Close(); err != nil {
			logger.Printf("close world: %v", err)
		}
	}()

	spawnY := float32(cfg.Generator.BaseHeight + 8)
	cam := camera.NewFly(mgl32.Vec3{0, spawnY, 0}, winW, winH)
	window.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		cam.HandleMouseMovement(x, y)
	})
	window.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		hit := physics.Raycast(cam.Position, cam.Front(), physics.MinReachDistance, physics.MaxReachDistance, w.Session)
		if !hit.Hit {
			return
		}
		var err error
		switch button {
		case glfw.MouseButtonLeft:
			err = w.Session.SetVoxel(hit.HitPosition, world.Air)
		case glfw.MouseButtonRight:
			err = w.Session.SetVoxel(hit.AdjacentPosition, world.StoneVoxel)
		}
		if err != nil {
			logger.Printf("edit: %v", err)
		}
	})
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, fbWidth, fbHeight int) {
		gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))
		cam.SetViewport(fbWidth, fbHeight)
	})
	fbw, fbh := window.GetFramebufferSize()
	gl.Viewport(0, 0, int32(fbw), int32(fbh))
	cam.SetViewport(fbw, fbh)

	w.Session.Init(cam.Position)

	limiter := game.NewLimiter(cfg.Streaming.TickRate)
	last := time.Now()
	lastTitle := last
	frames := 0
	for !window.ShouldClose() {
		now := time.Now()
		dt := now.Sub(last).Seconds()
		last = now

		glfw.PollEvents()
		if window.GetKey(glfw.KeyEscape) == glfw.Press {
			window.SetShouldClose(true)
		}
		cam.Move(
			axis(window, glfw.KeyW, glfw.KeyS),
			axis(window, glfw.KeyD, glfw.KeyA),
			axis(window, glfw.KeySpace, glfw.KeyLeftShift),
			dt,
		)

		prof.Reset()
		stats := w.Session.Tick(cam.Position)

		gl.ClearColor(0.53, 0.81, 0.92, 1)
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		stop := prof.Track("graphics.Draw")
		view, proj := cam.ViewMatrix(), cam.ProjectionMatrix()
		surface.Draw(view, proj)
		if hover := physics.Raycast(cam.Position, cam.Front(), physics.MinReachDistance, physics.MaxReachDistance, w.Session); hover.Hit {
			highlight.Draw(hover.HitPosition, view, proj)
		}
		stop()
		window.SwapBuffers()

		frames++
		if since := now.Sub(lastTitle); since >= time.Second {
			window.SetTitle(fmt.Sprintf("voxelview | %.0f fps | chunk %v | visible %d/%d | %s",
				float64(frames)/since.Seconds(), stats.Observer, w.Session.Pool().InUse(),
				w.Session.Pool().Capacity(), prof.TopN(2)))
			frames = 0
			lastTitle = now
		}
		limiter.Wait()
	}
}
