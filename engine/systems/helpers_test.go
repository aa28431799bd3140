package systems

import (
	"bytes"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/spaghettifunk/setmaterial/engine/async"
	"github.com/spaghettifunk/setmaterial/engine/core"
	"github.com/spaghettifunk/setmaterial/engine/math"
	"github.com/spaghettifunk/setmaterial/engine/renderer/metadata"
)

func newTestLogger() (*log.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return core.NewLogger(buf, core.DebugLevel), buf
}

// fakePipeline hands out pending futures the test settles by hand.
type fakePipeline struct {
	renderables map[string]*async.Promise[*metadata.Renderable]
	textures    map[string]*async.Promise[*metadata.Texture]
	calls       []string
}

func newFakePipeline() *fakePipeline {
	return &fakePipeline{
		renderables: make(map[string]*async.Promise[*metadata.Renderable]),
		textures:    make(map[string]*async.Promise[*metadata.Texture]),
	}
}

func (p *fakePipeline) LoadRenderable(cfg metadata.RenderableConfig) *async.Future[*metadata.Renderable] {
	p.calls = append(p.calls, cfg.Source)
	pr := async.NewPromise[*metadata.Renderable]()
	p.renderables[cfg.Source] = pr
	return pr.Future()
}

func (p *fakePipeline) LoadTexture(cfg metadata.TextureConfig) *async.Future[*metadata.Texture] {
	p.calls = append(p.calls, cfg.Source)
	pr := async.NewPromise[*metadata.Texture]()
	p.textures[cfg.Source] = pr
	return pr.Future()
}

func testTexture(source string) *metadata.Texture {
	return &metadata.Texture{Name: source, Source: source, Width: 1, Height: 1, ChannelCount: 4, MipLevels: [][]uint8{{255, 255, 255, 255}}}
}

func testRenderable(source string, slots ...string) *metadata.Renderable {
	material := metadata.NewMaterial("board", math.NewVec4(1, 1, 1, 1), slots...)
	return metadata.NewRenderable(source, source, &metadata.Mesh{Name: source}, material)
}

// await pumps mt until f settles.
func await[T any](t *testing.T, mt *core.MainThread, f *async.Future[T]) (T, error) {
	t.Helper()
	timeout := time.After(10 * time.Second)
	for {
		mt.Pump()
		select {
		case <-f.Done():
			return f.Result()
		case <-mt.Wake():
		case <-timeout:
			t.Fatal("future did not settle in time")
		}
	}
}
