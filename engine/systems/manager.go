package systems

import (
	"github.com/charmbracelet/log"

	"github.com/spaghettifunk/setmaterial/engine/assets"
	"github.com/spaghettifunk/setmaterial/engine/async"
	"github.com/spaghettifunk/setmaterial/engine/core"
	"github.com/spaghettifunk/setmaterial/engine/renderer/metadata"
)

// ResourcePipeline fetches renderables and textures asynchronously. Futures
// it returns settle on the main thread.
type ResourcePipeline interface {
	LoadRenderable(cfg metadata.RenderableConfig) *async.Future[*metadata.Renderable]
	LoadTexture(cfg metadata.TextureConfig) *async.Future[*metadata.Texture]
}

type SystemManagerConfig struct {
	/** @brief Number of job workers. */
	WorkerCount int
	/** @brief Size of the job queue. */
	JobQueueSize int
}

type SystemManager struct {
	jobSystem        *JobSystem
	textureSystem    *TextureSystem
	renderableSystem *RenderableSystem
}

func NewSystemManager(config SystemManagerConfig, mainThread *core.MainThread, am *assets.AssetManager, logger *log.Logger) (*SystemManager, error) {
	js, err := NewJobSystem(config.WorkerCount, config.JobQueueSize, mainThread, logger.WithPrefix("jobs"))
	if err != nil {
		return nil, err
	}
	ts := NewTextureSystem(js, am, logger.WithPrefix("textures"))
	rs := NewRenderableSystem(js, am, ts, logger.WithPrefix("renderables"))

	return &SystemManager{
		jobSystem:        js,
		textureSystem:    ts,
		renderableSystem: rs,
	}, nil
}

func (sm *SystemManager) LoadRenderable(cfg metadata.RenderableConfig) *async.Future[*metadata.Renderable] {
	return sm.renderableSystem.LoadAsync(cfg)
}

func (sm *SystemManager) LoadTexture(cfg metadata.TextureConfig) *async.Future[*metadata.Texture] {
	return sm.textureSystem.LoadAsync(cfg)
}

func (sm *SystemManager) TextureSystem() *TextureSystem {
	return sm.textureSystem
}

func (sm *SystemManager) Shutdown() error {
	return sm.jobSystem.Shutdown()
}
