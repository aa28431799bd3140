package systems

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/spaghettifunk/setmaterial/engine/assets"
	"github.com/spaghettifunk/setmaterial/engine/async"
	"github.com/spaghettifunk/setmaterial/engine/renderer/metadata"
)

// TextureSystem decodes textures on the job system and keeps the ones that
// finished loading, keyed by source locator.
type TextureSystem struct {
	// Hashtable for texture lookups.
	registeredTextures map[string]*metadata.Texture
	mutex              sync.RWMutex
	// sub systems
	jobSystem    *JobSystem
	assetManager *assets.AssetManager
	logger       *log.Logger
}

func NewTextureSystem(js *JobSystem, am *assets.AssetManager, logger *log.Logger) *TextureSystem {
	return &TextureSystem{
		registeredTextures: make(map[string]*metadata.Texture),
		jobSystem:          js,
		assetManager:       am,
		logger:             logger,
	}
}

// LoadAsync fetches the texture described by cfg. An invalid config fails
// the returned future right away. The future settles on the main thread.
func (ts *TextureSystem) LoadAsync(cfg metadata.TextureConfig) *async.Future[*metadata.Texture] {
	if err := cfg.Validate(); err != nil {
		return async.Rejected[*metadata.Texture](err)
	}
	if t := ts.Get(cfg.Source); t != nil && t.MinFilter == cfg.MinFilter && t.MagFilter == cfg.MagFilter {
		return async.Resolved(t)
	}

	promise := async.NewPromise[*metadata.Texture]()
	err := ts.jobSystem.Submit(metadata.JobTask{
		Name:    "texture:" + cfg.Source,
		JobType: metadata.JOB_TYPE_RESOURCE_LOAD,
		Run: func() (interface{}, error) {
			return ts.decode(cfg.Source, "", cfg)
		},
		OnComplete: func(result interface{}) {
			t := ts.register(result.(*metadata.Texture))
			ts.logger.Debug("texture loaded", "source", t.Source, "width", t.Width, "height", t.Height, "mips", len(t.MipLevels))
			promise.Resolve(t)
		},
		OnFailure: func(err error) {
			promise.Reject(fmt.Errorf("load texture '%s': %w", cfg.Source, err))
		},
	})
	if err != nil {
		promise.Reject(err)
	}
	return promise.Future()
}

// Get returns the registered texture for source, or nil.
func (ts *TextureSystem) Get(source string) *metadata.Texture {
	ts.mutex.RLock()
	defer ts.mutex.RUnlock()
	return ts.registeredTextures[source]
}

func (ts *TextureSystem) Count() int {
	ts.mutex.RLock()
	defer ts.mutex.RUnlock()
	return len(ts.registeredTextures)
}

// register stores t unless a texture with the same source is already known,
// in which case the known texture wins.
func (ts *TextureSystem) register(t *metadata.Texture) *metadata.Texture {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()
	if existing, ok := ts.registeredTextures[t.Source]; ok && existing.MinFilter == t.MinFilter && existing.MagFilter == t.MagFilter {
		return existing
	}
	ts.registeredTextures[t.Source] = t
	return t
}

// decode runs on a worker. A non-empty fullPath bypasses the asset index, for
// files referenced from inside a model.
func (ts *TextureSystem) decode(source, fullPath string, cfg metadata.TextureConfig) (*metadata.Texture, error) {
	params := &metadata.ImageResourceParams{GenerateMips: cfg.MinFilter.UsesMipmaps()}

	var (
		res *metadata.Resource
		err error
	)
	if fullPath != "" {
		res, err = ts.assetManager.LoadFile(fullPath, metadata.ResourceTypeImage, params)
	} else {
		res, err = ts.assetManager.LoadAsset(source, params)
	}
	if err != nil {
		return nil, err
	}
	defer ts.assetManager.UnloadAsset(res)

	data, ok := res.Data.(*metadata.ImageResourceData)
	if !ok {
		return nil, fmt.Errorf("'%s' is not an image", source)
	}

	levels := make([][]uint8, 0, 1+len(data.Mips))
	levels = append(levels, data.Pixels)
	levels = append(levels, data.Mips...)

	return &metadata.Texture{
		ID:           uuid.New(),
		Name:         res.Name,
		Source:       source,
		Width:        data.Width,
		Height:       data.Height,
		ChannelCount: data.ChannelCount,
		Usage:        cfg.Usage,
		MagFilter:    cfg.MagFilter,
		MinFilter:    cfg.MinFilter,
		MipLevels:    levels,
	}, nil
}
