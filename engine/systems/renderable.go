package systems

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/spaghettifunk/setmaterial/engine/assets"
	"github.com/spaghettifunk/setmaterial/engine/async"
	"github.com/spaghettifunk/setmaterial/engine/renderer/metadata"
)

var defaultColorMapSource = metadata.BuiltinScheme + metadata.DEFAULT_DIFFUSE_TEXTURE_NAME

type renderableLoadResult struct {
	model    *metadata.ModelResourceData
	colorMap *metadata.Texture
}

// RenderableSystem turns glTF models into renderables carrying a material
// with a colour-map slot.
type RenderableSystem struct {
	jobSystem     *JobSystem
	assetManager  *assets.AssetManager
	textureSystem *TextureSystem
	logger        *log.Logger
}

func NewRenderableSystem(js *JobSystem, am *assets.AssetManager, ts *TextureSystem, logger *log.Logger) *RenderableSystem {
	return &RenderableSystem{
		jobSystem:     js,
		assetManager:  am,
		textureSystem: ts,
		logger:        logger,
	}
}

// LoadAsync fetches the model named by cfg. The renderable's material binds
// the model's base colour texture, or the builtin white diffuse texture when
// the model references none.
func (rs *RenderableSystem) LoadAsync(cfg metadata.RenderableConfig) *async.Future[*metadata.Renderable] {
	if err := cfg.Validate(); err != nil {
		return async.Rejected[*metadata.Renderable](err)
	}

	promise := async.NewPromise[*metadata.Renderable]()
	err := rs.jobSystem.Submit(metadata.JobTask{
		Name:    "renderable:" + cfg.Source,
		JobType: metadata.JOB_TYPE_RESOURCE_LOAD,
		Run: func() (interface{}, error) {
			return rs.load(cfg)
		},
		OnComplete: func(result interface{}) {
			r := rs.build(cfg, result.(*renderableLoadResult))
			rs.logger.Debug("renderable loaded", "source", cfg.Source, "vertices", r.Mesh.VertexCount(), "material", r.Material().Name)
			promise.Resolve(r)
		},
		OnFailure: func(err error) {
			promise.Reject(fmt.Errorf("load renderable '%s': %w", cfg.Source, err))
		},
	})
	if err != nil {
		promise.Reject(err)
	}
	return promise.Future()
}

// load runs on a worker.
func (rs *RenderableSystem) load(cfg metadata.RenderableConfig) (*renderableLoadResult, error) {
	res, err := rs.assetManager.LoadAsset(cfg.Source, nil)
	if err != nil {
		return nil, err
	}
	model, ok := res.Data.(*metadata.ModelResourceData)
	if !ok {
		return nil, fmt.Errorf("'%s' is not a model", cfg.Source)
	}

	texCfg := metadata.NewColorTextureConfig(defaultColorMapSource)
	fullPath := ""
	if model.BaseColourTexturePath != "" {
		fullPath = model.BaseColourTexturePath
		texCfg.Source = rs.textureLocator(fullPath)
	}
	colorMap, err := rs.textureSystem.decode(texCfg.Source, fullPath, texCfg)
	if err != nil {
		return nil, fmt.Errorf("base colour texture: %w", err)
	}
	return &renderableLoadResult{model: model, colorMap: colorMap}, nil
}

// build runs on the main thread.
func (rs *RenderableSystem) build(cfg metadata.RenderableConfig, result *renderableLoadResult) *metadata.Renderable {
	colorMap := rs.textureSystem.register(result.colorMap)

	model := result.model
	material := metadata.NewMaterial(model.MaterialName, model.BaseColour, metadata.ColorMapSlot)
	// The slot was just created, this cannot fail.
	_ = material.SetTexture(metadata.ColorMapSlot, colorMap)

	mesh := &metadata.Mesh{Name: model.Name, Geometries: model.Geometries}
	return metadata.NewRenderable(model.Name, cfg.Source, mesh, material)
}

// textureLocator names a model-referenced texture by its locator inside the
// assets directory when it lives there, by its absolute path otherwise.
func (rs *RenderableSystem) textureLocator(fullPath string) string {
	base := rs.assetManager.BasePath()
	if base == "" {
		return fullPath
	}
	rel, err := filepath.Rel(base, fullPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fullPath
	}
	return filepath.ToSlash(rel)
}
