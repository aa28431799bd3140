package systems

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/spaghettifunk/setmaterial/engine/async"
	"github.com/spaghettifunk/setmaterial/engine/core"
	"github.com/spaghettifunk/setmaterial/engine/renderer/metadata"
)

var errNoMaterial = errors.New("renderable has no material")

// LoadBundle is the joined result of a material load. It only exists once
// the renderable and both textures loaded.
type LoadBundle struct {
	model            *metadata.Renderable
	alternateTexture *metadata.Texture
	defaultTexture   *metadata.Texture
}

func (b *LoadBundle) Model() *metadata.Renderable {
	return b.model
}

// Material is the material of the loaded model.
func (b *LoadBundle) Material() *metadata.Material {
	return b.model.Material()
}

func (b *LoadBundle) AlternateTexture() *metadata.Texture {
	return b.alternateTexture
}

func (b *LoadBundle) DefaultTexture() *metadata.Texture {
	return b.defaultTexture
}

// AssetLoader fetches a renderable and two colour textures concurrently and
// joins them into a LoadBundle.
type AssetLoader struct {
	pipeline ResourcePipeline
	logger   *log.Logger
}

func NewAssetLoader(pipeline ResourcePipeline, logger *log.Logger) *AssetLoader {
	return &AssetLoader{
		pipeline: pipeline,
		logger:   logger,
	}
}

// Load starts the three fetches and returns a future for the bundle. A
// missing source is reported synchronously and nothing is fetched. The
// future fails with the first *core.ResourceLoadError observed.
func (al *AssetLoader) Load(modelSource, alternateTextureSource, defaultTextureSource string) (*async.Future[*LoadBundle], error) {
	switch {
	case modelSource == "":
		return nil, &core.PreconditionError{Field: "model source"}
	case alternateTextureSource == "":
		return nil, &core.PreconditionError{Field: "alternate texture source"}
	case defaultTextureSource == "":
		return nil, &core.PreconditionError{Field: "default texture source"}
	}

	clock := core.NewClock()
	clock.Start()

	model := async.MapError(
		al.pipeline.LoadRenderable(metadata.RenderableConfig{Source: modelSource}),
		al.loadFailure(core.ResourceKindRenderable, modelSource),
	)
	alternate := async.MapError(
		al.pipeline.LoadTexture(metadata.NewColorTextureConfig(alternateTextureSource)),
		al.loadFailure(core.ResourceKindAlternateTexture, alternateTextureSource),
	)
	def := async.MapError(
		al.pipeline.LoadTexture(metadata.NewColorTextureConfig(defaultTextureSource)),
		al.loadFailure(core.ResourceKindDefaultTexture, defaultTextureSource),
	)

	joined := async.All(model, alternate, def)
	return async.Map(joined, func(struct{}) (*LoadBundle, error) {
		renderable, _ := model.Result()
		if err := checkColorMapSlot(renderable); err != nil {
			al.logger.Error("unable to load renderable", "source", modelSource, "err", err)
			return nil, &core.ResourceLoadError{Kind: core.ResourceKindRenderable, Source: modelSource, Err: err}
		}
		alternateTexture, _ := alternate.Result()
		defaultTexture, _ := def.Result()

		clock.Update()
		al.logger.Info("material resources loaded",
			"model", modelSource,
			"alternate", alternateTextureSource,
			"default", defaultTextureSource,
			"elapsed", clock.Elapsed(),
		)
		return &LoadBundle{
			model:            renderable,
			alternateTexture: alternateTexture,
			defaultTexture:   defaultTexture,
		}, nil
	}), nil
}

func (al *AssetLoader) loadFailure(kind core.ResourceKind, source string) func(error) error {
	return func(err error) error {
		al.logger.Error(fmt.Sprintf("unable to load %s", kind), "source", source, "err", err)
		return &core.ResourceLoadError{Kind: kind, Source: source, Err: err}
	}
}

func checkColorMapSlot(r *metadata.Renderable) error {
	if r == nil || r.Material() == nil {
		return errNoMaterial
	}
	if !r.Material().HasSlot(metadata.ColorMapSlot) {
		return fmt.Errorf("%w: material '%s' has no slot '%s'", metadata.ErrUnknownTextureSlot, r.Material().Name, metadata.ColorMapSlot)
	}
	return nil
}
