package metadata

import (
	"errors"
	"testing"

	"go.viam.com/test"
)

func TestNewColorTextureConfig(t *testing.T) {
	cfg := NewColorTextureConfig("textures/board.png")
	test.That(t, cfg.Usage, test.ShouldEqual, TextureUsageColor)
	test.That(t, cfg.MagFilter, test.ShouldEqual, TextureFilterModeLinear)
	test.That(t, cfg.MinFilter, test.ShouldEqual, TextureFilterModeLinearMipmapLinear)
	test.That(t, cfg.MinFilter.UsesMipmaps(), test.ShouldBeTrue)
	test.That(t, cfg.Validate(), test.ShouldBeNil)
	test.That(t, cfg.IsBuiltin(), test.ShouldBeFalse)
	test.That(t, NewColorTextureConfig(BuiltinScheme+DEFAULT_DIFFUSE_TEXTURE_NAME).IsBuiltin(), test.ShouldBeTrue)
}

func TestTextureConfigValidate(t *testing.T) {
	err := NewColorTextureConfig("  ").Validate()
	test.That(t, errors.Is(err, ErrInvalidConfig), test.ShouldBeTrue)

	cfg := NewColorTextureConfig("textures/board.png")
	cfg.MagFilter = TextureFilterModeLinearMipmapLinear
	err = cfg.Validate()
	test.That(t, errors.Is(err, ErrInvalidConfig), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "linear_mipmap_linear")
}

func TestTexturePixels(t *testing.T) {
	test.That(t, (&Texture{}).Pixels(), test.ShouldBeNil)
	tex := &Texture{MipLevels: [][]uint8{{1, 2, 3, 4}, {5}}}
	test.That(t, tex.Pixels(), test.ShouldResemble, []uint8{1, 2, 3, 4})
}
