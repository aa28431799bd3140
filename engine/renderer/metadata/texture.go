package metadata

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	/** @brief The default texture name. */
	DEFAULT_TEXTURE_NAME string = "default"
	/** @brief The default diffuse texture name. */
	DEFAULT_DIFFUSE_TEXTURE_NAME string = "default_DIFF"
	/** @brief The default specular texture name. */
	DEFAULT_SPECULAR_TEXTURE_NAME string = "default_SPEC"
	/** @brief The default normal texture name. */
	DEFAULT_NORMAL_TEXTURE_NAME string = "default_NORM"
)

/** @brief Locator prefix for textures generated in code rather than read from disk. */
const BuiltinScheme string = "builtin://"

/** @brief Declared usage of a texture, mirrors how the sampler treats the data. */
type TextureUsage int

const (
	/** @brief Colour data, sampled as sRGB base colour. */
	TextureUsageColor TextureUsage = iota
	/** @brief Normal map data. */
	TextureUsageNormalMap
	/** @brief Arbitrary non-colour data. */
	TextureUsageData
)

func (u TextureUsage) String() string {
	switch u {
	case TextureUsageColor:
		return "color"
	case TextureUsageNormalMap:
		return "normal_map"
	case TextureUsageData:
		return "data"
	default:
		return fmt.Sprintf("TextureUsage(%d)", int(u))
	}
}

/** @brief Represents supported texture filtering modes. */
type TextureFilter int

const (
	/** @brief Nearest-neighbor filtering. */
	TextureFilterModeNearest TextureFilter = iota
	/** @brief Linear (i.e. bilinear) filtering.*/
	TextureFilterModeLinear
	/** @brief Nearest texel of the nearest mip level. Minification only. */
	TextureFilterModeNearestMipmapNearest
	/** @brief Linear within a level, linear between levels. Minification only. */
	TextureFilterModeLinearMipmapLinear
)

func (f TextureFilter) String() string {
	switch f {
	case TextureFilterModeNearest:
		return "nearest"
	case TextureFilterModeLinear:
		return "linear"
	case TextureFilterModeNearestMipmapNearest:
		return "nearest_mipmap_nearest"
	case TextureFilterModeLinearMipmapLinear:
		return "linear_mipmap_linear"
	default:
		return fmt.Sprintf("TextureFilter(%d)", int(f))
	}
}

// UsesMipmaps reports whether sampling with f needs a mip chain.
func (f TextureFilter) UsesMipmaps() bool {
	return f == TextureFilterModeNearestMipmapNearest || f == TextureFilterModeLinearMipmapLinear
}

/**
 * @brief Everything the fetch pipeline needs to produce a texture. Built up
 * front and passed by value; nothing mutates it afterwards.
 */
type TextureConfig struct {
	/** @brief Content locator: a path inside the assets directory or builtin://<name>. */
	Source string
	/** @brief Declared usage of the texture data. */
	Usage TextureUsage
	/** @brief Texture filtering mode for magnification. */
	MagFilter TextureFilter
	/** @brief Texture filtering mode for minification. */
	MinFilter TextureFilter
}

// NewColorTextureConfig returns the configuration used for colour maps:
// linear magnification and trilinear minification.
func NewColorTextureConfig(source string) TextureConfig {
	return TextureConfig{
		Source:    source,
		Usage:     TextureUsageColor,
		MagFilter: TextureFilterModeLinear,
		MinFilter: TextureFilterModeLinearMipmapLinear,
	}
}

func (c TextureConfig) Validate() error {
	if strings.TrimSpace(c.Source) == "" {
		return fmt.Errorf("%w: texture source is required", ErrInvalidConfig)
	}
	if c.MagFilter.UsesMipmaps() {
		return fmt.Errorf("%w: magnification filter '%s' cannot use mipmaps", ErrInvalidConfig, c.MagFilter)
	}
	return nil
}

// IsBuiltin reports whether the source names an in-code texture.
func (c TextureConfig) IsBuiltin() bool {
	return strings.HasPrefix(c.Source, BuiltinScheme)
}

/**
 * @brief Represents a decoded texture, ready for upload.
 */
type Texture struct {
	/** @brief The unique texture identifier. */
	ID uuid.UUID
	/** @brief The texture Name. */
	Name string
	/** @brief The locator the texture was loaded from. */
	Source string
	/** @brief The texture Width. */
	Width uint32
	/** @brief The texture Height. */
	Height uint32
	/** @brief The number of channels in the texture. */
	ChannelCount uint8
	/** @brief Declared usage. */
	Usage TextureUsage
	/** @brief Texture filtering mode for magnification. */
	MagFilter TextureFilter
	/** @brief Texture filtering mode for minification. */
	MinFilter TextureFilter
	/** @brief Pixel data per mip level. Level 0 is the full-size image. */
	MipLevels [][]uint8
	/** @brief The texture Generation. Incremented every time the data is reloaded. */
	Generation uint32
}

// Pixels returns the level 0 pixel data.
func (t *Texture) Pixels() []uint8 {
	if len(t.MipLevels) == 0 {
		return nil
	}
	return t.MipLevels[0]
}
