package metadata

import "github.com/spaghettifunk/setmaterial/engine/math"

/**
 * @brief A structure to hold image resource data.
 */
type ImageResourceData struct {
	/** @brief The number of channels. */
	ChannelCount uint8
	/** @brief The width of the image. */
	Width uint32
	/** @brief The height of the image. */
	Height uint32
	/** @brief The pixel data of the image, RGBA8, row-major. */
	Pixels []uint8
	/** @brief Downscaled levels 1..n, empty unless mips were requested. */
	Mips [][]uint8
}

/** @brief Parameters used when loading an image. */
type ImageResourceParams struct {
	/** @brief Indicates if a full mip chain should be generated. */
	GenerateMips bool
}

/**
 * @brief What a model loader produces: geometry plus the material description
 * of the first material referenced by the meshes.
 */
type ModelResourceData struct {
	Name       string
	Geometries []*Geometry
	/** @brief Name of the material, DefaultMaterialName when the file has none. */
	MaterialName string
	/** @brief Base colour factor of the material. */
	BaseColour math.Vec4
	/** @brief Absolute path of the base colour texture, empty when none is referenced. */
	BaseColourTexturePath string
}
