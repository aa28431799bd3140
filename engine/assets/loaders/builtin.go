package loaders

import (
	"fmt"
	"image"
	"strings"

	"github.com/spaghettifunk/setmaterial/engine/renderer/metadata"
)

// BuiltinTextureLoader produces the default textures in code, so a material
// always has something to bind even when no asset is on disk.
type BuiltinTextureLoader struct{}

func (bl *BuiltinTextureLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	p, err := imageParams(params)
	if err != nil {
		return nil, err
	}

	name := strings.TrimPrefix(path, metadata.BuiltinScheme)
	var rgba *image.RGBA
	switch name {
	case metadata.DEFAULT_TEXTURE_NAME:
		rgba = checkerboard(256)
	case metadata.DEFAULT_DIFFUSE_TEXTURE_NAME:
		// Default diffuse map is all white.
		rgba = solid(16, 255, 255, 255, 255)
	case metadata.DEFAULT_SPECULAR_TEXTURE_NAME:
		// Default specular map is black (no specular)
		rgba = solid(16, 0, 0, 0, 255)
	case metadata.DEFAULT_NORMAL_TEXTURE_NAME:
		// Set blue, z-axis by default and alpha.
		rgba = solid(16, 128, 128, 255, 255)
	default:
		return nil, fmt.Errorf("unknown builtin texture '%s'", name)
	}

	data := imageResourceData(rgba, p)
	return &metadata.Resource{
		Name:     name,
		FullPath: path,
		DataSize: uint64(len(data.Pixels)),
		Data:     data,
	}, nil
}

func (bl *BuiltinTextureLoader) Unload(resource *metadata.Resource) error {
	unloadImage(resource)
	return nil
}

// checkerboard is a blue/white pattern alternating every pixel.
func checkerboard(dimension int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, dimension, dimension))
	for row := 0; row < dimension; row++ {
		for col := 0; col < dimension; col++ {
			i := img.PixOffset(col, row)
			img.Pix[i+0] = 255
			img.Pix[i+1] = 255
			img.Pix[i+2] = 255
			img.Pix[i+3] = 255
			if row%2 == col%2 {
				img.Pix[i+0] = 0
				img.Pix[i+1] = 0
			}
		}
	}
	return img
}

func solid(dimension int, r, g, b, a uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, dimension, dimension))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	return img
}
