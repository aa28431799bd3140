package loaders

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg" // Ensure decoders are present
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/spaghettifunk/setmaterial/engine/renderer/metadata"
)

type TextureLoader struct{}

func (tl *TextureLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	p, err := imageParams(params)
	if err != nil {
		return nil, err
	}

	// Open and decode the texture image file
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture %q: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode texture %q: %w", path, err)
	}

	data := imageResourceData(toRGBA(img), p)
	return &metadata.Resource{
		Name:     filepath.Base(path),
		FullPath: path,
		DataSize: uint64(len(data.Pixels)),
		Data:     data,
	}, nil
}

func (tl *TextureLoader) Unload(resource *metadata.Resource) error {
	unloadImage(resource)
	return nil
}

func imageParams(params interface{}) (*metadata.ImageResourceParams, error) {
	switch p := params.(type) {
	case nil:
		return &metadata.ImageResourceParams{}, nil
	case *metadata.ImageResourceParams:
		if p == nil {
			return &metadata.ImageResourceParams{}, nil
		}
		return p, nil
	default:
		return nil, fmt.Errorf("failed to cast params in texture loader: %T", params)
	}
}

func imageResourceData(rgba *image.RGBA, p *metadata.ImageResourceParams) *metadata.ImageResourceData {
	data := &metadata.ImageResourceData{
		ChannelCount: 4,
		Width:        uint32(rgba.Rect.Dx()),
		Height:       uint32(rgba.Rect.Dy()),
		Pixels:       rgba.Pix,
	}
	if p.GenerateMips {
		data.Mips = buildMipChain(rgba)
	}
	return data
}

func unloadImage(resource *metadata.Resource) {
	if resource == nil {
		return
	}
	if data, ok := resource.Data.(*metadata.ImageResourceData); ok {
		data.Pixels = nil
		data.Mips = nil
	}
	resource.Data = nil
	resource.DataSize = 0
}

// toRGBA returns img as a tightly packed RGBA8 image whose bounds start at
// the origin.
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) && rgba.Stride == 4*b.Dx() {
		return rgba
	}
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// buildMipChain returns levels 1..n, each half the size of the previous one
// (never below 1 pixel), down to 1x1.
func buildMipChain(base *image.RGBA) [][]uint8 {
	w, h := base.Rect.Dx(), base.Rect.Dy()
	var levels [][]uint8
	current := base
	for w > 1 || h > 1 {
		w = max(1, w/2)
		h = max(1, h/2)
		scaled := toRGBA(resize.Resize(uint(w), uint(h), current, resize.Bilinear))
		levels = append(levels, scaled.Pix)
		current = scaled
	}
	return levels
}

// MipLevelCount is the number of levels of a full chain for a w x h image,
// the base level included.
func MipLevelCount(w, h uint32) int {
	n := 1
	for w > 1 || h > 1 {
		w = max(1, w/2)
		h = max(1, h/2)
		n++
	}
	return n
}
