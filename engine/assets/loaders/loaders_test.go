package loaders

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"

	"github.com/spaghettifunk/setmaterial/engine/assets/assetstest"
	"github.com/spaghettifunk/setmaterial/engine/renderer/metadata"
)

func TestTextureLoaderDecodesPNG(t *testing.T) {
	dir := t.TempDir()
	path := assetstest.WritePNG(t, dir, "red.png", 8, 4, color.RGBA{R: 255, A: 255})

	res, err := (&TextureLoader{}).Load(path, metadata.ResourceTypeImage, &metadata.ImageResourceParams{GenerateMips: true})
	test.That(t, err, test.ShouldBeNil)
	data := res.Data.(*metadata.ImageResourceData)
	test.That(t, data.Width, test.ShouldEqual, 8)
	test.That(t, data.Height, test.ShouldEqual, 4)
	test.That(t, data.ChannelCount, test.ShouldEqual, 4)
	test.That(t, len(data.Pixels), test.ShouldEqual, 8*4*4)
	test.That(t, data.Pixels[:4], test.ShouldResemble, []uint8{255, 0, 0, 255})
	// 4x2, 2x1, 1x1
	test.That(t, len(data.Mips), test.ShouldEqual, MipLevelCount(8, 4)-1)
	test.That(t, len(data.Mips[len(data.Mips)-1]), test.ShouldEqual, 4)

	test.That(t, (&TextureLoader{}).Unload(res), test.ShouldBeNil)
	test.That(t, res.Data, test.ShouldBeNil)
}

func TestTextureLoaderKeepsRowOrder(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(0, 1, color.RGBA{B: 255, A: 255})
	path := filepath.Join(t.TempDir(), "rows.png")
	f, err := os.Create(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, png.Encode(f, img), test.ShouldBeNil)
	test.That(t, f.Close(), test.ShouldBeNil)

	res, err := (&TextureLoader{}).Load(path, metadata.ResourceTypeImage, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Data.(*metadata.ImageResourceData).Pixels, test.ShouldResemble, []uint8{255, 0, 0, 255, 0, 0, 255, 255})
}

func TestTextureLoaderParams(t *testing.T) {
	dir := t.TempDir()
	path := assetstest.WritePNG(t, dir, "rows.png", 1, 2, color.RGBA{G: 255, A: 255})
	res, err := (&TextureLoader{}).Load(path, metadata.ResourceTypeImage, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Data.(*metadata.ImageResourceData).Mips, test.ShouldBeEmpty)

	_, err = (&TextureLoader{}).Load(path, metadata.ResourceTypeImage, "bogus")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestTextureLoaderRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.png")
	test.That(t, os.WriteFile(path, []byte("not an image"), 0o644), test.ShouldBeNil)

	_, err := (&TextureLoader{}).Load(path, metadata.ResourceTypeImage, nil)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = (&TextureLoader{}).Load(filepath.Join(dir, "missing.png"), metadata.ResourceTypeImage, nil)
	test.That(t, errors.Is(err, os.ErrNotExist), test.ShouldBeTrue)
}

func TestMipLevelCount(t *testing.T) {
	test.That(t, MipLevelCount(1, 1), test.ShouldEqual, 1)
	test.That(t, MipLevelCount(256, 256), test.ShouldEqual, 9)
	test.That(t, MipLevelCount(16, 1), test.ShouldEqual, 5)
}

func TestBuiltinTextures(t *testing.T) {
	bl := &BuiltinTextureLoader{}
	for name, first := range map[string][]uint8{
		metadata.DEFAULT_TEXTURE_NAME:          {0, 0, 255, 255},
		metadata.DEFAULT_DIFFUSE_TEXTURE_NAME:  {255, 255, 255, 255},
		metadata.DEFAULT_SPECULAR_TEXTURE_NAME: {0, 0, 0, 255},
		metadata.DEFAULT_NORMAL_TEXTURE_NAME:   {128, 128, 255, 255},
	} {
		res, err := bl.Load(metadata.BuiltinScheme+name, metadata.ResourceTypeBuiltinTexture, nil)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, res.Name, test.ShouldEqual, name)
		test.That(t, res.Data.(*metadata.ImageResourceData).Pixels[:4], test.ShouldResemble, first)
	}

	_, err := bl.Load(metadata.BuiltinScheme+"nope", metadata.ResourceTypeBuiltinTexture, nil)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestModelLoaderReadsQuad(t *testing.T) {
	dir := t.TempDir()
	path := assetstest.WriteQuadModel(t, dir, "board.glb", assetstest.ModelOptions{
		MaterialName: "Board",
		BaseColour:   &[4]float64{0.5, 2, -1, 1},
		TextureURI:   "textures/board.png",
	})

	res, err := (&ModelLoader{}).Load(path, metadata.ResourceTypeModel, nil)
	test.That(t, err, test.ShouldBeNil)
	data := res.Data.(*metadata.ModelResourceData)
	test.That(t, data.Name, test.ShouldEqual, "board")
	test.That(t, data.Geometries, test.ShouldHaveLength, 1)
	g := data.Geometries[0]
	test.That(t, g.Vertices, test.ShouldHaveLength, 4)
	test.That(t, g.Indices, test.ShouldResemble, []uint32{0, 1, 2, 0, 2, 3})
	test.That(t, g.Extents.Max.X, test.ShouldEqual, 1)
	test.That(t, g.Vertices[2].Texcoord.Y, test.ShouldEqual, 1)

	test.That(t, data.MaterialName, test.ShouldEqual, "Board")
	test.That(t, data.BaseColour.X, test.ShouldEqual, 0.5)
	test.That(t, data.BaseColour.Y, test.ShouldEqual, 1)
	test.That(t, data.BaseColour.Z, test.ShouldEqual, 0)
	test.That(t, data.BaseColourTexturePath, test.ShouldEqual, filepath.Join(dir, "textures", "board.png"))
}

func TestModelLoaderWithoutMaterial(t *testing.T) {
	dir := t.TempDir()
	path := assetstest.WriteQuadModel(t, dir, "plain.glb", assetstest.ModelOptions{})

	res, err := (&ModelLoader{}).Load(path, metadata.ResourceTypeModel, nil)
	test.That(t, err, test.ShouldBeNil)
	data := res.Data.(*metadata.ModelResourceData)
	test.That(t, data.MaterialName, test.ShouldEqual, metadata.DefaultMaterialName)
	test.That(t, data.BaseColourTexturePath, test.ShouldBeEmpty)
	test.That(t, data.BaseColour.W, test.ShouldEqual, 1)
}

func TestModelLoaderRejectsEmptyDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.gltf")
	test.That(t, os.WriteFile(path, []byte(`{"asset":{"version":"2.0"}}`), 0o644), test.ShouldBeNil)

	_, err := (&ModelLoader{}).Load(path, metadata.ResourceTypeModel, nil)
	test.That(t, errors.Is(err, ErrNoGeometry), test.ShouldBeTrue)
}

func TestModelLoaderRejectsBadAccessors(t *testing.T) {
	for name, doc := range map[string]string{
		"position": `{"asset":{"version":"2.0"},"meshes":[{"primitives":[{"attributes":{"POSITION":5}}]}]}`,
		"indices": `{"asset":{"version":"2.0"},
			"accessors":[{"componentType":5126,"count":3,"type":"VEC3"}],
			"meshes":[{"primitives":[{"attributes":{"POSITION":0},"indices":7}]}]}`,
		"buffer view": `{"asset":{"version":"2.0"},
			"accessors":[{"bufferView":3,"componentType":5126,"count":3,"type":"VEC3"}],
			"meshes":[{"primitives":[{"attributes":{"POSITION":0}}]}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "broken.gltf")
			test.That(t, os.WriteFile(path, []byte(doc), 0o644), test.ShouldBeNil)

			res, err := (&ModelLoader{}).Load(path, metadata.ResourceTypeModel, nil)
			test.That(t, res, test.ShouldBeNil)
			test.That(t, errors.Is(err, ErrBadAccessor), test.ShouldBeTrue)
		})
	}
}
