package loaders

import (
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/disintegration/imaging"
	_ "github.com/lmittmann/ppm" // register ppm
	"github.com/pkg/errors"
)

// LoadTexture decodes a PNG, JPEG, GIF, BMP, TIFF or PPM image into an image
// texture. The same loader serves diffuse textures and bump maps.
func LoadTexture(filename string) (*material.ImageTexture, error) {
	img, err := imaging.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load texture %s", filename)
	}
	if img.Bounds().Empty() {
		return nil, errors.Errorf("texture %s has no pixels", filename)
	}
	return material.NewImageTextureFromImage(img), nil
}
