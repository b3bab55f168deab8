package renderer

import (
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/lmittmann/ppm"
	"github.com/pkg/errors"
)

// SaveImage writes img to path. The format follows the extension: .ppm is
// written as binary PPM, everything else as understood by imaging (png, jpg,
// gif, tif, bmp).
func SaveImage(img image.Image, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "creating output directory %s", dir)
		}
	}

	if strings.EqualFold(filepath.Ext(path), ".ppm") {
		return savePPM(img, path)
	}
	if err := imaging.Save(img, path); err != nil {
		return errors.Wrapf(err, "saving %s", path)
	}
	return nil
}

func savePPM(img image.Image, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer func() {
		if closeErr := f.Close(); err == nil && closeErr != nil {
			err = errors.Wrapf(closeErr, "closing %s", path)
		}
	}()

	if err := ppm.Encode(f, img); err != nil {
		return errors.Wrapf(err, "encoding %s", path)
	}
	return nil
}
