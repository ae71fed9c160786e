package storage

import (
	"bytes"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	MaxImageSide = 1024
	jpegQuality  = 85
)

var ErrNotAnImage = errors.New("file is not a supported image")

// PrepareImage decodes an uploaded image, applies its EXIF orientation,
// shrinks it to fit MaxImageSide and re-encodes it as JPEG. It returns the
// new bytes, filename and content type.
func PrepareImage(data []byte, filename string) ([]byte, string, string, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", "", fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}

	b := img.Bounds()
	if b.Dx() > MaxImageSide || b.Dy() > MaxImageSide {
		img = imaging.Fit(img, MaxImageSide, MaxImageSide, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, "", "", fmt.Errorf("encode image: %w", err)
	}

	name := strings.TrimSuffix(filename, path.Ext(filename)) + ".jpg"
	return buf.Bytes(), name, "image/jpeg", nil
}
