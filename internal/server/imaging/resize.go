// Package imaging renders width-bounded thumbnails.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	"github.com/nfnt/resize"
)

// JPEGQuality is used for every JPEG derivative.
const JPEGQuality = 80

var (
	ErrInvalidWidth = errors.New("width must be positive")
	ErrUndecodable  = errors.New("content is not a decodable image")
)

// Resize decodes data, scales it to width keeping the aspect ratio and
// re-encodes it in the source format. GIFs are re-encoded as a single frame.
func Resize(data []byte, width int) ([]byte, error) {
	if width <= 0 {
		return nil, ErrInvalidWidth
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}

	thumb := resize.Resize(uint(width), 0, img, resize.Lanczos3)

	var buf bytes.Buffer
	switch format {
	case "png":
		err = png.Encode(&buf, thumb)
	case "gif":
		err = gif.Encode(&buf, thumb, nil)
	default:
		err = jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: JPEGQuality})
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}
	return buf.Bytes(), nil
}
