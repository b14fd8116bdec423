package inkwell

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"math"
	"math/rand/v2"

	"golang.org/x/image/draw"
)

const (
	maxImageDim = 1200
	jpegQuality = 70
)

// EncodeImage runs the image ingestion pipeline: decode src, downscale so
// neither axis exceeds maxImageDim while preserving aspect ratio, re-encode as
// JPEG, and return a self-contained data URI usable directly as an image
// source. The original bytes are not retained.
func EncodeImage(src io.Reader) (string, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	img = downscale(img)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// downscale resizes img so that width and height both fit within maxImageDim.
// Smaller images pass through untouched; it never upscales.
func downscale(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxImageDim && h <= maxImageDim {
		return img
	}

	ratio := math.Min(float64(maxImageDim)/float64(w), float64(maxImageDim)/float64(h))
	newW := int(math.Round(float64(w) * ratio))
	newH := int(math.Round(float64(h) * ratio))

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// PlaceholderImageURL returns a randomized stock-photo reference, used when no
// image is supplied or when decoding fails. The random component defeats
// cache collisions between posts.
func PlaceholderImageURL() string {
	return fmt.Sprintf("https://picsum.photos/800/400?random=%d", rand.Int64())
}
