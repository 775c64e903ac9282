package storage

import (
	"fmt"

	"github.com/h2non/bimg"
)

const (
	maxImageWidth  = 1920
	maxImageHeight = 1080
	jpegQuality    = 85
)

// normalizeImage re-encodes an uploaded image for storage: alpha is dropped
// (JPEG has no alpha channel), the image is downscaled to fit within
// 1920x1080 preserving aspect ratio, and output is JPEG quality 85.
// Images already inside the bounding box keep their dimensions.
func normalizeImage(data []byte) ([]byte, error) {
	img := bimg.NewImage(data)

	size, err := img.Size()
	if err != nil {
		return nil, fmt.Errorf("image decode: %w", err)
	}

	w, h := fitWithin(size.Width, size.Height, maxImageWidth, maxImageHeight)

	out, err := img.Process(bimg.Options{
		Width:   w,
		Height:  h,
		Type:    bimg.JPEG,
		Quality: jpegQuality,
	})
	if err != nil {
		return nil, fmt.Errorf("image process: %w", err)
	}

	return out, nil
}

// fitWithin returns dimensions scaled down to fit (maxW, maxH) while keeping
// the aspect ratio. Dimensions already within the box are returned unchanged;
// images are never upscaled.
func fitWithin(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}

	scaleW := float64(maxW) / float64(w)
	scaleH := float64(maxH) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}

	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}
	return newW, newH
}
