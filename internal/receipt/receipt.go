// Package receipt normalizes user-supplied receipt images before they are
// sent to the extraction model.
package receipt

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"math"
	"strings"

	"golang.org/x/image/draw"

	_ "image/gif"
	_ "image/png"
)

const (
	// MaxImages is the most receipt images accepted per batch.
	MaxImages = 5

	// MaxDimension bounds both sides of a normalized image, in pixels.
	MaxDimension = 1600

	// JPEGQuality is the re-encode quality for normalized images.
	JPEGQuality = 70
)

// Image is a normalized receipt image, ready for transmission.
type Image struct {
	Data     []byte
	MIMEType string
}

// Batch collects raw image payloads up to MaxImages.
type Batch struct {
	raw [][]byte
}

// Add queues a raw image. It reports false, without error, once the batch is
// full; extra images are simply not accepted.
func (b *Batch) Add(raw []byte) bool {
	if len(b.raw) >= MaxImages {
		return false
	}

	b.raw = append(b.raw, raw)

	return true
}

func (b *Batch) Len() int {
	return len(b.raw)
}

// Normalize converts every queued image. A single undecodable image fails the
// whole batch; the error names the offending image.
func (b *Batch) Normalize() ([]Image, error) {
	images := make([]Image, 0, len(b.raw))

	for i, raw := range b.raw {
		img, err := Normalize(raw)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i+1, err)
		}

		images = append(images, img)
	}

	return images, nil
}

// DecodePayload decodes a base64 image payload, stripping an optional
// data-URL prefix ("data:image/png;base64,...").
func DecodePayload(payload string) ([]byte, error) {
	if idx := strings.Index(payload, ","); idx != -1 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decoding base64 payload: %w", err)
	}

	return raw, nil
}

// Normalize decodes a raw image, scales it proportionally so neither
// dimension exceeds MaxDimension, and re-encodes it as JPEG.
func Normalize(raw []byte) (Image, error) {
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return Image{}, fmt.Errorf("decoding image: %w", err)
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > MaxDimension || h > MaxDimension {
		scale := float64(MaxDimension) / float64(max(w, h))
		nw := int(math.Round(float64(w) * scale))
		nh := int(math.Round(float64(h) * scale))

		dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return Image{}, fmt.Errorf("encoding image: %w", err)
	}

	return Image{Data: buf.Bytes(), MIMEType: "image/jpeg"}, nil
}
