// Package imagex shrinks base64-encoded receipt photos so a whole receipt
// document stays under the remote store's per-document size limit. Local
// storage has no such limit, so normalization only happens on the way out.
package imagex

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/jpeg"

	_ "image/png"

	"golang.org/x/image/draw"
)

// Options bound the encoded payload size and the downscale parameters.
type Options struct {
	// MaxEncodedBytes is the ceiling for the base64-encoded payload.
	// Payloads at or under it pass through untouched.
	MaxEncodedBytes int
	// MaxDimension caps the longer image side, preserving aspect ratio.
	MaxDimension int
	// Quality is the JPEG re-encode quality (1-100).
	Quality int
}

// DefaultOptions leaves headroom under a ~1 MB per-document limit for the
// rest of the record.
func DefaultOptions() Options {
	return Options{
		MaxEncodedBytes: 700 * 1024,
		MaxDimension:    1000,
		Quality:         60,
	}
}

// Normalize returns the payload unchanged when it already fits. Otherwise it
// decodes, scales the longer side down to MaxDimension and re-encodes as JPEG
// at reduced quality, trading quality for a successful remote write. When the
// payload cannot be decoded, the original is returned unchanged and the
// caller inherits the risk of an oversized remote write.
func Normalize(encoded string, opts Options) string {
	if opts.MaxEncodedBytes <= 0 {
		opts = DefaultOptions()
	}
	if len(encoded) <= opts.MaxEncodedBytes {
		return encoded
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return encoded
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return encoded
	}

	scaled := scaleDown(img, opts.MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: opts.Quality}); err != nil {
		return encoded
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

// scaleDown constrains the longer side to maxDim, preserving aspect ratio.
// Images already within the bound are re-encoded as-is.
func scaleDown(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	longer := w
	if h > longer {
		longer = h
	}
	if maxDim <= 0 || longer <= maxDim {
		return img
	}

	scale := float64(maxDim) / float64(longer)
	dw := int(float64(w)*scale + 0.5)
	dh := int(float64(h)*scale + 0.5)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
