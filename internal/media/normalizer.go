package media

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// Image is a validated, possibly down-scaled payload ready for storage.
type Image struct {
	Data        []byte
	ContentType string
	Ext         string
	Width       int
	Height      int
}

// Normalizer validates uploads and shrinks images wider than MaxWidth.
// MaxPixels bounds width*height before any full decode.
type Normalizer struct {
	MaxWidth  int
	MaxBytes  int
	MaxPixels int
}

var contentTypes = map[imaging.Format]string{
	imaging.JPEG: "image/jpeg",
	imaging.PNG:  "image/png",
	imaging.GIF:  "image/gif",
	imaging.BMP:  "image/bmp",
	imaging.TIFF: "image/tiff",
}

// Normalize decodes data and re-encodes it in its own format when it needs
// resizing. Undecodable or oversized payloads wrap ErrRejected.
func (n Normalizer) Normalize(data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrRejected)
	}
	if n.MaxBytes > 0 && len(data) > n.MaxBytes {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", ErrRejected, n.MaxBytes)
	}

	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: unsupported image format", ErrRejected)
	}
	if n.MaxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(n.MaxPixels) {
		return nil, fmt.Errorf("%w: image exceeds %d pixels", ErrRejected, n.MaxPixels)
	}

	// WebP has a decoder but no encoder; oversized ones are re-encoded as JPEG.
	webp := name == "webp"
	format := imaging.JPEG
	out := &Image{Data: data, ContentType: "image/webp", Ext: "webp", Width: cfg.Width, Height: cfg.Height}
	if !webp {
		format, err = imaging.FormatFromExtension(name)
		if err != nil {
			return nil, fmt.Errorf("%w: unsupported image format %q", ErrRejected, name)
		}
		out.ContentType = contentTypes[format]
		out.Ext = extension(format)
	}
	if n.MaxWidth <= 0 || cfg.Width <= n.MaxWidth {
		return out, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode image", ErrRejected)
	}
	resized := imaging.Resize(img, n.MaxWidth, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("encode resized image: %w", err)
	}
	bounds := resized.Bounds()
	out.Data = buf.Bytes()
	out.ContentType = contentTypes[format]
	out.Ext = extension(format)
	out.Width = bounds.Dx()
	out.Height = bounds.Dy()
	return out, nil
}

func extension(format imaging.Format) string {
	switch format {
	case imaging.JPEG:
		return "jpg"
	case imaging.PNG:
		return "png"
	case imaging.GIF:
		return "gif"
	case imaging.BMP:
		return "bmp"
	default:
		return "tif"
	}
}
