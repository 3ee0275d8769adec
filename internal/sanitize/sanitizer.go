// Package sanitize implements the per-file cleaning core: trim trailing data
// past the end-of-image marker, decode the pixel data, and re-encode it
// without any ancillary metadata. Re-encoding from decoded pixels is the
// mechanism that discards EXIF/IPTC/XMP and every other metadata-like
// structure inside the stream; the trim step removes what hides after it.
package sanitize

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	"github.com/nfnt/resize"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"github.com/photoclean/photoclean/internal/imagefile"
)

// ErrUnsupportedFormat is returned for data that is not one of the supported
// image formats.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Options control the re-encode step.
type Options struct {
	JPEGQuality int // JPEG encode quality, 1-100.
	MaxEdge     int // When > 0, downscale so the longest edge is at most this. 0 disables.
}

// Result holds the cleaned bytes and what the cleaning did.
type Result struct {
	Data          []byte
	TrailingBytes int  // bytes discarded past the end-of-image marker
	Resized       bool // true when MaxEdge downscaling was applied
}

// Clean produces a metadata-free re-encoding of data in its own format.
// WebP is the exception: with no pure-Go WebP encoder available the pixel
// stream is validated by decoding and the RIFF container is rewritten
// without its metadata chunks instead.
func Clean(data []byte, format imagefile.Format, opts Options) (*Result, error) {
	trimmed := imagefile.TrimTrailing(data, format)
	res := &Result{TrailingBytes: len(data) - len(trimmed)}

	var err error
	switch format {
	case imagefile.FormatJPEG:
		res.Data, res.Resized, err = reencodeJPEG(trimmed, opts)
	case imagefile.FormatPNG:
		res.Data, res.Resized, err = reencodePNG(trimmed, opts)
	case imagefile.FormatGIF:
		res.Data, err = reencodeGIF(trimmed)
	case imagefile.FormatTIFF:
		res.Data, res.Resized, err = reencodeTIFF(trimmed, opts)
	case imagefile.FormatWebP:
		res.Data, err = rewriteWebP(trimmed)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func reencodeJPEG(data []byte, opts Options) ([]byte, bool, error) {
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("decode jpeg: %w", err)
	}
	img, resized := capEdge(img, opts.MaxEdge)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: opts.JPEGQuality}); err != nil {
		return nil, false, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), resized, nil
}

func reencodePNG(data []byte, opts Options) ([]byte, bool, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("decode png: %w", err)
	}
	img, resized := capEdge(img, opts.MaxEdge)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, false, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), resized, nil
}

// reencodeGIF round-trips the whole image sequence so animations survive.
// The encoder writes no comment, plain-text or application extensions other
// than the looping control, which drops everything ancillary. MaxEdge is not
// applied to GIFs: frames may be partial-canvas patches that cannot be
// scaled independently.
func reencodeGIF(data []byte) ([]byte, error) {
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode gif: %w", err)
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, g); err != nil {
		return nil, fmt.Errorf("encode gif: %w", err)
	}
	return buf.Bytes(), nil
}

func reencodeTIFF(data []byte, opts Options) ([]byte, bool, error) {
	img, err := tiff.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("decode tiff: %w", err)
	}
	img, resized := capEdge(img, opts.MaxEdge)

	var buf bytes.Buffer
	if err := tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate}); err != nil {
		return nil, false, fmt.Errorf("encode tiff: %w", err)
	}
	return buf.Bytes(), resized, nil
}

// rewriteWebP validates the pixel stream by decoding it, then strips
// metadata at the container level.
func rewriteWebP(data []byte) ([]byte, error) {
	if _, err := webp.Decode(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("decode webp: %w", err)
	}
	return imagefile.StripWebPMetadata(data)
}

// capEdge downscales img so its longest edge is at most maxEdge pixels,
// preserving aspect ratio. A maxEdge of 0 disables the cap.
func capEdge(img image.Image, maxEdge int) (image.Image, bool) {
	if maxEdge <= 0 {
		return img, false
	}
	b := img.Bounds()
	if b.Dx() <= maxEdge && b.Dy() <= maxEdge {
		return img, false
	}
	return resize.Thumbnail(uint(maxEdge), uint(maxEdge), img, resize.Lanczos3), true
}
