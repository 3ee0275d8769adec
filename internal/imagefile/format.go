// Package imagefile provides low-level knowledge about the supported image
// containers: format detection, trailing-data trimming past the end-of-image
// marker, JPEG ancillary-segment inspection, and WebP RIFF chunk filtering.
// Pixel decode/encode lives in the sanitize package; this package only ever
// looks at container structure.
package imagefile

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Format identifies one of the supported image container formats.
type Format string

const (
	FormatJPEG    Format = "jpeg"
	FormatPNG     Format = "png"
	FormatGIF     Format = "gif"
	FormatTIFF    Format = "tiff"
	FormatWebP    Format = "webp"
	FormatUnknown Format = ""
)

// Extensions maps recognized file extensions (lowercase, with leading dot)
// to their format. Used by discovery to build the target set.
var Extensions = map[string]Format{
	".jpg":  FormatJPEG,
	".jpeg": FormatJPEG,
	".png":  FormatPNG,
	".gif":  FormatGIF,
	".tif":  FormatTIFF,
	".tiff": FormatTIFF,
	".webp": FormatWebP,
}

// ByExtension returns the format implied by the path's extension, or
// FormatUnknown when the extension is not recognized.
func ByExtension(path string) Format {
	return Extensions[strings.ToLower(filepath.Ext(path))]
}

// Magic byte prefixes per format.
var (
	magicJPEG    = []byte{0xFF, 0xD8, 0xFF}
	magicPNG     = []byte("\x89PNG\r\n\x1a\n")
	magicGIF87   = []byte("GIF87a")
	magicGIF89   = []byte("GIF89a")
	magicTIFFLE  = []byte{0x49, 0x49, 0x2A, 0x00} // "II*\0", little-endian
	magicTIFFBE  = []byte{0x4D, 0x4D, 0x00, 0x2A} // "MM\0*", big-endian
	magicRIFF    = []byte("RIFF")
	magicWebPTag = []byte("WEBP") // at offset 8 inside a RIFF container
)

// Sniff identifies the format from the file's leading magic bytes, or
// FormatUnknown. A file whose extension lies about its content is classified
// by what it actually is, not what it is named.
func Sniff(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, magicJPEG):
		return FormatJPEG
	case bytes.HasPrefix(data, magicPNG):
		return FormatPNG
	case bytes.HasPrefix(data, magicGIF87), bytes.HasPrefix(data, magicGIF89):
		return FormatGIF
	case bytes.HasPrefix(data, magicTIFFLE), bytes.HasPrefix(data, magicTIFFBE):
		return FormatTIFF
	case bytes.HasPrefix(data, magicRIFF) && len(data) >= 12 && bytes.Equal(data[8:12], magicWebPTag):
		return FormatWebP
	}
	return FormatUnknown
}
