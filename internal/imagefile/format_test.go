package imagefile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestByExtension(t *testing.T) {
	tests := []struct {
		name string
		path string
		want Format
	}{
		{"jpg", "photos/a.jpg", FormatJPEG},
		{"jpeg", "a.jpeg", FormatJPEG},
		{"uppercase", "A.JPG", FormatJPEG},
		{"png", "sub/b.png", FormatPNG},
		{"gif", "anim.gif", FormatGIF},
		{"tif", "scan.tif", FormatTIFF},
		{"tiff", "scan.tiff", FormatTIFF},
		{"webp", "web.webp", FormatWebP},
		{"unsupported", "doc.pdf", FormatUnknown},
		{"no extension", "README", FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ByExtension(tt.path))
		})
	}
}

func TestSniff(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}, FormatJPEG},
		{"png", append([]byte("\x89PNG\r\n\x1a\n"), 0, 0, 0, 13), FormatPNG},
		{"gif87a", []byte("GIF87a......"), FormatGIF},
		{"gif89a", []byte("GIF89a......"), FormatGIF},
		{"tiff little-endian", []byte{0x49, 0x49, 0x2A, 0x00, 8, 0, 0, 0}, FormatTIFF},
		{"tiff big-endian", []byte{0x4D, 0x4D, 0x00, 0x2A, 0, 0, 0, 8}, FormatTIFF},
		{"webp", []byte("RIFF\x04\x00\x00\x00WEBP"), FormatWebP},
		{"riff but not webp", []byte("RIFF\x04\x00\x00\x00WAVE"), FormatUnknown},
		{"text", []byte("hello world"), FormatUnknown},
		{"empty", nil, FormatUnknown},
		{"truncated riff", []byte("RIFF"), FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sniff(tt.data))
		})
	}
}
