package imagefile

// WebP metadata stripping. There is no pure-Go WebP encoder, so unlike the
// other formats the pixel data cannot be re-encoded; instead the RIFF
// container is rewritten without its metadata chunks. The VP8/VP8L bitstream
// chunks pass through untouched, which keeps the operation lossless and
// byte-stable (running it twice yields identical output).

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrNotWebP is returned when the data is not a RIFF/WEBP container.
var ErrNotWebP = errors.New("not a WebP (RIFF) container")

// Metadata chunk FourCCs dropped from the container.
var webpMetaChunks = map[string]bool{
	"EXIF": true,
	"XMP ": true,
	"ICCP": true,
}

// VP8X feature flag bits for the chunks we drop.
const (
	vp8xICCFlag  = 0x20
	vp8xEXIFFlag = 0x08
	vp8xXMPFlag  = 0x04
)

// StripWebPMetadata rewrites a WebP container without EXIF, XMP and ICCP
// chunks, clearing the matching VP8X feature flags, and with the RIFF size
// field recomputed. Input that carries no metadata chunks is reproduced
// byte-identically.
func StripWebPMetadata(data []byte) ([]byte, error) {
	if Sniff(data) != FormatWebP {
		return nil, ErrNotWebP
	}

	var out bytes.Buffer
	out.Write(data[:4])                 // "RIFF"
	out.Write([]byte{0, 0, 0, 0})       // size, patched below
	out.Write(data[8:12])               // "WEBP"

	offset := 12
	for offset+8 <= len(data) {
		fourCC := string(data[offset : offset+4])
		size := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))

		// Chunks with odd payload sizes carry one pad byte.
		padded := size + size%2
		next := offset + 8 + padded
		if next < offset || offset+8+size > len(data) {
			return nil, fmt.Errorf("corrupt WebP chunk %q at offset %d", fourCC, offset)
		}

		if !webpMetaChunks[fourCC] {
			payload := data[offset+8 : offset+8+size]
			if fourCC == "VP8X" && size >= 1 {
				patched := make([]byte, size)
				copy(patched, payload)
				patched[0] &^= vp8xICCFlag | vp8xEXIFFlag | vp8xXMPFlag
				payload = patched
			}
			out.Write(data[offset : offset+8]) // FourCC + size
			out.Write(payload)
			if size%2 == 1 {
				out.WriteByte(0)
			}
		}
		offset = next
	}

	result := out.Bytes()
	binary.LittleEndian.PutUint32(result[4:8], uint32(len(result)-8))
	return result, nil
}
