package imagefile

// This file implements trailing-data trimming: discarding bytes appended
// after a format's end-of-image marker, which is where hidden payloads are
// commonly stashed. Each trimmer returns the input unchanged when the marker
// cannot be found, so a malformed file is never made worse here; the decode
// step downstream is what rejects it.

import (
	"bytes"
	"encoding/binary"
)

// TrimTrailing returns data truncated at the format's end-of-image marker.
// TIFF has no trailing marker (its IFD offsets may point anywhere in the
// file), so TIFF data is returned unchanged and relies on re-encoding alone.
func TrimTrailing(data []byte, format Format) []byte {
	switch format {
	case FormatJPEG:
		return trimJPEG(data)
	case FormatPNG:
		return trimPNG(data)
	case FormatGIF:
		return trimGIF(data)
	case FormatWebP:
		return trimWebP(data)
	default:
		return data
	}
}

// trimJPEG truncates after the EOI marker located by the segment walk.
// A byte search for FF D9 would be fooled by an appended payload that itself
// ends in those bytes, or by an EOI inside an embedded EXIF thumbnail; the
// structural scan is immune to both.
func trimJPEG(data []byte) []byte {
	end, _, ok := jpegScan(data)
	if !ok {
		return data
	}
	return data[:end]
}

// trimPNG walks the chunk list and truncates after the IEND chunk
// (length + "IEND" + CRC = 12 bytes).
func trimPNG(data []byte) []byte {
	if !bytes.HasPrefix(data, magicPNG) {
		return data
	}

	offset := len(magicPNG)
	for offset+8 <= len(data) {
		length := binary.BigEndian.Uint32(data[offset : offset+4])
		ctype := data[offset+4 : offset+8]

		// length + type + data + CRC
		next := offset + 8 + int(length) + 4
		if next < offset || next > len(data) {
			return data // corrupt chunk length; leave as-is
		}
		if bytes.Equal(ctype, []byte("IEND")) {
			return data[:next]
		}
		offset = next
	}
	return data
}

// trimGIF truncates after the last trailer byte (0x3B).
func trimGIF(data []byte) []byte {
	pos := bytes.LastIndexByte(data, 0x3B)
	if pos < 0 {
		return data
	}
	return data[:pos+1]
}

// trimWebP truncates a RIFF container to the size declared in its header.
// Bytes 4-7 hold the payload size (little-endian) excluding the 8-byte
// RIFF header itself.
func trimWebP(data []byte) []byte {
	if Sniff(data) != FormatWebP {
		return data
	}
	declared := int64(binary.LittleEndian.Uint32(data[4:8]))
	expected := declared + 8
	if int64(len(data)) > expected {
		return data[:expected]
	}
	return data
}
