package imagefile

// JPEG segment inspection. Re-encoding a JPEG is lossy and never byte-stable,
// so the pipeline cannot use a digest compare to detect an already-clean
// file the way it does for the lossless formats. Instead it asks this
// scanner whether the file is structurally clean: no ancillary segments and
// no bytes past the real end-of-image marker. The stdlib JPEG encoder emits
// no ancillary segments, so a file it produced always scans clean.

// jpegScan walks the marker structure from SOI. It reports the offset just
// past the EOI marker, whether any ancillary segment (APPn or COM) was seen,
// and whether the walk reached EOI at all. Entropy-coded data after an SOS
// header is skipped with byte stuffing (FF 00) and restart markers (FF D0-D7)
// honored, so an EOI byte pattern inside segment payloads or compressed data
// never counts as the end. ok is false when the stream desyncs or ends
// before EOI.
func jpegScan(data []byte) (end int, ancillary bool, ok bool) {
	if len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
		return 0, false, false
	}

	offset := 2
	for offset+2 <= len(data) {
		if data[offset] != 0xFF {
			return 0, ancillary, false
		}
		marker := data[offset+1]
		switch {
		case marker == 0xFF:
			// Fill byte before a marker.
			offset++
			continue
		case marker == 0xD9:
			return offset + 2, ancillary, true
		case marker == 0xD8 || (marker >= 0xD0 && marker <= 0xD7) || marker == 0x01:
			// Standalone markers with no length field.
			offset += 2
			continue
		}

		if offset+4 > len(data) {
			return 0, ancillary, false
		}
		size := int(data[offset+2])<<8 | int(data[offset+3])
		if size < 2 || offset+2+size > len(data) {
			return 0, ancillary, false
		}
		if (marker >= 0xE0 && marker <= 0xEF) || marker == 0xFE {
			ancillary = true
		}
		offset += 2 + size

		if marker == 0xDA {
			// Entropy-coded scan data runs until the next real marker.
			for offset+2 <= len(data) {
				if data[offset] != 0xFF {
					offset++
					continue
				}
				next := data[offset+1]
				if next == 0x00 || next == 0xFF || (next >= 0xD0 && next <= 0xD7) {
					offset++
					continue
				}
				break
			}
		}
	}
	return 0, ancillary, false
}

// JPEGHasAncillary reports whether the JPEG stream contains any APPn
// (0xE0-0xEF) or COM (0xFE) segment. EXIF, JFIF, IPTC, XMP and ICC profiles
// all live in such segments.
func JPEGHasAncillary(data []byte) bool {
	_, ancillary, _ := jpegScan(data)
	return ancillary
}

// JPEGIsClean reports whether the stream is well-formed, carries no
// ancillary segment, and ends exactly at its EOI marker. Such a file has
// nothing for a rewrite to remove.
func JPEGIsClean(data []byte) bool {
	end, ancillary, ok := jpegScan(data)
	return ok && !ancillary && end == len(data)
}
