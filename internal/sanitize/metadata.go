package sanitize

// EXIF summary for verbose output. Only JPEG and TIFF can carry EXIF in a
// form goexif understands; for everything else (and for files with no EXIF)
// DescribeEXIF returns "".

import (
	"bytes"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
)

// DescribeEXIF returns a short human-readable summary of the notable EXIF
// content in data, e.g. "EXIF (GPS, DateTime, Camera)", or "" when no EXIF
// block can be parsed.
func DescribeEXIF(data []byte) string {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return ""
	}

	var parts []string
	if _, _, err := x.LatLong(); err == nil {
		parts = append(parts, "GPS")
	}
	if hasTag(x, exif.DateTimeOriginal) || hasTag(x, exif.DateTime) {
		parts = append(parts, "DateTime")
	}
	if hasTag(x, exif.Make) || hasTag(x, exif.Model) {
		parts = append(parts, "Camera")
	}
	if hasTag(x, exif.Software) {
		parts = append(parts, "Software")
	}
	if hasTag(x, exif.Artist) || hasTag(x, exif.Copyright) {
		parts = append(parts, "Author")
	}

	if len(parts) == 0 {
		return "EXIF"
	}
	return "EXIF (" + strings.Join(parts, ", ") + ")"
}

func hasTag(x *exif.Exif, name exif.FieldName) bool {
	_, err := x.Get(name)
	return err == nil
}
