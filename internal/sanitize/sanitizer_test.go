package sanitize

import (
	"bytes"
	"hash/crc32"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/tiff"

	"github.com/photoclean/photoclean/internal/imagefile"
)

var defaultOpts = Options{JPEGQuality: 95}

// testImage returns a small gradient so re-encoded output is non-trivial.
func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 29), uint8(y * 31), uint8((x + y) * 17), 255})
		}
	}
	return img
}

// exifAPP1 builds a minimal parseable EXIF APP1 payload: a little-endian
// TIFF block whose IFD0 holds a single Make tag ("Canon").
func exifAPP1() []byte {
	tiffBlock := []byte{
		'I', 'I', 0x2A, 0x00, 0x08, 0x00, 0x00, 0x00, // header, IFD0 at 8
		0x01, 0x00, // one entry
		0x0F, 0x01, 0x02, 0x00, // tag 0x010F (Make), type ASCII
		0x06, 0x00, 0x00, 0x00, // count 6
		0x1A, 0x00, 0x00, 0x00, // value at offset 26
		0x00, 0x00, 0x00, 0x00, // no next IFD
		'C', 'a', 'n', 'o', 'n', 0x00,
	}
	return append([]byte("Exif\x00\x00"), tiffBlock...)
}

// jpegWithEXIF encodes img as JPEG and splices an EXIF APP1 segment in
// right after SOI, the position real camera files use.
func jpegWithEXIF(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}))
	encoded := buf.Bytes()

	payload := exifAPP1()
	size := len(payload) + 2
	segment := append([]byte{0xFF, 0xE1, byte(size >> 8), byte(size)}, payload...)

	out := append([]byte{}, encoded[:2]...) // SOI
	out = append(out, segment...)
	return append(out, encoded[2:]...)
}

// pngWithText encodes img as PNG and splices a tEXt chunk in before IEND.
func pngWithText(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	encoded := buf.Bytes()

	iend := bytes.Index(encoded, []byte("IEND"))
	require.Greater(t, iend, 0)
	cut := iend - 4 // chunk starts at its length field

	text := pngChunk("tEXt", []byte("Comment\x00made with a gps camera"))
	out := append([]byte{}, encoded[:cut]...)
	out = append(out, text...)
	return append(out, encoded[cut:]...)
}

func pngChunk(ctype string, data []byte) []byte {
	chunk := make([]byte, 0, len(data)+12)
	chunk = append(chunk, byte(len(data)>>24), byte(len(data)>>16), byte(len(data)>>8), byte(len(data)))
	chunk = append(chunk, ctype...)
	chunk = append(chunk, data...)
	crc := crc32.ChecksumIEEE(append([]byte(ctype), data...))
	return append(chunk, byte(crc>>24), byte(crc>>16), byte(crc>>8), byte(crc))
}

func samePixels(t *testing.T, a, b image.Image) {
	t.Helper()
	require.Equal(t, a.Bounds(), b.Bounds())
	bounds := a.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ar, ag, ab, aa := a.At(x, y).RGBA()
			br, bg, bb, ba := b.At(x, y).RGBA()
			if ar != br || ag != bg || ab != bb || aa != ba {
				t.Fatalf("pixel mismatch at (%d,%d)", x, y)
			}
		}
	}
}

func TestClean_JPEGStripsEXIFAndTrailing(t *testing.T) {
	dirty := jpegWithEXIF(t, testImage(16, 16))
	dirty = append(dirty, []byte("PK\x03\x04 appended archive")...)

	res, err := Clean(dirty, imagefile.FormatJPEG, defaultOpts)
	require.NoError(t, err)

	assert.Equal(t, len("PK\x03\x04 appended archive"), res.TrailingBytes)
	assert.False(t, imagefile.JPEGHasAncillary(res.Data))
	assert.Empty(t, DescribeEXIF(res.Data))
	assert.True(t, bytes.HasSuffix(res.Data, []byte{0xFF, 0xD9}))

	img, err := jpeg.Decode(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 16), img.Bounds())
}

func TestClean_PNGStripsTextAndTrailing(t *testing.T) {
	src := testImage(12, 9)
	dirty := pngWithText(t, src)
	dirty = append(dirty, []byte("hidden payload")...)

	res, err := Clean(dirty, imagefile.FormatPNG, defaultOpts)
	require.NoError(t, err)

	assert.NotContains(t, string(res.Data), "tEXt")
	assert.NotContains(t, string(res.Data), "gps camera")

	out, err := png.Decode(bytes.NewReader(res.Data))
	require.NoError(t, err)
	samePixels(t, src, out)
}

func TestClean_PNGIsIdempotent(t *testing.T) {
	dirty := pngWithText(t, testImage(10, 10))

	first, err := Clean(dirty, imagefile.FormatPNG, defaultOpts)
	require.NoError(t, err)
	second, err := Clean(first.Data, imagefile.FormatPNG, defaultOpts)
	require.NoError(t, err)

	assert.Equal(t, first.Data, second.Data)
	assert.Zero(t, second.TrailingBytes)
}

func TestClean_GIFRemovesTrailing(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, testImage(8, 8), nil))
	dirty := append(buf.Bytes(), []byte("junk after trailer")...)

	res, err := Clean(dirty, imagefile.FormatGIF, defaultOpts)
	require.NoError(t, err)

	_, err = gif.Decode(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.Equal(t, byte(0x3B), res.Data[len(res.Data)-1])
	assert.Equal(t, len("junk after trailer"), res.TrailingBytes)
}

func TestClean_GIFKeepsAnimationFrames(t *testing.T) {
	anim := &gif.GIF{LoopCount: 0}
	for i := 0; i < 3; i++ {
		p := image.NewPaletted(image.Rect(0, 0, 6, 6), []color.Color{
			color.RGBA{0, 0, 0, 255}, color.RGBA{uint8(80 * i), 128, 20, 255},
		})
		anim.Image = append(anim.Image, p)
		anim.Delay = append(anim.Delay, 10)
	}
	var buf bytes.Buffer
	require.NoError(t, gif.EncodeAll(&buf, anim))

	res, err := Clean(buf.Bytes(), imagefile.FormatGIF, defaultOpts)
	require.NoError(t, err)

	out, err := gif.DecodeAll(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.Len(t, out.Image, 3)
}

func TestClean_TIFFRoundTrip(t *testing.T) {
	src := testImage(14, 7)
	var buf bytes.Buffer
	require.NoError(t, tiff.Encode(&buf, src, nil))

	res, err := Clean(buf.Bytes(), imagefile.FormatTIFF, defaultOpts)
	require.NoError(t, err)

	out, err := tiff.Decode(bytes.NewReader(res.Data))
	require.NoError(t, err)
	samePixels(t, src, out)

	// Lossless re-encode with fixed options is deterministic.
	second, err := Clean(res.Data, imagefile.FormatTIFF, defaultOpts)
	require.NoError(t, err)
	assert.Equal(t, res.Data, second.Data)
}

func TestClean_MaxEdgeDownscales(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(100, 50), &jpeg.Options{Quality: 95}))

	res, err := Clean(buf.Bytes(), imagefile.FormatJPEG, Options{JPEGQuality: 95, MaxEdge: 40})
	require.NoError(t, err)
	assert.True(t, res.Resized)

	img, err := jpeg.Decode(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 20, img.Bounds().Dy())
}

func TestClean_MaxEdgeLeavesSmallImages(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(30, 20), &jpeg.Options{Quality: 95}))

	res, err := Clean(buf.Bytes(), imagefile.FormatJPEG, Options{JPEGQuality: 95, MaxEdge: 40})
	require.NoError(t, err)
	assert.False(t, res.Resized)
}

func TestClean_Errors(t *testing.T) {
	t.Run("unsupported format", func(t *testing.T) {
		_, err := Clean([]byte("whatever"), imagefile.FormatUnknown, defaultOpts)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("corrupt jpeg", func(t *testing.T) {
		_, err := Clean([]byte{0xFF, 0xD8, 0xFF, 0xDB, 0x00}, imagefile.FormatJPEG, defaultOpts)
		assert.Error(t, err)
	})

	t.Run("webp with undecodable stream", func(t *testing.T) {
		// Structurally valid RIFF container, garbage bitstream: the decode
		// validation gate must reject it.
		container := []byte("RIFF\x14\x00\x00\x00WEBPVP8 \x08\x00\x00\x00garbage!")
		_, err := Clean(container, imagefile.FormatWebP, defaultOpts)
		assert.Error(t, err)
	})
}
