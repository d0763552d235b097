package pdf

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imgforge/internal/core/domain"
)

func encodedImage(t *testing.T, w, h int, format string) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 64, A: 255})
		}
	}

	var buf bytes.Buffer
	var err error
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, img, nil)
	case "png":
		err = png.Encode(&buf, img)
	default:
		t.Fatalf("unknown format %s", format)
	}
	require.NoError(t, err)

	return buf.Bytes()
}

// pageCount counts page objects in the PDF output. The document catalog
// contributes one "/Type /Pages" which also matches the page prefix, hence
// the subtraction.
func pageCount(data []byte) int {
	return bytes.Count(data, []byte("/Type /Page")) - bytes.Count(data, []byte("/Type /Pages"))
}

func TestMergeOrderedPages(t *testing.T) {
	assembler := NewAssembler()

	out, err := assembler.Merge(t.Context(), [][]byte{
		encodedImage(t, 100, 80, "jpeg"),
		encodedImage(t, 50, 50, "png"),
		encodedImage(t, 20, 200, "jpeg"),
	})
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.Equal(t, 3, pageCount(out))
	// First page box matches the first image's pixel dimensions.
	assert.Contains(t, string(out), "/MediaBox [0 0 100.00 80.00]")
	assert.Contains(t, string(out), "/MediaBox [0 0 50.00 50.00]")
	assert.Contains(t, string(out), "/MediaBox [0 0 20.00 200.00]")
}

func TestMergeSkipsUndecodableInputs(t *testing.T) {
	assembler := NewAssembler()

	out, err := assembler.Merge(t.Context(), [][]byte{
		encodedImage(t, 40, 40, "jpeg"),
		[]byte("not an image at all"),
		encodedImage(t, 60, 30, "png"),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, pageCount(out))
}

func TestMergeEmptyInput(t *testing.T) {
	assembler := NewAssembler()

	_, err := assembler.Merge(t.Context(), nil)
	assert.ErrorIs(t, err, domain.ErrNoContent)
}

func TestMergeAllInputsUndecodable(t *testing.T) {
	assembler := NewAssembler()

	_, err := assembler.Merge(t.Context(), [][]byte{
		[]byte("corrupt"),
		{0xff, 0xd8, 0xff},
	})
	assert.ErrorIs(t, err, domain.ErrNoContent)
}

func TestMergeSingleImage(t *testing.T) {
	assembler := NewAssembler()

	out, err := assembler.Merge(t.Context(), [][]byte{encodedImage(t, 10, 10, "png")})
	require.NoError(t, err)
	assert.Equal(t, 1, pageCount(out))
}

func TestDecodePagePriority(t *testing.T) {
	jpg, err := decodePage(encodedImage(t, 10, 10, "jpeg"))
	require.NoError(t, err)
	assert.Equal(t, "JPG", jpg.imageType)
	assert.Equal(t, 10, jpg.width)

	p, err := decodePage(encodedImage(t, 12, 9, "png"))
	require.NoError(t, err)
	assert.Equal(t, "PNG", p.imageType)
	assert.Equal(t, 9, p.height)

	_, err = decodePage([]byte("garbage"))
	assert.ErrorIs(t, err, domain.ErrDecode)
}
