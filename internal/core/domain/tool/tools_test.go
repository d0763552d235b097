package tool

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imgforge/internal/core/domain"
)

type MockEngine struct {
	decodeErr error
	opErr     error
	encodeErr error

	decodeFormat domain.Format
	encoded      []byte

	resizeW, resizeH int
	ratioW, ratioH   int
	degrees          int
	flipH, flipV     bool

	encodeFormat    domain.Format
	encodeQuality   float64
	compressFormat  domain.Format
	compressQuality float64
}

func (m *MockEngine) Decode(data []byte) (image.Image, domain.Format, error) {
	if m.decodeErr != nil {
		return nil, "", m.decodeErr
	}
	return image.NewNRGBA(image.Rect(0, 0, 1, 1)), m.decodeFormat, nil
}

func (m *MockEngine) Resize(img image.Image, width, height int) (image.Image, error) {
	m.resizeW, m.resizeH = width, height
	return img, m.opErr
}

func (m *MockEngine) CropToRatio(img image.Image, ratioW, ratioH int) (image.Image, error) {
	m.ratioW, m.ratioH = ratioW, ratioH
	return img, m.opErr
}

func (m *MockEngine) RotateFlip(img image.Image, degrees int, flipH, flipV bool) (image.Image, error) {
	m.degrees, m.flipH, m.flipV = degrees, flipH, flipV
	return img, m.opErr
}

func (m *MockEngine) Encode(img image.Image, format domain.Format, quality float64) ([]byte, error) {
	m.encodeFormat, m.encodeQuality = format, quality
	return m.encoded, m.encodeErr
}

func (m *MockEngine) Compress(img image.Image, format domain.Format, quality float64) ([]byte, error) {
	m.compressFormat, m.compressQuality = format, quality
	return m.encoded, m.encodeErr
}

func quality(q float64) *float64 {
	return &q
}

func TestResizeApplySuccessful(t *testing.T) {
	me := &MockEngine{decodeFormat: domain.FormatPNG, encoded: []byte("resized")}
	rt := NewResizeTool(me, "resize")

	assert.Equal(t, "resize", rt.Name())

	out, err := rt.Apply(context.Background(), []byte("src"), domain.ToolParams{Width: 800, Height: 600})
	require.NoError(t, err)

	assert.Equal(t, []byte("resized"), out)
	assert.Equal(t, 800, me.resizeW)
	assert.Equal(t, 600, me.resizeH)
	assert.Equal(t, domain.FormatPNG, me.encodeFormat)
}

func TestResizeApplyInvalidDimensions(t *testing.T) {
	me := &MockEngine{decodeFormat: domain.FormatPNG}
	rt := NewResizeTool(me, "resize")

	_, err := rt.Apply(context.Background(), []byte("src"), domain.ToolParams{Width: 0, Height: 600})
	assert.ErrorIs(t, err, domain.ErrParameter)

	_, err = rt.Apply(context.Background(), []byte("src"), domain.ToolParams{Width: 800, Height: -1})
	assert.ErrorIs(t, err, domain.ErrParameter)
}

func TestResizeApplyDecodeError(t *testing.T) {
	me := &MockEngine{decodeErr: domain.ErrDecode}
	rt := NewResizeTool(me, "resize")

	_, err := rt.Apply(context.Background(), []byte("junk"), domain.ToolParams{Width: 10, Height: 10})
	assert.ErrorIs(t, err, domain.ErrDecode)
}

func TestResizeApplyFormatOverride(t *testing.T) {
	me := &MockEngine{decodeFormat: domain.FormatPNG, encoded: []byte("ok")}
	rt := NewResizeTool(me, "resize")

	_, err := rt.Apply(context.Background(), []byte("src"),
		domain.ToolParams{Width: 10, Height: 10, Format: "webp", Quality: quality(0.4)})
	require.NoError(t, err)

	assert.Equal(t, domain.FormatWebP, me.encodeFormat)
	assert.Equal(t, 0.4, me.encodeQuality)
}

func TestResizeApplyUnknownFormat(t *testing.T) {
	me := &MockEngine{decodeFormat: domain.FormatPNG}
	rt := NewResizeTool(me, "resize")

	_, err := rt.Apply(context.Background(), []byte("src"),
		domain.ToolParams{Width: 10, Height: 10, Format: "gif"})
	assert.ErrorIs(t, err, domain.ErrParameter)
}

func TestCropApplySuccessful(t *testing.T) {
	me := &MockEngine{decodeFormat: domain.FormatJPEG, encoded: []byte("cropped")}
	ct := NewCropTool(me, "crop")

	out, err := ct.Apply(context.Background(), []byte("src"), domain.ToolParams{RatioW: 16, RatioH: 9})
	require.NoError(t, err)

	assert.Equal(t, []byte("cropped"), out)
	assert.Equal(t, 16, me.ratioW)
	assert.Equal(t, 9, me.ratioH)
	assert.Equal(t, defaultQuality, me.encodeQuality)
}

func TestCropApplyEngineError(t *testing.T) {
	me := &MockEngine{decodeFormat: domain.FormatJPEG, opErr: domain.ErrParameter}
	ct := NewCropTool(me, "crop")

	_, err := ct.Apply(context.Background(), []byte("src"), domain.ToolParams{RatioW: 16, RatioH: 0})
	assert.ErrorIs(t, err, domain.ErrParameter)
}

func TestRotateApplySuccessful(t *testing.T) {
	me := &MockEngine{decodeFormat: domain.FormatPNG, encoded: []byte("rotated")}
	rt := NewRotateTool(me, "rotate")

	out, err := rt.Apply(context.Background(), []byte("src"),
		domain.ToolParams{Degrees: 90, FlipH: true})
	require.NoError(t, err)

	assert.Equal(t, []byte("rotated"), out)
	assert.Equal(t, 90, me.degrees)
	assert.True(t, me.flipH)
	assert.False(t, me.flipV)
}

func TestConvertApplySuccessful(t *testing.T) {
	me := &MockEngine{decodeFormat: domain.FormatPNG, encoded: []byte("converted")}
	ct := NewConvertTool(me, "convert")

	out, err := ct.Apply(context.Background(), []byte("src"),
		domain.ToolParams{Format: "jpeg", Quality: quality(0.7)})
	require.NoError(t, err)

	assert.Equal(t, []byte("converted"), out)
	assert.Equal(t, domain.FormatJPEG, me.encodeFormat)
	assert.Equal(t, 0.7, me.encodeQuality)
}

func TestConvertApplyMissingFormat(t *testing.T) {
	me := &MockEngine{decodeFormat: domain.FormatPNG}
	ct := NewConvertTool(me, "convert")

	_, err := ct.Apply(context.Background(), []byte("src"), domain.ToolParams{})
	assert.ErrorIs(t, err, domain.ErrParameter)
}

func TestConvertApplyDefaultQuality(t *testing.T) {
	me := &MockEngine{decodeFormat: domain.FormatPNG, encoded: []byte("ok")}
	ct := NewConvertTool(me, "convert")

	_, err := ct.Apply(context.Background(), []byte("src"), domain.ToolParams{Format: "webp"})
	require.NoError(t, err)

	assert.Equal(t, defaultQuality, me.encodeQuality)
}

func TestCompressApplySuccessful(t *testing.T) {
	me := &MockEngine{decodeFormat: domain.FormatJPEG, encoded: []byte("small")}
	ct := NewCompressTool(me, "compress")

	out, err := ct.Apply(context.Background(), []byte("src"),
		domain.ToolParams{Quality: quality(0.3)})
	require.NoError(t, err)

	assert.Equal(t, []byte("small"), out)
	assert.Equal(t, domain.FormatJPEG, me.compressFormat)
	assert.Equal(t, 0.3, me.compressQuality)
}

func TestCompressApplyMissingQuality(t *testing.T) {
	me := &MockEngine{decodeFormat: domain.FormatJPEG}
	ct := NewCompressTool(me, "compress")

	_, err := ct.Apply(context.Background(), []byte("src"), domain.ToolParams{Format: "jpeg"})
	assert.ErrorIs(t, err, domain.ErrParameter)
}

func TestCompressApplyEncodeError(t *testing.T) {
	me := &MockEngine{decodeFormat: domain.FormatJPEG, encodeErr: errors.New("mock error")}
	ct := NewCompressTool(me, "compress")

	_, err := ct.Apply(context.Background(), []byte("src"), domain.ToolParams{Quality: quality(0.3)})
	assert.Error(t, err)
}
