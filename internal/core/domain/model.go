package domain

import "time"

// Artifact is the metadata for one stored binary. The backing bytes are
// owned by the artifact store; everything else refers to them by ID only.
type Artifact struct {
	ID          string
	DisplayName string
	CreatedAt   time.Time
	SizeBytes   int64
}

// CapabilityToken grants read access to exactly one artifact until
// ExpiresAt. Tokens are never renewed; a new share mints a new token.
type CapabilityToken struct {
	Token      string
	ArtifactID string
	ExpiresAt  time.Time
}

type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatWebP Format = "webp"
)

// Lossy reports whether encoding to this format discards pixel data and
// therefore requires a quality setting.
func (f Format) Lossy() bool {
	return f == FormatJPEG || f == FormatWebP
}

func (f Format) MIMEType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatJPEG:
		return "image/jpeg"
	case FormatWebP:
		return "image/webp"
	}
	return "application/octet-stream"
}

func (f Format) Extension() string {
	switch f {
	case FormatPNG:
		return ".png"
	case FormatJPEG:
		return ".jpg"
	case FormatWebP:
		return ".webp"
	}
	return ""
}

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "png":
		return FormatPNG, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "webp":
		return FormatWebP, nil
	}
	return "", ErrParameter
}

// ToolParams carries the union of parameters accepted by the transform
// tools. Each tool validates the fields it uses. Quality is a pointer so
// an explicit 0.0 can be told apart from an omitted value.
type ToolParams struct {
	Width   int      `json:"width"`
	Height  int      `json:"height"`
	RatioW  int      `json:"ratioW"`
	RatioH  int      `json:"ratioH"`
	Degrees int      `json:"degrees"`
	FlipH   bool     `json:"flipH"`
	FlipV   bool     `json:"flipV"`
	Format  string   `json:"format"`
	Quality *float64 `json:"quality"`
}
