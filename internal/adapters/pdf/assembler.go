package pdf

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"image/png"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"imgforge/internal/core/domain"
)

// page is one validated input: the original bytes plus the codec fpdf
// should embed them with and the pixel dimensions sizing the page.
type page struct {
	data      []byte
	imageType string
	width     int
	height    int
}

// Assembler builds a single PDF from a sequence of images, one page per
// image sized to its pixel dimensions. Inputs that fail every decoder are
// intentionally skipped rather than failing the merge; callers observe the
// loss only through the page count.
type Assembler struct{}

func NewAssembler() *Assembler {
	return &Assembler{}
}

func (a *Assembler) Merge(ctx context.Context, images [][]byte) ([]byte, error) {
	if len(images) == 0 {
		return nil, domain.ErrNoContent
	}

	// Decode validation is independent per input; run it in parallel and
	// keep results indexed so page order stays input order.
	pages := make([]*page, len(images))

	g, _ := errgroup.WithContext(ctx)
	for i, data := range images {
		g.Go(func() error {
			p, err := decodePage(data)
			if err != nil {
				log.Warn().Int("index", i).Err(err).Msg("skipping undecodable merge input")
				return nil
			}
			pages[i] = p
			return nil
		})
	}
	_ = g.Wait()

	kept := make([]*page, 0, len(pages))
	for _, p := range pages {
		if p != nil {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return nil, domain.ErrNoContent
	}

	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: float64(kept[0].width), Ht: float64(kept[0].height)},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)

	for i, p := range kept {
		size := fpdf.SizeType{Wd: float64(p.width), Ht: float64(p.height)}
		doc.AddPageFormat("P", size)

		opts := fpdf.ImageOptions{ImageType: p.imageType}
		name := fmt.Sprintf("page-%d", i)
		doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(p.data))
		doc.ImageOptions(name, 0, 0, size.Wd, size.Ht, false, opts, 0, "")
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing document: %w", err)
	}

	log.Debug().Int("pages", len(kept)).Int("skipped", len(images)-len(kept)).Msg("assembled document")

	return buf.Bytes(), nil
}

// decodePage tries the supported codecs in priority order, JPEG first,
// then PNG. The first codec that fully decodes the bytes wins.
func decodePage(data []byte) (*page, error) {
	if img, err := jpeg.Decode(bytes.NewReader(data)); err == nil {
		return &page{
			data:      data,
			imageType: "JPG",
			width:     img.Bounds().Dx(),
			height:    img.Bounds().Dy(),
		}, nil
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: no supported codec", domain.ErrDecode)
	}

	return &page{
		data:      data,
		imageType: "PNG",
		width:     img.Bounds().Dx(),
		height:    img.Bounds().Dy(),
	}, nil
}
