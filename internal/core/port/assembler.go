package port

import "context"

type DocumentAssembler interface {
	// Merge composes the given images into a single paginated document,
	// one page per image at the image's pixel dimensions, in input order.
	// Inputs that decode with no supported codec are skipped; if nothing
	// decodes, Merge returns domain.ErrNoContent.
	Merge(ctx context.Context, images [][]byte) ([]byte, error)
}
