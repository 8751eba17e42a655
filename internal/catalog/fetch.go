package catalog

import (
	"context"

	"github.com/mmcdole/shelf/internal/domain"
)

// fetchAll is a generic pagination helper.
func fetchAll[T any](
	ctx context.Context,
	fetch func(ctx context.Context, offset, limit int) ([]T, int, error),
	chunkSize int,
	onProgress domain.ProgressFunc,
) ([]T, error) {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}

	var all []T
	offset := 0

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		items, total, err := fetch(ctx, offset, chunkSize)
		if err != nil {
			return nil, err
		}

		all = append(all, items...)

		if onProgress != nil {
			onProgress(len(all), total)
		}

		// Servers may cap the page below chunkSize
		offset += len(items)
		if len(items) == 0 || offset >= total {
			break
		}
	}

	return all, nil
}
