package catalog

import (
	"context"

	"github.com/mmcdole/shelf/internal/domain"
)

// Emission is one value of a cache-first read.
// The final emission of a stream has Done set and carries the read's error.
type Emission struct {
	Products []*domain.Product
	Done     bool
	Err      error
}

// Stream runs Fetch in the background and delivers its snapshots on the
// returned channel, followed by a terminal emission. The channel is closed
// afterwards. Nothing is delivered once ctx is cancelled.
func (s *Service) Stream(ctx context.Context, q domain.Query) <-chan Emission {
	ch := make(chan Emission)

	send := func(e Emission) bool {
		select {
		case ch <- e:
			return true
		case <-ctx.Done():
			return false
		}
	}

	go func() {
		defer close(ch)

		err := s.Fetch(ctx, q, func(products []*domain.Product) {
			send(Emission{Products: products})
		})
		if ctx.Err() != nil {
			return
		}
		send(Emission{Done: true, Err: err})
	}()

	return ch
}

// Collect drains a stream into its snapshots and terminal error
func Collect(ch <-chan Emission) ([][]*domain.Product, error) {
	var snapshots [][]*domain.Product
	var err error
	for e := range ch {
		if e.Done {
			err = e.Err
			continue
		}
		snapshots = append(snapshots, e.Products)
	}
	return snapshots, err
}
