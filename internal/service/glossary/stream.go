package glossary

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/wenyan-gloss/internal/domain"
)

// ---------------------------------------------------------------------------
// 4. Stream
// ---------------------------------------------------------------------------

// Stream gathers the gloss items of one query concurrently and passes each to
// emit as soon as it is ready. emit is never called concurrently. A failing
// dictionary lookup is logged and its item omitted; any other failure, or an
// emit error, cancels the remaining work.
func (s *Service) Stream(ctx context.Context, in StreamInput, emit func(StreamItem) error) error {
	in.Query = domain.NormalizeQuery(in.Query)
	if err := in.Validate(); err != nil {
		return err
	}

	var mu sync.Mutex
	send := func(item StreamItem) error {
		mu.Lock()
		defer mu.Unlock()
		return emit(item)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return send(StreamItem{
			Type:      ItemSearchOriginal,
			Originals: s.SearchOriginal(in.Context, in.Query),
		})
	})

	g.Go(func() error {
		detail, err := s.FreqDetail(gctx, in.Query, 1)
		if err != nil {
			return fmt.Errorf("freq detail: %w", err)
		}
		return send(StreamItem{Type: ItemFreq, Freq: detail})
	})

	if s.definitions != nil {
		g.Go(func() error {
			def, err := s.definitions.GetOrFetch(gctx, in.Query)
			if err != nil {
				s.log.WarnContext(gctx, "definition lookup failed, streaming without it",
					slog.String("word", in.Query),
					slog.String("error", err.Error()),
				)
				return nil
			}
			return send(StreamItem{Type: ItemZdic, Definition: &def})
		})
	}

	return g.Wait()
}
