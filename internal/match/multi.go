package match

import (
	"context"

	"lyrictag/internal/logger"
)

// MultiSource queries several sources and gathers every candidate they
// return. Unlike a first-wins chain, all results are kept: ranking decides
// which one is best, so more candidates can only help. A failing source is
// logged and skipped rather than failing the whole search.
type MultiSource struct {
	sources []Source
	logger  *logger.Logger
}

// NewMultiSource creates a MultiSource querying the given sources in order.
func NewMultiSource(sources []Source, log *logger.Logger) *MultiSource {
	return &MultiSource{sources: sources, logger: log}
}

func (m *MultiSource) Name() string { return "multi" }

func (m *MultiSource) Search(ctx context.Context, query Query) ([]Candidate, error) {
	var candidates []Candidate
	for _, s := range m.sources {
		if ctx.Err() != nil {
			return candidates, ctx.Err()
		}

		results, err := s.Search(ctx, query)
		if err != nil {
			m.logger.Debug("source %s failed: %v", s.Name(), err)
			continue
		}
		m.logger.Debug("source %s returned %d candidates", s.Name(), len(results))
		candidates = append(candidates, results...)
	}
	return candidates, nil
}
