package trends

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/pulsefeed/pulse-api/internal/domain"
)

// DefaultMaxTrends is how many ranked candidates survive a full
// aggregation run unless the aggregator is configured otherwise.
const DefaultMaxTrends = 30

// Source fetches trend candidates from one external provider. A Fetch
// error means the whole source produced nothing this run; partial
// results with a nil error are also valid.
type Source interface {
	// Name identifies the source in task parameters and logs.
	Name() string

	// Fetch retrieves and scores candidates from the provider. It must
	// respect ctx cancellation between network requests.
	Fetch(ctx context.Context) ([]domain.TrendCandidate, error)
}

// Aggregator runs a fixed registry of sources and merges their output
// into one ranked candidate set.
type Aggregator struct {
	sources   []Source
	maxTrends int
	logger    *slog.Logger
}

// NewAggregator creates an aggregator over the given sources. The
// registration order is the fetch order. maxTrends values below 1 fall
// back to DefaultMaxTrends.
func NewAggregator(logger *slog.Logger, maxTrends int, sources ...Source) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	if maxTrends < 1 {
		maxTrends = DefaultMaxTrends
	}
	return &Aggregator{
		sources:   sources,
		maxTrends: maxTrends,
		logger:    logger.With(slog.String("component", "trend_aggregator")),
	}
}

// SourceNames returns the names of all registered sources in fetch order.
func (a *Aggregator) SourceNames() []string {
	names := make([]string, len(a.sources))
	for i, src := range a.sources {
		names[i] = src.Name()
	}
	return names
}

// Collect fetches candidates from the requested sources and returns the
// deduplicated, ranked result. An empty requested list means all
// registered sources. A failing source contributes zero candidates and
// never aborts the run; only ctx expiry between sources stops early.
func (a *Aggregator) Collect(ctx context.Context, requested []string) ([]domain.TrendCandidate, error) {
	selected := a.selectSources(requested)

	var all []domain.TrendCandidate
	for _, src := range selected {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		candidates, err := src.Fetch(ctx)
		if err != nil {
			a.logger.Warn("source fetch failed, skipping",
				slog.String("source", src.Name()),
				slog.String("error", err.Error()))
			continue
		}

		a.logger.Info("source fetch finished",
			slog.String("source", src.Name()),
			slog.Int("candidates", len(candidates)))
		all = append(all, candidates...)
	}

	ranked := DedupeAndRank(all, a.maxTrends)
	a.logger.Info("aggregation finished",
		slog.Int("raw_candidates", len(all)),
		slog.Int("ranked", len(ranked)))
	return ranked, nil
}

func (a *Aggregator) selectSources(requested []string) []Source {
	if len(requested) == 0 {
		return a.sources
	}

	wanted := make(map[string]bool, len(requested))
	for _, name := range requested {
		wanted[name] = true
	}

	var selected []Source
	for _, src := range a.sources {
		if wanted[src.Name()] {
			selected = append(selected, src)
			delete(wanted, src.Name())
		}
	}
	for name := range wanted {
		a.logger.Warn("unknown source requested, ignoring", slog.String("source", name))
	}
	return selected
}

// DedupeAndRank collapses candidates sharing the same 50-character
// lower-cased title prefix (higher score wins, ties keep the first
// encountered), sorts by popularity score descending, and truncates to
// limit. The prefix is a coarse identity heuristic, not semantic dedup;
// distinct topics with a shared prefix deliberately collapse.
func DedupeAndRank(candidates []domain.TrendCandidate, limit int) []domain.TrendCandidate {
	index := make(map[string]int, len(candidates))
	unique := make([]domain.TrendCandidate, 0, len(candidates))

	for _, candidate := range candidates {
		key := dedupKey(candidate.Title)
		if at, seen := index[key]; seen {
			if candidate.PopularityScore > unique[at].PopularityScore {
				unique[at] = candidate
			}
			continue
		}
		index[key] = len(unique)
		unique = append(unique, candidate)
	}

	// Stable sort keeps first-encounter order for equal scores, so the
	// same input always yields the same output.
	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].PopularityScore > unique[j].PopularityScore
	})

	if limit > 0 && len(unique) > limit {
		unique = unique[:limit]
	}
	return unique
}

// dedupKey is the first 50 characters of the lower-cased title.
// Character based so multibyte titles key the same way everywhere.
func dedupKey(title string) string {
	runes := []rune(strings.ToLower(title))
	if len(runes) > 50 {
		runes = runes[:50]
	}
	return string(runes)
}
