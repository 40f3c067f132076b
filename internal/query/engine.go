package query

import (
	"time"

	"github.com/hpungsan/lapse/internal/cache"
	"github.com/hpungsan/lapse/internal/config"
	"github.com/hpungsan/lapse/internal/errors"
	"github.com/hpungsan/lapse/internal/glob"
	"github.com/hpungsan/lapse/internal/timedata"
	"github.com/hpungsan/lapse/internal/vault"
)

// Result is the complete aggregate for one query evaluation. An empty
// Matches slice is a valid result, not an error.
type Result struct {
	Query      *Query
	Start, End time.Time
	Matches    []MatchedEntry
	Groups     []*Group
	TotalTime  int64
}

// Engine scans the corpus through the mtime cache, applies glob exclusions
// and query filters, and aggregates matching entries.
type Engine struct {
	vlt   vault.Vault
	cache *cache.MtimeCache
	cfg   *config.Config
	clock Clock
}

// NewEngine builds an engine. clk may be nil for the system clock.
func NewEngine(vlt vault.Vault, c *cache.MtimeCache, cfg *config.Config, clk Clock) *Engine {
	if clk == nil {
		clk = SystemClock
	}
	return &Engine{vlt: vlt, cache: c, cfg: cfg, clock: clk}
}

// Evaluate runs the query over every document in the vault. Documents that
// cannot be read or parsed contribute zero matches; a single bad document
// never fails the scan. The only error path is failing to enumerate the
// corpus at all.
func (e *Engine) Evaluate(q *Query) (*Result, error) {
	now := e.clock.Now()
	start, end := ResolveDateRange(q, now, e.cfg.WeekStart())

	ids, err := e.vlt.List()
	if err != nil {
		return nil, errors.NewVaultIO("corpus", err)
	}

	matchers := glob.CompileAll(e.cfg.ExcludePaths)
	opts := e.cfg.ParseOptions()
	res := &Result{Query: q, Start: start, End: end}

	for _, id := range ids {
		if glob.MatchAny(id, matchers) {
			continue
		}
		rec := e.cache.GetOrLoad(id)
		if len(rec.Entries) == 0 {
			continue
		}
		doc := DocContext{
			ID:      id,
			Display: timedata.DisplayName(id, opts),
			Project: rec.Project,
			Tags:    rec.Tags,
		}
		for i := range rec.Entries {
			entry := rec.Entries[i]
			if !Match(&entry, doc, q, start, end) {
				continue
			}
			m := MatchedEntry{
				Entry:     entry,
				DocID:     id,
				Display:   doc.Display,
				Project:   rec.Project,
				DocTags:   rec.Tags,
				Effective: entry.EffectiveDuration(now),
			}
			res.Matches = append(res.Matches, m)
			res.TotalTime += m.Effective
		}
	}

	if q.GroupBy != GroupNone {
		res.Groups = GroupMatches(res.Matches, q.GroupBy, q.SubGroupBy)
	}
	return res, nil
}
