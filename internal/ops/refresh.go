package ops

import (
	"github.com/hpungsan/lapse/internal/errors"
	"github.com/hpungsan/lapse/internal/glob"
)

// RefreshInput contains parameters for the Refresh operation.
type RefreshInput struct {
	// IncludeExcluded also warms documents matched by exclude_paths.
	IncludeExcluded bool
}

// RefreshOutput contains the result of the Refresh operation.
type RefreshOutput struct {
	Documents int   `json:"documents"`
	Entries   int   `json:"entries"`
	TotalTime int64 `json:"total_time"`
}

// Refresh walks the vault, warms a cache record for every document in
// scope, and forces an immediate snapshot flush.
func Refresh(env *Env, input RefreshInput) (*RefreshOutput, error) {
	ids, err := env.Vault.List()
	if err != nil {
		return nil, errors.NewVaultIO("corpus", err)
	}

	var matchers []*glob.Matcher
	if !input.IncludeExcluded {
		matchers = glob.CompileAll(env.Config.ExcludePaths)
	}

	out := &RefreshOutput{}
	for _, id := range ids {
		if glob.MatchAny(id, matchers) {
			continue
		}
		rec := env.Cache.GetOrLoad(id)
		out.Documents++
		out.Entries += len(rec.Entries)
		out.TotalTime += rec.TotalTime
	}

	env.Cache.FlushNow()
	return out, nil
}
