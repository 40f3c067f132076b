package ops

import (
	"github.com/hpungsan/lapse/internal/errors"
	"github.com/hpungsan/lapse/internal/timedata"
)

// WriteInput contains parameters for the Write operation.
type WriteInput struct {
	Path string                     // required, relative markdown path
	Data *timedata.DocumentTimeData // required; replaces the document's time data wholesale
}

// WriteOutput contains the result of the Write operation.
type WriteOutput struct {
	Path      string `json:"path"`
	Entries   int    `json:"entries"`
	TotalTime int64  `json:"total_time"`
}

// Write replaces a document's time data: serialize into the existing text,
// write back, invalidate the cache record, and update the open-document
// store. The at-most-one-active-entry invariant is enforced here, at the
// boundary, not inside the codec.
func Write(env *Env, input WriteInput) (*WriteOutput, error) {
	path, err := ValidatePath(input.Path)
	if err != nil {
		return nil, err
	}
	if input.Data == nil {
		return nil, errors.NewInvalidRequest("data is required")
	}

	active := 0
	for i := range input.Data.Entries {
		if input.Data.Entries[i].IsActive() {
			active++
		}
	}
	if active > 1 {
		return nil, errors.NewInvalidRequest("at most one entry may be active")
	}

	input.Data.RecomputeTotal()
	if err := env.Cache.WriteTimeData(path, input.Data); err != nil {
		return nil, err
	}
	env.Store.Replace(path, input.Data)

	return &WriteOutput{
		Path:      path,
		Entries:   len(input.Data.Entries),
		TotalTime: input.Data.TotalTimeTracked,
	}, nil
}
