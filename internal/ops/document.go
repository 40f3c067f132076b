package ops

import (
	stderrors "errors"

	"github.com/hpungsan/lapse/internal/errors"
	"github.com/hpungsan/lapse/internal/timedata"
	"github.com/hpungsan/lapse/internal/vault"
)

// DocumentInput contains parameters for the Document operation.
type DocumentInput struct {
	Path string // required, relative markdown path
}

// DocumentOutput contains one document's resolved time data.
type DocumentOutput struct {
	Path     string                     `json:"path"`
	Display  string                     `json:"display"`
	Project  string                     `json:"project,omitempty"`
	Tags     []string                   `json:"tags,omitempty"`
	Data     *timedata.DocumentTimeData `json:"data"`
	// Source is "store" when the open-document store held the document,
	// otherwise "cache".
	Source string `json:"source"`
}

// Document returns the parsed time data for one document. The open-document
// store is authoritative when it holds the document; otherwise the mtime
// cache is consulted, which may re-parse.
func Document(env *Env, input DocumentInput) (*DocumentOutput, error) {
	path, err := ValidatePath(input.Path)
	if err != nil {
		return nil, err
	}

	opts := env.Config.ParseOptions()
	out := &DocumentOutput{
		Path:    path,
		Display: timedata.DisplayName(path, opts),
	}

	if data := env.Store.Get(path); data != nil {
		text, err := env.Vault.Read(path)
		if err == nil {
			out.Project = timedata.ParseProject(text, opts)
			out.Tags = timedata.ParseDocTags(text)
		}
		out.Data = data
		out.Source = "store"
		return out, nil
	}

	if _, err := env.Vault.ModTime(path); err != nil {
		if stderrors.Is(err, vault.ErrNotFound) {
			return nil, errors.NewDocumentNotFound(path)
		}
		return nil, errors.NewVaultIO(path, err)
	}

	rec := env.Cache.GetOrLoad(path)
	out.Project = rec.Project
	out.Tags = rec.Tags
	out.Data = &timedata.DocumentTimeData{Entries: rec.Entries, TotalTimeTracked: rec.TotalTime}
	out.Source = "cache"
	return out, nil
}
