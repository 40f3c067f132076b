package ops

import (
	"github.com/hpungsan/lapse/internal/query"
	"github.com/hpungsan/lapse/internal/report"
)

// ReportInput contains parameters for the Report operation.
type ReportInput struct {
	// QueryText is the inline query ("key: value" lines). Empty text means
	// today, table display, no filters.
	QueryText string
}

// ReportOutput contains the result of the Report operation.
type ReportOutput struct {
	Markdown string        `json:"markdown"`
	Result   *query.Result `json:"result"`
}

// Report parses the inline query, evaluates it over the vault, and renders
// the markdown report.
func Report(env *Env, input ReportInput) (*ReportOutput, error) {
	q, err := query.ParseQuery(input.QueryText)
	if err != nil {
		return nil, err
	}

	engine := query.NewEngine(env.Vault, env.Cache, env.Config, env.Clock)
	res, err := engine.Evaluate(q)
	if err != nil {
		return nil, err
	}

	return &ReportOutput{
		Markdown: report.Render(res),
		Result:   res,
	}, nil
}
