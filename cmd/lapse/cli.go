package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/lapse/internal/errors"
	"github.com/hpungsan/lapse/internal/ops"
	"github.com/hpungsan/lapse/internal/report"
	"github.com/hpungsan/lapse/internal/timedata"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(env *ops.Env) *cli.App {
	app := &cli.App{
		Name:    "lapse",
		Usage:   "Time tracking over a markdown vault",
		Version: Version,
		Commands: []*cli.Command{
			reportCmd(env),
			showCmd(env),
			refreshCmd(env),
			writeCmd(env),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// reportCmd creates the report command.
func reportCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Run a time report (query from flags, or piped 'key: value' lines)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "period", Aliases: []string{"p"}, Usage: "today|thisWeek|thisMonth|lastWeek|lastMonth"},
			&cli.StringFlag{Name: "from", Usage: "Range start date (whole day)"},
			&cli.StringFlag{Name: "to", Usage: "Range end date (whole day)"},
			&cli.StringFlag{Name: "project", Usage: "Project substring filter"},
			&cli.StringFlag{Name: "tag", Usage: "Tag substring filter"},
			&cli.StringFlag{Name: "note", Usage: "Note-name substring filter"},
			&cli.StringFlag{Name: "group-by", Aliases: []string{"g"}, Usage: "project|date|tag|note"},
			&cli.StringFlag{Name: "sub-group-by", Usage: "Second grouping dimension"},
			&cli.StringFlag{Name: "display", Aliases: []string{"d"}, Usage: "table|summary|chart"},
			&cli.StringFlag{Name: "chart", Usage: "bar|pie|none"},
			&cli.BoolFlag{Name: "json", Usage: "Print the raw aggregate as JSON"},
			&cli.StringFlag{Name: "html", Usage: "Also write an HTML export to FILE"},
		},
		Action: func(c *cli.Context) error {
			queryText := buildQueryText(c)
			if queryText == "" && stdinHasData() {
				text, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				queryText = text
			}

			output, err := ops.Report(env, ops.ReportInput{QueryText: queryText})
			if err != nil {
				return outputError(err)
			}

			if path := c.String("html"); path != "" {
				html, err := report.ExportHTML("lapse report", output.Markdown)
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				if err := os.WriteFile(path, []byte(html), 0644); err != nil {
					return outputError(errors.NewInternal(err))
				}
			}

			if c.Bool("json") {
				return outputJSON(output.Result)
			}
			fmt.Println(output.Markdown)
			return nil
		},
	}
}

// showCmd creates the show command.
func showCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one document's parsed time data as JSON",
		ArgsUsage: "PATH",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("PATH argument is required"))
			}

			output, err := ops.Document(env, ops.DocumentInput{Path: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// refreshCmd creates the refresh command.
func refreshCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:  "refresh",
		Usage: "Warm the cache for every document and flush the snapshot",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "include-excluded", Usage: "Also warm documents matched by exclude_paths"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Refresh(env, ops.RefreshInput{
				IncludeExcluded: c.Bool("include-excluded"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// writeCmd creates the write command.
func writeCmd(env *ops.Env) *cli.Command {
	return &cli.Command{
		Name:      "write",
		Usage:     "Replace a document's time data (reads JSON from stdin)",
		ArgsUsage: "PATH",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("PATH argument is required"))
			}
			if !stdinHasData() {
				return outputError(errors.NewInvalidRequest("time data JSON must be piped via stdin"))
			}

			text, err := readStdin()
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			var data timedata.DocumentTimeData
			if err := json.Unmarshal([]byte(text), &data); err != nil {
				return outputError(errors.NewInvalidRequest("invalid time data JSON: " + err.Error()))
			}

			output, err := ops.Write(env, ops.WriteInput{
				Path: c.Args().First(),
				Data: &data,
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// Helper functions

// buildQueryText assembles inline query text from report flags. Empty when
// no query flags were given.
func buildQueryText(c *cli.Context) string {
	var lines []string
	for _, key := range []string{
		"period", "from", "to", "project", "tag", "note",
		"group-by", "sub-group-by", "display", "chart",
	} {
		if v := c.String(key); v != "" {
			lines = append(lines, key+": "+v)
		}
	}
	return strings.Join(lines, "\n")
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if lErr, ok := err.(*errors.LapseError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", lErr.Code, lErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
