package main

import (
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/insult0o/pdfsel/internal/config"
	"github.com/insult0o/pdfsel/internal/document"
	"github.com/insult0o/pdfsel/internal/errors"
	"github.com/insult0o/pdfsel/internal/ops"
	"github.com/insult0o/pdfsel/internal/selection"
	"github.com/insult0o/pdfsel/internal/store"
	"github.com/insult0o/pdfsel/internal/web"
)

// maxDocumentBytes caps a document read from stdin.
const maxDocumentBytes = 32 * 1024 * 1024

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config, log *slog.Logger) *cli.App {
	if log == nil {
		log = slog.Default()
	}
	app := &cli.App{
		Name:    "pdfsel",
		Usage:   "Select, validate and save what gets exported from a processed PDF",
		Version: Version,
		Commands: []*cli.Command{
			selectCmd(db, cfg, log),
			listCmd(db),
			showCmd(db),
			validateCmd(db),
			deleteCmd(db),
			exportCmd(db, cfg),
			importCmd(db, cfg),
			serveCmd(db, cfg, log),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// SelectOutput is printed by the select command.
type SelectOutput struct {
	Selection  selection.ExportSelection  `json:"selection"`
	Statistics selection.Statistics       `json:"statistics"`
	Validation selection.ValidationResult `json:"validation"`
	SavedAs    string                     `json:"saved_as,omitempty"`
}

// selectCmd creates the select command.
func selectCmd(db *sql.DB, cfg *config.Config, log *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:      "select",
		Usage:     "Build a selection from a document JSON file (or - for stdin)",
		ArgsUsage: "<document>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "by", Aliases: []string{"b"}, Value: "all", Usage: "Strategy: all|type|page|confidence|none"},
			&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Usage: "Zone type when --by=type"},
			&cli.StringFlag{Name: "pages", Aliases: []string{"p"}, Usage: "Comma-separated page numbers when --by=page"},
			&cli.Float64Flag{Name: "threshold", Usage: "Confidence threshold when --by=confidence (default from config)"},
			&cli.StringFlag{Name: "pdf", Usage: "Source PDF whose page count replaces the document's pages"},
			&cli.StringFlag{Name: "exclude", Aliases: []string{"x"}, Usage: "Comma-separated item ids to exclude from export"},
			&cli.StringFlag{Name: "save", Aliases: []string{"s"}, Usage: "Save the result under this name"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(errors.NewInvalidRequest("exactly one document path is required (use - for stdin)"))
			}

			doc, err := loadDocument(c.Args().First())
			if err != nil {
				return outputError(err)
			}
			if pdf := c.String("pdf"); pdf != "" {
				if err := doc.UsePDF(pdf); err != nil {
					return outputError(err)
				}
			}

			crit := document.Criteria{
				By:       document.Strategy(c.String("by")),
				ZoneType: selection.ZoneType(c.String("type")),
			}
			if pages := c.String("pages"); pages != "" {
				crit.Pages, err = parsePages(pages)
				if err != nil {
					return outputError(errors.NewInvalidRequest(err.Error()))
				}
			}
			if c.IsSet("threshold") {
				th := c.Float64("threshold")
				crit.Threshold = &th
			}
			crit, err = crit.Check(cfg.DefaultConfidenceThreshold)
			if err != nil {
				return outputError(err)
			}

			st := store.New(store.Options{
				Persistence: ops.Persister{DB: db},
				Logger:      log,
				User:        cfg.User,
			})
			st.SetSelection(crit.Apply(doc))
			for _, id := range splitList(c.String("exclude")) {
				st.UpdateSelection(func(cur selection.ExportSelection) selection.ExportSelection {
					next, _ := selection.SetInclusion(cur, id, false)
					return next
				})
			}

			out := SelectOutput{
				Selection:  st.Selection(),
				Statistics: st.Statistics(),
				Validation: st.Validate(),
			}
			if name := c.String("save"); name != "" {
				if err := st.SaveSelection(c.Context, name); err != nil {
					return outputError(err)
				}
				out.SavedAs = name
			}

			return outputJSON(out)
		},
	}
}

// listCmd creates the list command.
func listCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List saved selections, newest first",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultListLimit, Usage: "Max results"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Usage: "Results to skip"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.List(c.Context, db, ops.ListInput{
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// showCmd creates the show command.
func showCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a saved selection with statistics and validation",
		ArgsUsage: "<name>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "markdown", Aliases: []string{"md"}, Usage: "Print a Markdown manifest instead of JSON"},
		},
		Action: func(c *cli.Context) error {
			name, err := nameArg(c)
			if err != nil {
				return outputError(err)
			}
			output, err := ops.Fetch(c.Context, db, ops.FetchInput{Name: name})
			if err != nil {
				return outputError(err)
			}

			if c.Bool("markdown") {
				_, err := fmt.Fprint(os.Stdout, selection.Manifest(selection.ManifestInput{
					Name:      output.Name,
					Selection: output.Selection,
					SavedAt:   output.SavedAt,
					SavedBy:   output.SavedBy,
				}))
				return err
			}
			return outputJSON(output)
		},
	}
}

// validateCmd creates the validate command. It exits non-zero when the
// saved selection is not ready for export.
func validateCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Check a saved selection for export readiness",
		ArgsUsage: "<name>",
		Action: func(c *cli.Context) error {
			name, err := nameArg(c)
			if err != nil {
				return outputError(err)
			}
			output, err := ops.Fetch(c.Context, db, ops.FetchInput{Name: name})
			if err != nil {
				return outputError(err)
			}
			if err := outputJSON(output.Validation); err != nil {
				return err
			}
			if !output.Validation.IsValid {
				return cli.Exit(fmt.Sprintf("selection %q is not valid for export", output.Name), 2)
			}
			return nil
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a saved selection",
		ArgsUsage: "<name>",
		Action: func(c *cli.Context) error {
			name, err := nameArg(c)
			if err != nil {
				return outputError(err)
			}
			output, err := ops.Delete(c.Context, db, ops.DeleteInput{Name: name})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export saved selections to a JSONL file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Export file path (default: ~/.pdfsel/exports/selections-<timestamp>.jsonl)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Export(c.Context, db, cfg, ops.ExportInput{Path: c.String("path")})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// importCmd creates the import command.
func importCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import saved selections from a JSONL file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Required: true, Usage: "Import file path"},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "error", Usage: "Collision mode: error|replace|skip"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Import(c.Context, db, cfg, ops.ImportInput{
				Path: c.String("path"),
				Mode: ops.ImportMode(c.String("mode")),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(db *sql.DB, cfg *config.Config, log *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the read-only web viewer for saved selections",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Usage: "Address to bind (default from config)"},
			&cli.IntFlag{Name: "port", Usage: "Port to listen on (default from config)"},
		},
		Action: func(c *cli.Context) error {
			serveCfg := *cfg
			if c.IsSet("bind") {
				serveCfg.WebBind = c.String("bind")
			}
			if c.IsSet("port") {
				serveCfg.WebPort = c.Int("port")
			}
			if serveCfg.WebPort <= 0 || serveCfg.WebPort > 65535 {
				return outputError(errors.NewInvalidRequest("port must be between 1 and 65535"))
			}

			srv, err := web.NewServer(db, &serveCfg, Version, log)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			return web.Run(srv, log)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	var sErr *errors.SelError
	if stderrors.As(err, &sErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", sErr.Code, sErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// nameArg returns the single positional name argument.
func nameArg(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", errors.NewInvalidRequest("exactly one selection name is required")
	}
	return c.Args().First(), nil
}

// loadDocument reads a document from path, or from stdin when path is "-".
func loadDocument(path string) (*document.Document, error) {
	if path != "-" {
		return document.Load(path)
	}
	if !stdinHasData() {
		return nil, errors.NewInvalidRequest("document must be piped via stdin when the path is -")
	}
	text, err := readStdin(maxDocumentBytes)
	if err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}
	return document.Parse(strings.NewReader(text))
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads at most limit bytes from stdin.
func readStdin(limit int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(os.Stdin, limit+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("stdin exceeds %d bytes", limit)
	}
	return strings.TrimSpace(string(data)), nil
}

// splitList splits a comma-separated string, dropping blanks.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// parsePages parses "1,3,5" into page numbers.
func parsePages(s string) ([]int, error) {
	parts := splitList(s)
	pages := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid page number: %s", p)
		}
		if n < 1 {
			return nil, fmt.Errorf("page numbers must be at least 1, got %d", n)
		}
		pages = append(pages, n)
	}
	return pages, nil
}
