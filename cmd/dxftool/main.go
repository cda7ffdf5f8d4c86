// Command dxftool analyzes and compares DXF drawings: geometric and label
// diffs, label extraction, structure dumps, and parts-list checks.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"dxf-toolkit/internal/diff"
	"dxf-toolkit/internal/dxf"
	"dxf-toolkit/internal/history"
	"dxf-toolkit/internal/labels"
	"dxf-toolkit/internal/logging"
	"dxf-toolkit/internal/partslist"
	"dxf-toolkit/internal/report"
	"dxf-toolkit/internal/server"
	"dxf-toolkit/internal/structure"
	"dxf-toolkit/internal/version"
)

func main() {
	logger := logging.New()

	app := &cli.App{
		Name:    "dxftool",
		Usage:   "analyze and compare DXF drawings",
		Version: version.Full(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "history-db",
				Value: "dxftool-history.db",
				Usage: "path of the run-history database",
			},
		},
		Commands: []*cli.Command{
			compareCommand(),
			labelDiffCommand(),
			labelsCommand(),
			structureCommand(),
			hierarchyCommand(),
			symbolsCommand(),
			partslistCommand(),
			historyCommand(),
			serveCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func diffFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Float64Flag{
			Name:  "tolerance",
			Value: 1e-4,
			Usage: "maximum deviation for two geometric values to be equal",
		},
		&cli.Float64Flag{
			Name:  "position-band",
			Usage: "looser tolerance band reporting slightly-moved shapes as modified",
		},
		&cli.BoolFlag{
			Name:  "ignore-layers",
			Usage: "match entities across different layers",
		},
		&cli.BoolFlag{
			Name:  "expand-blocks",
			Usage: "flatten block references before comparison",
		},
	}
}

func diffConfig(c *cli.Context) diff.Config {
	cfg := diff.DefaultConfig()
	cfg.Tolerance = c.Float64("tolerance")
	cfg.ModifiedPositionBand = c.Float64("position-band")
	cfg.LayerSensitive = !c.Bool("ignore-layers")
	cfg.ExpandBlocks = c.Bool("expand-blocks")
	return cfg
}

func compareCommand() *cli.Command {
	return &cli.Command{
		Name:      "compare",
		Usage:     "diff two drawings into a color-coded DXF",
		ArgsUsage: "<a.dxf> <b.dxf>",
		Flags: append(diffFlags(),
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output DXF path"},
		),
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return fmt.Errorf("expected two drawing files, got %d arguments", c.NArg())
			}
			pathA, pathB := c.Args().Get(0), c.Args().Get(1)

			docA, err := dxf.ReadFile(pathA)
			if err != nil {
				return err
			}
			docB, err := dxf.ReadFile(pathB)
			if err != nil {
				return err
			}

			start := time.Now()
			res, err := diff.Compare(docA, docB, diffConfig(c))
			if err != nil {
				return err
			}
			recordRun(c, "compare", pathA, pathB, res.Summary, time.Since(start))

			out := c.String("out")
			if out == "" {
				out = report.ComparisonName(pathA, pathB, "diff", "dxf")
			}
			if err := dxf.WriteFile(diff.BuildDiffDocument(res, diff.DefaultColors()), out); err != nil {
				return err
			}

			fmt.Print(report.GeometricSummaryMarkdown(res, pathA, pathB))
			fmt.Printf("\nwrote %s\n", out)
			return nil
		},
	}
}

func labelDiffCommand() *cli.Command {
	return &cli.Command{
		Name:      "label-diff",
		Usage:     "diff the text labels of two drawings into a markdown report",
		ArgsUsage: "<a.dxf> <b.dxf>",
		Flags: append(diffFlags(),
			&cli.BoolFlag{Name: "moved", Usage: "report position-only label changes as moved"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output markdown path"},
		),
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return fmt.Errorf("expected two drawing files, got %d arguments", c.NArg())
			}
			pathA, pathB := c.Args().Get(0), c.Args().Get(1)

			docA, err := dxf.ReadFile(pathA)
			if err != nil {
				return err
			}
			docB, err := dxf.ReadFile(pathB)
			if err != nil {
				return err
			}

			cfg := diffConfig(c)
			cfg.ReportMoved = c.Bool("moved")

			start := time.Now()
			res, err := diff.CompareLabels(docA, docB, cfg)
			if err != nil {
				return err
			}
			recordRun(c, "label-diff", pathA, pathB, res.Summary, time.Since(start))

			md := report.LabelDiffMarkdown(res, pathA, pathB)
			out := c.String("out")
			if out == "" {
				out = report.ComparisonName(pathA, pathB, "label_diff", "md")
			}
			if err := os.WriteFile(out, []byte(md), 0644); err != nil {
				return err
			}
			fmt.Printf("wrote %s (%d removed, %d added, %d modified)\n",
				out, res.Summary.Removed, res.Summary.Added, res.Summary.Modified)
			return nil
		},
	}
}

func labelsCommand() *cli.Command {
	return &cli.Command{
		Name:      "labels",
		Usage:     "extract text labels from a drawing",
		ArgsUsage: "<drawing.dxf>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "filter-non-parts", Usage: "drop labels that are not circuit part symbols"},
			&cli.StringFlag{Name: "sort", Value: "asc", Usage: "label ordering: asc, desc or none"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output path (default stdout)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected one drawing file")
			}
			doc, err := dxf.ReadFile(c.Args().First())
			if err != nil {
				return err
			}

			opts := labels.Options{
				FilterNonParts: c.Bool("filter-non-parts"),
				Sort:           labels.SortOrder(c.String("sort")),
			}
			list, info := labels.Extract(doc, opts)

			body := strings.Join(list, "\n")
			if len(list) > 0 {
				body += "\n"
			}
			if out := c.String("out"); out != "" {
				if err := os.WriteFile(out, []byte(body), 0644); err != nil {
					return err
				}
				fmt.Printf("wrote %s (%d labels, %d filtered)\n", out, info.FinalCount, info.FilteredCount)
				return nil
			}
			fmt.Print(body)
			return nil
		},
	}
}

func structureCommand() *cli.Command {
	return &cli.Command{
		Name:      "structure",
		Usage:     "dump a drawing's group-code table to a spreadsheet",
		ArgsUsage: "<drawing.dxf>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Value: "xlsx", Usage: "output format: xlsx or csv"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output path"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected one drawing file")
			}
			input := c.Args().First()
			doc, err := dxf.ReadFile(input)
			if err != nil {
				return err
			}
			rows := structure.Analyze(doc)

			format := c.String("format")
			out := c.String("out")
			if out == "" {
				out = report.OutputName(input, "structure", format)
			}

			switch format {
			case "csv":
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := structure.WriteCSV(rows, f); err != nil {
					return err
				}
			case "xlsx":
				if err := structure.WriteXLSX(rows, out); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown format %q (want xlsx or csv)", format)
			}
			fmt.Printf("wrote %s (%d rows)\n", out, len(rows))
			return nil
		},
	}
}

func hierarchyCommand() *cli.Command {
	return &cli.Command{
		Name:      "hierarchy",
		Usage:     "dump a drawing's section hierarchy as markdown",
		ArgsUsage: "<drawing.dxf>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output path (default stdout)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected one drawing file")
			}
			doc, err := dxf.ReadFile(c.Args().First())
			if err != nil {
				return err
			}
			body := strings.Join(structure.Hierarchy(doc), "\n") + "\n"
			if out := c.String("out"); out != "" {
				if err := os.WriteFile(out, []byte(body), 0644); err != nil {
					return err
				}
				fmt.Printf("wrote %s\n", out)
				return nil
			}
			fmt.Print(body)
			return nil
		},
	}
}

func symbolsCommand() *cli.Command {
	return &cli.Command{
		Name:      "symbols",
		Usage:     "extract circuit symbols for one assembly from a parts-list workbook",
		ArgsUsage: "<partslist.xlsx>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "assembly", Usage: "drawing number (default: derived from file name)"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output path (default stdout)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected one workbook file")
			}
			symbols, info, err := partslist.ExtractSymbols(c.Args().First(), c.String("assembly"))
			if err != nil {
				return err
			}
			body := strings.Join(symbols, "\n") + "\n"
			if out := c.String("out"); out != "" {
				if err := os.WriteFile(out, []byte(body), 0644); err != nil {
					return err
				}
				fmt.Printf("wrote %s (%d symbols from %d rows)\n", out, info.TotalSymbols, info.ProcessedRows)
				return nil
			}
			fmt.Print(body)
			return nil
		},
	}
}

func partslistCommand() *cli.Command {
	return &cli.Command{
		Name:      "partslist",
		Usage:     "compare extracted drawing labels against a circuit-symbol list",
		ArgsUsage: "<labels.txt> <symbols.txt>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output markdown path (default stdout)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return fmt.Errorf("expected a label file and a symbol file")
			}
			drawingLabels, err := readLines(c.Args().Get(0))
			if err != nil {
				return err
			}
			symbols, err := readLines(c.Args().Get(1))
			if err != nil {
				return err
			}

			md := report.PartsListMarkdown(partslist.Compare(drawingLabels, symbols))
			if out := c.String("out"); out != "" {
				if err := os.WriteFile(out, []byte(md), 0644); err != nil {
					return err
				}
				fmt.Printf("wrote %s\n", out)
				return nil
			}
			fmt.Print(md)
			return nil
		},
	}
}

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "list recent comparison runs",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Value: 20, Usage: "maximum runs to list"},
		},
		Action: func(c *cli.Context) error {
			store, err := history.Open(c.String("history-db"))
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.Recent(c.Int("limit"))
			if err != nil {
				return err
			}
			for _, r := range runs {
				fmt.Printf("%s  %-10s  %s vs %s  matched=%d added=%d removed=%d modified=%d skipped=%d (%s)\n",
					r.CreatedAt.Format(time.RFC3339), r.Tool, r.InputA, r.InputB,
					r.Matched, r.Added, r.Removed, r.Modified, r.Skipped, r.Duration)
			}
			if len(runs) == 0 {
				fmt.Println("no recorded runs")
			}
			return nil
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API",
		Action: func(c *cli.Context) error {
			logger := logging.New()
			srv, err := server.New(server.LoadConfig(), logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

// recordRun appends a run to the history database; a history failure never
// fails the command itself.
func recordRun(c *cli.Context, tool, inputA, inputB string, s diff.Summary, elapsed time.Duration) {
	store, err := history.Open(c.String("history-db"))
	if err != nil {
		return
	}
	defer store.Close()
	_, _ = store.Record(history.Run{
		Tool:     tool,
		InputA:   inputA,
		InputB:   inputB,
		Matched:  s.Matched,
		Added:    s.Added,
		Removed:  s.Removed,
		Modified: s.Modified,
		Skipped:  s.SkippedA + s.SkippedB,
		Duration: elapsed,
	})
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, sc.Err()
}
