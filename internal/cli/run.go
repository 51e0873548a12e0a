package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PanelCut/internal/engine"
	"github.com/piwi3910/PanelCut/internal/export"
	"github.com/piwi3910/PanelCut/internal/history"
	"github.com/piwi3910/PanelCut/internal/model"
	"github.com/piwi3910/PanelCut/internal/project"
)

// Output formats written by the run command.
const (
	formatCSV    = "csv"
	formatExcel  = "xlsx"
	formatPDF    = "pdf"
	formatLabels = "labels"
	formatJSON   = "json"
)

var validRunFormats = map[string]bool{formatCSV: true, formatExcel: true, formatPDF: true, formatLabels: true, formatJSON: true}

type runOpts struct {
	inputOpts
	outDir     string
	formats    string
	record     bool
	annotate   bool
	waste      float64
	outputMode string
}

func newRunCmd(root *rootOpts) *cobra.Command {
	opts := runOpts{formats: formatCSV, waste: 10}

	cmd := &cobra.Command{
		Use:   "run [project]",
		Short: "Allocate panels for a room, nest them and write the results",
		Long: `Run reads a project (.json) or CEDXM room (.xml), covers its walls with
board panels and nests the panels onto raw sheets. Results are written to
--out in the formats listed by --format.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := parseRunFormats(opts.formats)
			if err != nil {
				return err
			}
			return runRun(cmd, root, &opts, args[0], formats)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "out", "output directory")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", opts.formats, "output formats: csv, xlsx, pdf, labels, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.record, "record", false, "record the run in the history database")
	cmd.Flags().BoolVar(&opts.annotate, "annotate", false, "mark panels below the minimum piece width in their note")
	cmd.Flags().Float64Var(&opts.waste, "waste", opts.waste, "waste percentage for the purchase estimate")
	cmd.Flags().StringVar(&opts.outputMode, "output-mode", "", "free-form output mode carried into reports")

	return cmd
}

func parseRunFormats(s string) ([]string, error) {
	var formats []string
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(strings.ToLower(f))
		if f == "" {
			continue
		}
		if !validRunFormats[f] {
			return nil, fmt.Errorf("invalid format: %s (must be csv, xlsx, pdf, labels or json)", f)
		}
		formats = append(formats, f)
	}
	if len(formats) == 0 {
		return nil, fmt.Errorf("no output format given")
	}
	return formats, nil
}

// runResult is the JSON document written by --format json.
type runResult struct {
	Project    model.Project          `json:"project"`
	Board      model.BoardMaster      `json:"board"`
	Rules      model.Rules            `json:"rules"`
	Allocation engine.Allocation      `json:"allocation"`
	Nesting    engine.NestResult      `json:"nesting"`
	Remnants   []model.Remnant        `json:"remnants"`
	Purchase   model.PurchaseEstimate `json:"purchase"`
}

func runRun(cmd *cobra.Command, root *rootOpts, opts *runOpts, projectPath string, formats []string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	in, err := loadInputs(cmd, root, &opts.inputOpts, projectPath)
	if err != nil {
		return err
	}
	logger.Info("running", "project", in.Project.Name, "board", in.Board.Name, "pitch", in.StudPitch)

	prog := newProgress(logger)
	alloc, err := engine.NewAllocator(in.Board, in.Rules).Allocate(in.Project, engine.AllocateOptions{
		StudPitch:  in.StudPitch,
		OutputMode: opts.outputMode,
		ExtraWalls: in.ExtraWalls,
	})
	if err != nil {
		return err
	}
	if opts.annotate {
		n := engine.AnnotateMinPiece(alloc.Panels, in.Rules)
		logger.Debug("annotated narrow panels", "count", n)
	}
	prog.done(fmt.Sprintf("Allocated %d panels on %d walls", len(alloc.Panels), len(alloc.Walls)))

	prog = newProgress(logger)
	nester := engine.NewNester(in.Board, in.Rules)
	if err := nester.Validate(alloc.Panels); err != nil {
		return err
	}
	nest := nester.Nest(alloc.Panels, in.PreferYLong)
	prog.done(fmt.Sprintf("Nested onto %d sheets", nest.SheetCount))

	for _, v := range alloc.Violations() {
		logger.Warn("min piece violation", "wall", v.Wall, "width", v.Measured, "min", v.Threshold)
	}
	for _, p := range nest.Unplaced {
		logger.Warn("panel does not fit the board", "panel", p.Label, "width", p.Width, "height", p.Height)
	}

	report := export.Report{
		Project:    in.Project,
		Board:      in.Board,
		Rules:      in.Rules,
		Allocation: alloc,
		Nesting:    nest,
	}
	purchase := report.Purchase(opts.waste, in.PricePerSheet)

	written, err := writeOutputs(opts.outDir, report, purchase, formats)
	for _, path := range written {
		logger.Info("wrote", "file", path)
	}
	if err != nil {
		return err
	}

	if opts.record {
		if err := recordRun(cmd, root, history.NewRun(in.Project, in.Board, alloc, nest, in.PreferYLong)); err != nil {
			return err
		}
	}

	if err := rememberProject(root, projectPath); err != nil {
		logger.Warn("could not update recent projects", "err", err)
	}

	printRunSummary(cmd.OutOrStdout(), report, purchase)
	return nil
}

func writeOutputs(dir string, r export.Report, purchase model.PurchaseEstimate, formats []string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var written []string
	for _, f := range formats {
		switch f {
		case formatCSV:
			paths, err := export.WriteCSVFiles(dir, r)
			written = append(written, paths...)
			if err != nil {
				return written, err
			}
		case formatExcel:
			path := filepath.Join(dir, "panels.xlsx")
			if err := export.ExportExcel(path, r); err != nil {
				return written, err
			}
			written = append(written, path)
		case formatPDF:
			path := filepath.Join(dir, "nesting.pdf")
			if err := export.ExportPDF(path, r); err != nil {
				return written, err
			}
			written = append(written, path)
		case formatLabels:
			path := filepath.Join(dir, "labels.pdf")
			if err := export.ExportLabels(path, r); err != nil {
				return written, err
			}
			written = append(written, path)
		case formatJSON:
			path := filepath.Join(dir, "result.json")
			data, err := json.MarshalIndent(runResult{
				Project:    r.Project,
				Board:      r.Board,
				Rules:      r.Rules,
				Allocation: r.Allocation,
				Nesting:    r.Nesting,
				Remnants:   r.Remnants(),
				Purchase:   purchase,
			}, "", "  ")
			if err != nil {
				return written, fmt.Errorf("failed to marshal result: %w", err)
			}
			if err := os.WriteFile(path, data, 0644); err != nil {
				return written, fmt.Errorf("failed to write result: %w", err)
			}
			written = append(written, path)
		}
	}
	return written, nil
}

func recordRun(cmd *cobra.Command, root *rootOpts, run history.Run) error {
	store, err := openHistory(cmd, root)
	if err != nil {
		return err
	}
	defer store.Close()

	run, err = store.Record(cmd.Context(), run)
	if err != nil {
		return err
	}
	loggerFromContext(cmd.Context()).Info("recorded run", "id", run.ID)
	return nil
}

// rememberProject moves path to the front of the recent projects list.
func rememberProject(root *rootOpts, path string) error {
	cfg, err := root.config()
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	cfg.AddRecentProject(abs, 10)
	return project.SaveAppConfig(root.configPath, cfg)
}

func printRunSummary(w io.Writer, r export.Report, purchase model.PurchaseEstimate) {
	cut := 0
	for _, p := range r.Allocation.Panels {
		if p.IsCutPiece {
			cut++
		}
	}
	fmt.Fprintf(w, "Project:     %s\n", r.Project.Name)
	fmt.Fprintf(w, "Board:       %s (%dx%d)\n", r.Board.Name, r.Board.Width, r.Board.Height)
	fmt.Fprintf(w, "Walls:       %d\n", len(r.Allocation.Walls))
	fmt.Fprintf(w, "Panels:      %d (%d off-cuts)\n", len(r.Allocation.Panels), cut)
	fmt.Fprintf(w, "Violations:  %d\n", len(r.Allocation.Violations()))
	fmt.Fprintf(w, "Sheets:      %d (utilization %.1f%%)\n", r.Nesting.SheetCount, r.Nesting.Utilization*100)
	if len(r.Nesting.Unplaced) > 0 {
		fmt.Fprintf(w, "Unplaced:    %d\n", len(r.Nesting.Unplaced))
	}
	fmt.Fprintf(w, "Purchase:    %d sheets with %.0f%% waste", purchase.SheetsWithWaste, purchase.WastePercent)
	if purchase.EstimatedCost > 0 {
		fmt.Fprintf(w, ", est. %.2f", purchase.EstimatedCost)
	}
	fmt.Fprintln(w)
}
