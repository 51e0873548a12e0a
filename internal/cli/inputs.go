package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PanelCut/internal/importer"
	"github.com/piwi3910/PanelCut/internal/model"
	"github.com/piwi3910/PanelCut/internal/project"
)

// inputOpts are the flags that describe what to run the engine on.
type inputOpts struct {
	masterPath   string
	openingsPath string
	wallsPath    string
	board        string
	pitch        int
	preferYLong  bool
}

func (o *inputOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.masterPath, "master", "m", "", "master data TOML (board, rules, stud pitch)")
	cmd.Flags().StringVar(&o.openingsPath, "openings", "", "openings list to add (.csv or .xlsx)")
	cmd.Flags().StringVar(&o.wallsPath, "walls-dxf", "", "DXF drawing with extra partition walls")
	cmd.Flags().StringVarP(&o.board, "board", "b", "", "catalog board name (overrides master data)")
	cmd.Flags().IntVarP(&o.pitch, "pitch", "p", 0, "stud pitch in mm: 455 or 303")
	cmd.Flags().BoolVar(&o.preferYLong, "prefer-y-long", false, "keep panels upright when nesting")
}

// runInputs is everything one engine run needs.
type runInputs struct {
	Project       model.Project
	Board         model.BoardMaster
	Rules         model.Rules
	StudPitch     int
	PreferYLong   bool
	ExtraWalls    []model.WallSegment
	PricePerSheet float64
}

// loadInputs resolves the project file and flags into engine inputs.
// Settings are layered: defaults, then the app config, then the master
// file, then flags.
func loadInputs(cmd *cobra.Command, root *rootOpts, in *inputOpts, projectPath string) (runInputs, error) {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := root.config()
	if err != nil {
		return runInputs{}, err
	}
	catalog, err := root.catalog()
	if err != nil {
		return runInputs{}, err
	}

	p, err := loadProject(projectPath)
	if err != nil {
		return runInputs{}, err
	}
	logger.Debug("loaded project", "id", p.ID, "name", p.Name, "openings", len(p.Openings))

	master := project.DefaultMaster()
	master.StudPitch = cfg.DefaultStudPitch
	master.PreferYLong = cfg.PreferYLong
	cfg.ApplyToRules(&master.Rules)
	boardChosen := false

	if preset := catalog.FindByName(cfg.DefaultBoard); cfg.DefaultBoard != "" && preset != nil {
		master.Board = preset.Board
		boardChosen = true
	}
	if in.masterPath != "" {
		master, err = project.LoadMaster(in.masterPath)
		if err != nil {
			return runInputs{}, err
		}
		boardChosen = true
	}
	if in.board != "" {
		preset := catalog.FindByName(in.board)
		if preset == nil {
			return runInputs{}, model.Invalid("board", "%q is not in the catalog (have %s)", in.board, strings.Join(catalog.Names(), ", "))
		}
		master.Board = preset.Board
		boardChosen = true
	}
	if !boardChosen {
		master.Board = model.BoardForHeight(p.Room.Height)
		logger.Debug("picked board for wall height", "height", p.Room.Height, "board", master.Board.Name)
	}

	if cmd.Flags().Changed("pitch") {
		master.StudPitch = in.pitch
	}
	if cmd.Flags().Changed("prefer-y-long") {
		master.PreferYLong = in.preferYLong
	}

	if in.openingsPath != "" {
		openings, err := importOpenings(ctx, in.openingsPath)
		if err != nil {
			return runInputs{}, err
		}
		p.Openings = append(p.Openings, openings...)
	}

	var extra []model.WallSegment
	if in.wallsPath != "" {
		result := importer.ImportWallsDXF(in.wallsPath)
		for _, w := range result.Warnings {
			logger.Warn(w, "file", in.wallsPath)
		}
		if len(result.Errors) > 0 {
			return runInputs{}, fmt.Errorf("failed to import walls from %s: %s", in.wallsPath, strings.Join(result.Errors, "; "))
		}
		extra = result.Segments
		logger.Debug("imported extra walls", "count", len(extra))
	}

	price := 0.0
	if preset := catalog.FindByName(master.Board.Name); preset != nil {
		price = preset.PricePerSheet
	}

	return runInputs{
		Project:       p,
		Board:         master.Board,
		Rules:         master.Rules,
		StudPitch:     master.StudPitch,
		PreferYLong:   master.PreferYLong,
		ExtraWalls:    extra,
		PricePerSheet: price,
	}, nil
}

// loadProject reads a saved project (.json) or a CEDXM room (.xml, .cedxm).
func loadProject(path string) (model.Project, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".json"):
		return project.LoadProject(path)
	case strings.HasSuffix(lower, ".xml"), strings.HasSuffix(lower, ".cedxm"):
		return importer.LoadCEDXMFile(path)
	default:
		return model.Project{}, fmt.Errorf("unsupported project file %s: expected .json, .xml or .cedxm", filepath.Base(path))
	}
}

func importOpenings(ctx context.Context, path string) ([]model.Opening, error) {
	logger := loggerFromContext(ctx)

	var result importer.ImportResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		result = importer.ImportOpeningsCSV(path)
	case ".xlsx", ".xlsm":
		result = importer.ImportOpeningsExcel(path)
	default:
		return nil, fmt.Errorf("unsupported openings file %s: expected .csv or .xlsx", filepath.Base(path))
	}

	for _, w := range result.Warnings {
		logger.Warn(w, "file", path)
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("failed to import openings from %s: %w", path, errors.New(strings.Join(result.Errors, "; ")))
	}
	logger.Debug("imported openings", "count", len(result.Openings))
	return result.Openings, nil
}
