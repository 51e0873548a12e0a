package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/piwi3910/PanelCut/internal/engine"
	"github.com/piwi3910/PanelCut/internal/history"
	"github.com/piwi3910/PanelCut/internal/model"
)

// AllocateRequest is the body of POST /api/allocate. Board, rules and a zero
// stud pitch fall back to the server's master data.
type AllocateRequest struct {
	Project    model.Project       `json:"project"`
	Board      *model.BoardMaster  `json:"board,omitempty"`
	Rules      *model.Rules        `json:"rules,omitempty"`
	StudPitch  int                 `json:"stud_pitch"`
	ExtraWalls []model.WallSegment `json:"extra_walls,omitempty"`
	OutputMode string              `json:"output_mode,omitempty"`
}

// NestRequest is the body of POST /api/nest.
type NestRequest struct {
	Panels      []model.Panel      `json:"panels"`
	Board       *model.BoardMaster `json:"board,omitempty"`
	Rules       *model.Rules       `json:"rules,omitempty"`
	PreferYLong bool               `json:"prefer_y_long"`
}

// RunRequest is the body of POST /api/run: allocation followed by nesting.
type RunRequest struct {
	AllocateRequest
	PreferYLong *bool `json:"prefer_y_long,omitempty"`
	Record      bool  `json:"record"`
}

// RunResponse is the answer to POST /api/run.
type RunResponse struct {
	RunID      string                 `json:"run_id,omitempty"`
	Allocation engine.Allocation      `json:"allocation"`
	Nesting    engine.NestResult      `json:"nesting"`
	Remnants   []model.Remnant        `json:"remnants"`
	Purchase   model.PurchaseEstimate `json:"purchase"`
}

// CompareRequest is the body of POST /api/compare. No scenarios means the
// default pitch and grain combinations.
type CompareRequest struct {
	AllocateRequest
	Scenarios []engine.ComparisonScenario `json:"scenarios,omitempty"`
}

func (s *Server) allocate(req AllocateRequest) (engine.Allocation, model.BoardMaster, model.Rules, error) {
	board, rules := s.boardAndRules(req.Board, req.Rules)
	alloc, err := engine.NewAllocator(board, rules).Allocate(req.Project, engine.AllocateOptions{
		StudPitch:  s.pitch(req.StudPitch),
		OutputMode: req.OutputMode,
		ExtraWalls: req.ExtraWalls,
	})
	return alloc, board, rules, err
}

func (s *Server) handleAllocate(c *gin.Context) {
	var req AllocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	alloc, _, _, err := s.allocate(req)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, alloc)
}

func (s *Server) handleNest(c *gin.Context) {
	var req NestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	board, rules := s.boardAndRules(req.Board, req.Rules)
	nester := engine.NewNester(board, rules)
	if err := nester.Validate(req.Panels); err != nil {
		abort(c, err)
		return
	}
	result := nester.Nest(req.Panels, req.PreferYLong)
	for _, p := range result.Unplaced {
		s.logger.Warn("panel does not fit the board", "panel", p.Label, "width", p.Width, "height", p.Height)
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleRun(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	alloc, board, rules, err := s.allocate(req.AllocateRequest)
	if err != nil {
		abort(c, err)
		return
	}

	preferYLong := s.master.PreferYLong
	if req.PreferYLong != nil {
		preferYLong = *req.PreferYLong
	}
	nester := engine.NewNester(board, rules)
	if err := nester.Validate(alloc.Panels); err != nil {
		abort(c, err)
		return
	}
	nest := nester.Nest(alloc.Panels, preferYLong)

	resp := RunResponse{
		Allocation: alloc,
		Nesting:    nest,
		Remnants:   model.DetectAllRemnants(nest.Placements, nest.SheetCount, board, rules.Kerf),
		Purchase:   model.EstimatePurchase(alloc.Panels, board, rules.Kerf, 10, s.price(board.Name)),
	}

	if req.Record {
		if s.store == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run history is disabled"})
			return
		}
		run, err := s.store.Record(c.Request.Context(), history.NewRun(req.Project, board, alloc, nest, preferYLong))
		if err != nil {
			abort(c, err)
			return
		}
		resp.RunID = run.ID
	}

	s.logger.Debug("run complete", "project", req.Project.ID, "panels", len(alloc.Panels), "sheets", nest.SheetCount)
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleCompare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	board, rules := s.boardAndRules(req.Board, req.Rules)
	scenarios := req.Scenarios
	if len(scenarios) == 0 {
		scenarios = engine.DefaultScenarios(s.pitch(req.StudPitch))
	}
	results, err := engine.CompareScenarios(req.Project, board, rules, scenarios)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// price looks the board up in the catalog; unknown boards cost nothing.
func (s *Server) price(boardName string) float64 {
	if p := s.catalog.FindByName(boardName); p != nil {
		return p.PricePerSheet
	}
	return 0
}
