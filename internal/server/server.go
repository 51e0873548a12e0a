// Package server exposes the allocation and nesting engine as a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/piwi3910/PanelCut/internal/history"
	"github.com/piwi3910/PanelCut/internal/model"
	"github.com/piwi3910/PanelCut/internal/project"
)

// Server serves the engine over HTTP. Store may be nil, in which case runs
// are not recorded and the history endpoints answer 503.
type Server struct {
	master  project.Master
	catalog model.Catalog
	store   *history.Store
	logger  *log.Logger
}

// New creates a server that falls back to master for any board, rules or
// pitch a request leaves out.
func New(master project.Master, catalog model.Catalog, store *history.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{master: master, catalog: catalog, store: store, logger: logger}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/allocate", s.handleAllocate)
		api.POST("/nest", s.handleNest)
		api.POST("/run", s.handleRun)
		api.POST("/compare", s.handleCompare)
		api.GET("/boards", s.handleBoards)
		api.GET("/history", s.handleHistory)
		api.GET("/history/:id", s.handleHistoryRun)
	}
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"elapsed", time.Since(start).Round(time.Microsecond),
		}
		if status >= http.StatusInternalServerError {
			s.logger.Error("request failed", append(fields, "err", c.Errors.String())...)
			return
		}
		s.logger.Debug("request", fields...)
	}
}

// abort writes an error response. Invalid input maps to 400, a missing
// run to 404 and everything else to 500.
func abort(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	body := gin.H{"error": err.Error()}

	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
		body["field"] = verr.Field
	case errors.Is(err, model.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, history.ErrNotFound):
		status = http.StatusNotFound
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}

func (s *Server) handleBoards(c *gin.Context) {
	c.JSON(http.StatusOK, s.catalog)
}

func (s *Server) handleHistory(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run history is disabled"})
		return
	}
	limit := 20
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		limit = n
	}

	var (
		runs []history.Run
		err  error
	)
	if projectID := c.Query("project"); projectID != "" {
		runs, err = s.store.ListProject(c.Request.Context(), projectID)
	} else {
		runs, err = s.store.List(c.Request.Context(), limit)
	}
	if err != nil {
		abort(c, err)
		return
	}
	if runs == nil {
		runs = []history.Run{}
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (s *Server) handleHistoryRun(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run history is disabled"})
		return
	}
	run, err := s.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

// boardAndRules resolves the optional request overrides against the master data.
func (s *Server) boardAndRules(board *model.BoardMaster, rules *model.Rules) (model.BoardMaster, model.Rules) {
	b, r := s.master.Board, s.master.Rules
	if board != nil {
		b = *board
	}
	if rules != nil {
		r = *rules
	}
	return b, r
}

func (s *Server) pitch(p int) int {
	if p == 0 {
		return s.master.StudPitch
	}
	return p
}
