package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bddBrowser/internal/config"
	"bddBrowser/internal/database"
	"bddBrowser/internal/logger"
)

// RunStore - чтение истории прогонов.
type RunStore interface {
	GetRun(id uint) (*database.ScenarioRun, error)
	ListRuns(limit, offset int) ([]database.ScenarioRun, error)
	GetSteps(runID uint) ([]database.StepRun, error)
}

type Server struct {
	cfg  *config.Cfg
	log  *logger.Zap
	runs RunStore
}

func New(cfg *config.Cfg, log *logger.Zap, runs RunStore) *Server {
	return &Server{
		cfg:  cfg,
		log:  log,
		runs: runs,
	}
}

const (
	defaultLimit = 50
	maxLimit     = 500
)

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("HTTP",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Список прогонов
	r.GET("/api/runs", func(c *gin.Context) {
		limit, err := queryInt(c, "limit", defaultLimit)
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad limit"})
			return
		}
		if limit > maxLimit {
			limit = maxLimit
		}
		offset, err := queryInt(c, "offset", 0)
		if err != nil || offset < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad offset"})
			return
		}

		runs, err := s.runs.ListRuns(limit, offset)
		if err != nil {
			s.log.Error("db list runs", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		c.JSON(http.StatusOK, runs)
	})

	// Прогон со списком шагов
	r.GET("/api/runs/:id", func(c *gin.Context) {
		id64, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || id64 == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad id"})
			return
		}
		run, err := s.runs.GetRun(uint(id64))
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		if err != nil {
			s.log.Error("db get run", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		steps, err := s.runs.GetSteps(run.ID)
		if err != nil {
			s.log.Error("db get steps", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"run": run, "steps": steps})
	})

	r.Static("/artifacts", s.cfg.Artifacts.Dir)

	return r
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	v := c.Query(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

// Run обслуживает API до отмены ctx.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.Server.Host, s.cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Сервер отчетов запущен", zap.String("addr", addr))
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
		s.log.Info("Остановка сервера отчетов")
		return srv.Shutdown(shutdownCtx)
	}
}
