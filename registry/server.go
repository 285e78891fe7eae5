// Copyright 2026 The ptmpath Authors
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/camposlab/ptmpath/pipeline"
)

const defaultRowLimit = 200

// Server exposes the registry and pipeline results over a local HTTP API.
type Server struct {
	repo Repository
}

// NewServer creates a server backed by the given repository.
func NewServer(repo Repository) *Server {
	return &Server{repo: repo}
}

// Router builds the gin engine with all API routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	r.GET("/api/ptms", s.listPTMs)
	r.POST("/api/ptms", s.addPTM)
	r.DELETE("/api/ptms/:name", s.removePTM)

	r.GET("/api/drugs", s.listDrugs)
	r.POST("/api/drugs", s.addDrug)
	r.DELETE("/api/drugs/:name", s.removeDrug)

	r.POST("/api/pipeline/run", s.runPipeline)

	r.GET("/api/measurements", s.listMeasurements)
	r.GET("/api/correlations", s.listPairScores)
	r.GET("/api/clusters", s.listClusters)
	r.GET("/api/summary", s.summary)

	return r
}

// Run starts the server on the given address.
func (s *Server) Run(addr string) error {
	return s.Router().Run(addr)
}

type entryRequest struct {
	Name  string `json:"name" binding:"required"`
	Notes string `json:"notes"`
}

func (s *Server) addEntry(ctx *gin.Context, save func(name, notes string) error) {
	var req entryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if err := save(pipeline.SanitizeName(req.Name), req.Notes); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"name": pipeline.SanitizeName(req.Name)})
}

func (s *Server) removeEntry(ctx *gin.Context, remove func(name string) error) {
	name := ctx.Param("name")

	if err := remove(name); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrNotFound) {
			status = http.StatusNotFound
		}

		ctx.JSON(status, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"removed": name})
}

func (s *Server) listEntries(ctx *gin.Context, list func() ([]Entry, error)) {
	entries, err := list()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	if entries == nil {
		entries = []Entry{}
	}

	ctx.JSON(http.StatusOK, entries)
}

func (s *Server) listPTMs(ctx *gin.Context)   { s.listEntries(ctx, s.repo.ListPTMs) }
func (s *Server) addPTM(ctx *gin.Context)     { s.addEntry(ctx, s.repo.SavePTM) }
func (s *Server) removePTM(ctx *gin.Context)  { s.removeEntry(ctx, s.repo.RemovePTM) }
func (s *Server) listDrugs(ctx *gin.Context)  { s.listEntries(ctx, s.repo.ListDrugs) }
func (s *Server) addDrug(ctx *gin.Context)    { s.addEntry(ctx, s.repo.SaveDrug) }
func (s *Server) removeDrug(ctx *gin.Context) { s.removeEntry(ctx, s.repo.RemoveDrug) }

type runRequest struct {
	Seed      int64   `json:"seed"`
	Threshold float64 `json:"threshold"`
	MinScore  float64 `json:"min_score"`
	MaxScore  float64 `json:"max_score"`
}

type runResponse struct {
	Version      string  `json:"version"`
	Seed         int64   `json:"seed"`
	Threshold    float64 `json:"threshold"`
	Measurements int     `json:"measurements"`
	PairScores   int     `json:"pair_scores"`
	Clusters     int     `json:"clusters"`
}

func (s *Server) runPipeline(ctx *gin.Context) {
	var req runRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

			return
		}
	}

	snap, err := s.repo.Snapshot()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	res, err := pipeline.Run(snap, pipeline.Options{
		Seed:      req.Seed,
		Threshold: req.Threshold,
		MinScore:  req.MinScore,
		MaxScore:  req.MaxScore,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if pipeline.IsIncompleteInputError(err) || pipeline.IsInvalidNameError(err) {
			status = http.StatusUnprocessableEntity
		}

		ctx.JSON(status, gin.H{"error": err.Error()})

		return
	}

	if err := s.repo.SaveResult(res); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	log.Printf("pipeline run %s: %d measurements, %d scores, %d clusters",
		res.Version, len(res.Measurements), len(res.Scores), len(res.Clusters))

	ctx.JSON(http.StatusOK, runResponse{
		Version:      res.Version,
		Seed:         res.Seed,
		Threshold:    res.Threshold,
		Measurements: len(res.Measurements),
		PairScores:   len(res.Scores),
		Clusters:     len(res.Clusters),
	})
}

func pageParams(ctx *gin.Context) (limit, offset int) {
	limit = defaultRowLimit

	if v := ctx.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	if v := ctx.Query("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	return limit, offset
}

func (s *Server) listMeasurements(ctx *gin.Context) {
	limit, offset := pageParams(ctx)

	measurements, err := s.repo.ListMeasurements(limit, offset)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	if measurements == nil {
		measurements = []pipeline.Measurement{}
	}

	ctx.JSON(http.StatusOK, measurements)
}

func (s *Server) listPairScores(ctx *gin.Context) {
	limit, offset := pageParams(ctx)

	scores, err := s.repo.ListPairScores(limit, offset)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	if scores == nil {
		scores = []pipeline.PairScore{}
	}

	ctx.JSON(http.StatusOK, scores)
}

func (s *Server) listClusters(ctx *gin.Context) {
	clusters, err := s.repo.ListClusters()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	if clusters == nil {
		clusters = []pipeline.Cluster{}
	}

	ctx.JSON(http.StatusOK, clusters)
}

func (s *Server) summary(ctx *gin.Context) {
	summary, err := s.repo.Summary()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, summary)
}
