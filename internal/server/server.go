package server

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agenthands/flowforge/internal/config"
	"github.com/agenthands/flowforge/internal/core"
	"github.com/agenthands/flowforge/internal/core/intent"
	"github.com/agenthands/flowforge/internal/core/model"
	"github.com/agenthands/flowforge/internal/driver"
	"github.com/agenthands/flowforge/internal/llm"
	"github.com/agenthands/flowforge/internal/store"
)

type Server struct {
	Synthesizer *core.Synthesizer
	Artifacts   *store.SQLiteStore
}

// NewServer wires the stores and the LLM boundary from an already
// loaded config (see cmd/server for file loading and env overrides).
func NewServer(cfg *config.Config) *Server {
	uri := cfg.Memgraph.URI
	if uri == "" {
		uri = "bolt://localhost:7687"
	}
	d, err := driver.NewMemgraphDriver(uri, cfg.Memgraph.User, cfg.Memgraph.Password)
	if err != nil {
		log.Fatalf("Failed to connect to Memgraph: %v", err)
	}

	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "ollama"
		cfg.LLM.Model = "gpt-oss:latest"
		cfg.LLM.BaseURL = "http://localhost:11434"
	}

	llmClient, embedderClient, err := llm.NewClient(context.Background(), cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}

	artifacts, err := store.NewSQLiteStore(cfg.Artifacts.Path, embedderClient)
	if err != nil {
		log.Fatalf("Failed to open artifact store: %v", err)
	}

	s := core.NewSynthesizer(d, artifacts, llmClient, cfg)

	return &Server{
		Synthesizer: s,
		Artifacts:   artifacts,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.POST("/generate", s.Generate)
	r.POST("/skeletons", s.SaveSkeleton)
	r.GET("/processes", s.ListProcesses)
	r.POST("/artifacts", s.SaveArtifacts)
	r.POST("/search", s.Search)
	r.GET("/health", s.Health)

	return r
}

// GenerateRequest accepts either free-form requirement text or a
// pre-structured component list. Process optionally names a stored
// topology to stitch coverage against.
type GenerateRequest struct {
	Requirement string                `json:"requirement"`
	Components  []intent.RawComponent `json:"components"`
	Process     string                `json:"process"`
}

func (s *Server) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var (
		result *core.GenerationResult
		err    error
	)
	switch {
	case len(req.Components) > 0:
		result, err = s.Synthesizer.GenerateFromComponents(c.Request.Context(), req.Components, req.Process)
	case req.Requirement != "":
		result, err = s.Synthesizer.GenerateFromText(c.Request.Context(), req.Requirement, req.Process)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Either requirement or components must be provided"})
		return
	}

	if err != nil {
		if errors.Is(err, intent.ErrMalformedIntent) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Failed to generate flow: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate flow"})
		return
	}

	c.JSON(http.StatusOK, result)
}

type SaveSkeletonRequest struct {
	Process  string         `json:"process"`
	Skeleton model.Skeleton `json:"skeleton"`
}

func (s *Server) SaveSkeleton(c *gin.Context) {
	var req SaveSkeletonRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Process == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := s.Synthesizer.SaveSkeleton(c.Request.Context(), req.Process, req.Skeleton); err != nil {
		log.Printf("Failed to save skeleton: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save skeleton"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (s *Server) ListProcesses(c *gin.Context) {
	names, err := s.Synthesizer.ListProcesses(c.Request.Context())
	if err != nil {
		log.Printf("Failed to list processes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list processes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"processes": names})
}

type SaveArtifactsRequest struct {
	Artifacts []model.Artifact `json:"artifacts"`
}

func (s *Server) SaveArtifacts(c *gin.Context) {
	var req SaveArtifactsRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Artifacts) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := s.Artifacts.Put(c.Request.Context(), req.Artifacts); err != nil {
		log.Printf("Failed to save artifacts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save artifacts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "count": len(req.Artifacts)})
}

type SearchRequest struct {
	Query string   `json:"query"`
	Limit int      `json:"limit"`
	Types []string `json:"types"`
}

func (s *Server) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	results, err := s.Artifacts.SearchSimilar(c.Request.Context(), req.Query, req.Limit, req.Types)
	if err != nil {
		log.Printf("Failed to search: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
