package core

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/agenthands/flowforge/internal/config"
	"github.com/agenthands/flowforge/internal/core/engine"
	"github.com/agenthands/flowforge/internal/core/intent"
	"github.com/agenthands/flowforge/internal/core/model"
	"github.com/agenthands/flowforge/internal/driver"
	"github.com/agenthands/flowforge/internal/llm"
)

// retrievalTimeout bounds one similarity-search call. A timed-out
// node degrades to a missing binding instead of failing the request.
const retrievalTimeout = 10 * time.Second

// ArtifactSearcher is the similarity-search store as the synthesizer
// needs it.
type ArtifactSearcher interface {
	SearchSimilar(ctx context.Context, query string, limit int, types []string) ([]model.Artifact, error)
}

// Synthesizer wires the external stores and the LLM boundary around
// the synthesis engine. One Synthesizer serves many requests; all
// per-request state lives in the engine's allocation context.
type Synthesizer struct {
	Driver    driver.GraphDriver
	Artifacts ArtifactSearcher
	LLM       llm.LLMClient
	Extractor *intent.Extractor
	Config    *config.Config

	UUIDGenerator func() string
}

func NewSynthesizer(d driver.GraphDriver, artifacts ArtifactSearcher, llmClient llm.LLMClient, cfg *config.Config) *Synthesizer {
	return &Synthesizer{
		Driver:        d,
		Artifacts:     artifacts,
		LLM:           llmClient,
		Extractor:     intent.NewExtractor(llmClient, cfg.Intent),
		Config:        cfg,
		UUIDGenerator: func() string { return uuid.New().String() },
	}
}

// GenerationResult is everything one request produces: the flow
// graph, the skeleton coverage report when a historical process was
// consulted, and accumulated soft-failure diagnostics.
type GenerationResult struct {
	Flow        model.FlowGraph         `json:"flow"`
	Coverage    *model.Coverage         `json:"coverage,omitempty"`
	Resolved    []model.ResolvedBinding `json:"resolved,omitempty"`
	Missing     []model.MissingNode     `json:"missing,omitempty"`
	Diagnostics model.Diagnostics       `json:"diagnostics"`
}

// GenerateFromText extracts structured intent from free-form
// requirement text and synthesizes a flow. When processName is set,
// the stored topology of that process is stitched against retrieved
// artifacts for a coverage report.
func (s *Synthesizer) GenerateFromText(ctx context.Context, requirement, processName string) (*GenerationResult, error) {
	components, err := s.Extractor.ExtractComponents(ctx, requirement)
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, components, processName)
}

// GenerateFromComponents synthesizes a flow from a pre-structured
// component list, running it through the same validation gate as LLM
// output.
func (s *Synthesizer) GenerateFromComponents(ctx context.Context, raw []intent.RawComponent, processName string) (*GenerationResult, error) {
	components, err := intent.Validate(raw)
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, components, processName)
}

func (s *Synthesizer) generate(ctx context.Context, components []model.Component, processName string) (*GenerationResult, error) {
	flow, diag := engine.SynthesizeFlow(components)
	result := &GenerationResult{Flow: flow, Diagnostics: diag}

	if processName == "" {
		return result, nil
	}

	skeleton, err := s.GetSkeleton(ctx, processName)
	if err != nil {
		// A missing or unreachable skeleton is a soft failure: the
		// flow is still generated, just without coverage.
		result.Diagnostics.Warnf("skeleton lookup for %q failed: %v", processName, err)
		return result, nil
	}

	ordered := engine.OrderSkeleton(skeleton.Nodes, skeleton.Edges)
	artifacts := s.retrieveArtifacts(ctx, ordered, &result.Diagnostics)

	resolved, missing := engine.ResolveArtifacts(ordered, artifacts, s.Config.Engine.ResolveThreshold)
	coverage := engine.Stitch(ordered, resolved, missing)
	if err := engine.CheckCoverage(coverage); err != nil {
		return nil, err
	}

	result.Coverage = &coverage
	result.Resolved = resolved
	result.Missing = missing
	return result, nil
}

// retrieveArtifacts fans similarity search out across the ordered
// nodes, then flattens the per-node results back in skeleton order.
// Retrieval failures degrade to missing bindings.
func (s *Synthesizer) retrieveArtifacts(ctx context.Context, ordered []model.Node, diag *model.Diagnostics) []model.Artifact {
	if s.Artifacts == nil || len(ordered) == 0 {
		return nil
	}

	limit := s.Config.Engine.RetrievalLimit
	perNode := make([][]model.Artifact, len(ordered))
	failures := make([]error, len(ordered))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Config.Engine.Concurrency)
	for i, node := range ordered {
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(gctx, retrievalTimeout)
			defer cancel()

			results, err := s.Artifacts.SearchSimilar(callCtx, node.Name, limit, nil)
			if err != nil {
				failures[i] = err
				return nil
			}
			perNode[i] = results
			return nil
		})
	}
	// Workers never return errors; Wait is only a join point.
	_ = g.Wait()

	// Gather-then-reorder: flatten in skeleton order regardless of
	// retrieval completion order, deduplicating shared hits.
	var artifacts []model.Artifact
	seen := make(map[string]bool)
	for i := range ordered {
		if failures[i] != nil {
			diag.Warnf("artifact retrieval for node %q failed: %v", ordered[i].Name, failures[i])
			continue
		}
		for _, a := range perNode[i] {
			key := a.ID
			if key == "" {
				key = a.DocumentName + "/" + a.Name
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			artifacts = append(artifacts, a)
		}
	}
	return artifacts
}

// GetSkeleton fetches the stored topology of a process. An unknown
// process yields an empty skeleton, not an error.
func (s *Synthesizer) GetSkeleton(ctx context.Context, name string) (model.Skeleton, error) {
	var skeleton model.Skeleton

	nodeResult, err := s.Driver.ExecuteQuery(ctx, driver.GetSkeletonNodesQuery, map[string]interface{}{"name": name})
	if err != nil {
		return skeleton, err
	}
	for _, rec := range nodeResult.Records {
		id, _ := rec.Get("id")
		nodeName, _ := rec.Get("name")
		nodeType, _ := rec.Get("type")
		folderID, _ := rec.Get("folder_id")
		skeleton.Nodes = append(skeleton.Nodes, model.Node{
			ID:       asString(id),
			Name:     asString(nodeName),
			Type:     asString(nodeType),
			FolderID: asString(folderID),
		})
	}

	edgeResult, err := s.Driver.ExecuteQuery(ctx, driver.GetSkeletonEdgesQuery, map[string]interface{}{"name": name})
	if err != nil {
		return skeleton, err
	}
	for _, rec := range edgeResult.Records {
		fromID, _ := rec.Get("from_id")
		toID, _ := rec.Get("to_id")
		relation, _ := rec.Get("relation")
		skeleton.Edges = append(skeleton.Edges, model.Edge{
			FromID:   asString(fromID),
			ToID:     asString(toID),
			Relation: asString(relation),
		})
	}

	return skeleton, nil
}

// SaveSkeleton stores a process topology so later generations can
// stitch against it.
func (s *Synthesizer) SaveSkeleton(ctx context.Context, name string, skeleton model.Skeleton) error {
	now := time.Now().UTC()

	_, err := s.Driver.ExecuteQuery(ctx, driver.SaveProcessNodeQuery, map[string]interface{}{
		"name":       name,
		"uuid":       s.UUIDGenerator(),
		"folder_id":  "",
		"created_at": now,
	})
	if err != nil {
		return err
	}

	for _, n := range skeleton.Nodes {
		_, err := s.Driver.ExecuteQuery(ctx, driver.SaveStepNodeQuery, map[string]interface{}{
			"process_name": name,
			"id":           n.ID,
			"name":         n.Name,
			"type":         n.Type,
			"folder_id":    n.FolderID,
		})
		if err != nil {
			return err
		}
	}

	for _, e := range skeleton.Edges {
		_, err := s.Driver.ExecuteQuery(ctx, driver.SaveNextStepEdgeQuery, map[string]interface{}{
			"from_id":  e.FromID,
			"to_id":    e.ToID,
			"relation": e.Relation,
		})
		if err != nil {
			log.Printf("Failed to link steps %s -> %s: %v", e.FromID, e.ToID, err)
		}
	}

	return nil
}

// ListProcesses returns the names of all stored process topologies.
func (s *Synthesizer) ListProcesses(ctx context.Context) ([]string, error) {
	result, err := s.Driver.ExecuteQuery(ctx, driver.ListProcessesQuery, nil)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(result.Records))
	for _, rec := range result.Records {
		name, _ := rec.Get("name")
		names = append(names, asString(name))
	}
	return names, nil
}

func (s *Synthesizer) BuildIndices(ctx context.Context) error {
	return s.Driver.BuildIndices(ctx)
}

func asString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
