package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agenthands/flowforge/internal/core/model"
)

func TestResolveArtifacts_ThresholdGating(t *testing.T) {
	// A and C clear the threshold, B does not.
	nodes := []model.Node{
		{ID: "1", Name: "A"}, {ID: "2", Name: "B"}, {ID: "3", Name: "C"},
	}
	artifacts := []model.Artifact{
		{Name: "A", Confidence: 0.9},
		{Name: "B", Confidence: 0.5},
		{Name: "C", Confidence: 0.8},
	}

	resolved, missing := ResolveArtifacts(nodes, artifacts, 0.65)

	assert.Len(t, resolved, 2)
	assert.Equal(t, "A", resolved[0].Artifact.Name)
	assert.Equal(t, "C", resolved[1].Artifact.Name)

	assert.Len(t, missing, 1)
	assert.Equal(t, "B", missing[0].Node.Name)
	// The below-threshold exact match is still attached as a candidate.
	assert.Len(t, missing[0].Candidates, 1)
	assert.Equal(t, "B", missing[0].Candidates[0].Name)

	coverage := Stitch(nodes, resolved, missing)
	assert.Equal(t, model.Coverage{NodesTotal: 3, NodesResolved: 2, Missing: []string{"B"}}, coverage)
	assert.NoError(t, CheckCoverage(coverage))
}

func TestResolveArtifacts_ExactMatchPrefersHighestConfidence(t *testing.T) {
	nodes := []model.Node{{ID: "1", Name: "Order Split"}}
	artifacts := []model.Artifact{
		{Name: "order split", DocumentName: "doc-a", Confidence: 0.7},
		{Name: "Order Split", DocumentName: "doc-b", Confidence: 0.95},
	}

	resolved, missing := ResolveArtifacts(nodes, artifacts, 0.65)

	assert.Empty(t, missing)
	assert.Len(t, resolved, 1)
	assert.Equal(t, 0.95, resolved[0].Artifact.Confidence)
}

func TestResolveArtifacts_TokenOverlapFallback(t *testing.T) {
	nodes := []model.Node{{ID: "1", Name: "invoice validation step"}}
	artifacts := []model.Artifact{
		{Name: "customer onboarding", DocumentName: "d1", Confidence: 0.9},
		{Name: "invoice validation", DocumentName: "d2", Confidence: 0.8},
	}

	resolved, missing := ResolveArtifacts(nodes, artifacts, 0.65)

	assert.Empty(t, missing)
	assert.Len(t, resolved, 1)
	assert.Equal(t, "invoice validation", resolved[0].Artifact.Name)
}

func TestResolveArtifacts_NoTokenOverlapIsMissing(t *testing.T) {
	nodes := []model.Node{{ID: "1", Name: "alpha"}}
	artifacts := []model.Artifact{
		{Name: "beta", Confidence: 0.99},
	}

	resolved, missing := ResolveArtifacts(nodes, artifacts, 0.65)

	assert.Empty(t, resolved)
	assert.Len(t, missing, 1)
	assert.Empty(t, missing[0].Candidates)
}

func TestResolveArtifacts_NoArtifacts(t *testing.T) {
	nodes := []model.Node{{ID: "1", Name: "A"}, {ID: "2", Name: "B"}}

	resolved, missing := ResolveArtifacts(nodes, nil, 0.65)

	assert.Empty(t, resolved)
	assert.Len(t, missing, 2)
	for _, m := range missing {
		assert.NotNil(t, m.Candidates)
		assert.Empty(t, m.Candidates)
	}
}

func TestResolveArtifacts_CandidatesCappedAtTwo(t *testing.T) {
	nodes := []model.Node{{ID: "1", Name: "A"}}
	artifacts := []model.Artifact{
		{Name: "A", DocumentName: "d1", Confidence: 0.1},
		{Name: "a", DocumentName: "d2", Confidence: 0.2},
		{Name: "A", DocumentName: "d3", Confidence: 0.3},
	}

	_, missing := ResolveArtifacts(nodes, artifacts, 0.65)

	assert.Len(t, missing, 1)
	assert.Len(t, missing[0].Candidates, 2)
}

func TestResolveArtifacts_NoBindingBelowThreshold(t *testing.T) {
	nodes := []model.Node{
		{ID: "1", Name: "A"}, {ID: "2", Name: "B"}, {ID: "3", Name: "C"}, {ID: "4", Name: "D"},
	}
	artifacts := []model.Artifact{
		{Name: "A", Confidence: 0.64},
		{Name: "B", Confidence: 0.65},
		{Name: "C", Confidence: 0.66},
		{Name: "D", Confidence: 1.0},
	}

	resolved, _ := ResolveArtifacts(nodes, artifacts, 0.65)

	for _, b := range resolved {
		assert.GreaterOrEqual(t, b.Artifact.Confidence, 0.65)
	}
	assert.Len(t, resolved, 3)
}
