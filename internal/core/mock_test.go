package core

import (
	"context"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/agenthands/flowforge/internal/core/model"
)

type MockDriver struct {
	// Results maps a query string to its canned result; queries not
	// present fall back to an empty result.
	Results       map[string]neo4j.EagerResult
	QueryExecuted string
	QueryParams   map[string]interface{}
	Err           error
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	m.QueryExecuted = query
	m.QueryParams = params
	if m.Err != nil {
		return neo4j.EagerResult{}, m.Err
	}
	if res, ok := m.Results[query]; ok {
		return res, nil
	}
	return neo4j.EagerResult{Records: []*neo4j.Record{}}, nil
}

func (m *MockDriver) BuildIndices(ctx context.Context) error {
	return nil
}

func (m *MockDriver) Close(ctx context.Context) error {
	return nil
}

type MockSearcher struct {
	// Artifacts returned for every query.
	Artifacts []model.Artifact
	Err       error

	mu      sync.Mutex
	Queries []string
}

func (m *MockSearcher) SearchSimilar(ctx context.Context, query string, limit int, types []string) ([]model.Artifact, error) {
	m.mu.Lock()
	m.Queries = append(m.Queries, query)
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Artifacts, nil
}

type MockLLM struct {
	Response string
	Err      error
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
