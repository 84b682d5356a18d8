// Package store holds the similarity-search side of the pipeline: a
// SQLite-backed artifact store with embedding search. Retrieval is
// best effort; zero results is a valid answer.
package store

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/agenthands/flowforge/internal/core/common"
	"github.com/agenthands/flowforge/internal/core/model"
	"github.com/agenthands/flowforge/internal/llm"
)

var (
	ErrStoreClosed = errors.New("artifact store is closed")
	ErrNotFound    = errors.New("artifact not found")
)

// SQLiteStore persists content artifacts with their embeddings.
// The path may be a file path or ":memory:" for testing.
type SQLiteStore struct {
	db       *sql.DB
	embedder llm.EmbedderClient

	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore opens (and if needed initializes) the artifact
// database. The embedder may be nil; search then degrades to
// token-overlap text scoring.
func NewSQLiteStore(path string, embedder llm.EmbedderClient) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS artifacts (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			document_name TEXT NOT NULL,
			chunk_type TEXT NOT NULL,
			content TEXT NOT NULL,
			embedding BLOB
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_artifacts_chunk_type
		ON artifacts(chunk_type)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &SQLiteStore{db: db, embedder: embedder}, nil
}

// Put stores artifacts, computing embeddings when an embedder is
// configured. Existing ids are replaced.
func (s *SQLiteStore) Put(ctx context.Context, artifacts []model.Artifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	for _, a := range artifacts {
		if a.ID == "" {
			a.ID = uuid.New().String()
		}

		var blob []byte
		if s.embedder != nil {
			vec, err := s.embedder.Embed(ctx, a.Name+"\n"+a.Content)
			if err == nil {
				blob = encodeVector(vec)
			}
			// Embedding failures degrade to text search for this row.
		}

		_, err := s.db.ExecContext(ctx, `
			INSERT INTO artifacts (id, name, document_name, chunk_type, content, embedding)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				document_name = excluded.document_name,
				chunk_type = excluded.chunk_type,
				content = excluded.content,
				embedding = excluded.embedding
		`, a.ID, a.Name, a.DocumentName, a.ChunkType, a.Content, blob)
		if err != nil {
			return fmt.Errorf("save artifact %q: %w", a.Name, err)
		}
	}

	return nil
}

// SearchSimilar returns up to limit artifacts ranked by similarity to
// the query, each with a confidence in [0,1]. Types, when given,
// restricts results to those chunk types.
func (s *SQLiteStore) SearchSimilar(ctx context.Context, query string, limit int, types []string) ([]model.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}
	if limit <= 0 {
		limit = 5
	}

	var queryVec []float32
	if s.embedder != nil {
		if vec, err := s.embedder.Embed(ctx, query); err == nil {
			queryVec = vec
		}
	}

	sqlQuery := `SELECT id, name, document_name, chunk_type, content, embedding FROM artifacts`
	var args []interface{}
	if len(types) > 0 {
		placeholders := strings.Repeat("?,", len(types))
		sqlQuery += ` WHERE chunk_type IN (` + placeholders[:len(placeholders)-1] + `)`
		for _, t := range types {
			args = append(args, t)
		}
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("query artifacts: %w", err)
	}
	defer rows.Close()

	var results []model.Artifact
	for rows.Next() {
		var a model.Artifact
		var blob []byte
		if err := rows.Scan(&a.ID, &a.Name, &a.DocumentName, &a.ChunkType, &a.Content, &blob); err != nil {
			return nil, fmt.Errorf("scan artifact: %w", err)
		}

		if queryVec != nil && len(blob) > 0 {
			a.Confidence = normalizeCosine(cosineSimilarity(queryVec, decodeVector(blob)))
		} else {
			a.Confidence = textScore(query, a.Name)
		}
		results = append(results, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Get returns one artifact by id.
func (s *SQLiteStore) Get(ctx context.Context, id string) (model.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return model.Artifact{}, ErrStoreClosed
	}

	var a model.Artifact
	var blob []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, document_name, chunk_type, content, embedding
		FROM artifacts WHERE id = ?
	`, id).Scan(&a.ID, &a.Name, &a.DocumentName, &a.ChunkType, &a.Content, &blob)
	if err == sql.ErrNoRows {
		return model.Artifact{}, ErrNotFound
	}
	if err != nil {
		return model.Artifact{}, fmt.Errorf("load artifact: %w", err)
	}
	return a, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// textScore approximates similarity without embeddings: the share of
// query tokens present in the artifact name.
func textScore(query, name string) float64 {
	queryTokens := common.Tokenize(query)
	if len(queryTokens) == 0 {
		return 0
	}
	overlap := common.TokenOverlap(query, name)
	score := float64(overlap) / float64(len(queryTokens))
	if score > 1 {
		score = 1
	}
	return score
}

func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// normalizeCosine maps cosine similarity from [-1,1] into the [0,1]
// confidence range the resolver thresholds against.
func normalizeCosine(sim float64) float64 {
	return (sim + 1) / 2
}

func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(buf []byte) []float32 {
	vec := make([]float32, len(buf)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return vec
}
