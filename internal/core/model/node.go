package model

// Node is a topology vertex fetched from the graph store.
// Immutable once fetched.
type Node struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	FolderID string `json:"folder_id,omitempty"`
}

// Edge is a directed relation between two node ids. Endpoints may
// reference ids absent from the node set; the orderer synthesizes
// stub nodes for those.
type Edge struct {
	FromID   string `json:"from_id"`
	ToID     string `json:"to_id"`
	Relation string `json:"relation,omitempty"`
}

// Skeleton is the raw topology of a stored integration process.
// May be empty.
type Skeleton struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Artifact is a retrieved content fragment with a similarity score
// normalized to [0,1].
type Artifact struct {
	ID           string  `json:"id,omitempty"`
	Name         string  `json:"name"`
	DocumentName string  `json:"document_name"`
	ChunkType    string  `json:"chunk_type"`
	Content      string  `json:"content"`
	Confidence   float64 `json:"confidence"`
}

// ResolvedBinding pairs a node with the artifact accepted for it.
// Accepted only when Artifact.Confidence >= threshold.
type ResolvedBinding struct {
	Node     Node     `json:"node"`
	Artifact Artifact `json:"artifact"`
}

// MissingNode is a node with no accepted artifact, plus up to two
// pre-threshold exact-match candidates for diagnostics.
type MissingNode struct {
	Node       Node       `json:"node"`
	Candidates []Artifact `json:"candidates"`
}

// Coverage reports the stitching outcome for one skeleton.
// Invariant: NodesResolved + len(Missing) == NodesTotal.
type Coverage struct {
	NodesTotal    int      `json:"nodes_total"`
	NodesResolved int      `json:"nodes_resolved"`
	Missing       []string `json:"missing"`
}
