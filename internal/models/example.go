// internal/models/example.go

package models

// Metadata carries the non-tensor fields of a persisted example
type Metadata struct {
	Kernel       string   `json:"kernel"`
	Pragmas      string   `json:"pragmas"`
	DatasetIndex int      `json:"datasetIndex"`
	OutputConfig string   `json:"outputConfig"`
	Shift        int      `json:"shift"`
	JoinShift    int      `json:"joinShift"`
	AllOutputs   []string `json:"allOutputs"`
	RunID        string   `json:"runId"`
}

// Example is one persisted design instance
type Example struct {
	ID int `json:"id"`

	X         [][]float32 `json:"x"`
	EdgeIndex [2][]int64  `json:"edgeIndex"`
	EdgeAttr  [][]float32 `json:"edgeAttr"`

	CFGEdgeIndex [2][]int64 `json:"cfgEdgeIndex"`
	BBIDs        []int64    `json:"bbIdList"`
	NumBBs       int        `json:"numBbs"`
	BBBatch      []int64    `json:"bbBatch"`

	Y         []float32 `json:"y"`
	UseInLoss []bool    `json:"useInLossMask"`

	Metadata Metadata `json:"metadata"`
}
