package models

import "time"

// RunStatus is the Run/BlockRun lifecycle state (§3, §4.5). The zero
// value is never valid; a Run is created PENDING and a BlockRun is
// created RUNNING.
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// IsTerminal reports whether status is a terminal Run/BlockRun state.
func (s RunStatus) IsTerminal() bool {
	switch s {
	case RunStatusCompleted, RunStatusFailed, RunStatusCancelled:
		return true
	}
	return false
}

// Run is one execution attempt of a Sequence (§3).
type Run struct {
	ID             string         `json:"id"`
	SequenceID     string         `json:"sequence_id"`
	OwnerID        string         `json:"owner_id"`
	Status         RunStatus      `json:"status"`
	StartedAt      *time.Time     `json:"started_at,omitempty"`
	CompletedAt    *time.Time     `json:"completed_at,omitempty"`
	InputOverrides map[string]any `json:"input_overrides,omitempty"`
	ResultsSummary map[string]any `json:"results_summary,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`

	BlockRuns []BlockRun `json:"block_runs,omitempty"`
}

// BlockRun is the per-block execution trace within a Run (§3). The
// block name/type are snapshotted at creation so later edits to the
// block definition don't retroactively change historical traces.
type BlockRun struct {
	ID         string    `json:"id"`
	RunID      string    `json:"run_id"`
	BlockID    string    `json:"block_id"`
	BlockName  string    `json:"block_name"`
	BlockType  BlockType `json:"block_type"`
	Status     RunStatus `json:"status"`

	RenderedPrompt string `json:"rendered_prompt,omitempty"`
	RawLLMText     string `json:"raw_llm_text,omitempty"`

	NamedOutputs  map[string]string `json:"named_outputs,omitempty"`
	ListOutputs   []string          `json:"list_outputs,omitempty"`
	MatrixOutputs any               `json:"matrix_outputs,omitempty"`

	ErrorMessage string `json:"error_message,omitempty"`

	PromptTokens     int     `json:"prompt_tokens,omitempty"`
	CompletionTokens int     `json:"completion_tokens,omitempty"`
	CostUSD          float64 `json:"cost_usd,omitempty"`

	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
