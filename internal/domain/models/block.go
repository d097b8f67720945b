package models

import (
	"encoding/json"
	"fmt"
)

// BlockType discriminates the four block variants (§3).
type BlockType string

const (
	BlockTypeStandard       BlockType = "standard"
	BlockTypeDiscretization BlockType = "discretization"
	BlockTypeSingleList     BlockType = "single_list"
	BlockTypeMultiList      BlockType = "multi_list"
)

func (t BlockType) Valid() bool {
	switch t {
	case BlockTypeStandard, BlockTypeDiscretization, BlockTypeSingleList, BlockTypeMultiList:
		return true
	}
	return false
}

// Block is one pipeline step within a Sequence (§3). Config holds the
// type-specific fields; only the variant matching Type is populated.
type Block struct {
	ID         string    `json:"id"`
	SequenceID string    `json:"sequence_id"`
	Name       string    `json:"name"`
	Type       BlockType `json:"type"`
	Order      int       `json:"order"`
	Config     Config    `json:"config"`
}

// StandardConfig renders one prompt and stores the LLM reply under a
// single variable name (§4.4).
type StandardConfig struct {
	Prompt             string `json:"prompt"`
	OutputVariableName string `json:"output_variable_name"`
}

// DiscretizationConfig renders one prompt and parses the reply into
// multiple named fields (§4.4).
type DiscretizationConfig struct {
	Prompt      string   `json:"prompt"`
	OutputNames []string `json:"output_names"`
}

// SingleListConfig fans a per-item template out over an input list and
// collects results in order (§4.4).
type SingleListConfig struct {
	Prompt                string `json:"prompt"`
	InputListVariableName string `json:"input_list_variable_name"`
	OutputListVariableName string `json:"output_list_variable_name"`
}

// ListRef names one input list participating in a MultiList block and
// its priority group for lock-step-vs-cross-product grouping (§4.4,
// Open Question resolution 2 in SPEC_FULL.md).
type ListRef struct {
	Name     string `json:"name"`
	Priority int    `json:"priority"`
}

// MultiListConfig fans a per-tuple template out over the outer product
// (grouped by priority) of two or more input lists (§4.4).
type MultiListConfig struct {
	Prompt              string    `json:"prompt"`
	InputListsConfig    []ListRef `json:"input_lists_config"`
	OutputMatrixVariableName string `json:"output_matrix_variable_name"`
}

// Config is a closed, JSON-discriminated union over the four block
// config variants. Exactly one field is non-nil, selected by Block.Type.
type Config struct {
	Standard       *StandardConfig       `json:"-"`
	Discretization *DiscretizationConfig `json:"-"`
	SingleList     *SingleListConfig     `json:"-"`
	MultiList      *MultiListConfig      `json:"-"`
}

// MarshalJSON emits whichever variant is populated, as a flat object
// (the Type field on the containing Block carries the discriminant).
func (c Config) MarshalJSON() ([]byte, error) {
	switch {
	case c.Standard != nil:
		return json.Marshal(c.Standard)
	case c.Discretization != nil:
		return json.Marshal(c.Discretization)
	case c.SingleList != nil:
		return json.Marshal(c.SingleList)
	case c.MultiList != nil:
		return json.Marshal(c.MultiList)
	default:
		return []byte("null"), nil
	}
}

// DecodeConfig parses raw config JSON according to the given block
// type, returning a populated Config. Used by repositories (which know
// the type column), services (which know the request's declared type,
// or the stored type on update) and the seeder.
func DecodeConfig(t BlockType, data []byte) (Config, error) {
	switch t {
	case BlockTypeStandard:
		var c StandardConfig
		if err := json.Unmarshal(data, &c); err != nil {
			return Config{}, fmt.Errorf("decode standard config: %w", err)
		}
		if c.OutputVariableName == "" {
			c.OutputVariableName = "output"
		}
		return Config{Standard: &c}, nil
	case BlockTypeDiscretization:
		var c DiscretizationConfig
		if err := json.Unmarshal(data, &c); err != nil {
			return Config{}, fmt.Errorf("decode discretization config: %w", err)
		}
		return Config{Discretization: &c}, nil
	case BlockTypeSingleList:
		var c SingleListConfig
		if err := json.Unmarshal(data, &c); err != nil {
			return Config{}, fmt.Errorf("decode single_list config: %w", err)
		}
		return Config{SingleList: &c}, nil
	case BlockTypeMultiList:
		var c MultiListConfig
		if err := json.Unmarshal(data, &c); err != nil {
			return Config{}, fmt.Errorf("decode multi_list config: %w", err)
		}
		return Config{MultiList: &c}, nil
	default:
		return Config{}, fmt.Errorf("unknown block type %q", t)
	}
}
