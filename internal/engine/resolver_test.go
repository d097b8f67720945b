package engine

import (
	"context"
	"testing"

	"meridian/internal/domain/models"
)

func TestResolver_DedupeKeepsFirst(t *testing.T) {
	vars := &mockVariableRepo{bySequence: map[string][]models.Variable{
		"s1": {{ID: "v1", SequenceID: "s1", Name: "dup", Type: models.VariableTypeGlobal}},
	}}
	lists := &mockGlobalListRepo{byOwner: map[string][]models.GlobalList{
		"u1": {{ID: "l1", OwnerID: "u1", Name: "dup"}},
	}}
	blocks := &mockBlockRepo{bySequence: map[string][]models.Block{
		"s1": {{ID: "b1", SequenceID: "s1", Name: "block1", Type: models.BlockTypeStandard,
			Config: models.Config{Standard: &models.StandardConfig{OutputVariableName: "dup"}}}},
	}}

	resolver := NewResolver(vars, lists, blocks)
	got, err := resolver.Resolve(context.Background(), "u1", "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	count := 0
	for _, v := range got {
		if v.Name == "dup" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one \"dup\" entry, got %d", count)
	}
	if got[0].Name != "dup" || got[0].Tag != string(models.VariableTypeGlobal) {
		t.Errorf("expected the sequence variable to win, got %+v", got[0])
	}
}

func TestResolver_BlockOutputsPerType(t *testing.T) {
	vars := &mockVariableRepo{bySequence: map[string][]models.Variable{}}
	lists := &mockGlobalListRepo{byOwner: map[string][]models.GlobalList{}}
	blocks := &mockBlockRepo{bySequence: map[string][]models.Block{
		"s1": {
			{ID: "b1", SequenceID: "s1", Name: "disc", Type: models.BlockTypeDiscretization,
				Config: models.Config{Discretization: &models.DiscretizationConfig{OutputNames: []string{"x", "y"}}}},
		},
	}}

	resolver := NewResolver(vars, lists, blocks)
	got, err := resolver.Resolve(context.Background(), "u1", "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	for _, v := range got {
		if v.Tag != "block_output" {
			t.Errorf("got tag %q, want block_output", v.Tag)
		}
	}
}
