package engine

import (
	"context"
	"fmt"

	"meridian/internal/domain/models"
	"meridian/internal/domain/repositories"
)

// ContextBuilder assembles the initial variable mapping for a run from
// global scalars, global lists, input-variable defaults, and
// caller-supplied overrides (§4.3).
type ContextBuilder struct {
	variables   repositories.VariableRepository
	globalLists repositories.GlobalListRepository
}

func NewContextBuilder(variables repositories.VariableRepository, globalLists repositories.GlobalListRepository) *ContextBuilder {
	return &ContextBuilder{variables: variables, globalLists: globalLists}
}

// Build constructs the flat context. Name collisions resolve in favor
// of later steps: a GlobalList overlays a same-named GLOBAL variable,
// and input_overrides overlays everything (deliberate, preserved
// per §4.3).
func (b *ContextBuilder) Build(ctx context.Context, ownerID, sequenceID string, inputOverrides map[string]any) (map[string]any, error) {
	result := make(map[string]any)

	vars, err := b.variables.ListBySequence(ctx, ownerID, sequenceID)
	if err != nil {
		return nil, fmt.Errorf("list variables: %w", err)
	}
	for _, v := range vars {
		if v.Type == models.VariableTypeGlobal {
			result[v.Name] = v.Value
		}
	}
	for _, v := range vars {
		if v.Type == models.VariableTypeInput {
			result[v.Name] = v.Default
		}
	}

	lists, err := b.globalLists.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list global lists: %w", err)
	}
	for _, list := range lists {
		values := make([]string, len(list.Items))
		for i, item := range list.Items {
			values[i] = item.Value
		}
		result[list.Name] = values
	}

	for k, v := range inputOverrides {
		result[k] = v
	}

	return result, nil
}
