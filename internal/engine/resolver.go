package engine

import (
	"context"
	"fmt"

	"meridian/internal/domain/models"
	"meridian/internal/domain/repositories"
)

// AvailableVariable is one addressable name in a sequence's templates,
// tagged by where it comes from (§4.7).
type AvailableVariable struct {
	Name   string `json:"name"`
	Tag    string `json:"tag"`
	Source string `json:"source"`
}

// Resolver enumerates every name addressable in a sequence's templates,
// for prompt-authoring UIs (§4.7).
type Resolver struct {
	variables   repositories.VariableRepository
	globalLists repositories.GlobalListRepository
	blocks      repositories.BlockRepository
}

func NewResolver(variables repositories.VariableRepository, globalLists repositories.GlobalListRepository, blocks repositories.BlockRepository) *Resolver {
	return &Resolver{variables: variables, globalLists: globalLists, blocks: blocks}
}

// Resolve returns the deduplicated, order-preserving list of available
// variables for sequenceID. On a name collision the first entry wins,
// in the order: sequence variables, global lists, then predicted block
// outputs (§4.7).
func (r *Resolver) Resolve(ctx context.Context, ownerID, sequenceID string) ([]AvailableVariable, error) {
	seen := make(map[string]struct{})
	var out []AvailableVariable

	add := func(v AvailableVariable) {
		if _, ok := seen[v.Name]; ok {
			return
		}
		seen[v.Name] = struct{}{}
		out = append(out, v)
	}

	vars, err := r.variables.ListBySequence(ctx, ownerID, sequenceID)
	if err != nil {
		return nil, fmt.Errorf("list variables: %w", err)
	}
	for _, v := range vars {
		add(AvailableVariable{
			Name:   v.Name,
			Tag:    string(v.Type),
			Source: fmt.Sprintf("Sequence Defined (%s)", v.Type),
		})
	}

	lists, err := r.globalLists.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list global lists: %w", err)
	}
	for _, l := range lists {
		add(AvailableVariable{Name: l.Name, Tag: "global_list", Source: "User Global List"})
	}

	blocks, err := r.blocks.ListBySequence(ctx, ownerID, sequenceID)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	for _, b := range blocks {
		switch b.Type {
		case models.BlockTypeStandard:
			if cfg := b.Config.Standard; cfg != nil {
				name := cfg.OutputVariableName
				if name == "" {
					name = "output"
				}
				add(AvailableVariable{Name: name, Tag: "block_output", Source: fmt.Sprintf("Block %s", b.Name)})
			}
		case models.BlockTypeDiscretization:
			if cfg := b.Config.Discretization; cfg != nil {
				for _, name := range cfg.OutputNames {
					add(AvailableVariable{Name: name, Tag: "block_output", Source: fmt.Sprintf("Block %s", b.Name)})
				}
			}
		case models.BlockTypeSingleList:
			if cfg := b.Config.SingleList; cfg != nil {
				name := cfg.OutputListVariableName
				if name == "" {
					name = fmt.Sprintf("output_list_%s", b.ID)
				}
				add(AvailableVariable{Name: name, Tag: "list_output", Source: fmt.Sprintf("Block %s", b.Name)})
			}
		case models.BlockTypeMultiList:
			if cfg := b.Config.MultiList; cfg != nil {
				name := cfg.OutputMatrixVariableName
				if name == "" {
					name = fmt.Sprintf("output_matrix_%s", b.ID)
				}
				add(AvailableVariable{Name: name, Tag: "matrix_output", Source: fmt.Sprintf("Block %s", b.Name)})
			}
		}
	}

	return out, nil
}
