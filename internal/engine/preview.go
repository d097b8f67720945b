package engine

import (
	"context"
	"fmt"

	"meridian/internal/domain"
	"meridian/internal/domain/models"
	"meridian/internal/domain/repositories"
)

// PreviewEngine simulates the context as of a target block without
// calling the LLM, so authors can see a rendered prompt before
// spending tokens (§4.6). It never creates a Run or BlockRun.
type PreviewEngine struct {
	sequences   repositories.SequenceRepository
	blocks      repositories.BlockRepository
	contextBldr *ContextBuilder
}

func NewPreviewEngine(sequences repositories.SequenceRepository, blocks repositories.BlockRepository, contextBldr *ContextBuilder) *PreviewEngine {
	return &PreviewEngine{sequences: sequences, blocks: blocks, contextBldr: contextBldr}
}

// Preview is the response shape named in §4.6 step 6.
type Preview struct {
	BlockID         string         `json:"block_id"`
	BlockName       string         `json:"block_name"`
	BlockType       models.BlockType `json:"block_type"`
	PromptTemplate  string         `json:"prompt_template"`
	RenderedPrompt  string         `json:"rendered_prompt"`
	ContextSnapshot map[string]any `json:"context_snapshot"`
}

// maxSnapshotEntries bounds the context_snapshot returned to callers
// (§4.6 step 6: "truncated").
const maxSnapshotEntries = 50

func (p *PreviewEngine) Preview(ctx context.Context, ownerID, sequenceID, blockID string, inputOverrides map[string]any) (*Preview, error) {
	blocks, err := p.blocks.ListBySequence(ctx, ownerID, sequenceID)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}

	var target *models.Block
	for i := range blocks {
		if blocks[i].ID == blockID {
			target = &blocks[i]
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("%w: block %s not found in sequence %s", domain.ErrNotFound, blockID, sequenceID)
	}

	execContext, err := p.contextBldr.Build(ctx, ownerID, sequenceID, inputOverrides)
	if err != nil {
		return nil, fmt.Errorf("build context: %w", err)
	}

	for _, block := range blocks {
		if block.Order >= target.Order {
			continue
		}
		simulateOutputs(block, execContext)
	}

	template := simulateInnerLoopPlaceholders(*target, execContext)

	rendered, renderErr := Render(template, execContext)
	if renderErr != nil {
		rendered = renderErr.Error()
	}

	return &Preview{
		BlockID:         target.ID,
		BlockName:       target.Name,
		BlockType:       target.Type,
		PromptTemplate:  template,
		RenderedPrompt:  rendered,
		ContextSnapshot: truncateSnapshot(execContext),
	}, nil
}

// simulateOutputs injects placeholder output additions for a block
// preceding the preview target, per the fixed placeholder strings
// named in §4.6 step 3.
func simulateOutputs(block models.Block, ctx map[string]any) {
	switch block.Type {
	case models.BlockTypeStandard:
		if cfg := block.Config.Standard; cfg != nil {
			name := cfg.OutputVariableName
			if name == "" {
				name = "output"
			}
			ctx[name] = fmt.Sprintf("[Output from %s (ID: %s)]", block.Name, block.ID)
		}
	case models.BlockTypeDiscretization:
		if cfg := block.Config.Discretization; cfg != nil {
			for _, k := range cfg.OutputNames {
				ctx[k] = fmt.Sprintf("[Discretized output '%s' from %s]", k, block.Name)
			}
		}
	case models.BlockTypeSingleList:
		if cfg := block.Config.SingleList; cfg != nil {
			name := cfg.OutputListVariableName
			if name == "" {
				name = fmt.Sprintf("output_list_%s", block.ID)
			}
			ctx[name] = []string{fmt.Sprintf("[Sample item from list output of %s]", block.Name)}
		}
	case models.BlockTypeMultiList:
		if cfg := block.Config.MultiList; cfg != nil {
			name := cfg.OutputMatrixVariableName
			if name == "" {
				name = fmt.Sprintf("output_matrix_%s", block.ID)
			}
			ctx[name] = [][]string{{fmt.Sprintf("[Sample item from matrix output of %s]", block.Name)}}
		}
	}
}

// simulateInnerLoopPlaceholders injects the target block's own
// inner-loop names (item/item_index, item{n}/item{n}_index) and
// returns the block's prompt template (§4.6 step 4).
func simulateInnerLoopPlaceholders(block models.Block, ctx map[string]any) string {
	switch block.Type {
	case models.BlockTypeStandard:
		return block.Config.Standard.Prompt
	case models.BlockTypeDiscretization:
		return block.Config.Discretization.Prompt
	case models.BlockTypeSingleList:
		cfg := block.Config.SingleList
		ctx["item"] = "[Sample item]"
		ctx["item_index"] = 0
		return cfg.Prompt
	case models.BlockTypeMultiList:
		cfg := block.Config.MultiList
		for i, ref := range cfg.InputListsConfig {
			n := i + 1
			ctx[fmt.Sprintf("item%d", n)] = fmt.Sprintf("[Sample item from %s]", ref.Name)
			ctx[fmt.Sprintf("item%d_index", n)] = 0
		}
		return cfg.Prompt
	default:
		return ""
	}
}

func truncateSnapshot(ctx map[string]any) map[string]any {
	if len(ctx) <= maxSnapshotEntries {
		return ctx
	}
	out := make(map[string]any, maxSnapshotEntries)
	i := 0
	for k, v := range ctx {
		if i >= maxSnapshotEntries {
			break
		}
		out[k] = v
		i++
	}
	return out
}
