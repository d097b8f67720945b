package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"meridian/internal/config"
	"meridian/internal/domain"
	"meridian/internal/domain/models"
	"meridian/internal/llm"
)

// BlockExecutor operates on a single block against a context, calling
// the LLM as needed, and returning outputs plus diagnostic artifacts
// (§4.4). It never partially updates the context on failure.
type BlockExecutor struct {
	client     llm.Client
	logger     *slog.Logger
	llmTimeout time.Duration
}

func NewBlockExecutor(client llm.Client, llmTimeout time.Duration, logger *slog.Logger) *BlockExecutor {
	return &BlockExecutor{client: client, llmTimeout: llmTimeout, logger: logger}
}

// complete wraps a single LLM call with the configured per-call
// deadline (§5) so a hung provider never blocks a block, or an entire
// fan-out goroutine set, indefinitely.
func (e *BlockExecutor) complete(ctx context.Context, prompt, model string, maxTokens int) (llm.Result, error) {
	if e.llmTimeout <= 0 {
		return e.client.Complete(ctx, prompt, model, maxTokens)
	}
	ctx, cancel := context.WithTimeout(ctx, e.llmTimeout)
	defer cancel()
	return e.client.Complete(ctx, prompt, model, maxTokens)
}

// ExecutionResult is the outcome of executing one block. At most one
// of NamedOutputs/ListOutputs/MatrixOutputs is populated, matching the
// block's type, unless Err is non-nil (§3 BlockRun); a Standard block
// populates none of them and reports its output in OutputAdditions.
type ExecutionResult struct {
	OutputAdditions map[string]any
	RenderedPrompt  string
	RawLLMText      string
	NamedOutputs    map[string]string
	ListOutputs     []string
	MatrixOutputs   any
	Usage           llm.Usage
	Err             error
}

// Execute dispatches on block.Type. A non-nil Err means
// OutputAdditions must be treated as empty by the caller regardless of
// what this method populated (defense in depth; callers should not
// merge on error, but the contract holds either way).
func (e *BlockExecutor) Execute(ctx context.Context, block models.Block, model string, baseContext map[string]any) ExecutionResult {
	switch block.Type {
	case models.BlockTypeStandard:
		return e.executeStandard(ctx, block, model, baseContext)
	case models.BlockTypeDiscretization:
		return e.executeDiscretization(ctx, block, model, baseContext)
	case models.BlockTypeSingleList:
		return e.executeSingleList(ctx, block, model, baseContext)
	case models.BlockTypeMultiList:
		return e.executeMultiList(ctx, block, model, baseContext)
	default:
		return ExecutionResult{Err: fmt.Errorf("%w: unknown block type %q", domain.ErrValidation, block.Type)}
	}
}

func (e *BlockExecutor) executeStandard(ctx context.Context, block models.Block, model string, baseContext map[string]any) ExecutionResult {
	cfg := block.Config.Standard
	if cfg == nil {
		return ExecutionResult{Err: fmt.Errorf("%w: block %s: config mismatch for standard type", domain.ErrValidation, block.ID)}
	}

	rendered, err := Render(cfg.Prompt, baseContext)
	if err != nil {
		return ExecutionResult{Err: err}
	}

	result, err := e.complete(ctx, rendered, model, config.DefaultMaxTokens)
	if err != nil {
		return ExecutionResult{RenderedPrompt: rendered, Err: err}
	}

	outputName := cfg.OutputVariableName
	if outputName == "" {
		outputName = "output"
	}

	return ExecutionResult{
		OutputAdditions: map[string]any{outputName: result.Text},
		RenderedPrompt:  rendered,
		RawLLMText:      result.Text,
		Usage:           result.Usage,
	}
}

func (e *BlockExecutor) executeDiscretization(ctx context.Context, block models.Block, model string, baseContext map[string]any) ExecutionResult {
	cfg := block.Config.Discretization
	if cfg == nil {
		return ExecutionResult{Err: fmt.Errorf("%w: block %s: config mismatch for discretization type", domain.ErrValidation, block.ID)}
	}
	if len(cfg.OutputNames) == 0 {
		return ExecutionResult{Err: fmt.Errorf("%w: block %s: discretization block requires at least one output name", domain.ErrValidation, block.ID)}
	}

	rendered, err := Render(cfg.Prompt, baseContext)
	if err != nil {
		return ExecutionResult{Err: err}
	}

	result, err := e.complete(ctx, rendered, model, config.DefaultMaxTokens)
	if err != nil {
		return ExecutionResult{RenderedPrompt: rendered, Err: err}
	}

	named := Discretize(e.logger, result.Text, cfg.OutputNames)
	additions := make(map[string]any, len(named))
	for k, v := range named {
		additions[k] = v
	}

	return ExecutionResult{
		OutputAdditions: additions,
		RenderedPrompt:  rendered,
		RawLLMText:      result.Text,
		NamedOutputs:    named,
		Usage:           result.Usage,
	}
}

func (e *BlockExecutor) executeSingleList(ctx context.Context, block models.Block, model string, baseContext map[string]any) ExecutionResult {
	cfg := block.Config.SingleList
	if cfg == nil {
		return ExecutionResult{Err: fmt.Errorf("%w: block %s: config mismatch for single_list type", domain.ErrValidation, block.ID)}
	}

	items, ok := asSlice(baseContext[cfg.InputListVariableName])
	if !ok {
		return ExecutionResult{Err: fmt.Errorf("%w: block %s: %q is absent or not a list", domain.ErrValidation, block.ID, cfg.InputListVariableName)}
	}
	if len(items) > config.MaxListFanOut {
		return ExecutionResult{Err: fmt.Errorf("%w: block %s: input list exceeds %d items", domain.ErrValidation, block.ID, config.MaxListFanOut)}
	}

	calls := make([]fanOutCall, len(items))
	for i, item := range items {
		calls[i] = fanOutCall{
			extra: map[string]any{"item": item, "item_index": i},
		}
	}

	outcomes, rendered, usage, err := e.runFanOut(ctx, cfg.Prompt, model, baseContext, calls)
	if err != nil {
		return ExecutionResult{RenderedPrompt: rendered, Err: err}
	}

	outputName := cfg.OutputListVariableName
	if outputName == "" {
		outputName = fmt.Sprintf("output_list_%s", block.ID)
	}

	return ExecutionResult{
		OutputAdditions: map[string]any{outputName: outcomes},
		RenderedPrompt:  rendered,
		RawLLMText:      joinLines(outcomes),
		ListOutputs:     outcomes,
		Usage:           usage,
	}
}

func (e *BlockExecutor) executeMultiList(ctx context.Context, block models.Block, model string, baseContext map[string]any) ExecutionResult {
	cfg := block.Config.MultiList
	if cfg == nil {
		return ExecutionResult{Err: fmt.Errorf("%w: block %s: config mismatch for multi_list type", domain.ErrValidation, block.ID)}
	}
	if len(cfg.InputListsConfig) < 2 {
		return ExecutionResult{Err: fmt.Errorf("%w: block %s: multi_list requires at least 2 input lists", domain.ErrValidation, block.ID)}
	}

	groups, err := buildPriorityGroups(cfg.InputListsConfig)
	if err != nil {
		return ExecutionResult{Err: fmt.Errorf("%w: block %s: %v", domain.ErrValidation, block.ID, err)}
	}

	lists := make([][]any, len(cfg.InputListsConfig))
	for i, ref := range cfg.InputListsConfig {
		values, ok := asSlice(baseContext[ref.Name])
		if !ok {
			return ExecutionResult{Err: fmt.Errorf("%w: block %s: %q is absent or not a list", domain.ErrValidation, block.ID, ref.Name)}
		}
		lists[i] = values
	}

	groupLengths := make([]int, len(groups))
	for gi, group := range groups {
		length := -1
		for _, listIdx := range group.listIndices {
			if length == -1 {
				length = len(lists[listIdx])
				continue
			}
			if len(lists[listIdx]) != length {
				return ExecutionResult{Err: fmt.Errorf("%w: block %s: lists sharing priority %d have mismatched lengths", domain.ErrValidation, block.ID, group.priority)}
			}
		}
		groupLengths[gi] = length
	}

	total := 1
	for _, l := range groupLengths {
		total *= l
	}
	if total > config.MaxListFanOut {
		return ExecutionResult{Err: fmt.Errorf("%w: block %s: cross-product of %d exceeds fan-out limit %d", domain.ErrValidation, block.ID, total, config.MaxListFanOut)}
	}

	calls := make([]fanOutCall, 0, total)
	indices := make([]int, len(groups))
	var generate func(dim int)
	generate = func(dim int) {
		if dim == len(groups) {
			extra := make(map[string]any, len(cfg.InputListsConfig)*2)
			for gi, group := range groups {
				idx := indices[gi]
				for _, listIdx := range group.listIndices {
					n := listIdx + 1
					extra[fmt.Sprintf("item%d", n)] = lists[listIdx][idx]
					extra[fmt.Sprintf("item%d_index", n)] = idx
				}
			}
			calls = append(calls, fanOutCall{extra: extra})
			return
		}
		for i := 0; i < groupLengths[dim]; i++ {
			indices[dim] = i
			generate(dim + 1)
		}
	}
	generate(0)

	outcomes, rendered, usage, err := e.runFanOut(ctx, cfg.Prompt, model, baseContext, calls)
	if err != nil {
		return ExecutionResult{RenderedPrompt: rendered, Err: err}
	}

	flat := make([]any, len(outcomes))
	for i, v := range outcomes {
		flat[i] = v
	}
	nested := reshape(flat, groupLengths)

	outputName := cfg.OutputMatrixVariableName
	if outputName == "" {
		outputName = fmt.Sprintf("output_matrix_%s", block.ID)
	}

	return ExecutionResult{
		OutputAdditions: map[string]any{outputName: nested},
		RenderedPrompt:  rendered,
		RawLLMText:      joinLines(outcomes),
		MatrixOutputs:   nested,
		Usage:           usage,
	}
}

// fanOutCall is one per-item/tuple unit of work for a list-fanning
// block: extra names merged into the base context before rendering.
type fanOutCall struct {
	extra map[string]any
}

// runFanOut renders and completes every call concurrently, preserving
// input order in the returned slice regardless of completion order —
// grounded on the teacher's ToolRegistry.ExecuteParallel pattern
// (pre-sized results slice indexed by position, goroutines + WaitGroup).
func (e *BlockExecutor) runFanOut(ctx context.Context, template, model string, baseContext map[string]any, calls []fanOutCall) ([]string, string, llm.Usage, error) {
	if len(calls) == 0 {
		return nil, "", llm.Usage{}, nil
	}

	results := make([]string, len(calls))
	errs := make([]error, len(calls))
	usages := make([]llm.Usage, len(calls))
	var firstRendered string
	var renderedMu sync.Mutex

	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		go func(index int, call fanOutCall) {
			defer wg.Done()

			if ctx.Err() != nil {
				errs[index] = ctx.Err()
				return
			}

			itemContext := make(map[string]any, len(baseContext)+len(call.extra))
			for k, v := range baseContext {
				itemContext[k] = v
			}
			for k, v := range call.extra {
				itemContext[k] = v
			}

			rendered, err := Render(template, itemContext)
			if err != nil {
				errs[index] = err
				return
			}
			renderedMu.Lock()
			if firstRendered == "" {
				firstRendered = rendered
			}
			renderedMu.Unlock()

			result, err := e.complete(ctx, rendered, model, config.DefaultMaxTokens)
			if err != nil {
				errs[index] = err
				return
			}
			results[index] = result.Text
			usages[index] = result.Usage
		}(i, call)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, firstRendered, llm.Usage{}, err
		}
	}

	var total llm.Usage
	for _, u := range usages {
		total.PromptTokens += u.PromptTokens
		total.CompletionTokens += u.CompletionTokens
		total.CostUSD += u.CostUSD
	}

	return results, firstRendered, total, nil
}

type priorityGroup struct {
	priority    int
	listIndices []int
}

// buildPriorityGroups implements the priority-grouping Open Question
// resolution: lists sharing a priority value zip together; a list
// omitting priority (zero value) defaults to its 1-based declaration
// index, so two unset-priority lists cross-product by default.
func buildPriorityGroups(refs []models.ListRef) ([]priorityGroup, error) {
	byPriority := make(map[int][]int)
	for i, ref := range refs {
		p := ref.Priority
		if p == 0 {
			p = i + 1
		}
		byPriority[p] = append(byPriority[p], i)
	}

	priorities := make([]int, 0, len(byPriority))
	for p := range byPriority {
		priorities = append(priorities, p)
	}
	sort.Ints(priorities)

	groups := make([]priorityGroup, len(priorities))
	for i, p := range priorities {
		groups[i] = priorityGroup{priority: p, listIndices: byPriority[p]}
	}
	return groups, nil
}

// reshape turns a row-major flat slice into a nested slice of the
// given shape (outer dimension first).
func reshape(flat []any, shape []int) any {
	if len(shape) == 0 {
		if len(flat) == 0 {
			return nil
		}
		return flat[0]
	}
	if len(shape) == 1 {
		out := make([]any, shape[0])
		copy(out, flat)
		return out
	}
	stride := 1
	for _, s := range shape[1:] {
		stride *= s
	}
	out := make([]any, shape[0])
	for i := 0; i < shape[0]; i++ {
		out[i] = reshape(flat[i*stride:(i+1)*stride], shape[1:])
	}
	return out
}

func asSlice(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}
