package engine

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"meridian/internal/domain/models"
	"meridian/internal/llm"
)

// echoClient returns the prompt verbatim, matching the "mock LLM
// returns input verbatim" scenario used throughout spec examples.
type echoClient struct {
	failOn map[string]bool
}

func (c *echoClient) Complete(ctx context.Context, prompt, model string, maxTokens int) (llm.Result, error) {
	if c.failOn != nil && c.failOn[prompt] {
		return llm.Result{}, errors.New("mock llm failure")
	}
	return llm.Result{Text: prompt, Usage: llm.Usage{PromptTokens: 1, CompletionTokens: 1}}, nil
}

func TestBlockExecutor_Standard(t *testing.T) {
	executor := NewBlockExecutor(&echoClient{}, 0, nil)
	block := models.Block{
		ID:   "b1",
		Name: "greet",
		Type: models.BlockTypeStandard,
		Config: models.Config{Standard: &models.StandardConfig{
			Prompt:             "Hello {{name}}",
			OutputVariableName: "greeting",
		}},
	}
	result := executor.Execute(context.Background(), block, "lorem", map[string]any{"name": "World"})
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if result.RawLLMText != "Hello World" {
		t.Errorf("got raw text %q", result.RawLLMText)
	}
	if result.OutputAdditions["greeting"] != "Hello World" {
		t.Errorf("got additions %v", result.OutputAdditions)
	}
}

func TestBlockExecutor_Discretization(t *testing.T) {
	executor := NewBlockExecutor(&echoClient{}, 0, nil)
	block := models.Block{
		ID:   "b2",
		Name: "split",
		Type: models.BlockTypeDiscretization,
		Config: models.Config{Discretization: &models.DiscretizationConfig{
			Prompt:      `{"a":"x","b":"y"}`,
			OutputNames: []string{"a", "b"},
		}},
	}
	result := executor.Execute(context.Background(), block, "lorem", map[string]any{})
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	want := map[string]string{"a": "x", "b": "y"}
	if !reflect.DeepEqual(result.NamedOutputs, want) {
		t.Errorf("got %v, want %v", result.NamedOutputs, want)
	}
}

func TestBlockExecutor_SingleList_OrderPreserved(t *testing.T) {
	executor := NewBlockExecutor(&echoClient{}, 0, nil)
	block := models.Block{
		ID:   "b3",
		Name: "fanout",
		Type: models.BlockTypeSingleList,
		Config: models.Config{SingleList: &models.SingleListConfig{
			Prompt:                  "item {{item_index}}: {{item}}",
			InputListVariableName:   "items",
			OutputListVariableName:  "results",
		}},
	}
	ctx := map[string]any{"items": []any{"a", "b", "c"}}
	result := executor.Execute(context.Background(), block, "lorem", ctx)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	want := []string{"item 0: a", "item 1: b", "item 2: c"}
	if !reflect.DeepEqual(result.ListOutputs, want) {
		t.Errorf("got %v, want %v", result.ListOutputs, want)
	}
}

func TestBlockExecutor_SingleList_MissingInput(t *testing.T) {
	executor := NewBlockExecutor(&echoClient{}, 0, nil)
	block := models.Block{
		ID:   "b4",
		Type: models.BlockTypeSingleList,
		Config: models.Config{SingleList: &models.SingleListConfig{
			Prompt:                "{{item}}",
			InputListVariableName: "missing",
		}},
	}
	result := executor.Execute(context.Background(), block, "lorem", map[string]any{})
	if result.Err == nil {
		t.Fatal("expected error for missing input list")
	}
}

func TestBlockExecutor_MultiList_CrossProductDefaultPriority(t *testing.T) {
	executor := NewBlockExecutor(&echoClient{}, 0, nil)
	block := models.Block{
		ID:   "b5",
		Type: models.BlockTypeMultiList,
		Config: models.Config{MultiList: &models.MultiListConfig{
			Prompt: "{{item1}}-{{item2}}",
			InputListsConfig: []models.ListRef{
				{Name: "l1"},
				{Name: "l2"},
			},
		}},
	}
	ctx := map[string]any{
		"l1": []any{"a", "b"},
		"l2": []any{"x", "y"},
	}
	result := executor.Execute(context.Background(), block, "lorem", ctx)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	nested, ok := result.MatrixOutputs.([]any)
	if !ok || len(nested) != 2 {
		t.Fatalf("expected outer dimension of 2, got %v", result.MatrixOutputs)
	}
	row0, ok := nested[0].([]any)
	if !ok || len(row0) != 2 {
		t.Fatalf("expected inner dimension of 2, got %v", nested[0])
	}
	if row0[0] != "a-x" || row0[1] != "a-y" {
		t.Errorf("got row0 %v", row0)
	}
}

func TestBlockExecutor_MultiList_LockStepSamePriority(t *testing.T) {
	executor := NewBlockExecutor(&echoClient{}, 0, nil)
	block := models.Block{
		ID:   "b6",
		Type: models.BlockTypeMultiList,
		Config: models.Config{MultiList: &models.MultiListConfig{
			Prompt: "{{item1}}+{{item2}}",
			InputListsConfig: []models.ListRef{
				{Name: "l1", Priority: 1},
				{Name: "l2", Priority: 1},
			},
		}},
	}
	ctx := map[string]any{
		"l1": []any{"a", "b"},
		"l2": []any{"x", "y"},
	}
	result := executor.Execute(context.Background(), block, "lorem", ctx)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	nested, ok := result.MatrixOutputs.([]any)
	if !ok || len(nested) != 2 {
		t.Fatalf("expected single zipped dimension of 2, got %v", result.MatrixOutputs)
	}
	if nested[0] != "a+x" || nested[1] != "b+y" {
		t.Errorf("got %v", nested)
	}
}

func TestBlockExecutor_MultiList_MismatchedLockStepLengthsRejected(t *testing.T) {
	executor := NewBlockExecutor(&echoClient{}, 0, nil)
	block := models.Block{
		ID:   "b7",
		Type: models.BlockTypeMultiList,
		Config: models.Config{MultiList: &models.MultiListConfig{
			Prompt: "{{item1}}+{{item2}}",
			InputListsConfig: []models.ListRef{
				{Name: "l1", Priority: 1},
				{Name: "l2", Priority: 1},
			},
		}},
	}
	ctx := map[string]any{
		"l1": []any{"a", "b"},
		"l2": []any{"x"},
	}
	result := executor.Execute(context.Background(), block, "lorem", ctx)
	if result.Err == nil {
		t.Fatal("expected validation error for mismatched lock-step lengths")
	}
}

func TestBlockExecutor_FailureLeavesAdditionsEmpty(t *testing.T) {
	client := &echoClient{failOn: map[string]bool{"Hello": true}}
	executor := NewBlockExecutor(client, 0, nil)
	block := models.Block{
		ID:   "b8",
		Type: models.BlockTypeStandard,
		Config: models.Config{Standard: &models.StandardConfig{
			Prompt:             "Hello",
			OutputVariableName: "out",
		}},
	}
	result := executor.Execute(context.Background(), block, "lorem", map[string]any{})
	if result.Err == nil {
		t.Fatal("expected error")
	}
	if len(result.OutputAdditions) != 0 {
		t.Errorf("expected no output additions on failure, got %v", result.OutputAdditions)
	}
}

// blockingClient never returns on its own; it only resolves once the
// context it was called with is cancelled, so it observes whatever
// deadline the executor attaches.
type blockingClient struct{}

func (c *blockingClient) Complete(ctx context.Context, prompt, model string, maxTokens int) (llm.Result, error) {
	<-ctx.Done()
	return llm.Result{}, ctx.Err()
}

func TestBlockExecutor_EnforcesPerCallTimeout(t *testing.T) {
	executor := NewBlockExecutor(&blockingClient{}, 10*time.Millisecond, nil)
	block := models.Block{
		ID:   "b9",
		Type: models.BlockTypeStandard,
		Config: models.Config{Standard: &models.StandardConfig{
			Prompt:             "Hello",
			OutputVariableName: "out",
		}},
	}
	result := executor.Execute(context.Background(), block, "lorem", map[string]any{})
	if !errors.Is(result.Err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", result.Err)
	}
}
