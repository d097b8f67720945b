package engine

import (
	"context"
	"log/slog"
	"testing"

	"meridian/internal/domain/models"
)

func newTestOrchestrator(sequences *mockSequenceRepo, blocks *mockBlockRepo, vars *mockVariableRepo, lists *mockGlobalListRepo, runs *mockRunRepo, blockRuns *mockBlockRunRepo) *Orchestrator {
	contextBldr := NewContextBuilder(vars, lists)
	executor := NewBlockExecutor(&echoClient{}, 0, slog.Default())
	return NewOrchestrator(sequences, blocks, runs, blockRuns, contextBldr, executor, slog.Default())
}

func TestOrchestrator_StandardChain(t *testing.T) {
	seq := &models.Sequence{ID: "s1", OwnerID: "u1", Name: "seq"}
	sequences := &mockSequenceRepo{sequences: map[string]*models.Sequence{"s1": seq}}
	blocks := &mockBlockRepo{bySequence: map[string][]models.Block{
		"s1": {
			{ID: "b1", SequenceID: "s1", Name: "b1", Type: models.BlockTypeStandard, Order: 1,
				Config: models.Config{Standard: &models.StandardConfig{Prompt: "Hello {{name}}", OutputVariableName: "greeting"}}},
			{ID: "b2", SequenceID: "s1", Name: "b2", Type: models.BlockTypeStandard, Order: 2,
				Config: models.Config{Standard: &models.StandardConfig{Prompt: "Echo: {{greeting}}", OutputVariableName: "echo"}}},
		},
	}}
	vars := &mockVariableRepo{bySequence: map[string][]models.Variable{}}
	lists := &mockGlobalListRepo{byOwner: map[string][]models.GlobalList{}}
	runs := &mockRunRepo{}
	blockRuns := &mockBlockRunRepo{}

	orchestrator := newTestOrchestrator(sequences, blocks, vars, lists, runs, blockRuns)

	run := &models.Run{
		ID:             "r1",
		SequenceID:     "s1",
		OwnerID:        "u1",
		Status:         models.RunStatusPending,
		InputOverrides: map[string]any{"name": "World"},
	}
	if err := runs.Create(context.Background(), run); err != nil {
		t.Fatalf("create run: %v", err)
	}

	if err := orchestrator.Execute(context.Background(), run, "lorem"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if run.Status != models.RunStatusCompleted {
		t.Fatalf("got status %s, want completed", run.Status)
	}
	if run.CompletedAt == nil {
		t.Fatal("expected completed_at to be set")
	}

	traces := blockRuns.byRun["r1"]
	if len(traces) != 2 {
		t.Fatalf("got %d block runs, want 2", len(traces))
	}
	if traces[0].RawLLMText != "Hello World" {
		t.Errorf("b1 raw text = %q", traces[0].RawLLMText)
	}
	if traces[1].RenderedPrompt != "Echo: Hello World" {
		t.Errorf("b2 rendered prompt = %q", traces[1].RenderedPrompt)
	}
	if len(run.ResultsSummary) != 2 {
		t.Errorf("got %d summary entries, want 2", len(run.ResultsSummary))
	}
}

func TestOrchestrator_EmptySequenceCompletesImmediately(t *testing.T) {
	seq := &models.Sequence{ID: "s2", OwnerID: "u1"}
	sequences := &mockSequenceRepo{sequences: map[string]*models.Sequence{"s2": seq}}
	blocks := &mockBlockRepo{bySequence: map[string][]models.Block{}}
	vars := &mockVariableRepo{bySequence: map[string][]models.Variable{}}
	lists := &mockGlobalListRepo{byOwner: map[string][]models.GlobalList{}}
	runs := &mockRunRepo{}
	blockRuns := &mockBlockRunRepo{}

	orchestrator := newTestOrchestrator(sequences, blocks, vars, lists, runs, blockRuns)
	run := &models.Run{ID: "r2", SequenceID: "s2", OwnerID: "u1", Status: models.RunStatusPending}
	runs.Create(context.Background(), run)

	if err := orchestrator.Execute(context.Background(), run, "lorem"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.Status != models.RunStatusCompleted {
		t.Errorf("got status %s, want completed", run.Status)
	}
}

func TestOrchestrator_ContinuesAfterBlockFailure(t *testing.T) {
	seq := &models.Sequence{ID: "s3", OwnerID: "u1"}
	sequences := &mockSequenceRepo{sequences: map[string]*models.Sequence{"s3": seq}}
	blocks := &mockBlockRepo{bySequence: map[string][]models.Block{
		"s3": {
			{ID: "b1", SequenceID: "s3", Name: "fails", Type: models.BlockTypeSingleList, Order: 1,
				Config: models.Config{SingleList: &models.SingleListConfig{Prompt: "{{item}}", InputListVariableName: "missing"}}},
			{ID: "b2", SequenceID: "s3", Name: "survives", Type: models.BlockTypeStandard, Order: 2,
				Config: models.Config{Standard: &models.StandardConfig{Prompt: "still fine", OutputVariableName: "out"}}},
		},
	}}
	vars := &mockVariableRepo{bySequence: map[string][]models.Variable{}}
	lists := &mockGlobalListRepo{byOwner: map[string][]models.GlobalList{}}
	runs := &mockRunRepo{}
	blockRuns := &mockBlockRunRepo{}

	orchestrator := newTestOrchestrator(sequences, blocks, vars, lists, runs, blockRuns)
	run := &models.Run{ID: "r3", SequenceID: "s3", OwnerID: "u1", Status: models.RunStatusPending}
	runs.Create(context.Background(), run)

	if err := orchestrator.Execute(context.Background(), run, "lorem"); err != nil {
		t.Fatalf("unexpected orchestrator error: %v", err)
	}
	if run.Status != models.RunStatusFailed {
		t.Fatalf("got status %s, want failed", run.Status)
	}

	traces := blockRuns.byRun["r3"]
	if traces[0].Status != models.RunStatusFailed {
		t.Errorf("b1 status = %s, want failed", traces[0].Status)
	}
	if traces[1].Status != models.RunStatusCompleted {
		t.Errorf("b2 status = %s, want completed despite b1 failure", traces[1].Status)
	}
}
