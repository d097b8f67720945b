package service

import (
	"errors"
	"testing"

	"meridian/internal/domain"
	"meridian/internal/domain/models"
	"meridian/internal/domain/services"
)

func TestVariableService_Create(t *testing.T) {
	sequences := newFakeSequenceRepository()
	variables := newFakeVariableRepository()
	svc := NewVariableService(variables, sequences, nil, discardLogger())

	seq, _ := sequences.createForTest("owner-1", "seq")
	v, err := svc.Create(contextBG(), "owner-1", &services.CreateVariableRequest{
		SequenceID: seq.ID,
		Name:       "chapter_text",
		Type:       models.VariableTypeInput,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if v.Name != "chapter_text" {
		t.Errorf("name = %q, want chapter_text", v.Name)
	}
}

func TestVariableService_Create_RejectsBadIdentifier(t *testing.T) {
	sequences := newFakeSequenceRepository()
	variables := newFakeVariableRepository()
	svc := NewVariableService(variables, sequences, nil, discardLogger())

	seq, _ := sequences.createForTest("owner-1", "seq")
	_, err := svc.Create(contextBG(), "owner-1", &services.CreateVariableRequest{
		SequenceID: seq.ID,
		Name:       "not a valid identifier!",
		Type:       models.VariableTypeInput,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestVariableService_Create_RejectsUnknownType(t *testing.T) {
	sequences := newFakeSequenceRepository()
	variables := newFakeVariableRepository()
	svc := NewVariableService(variables, sequences, nil, discardLogger())

	seq, _ := sequences.createForTest("owner-1", "seq")
	_, err := svc.Create(contextBG(), "owner-1", &services.CreateVariableRequest{
		SequenceID: seq.ID,
		Name:       "ok_name",
		Type:       models.VariableType("bogus"),
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestVariableService_Update(t *testing.T) {
	sequences := newFakeSequenceRepository()
	variables := newFakeVariableRepository()
	svc := NewVariableService(variables, sequences, nil, discardLogger())

	seq, _ := sequences.createForTest("owner-1", "seq")
	v, err := svc.Create(contextBG(), "owner-1", &services.CreateVariableRequest{
		SequenceID: seq.ID,
		Name:       "chapter_text",
		Type:       models.VariableTypeInput,
		Default:    "fallback",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := svc.Update(contextBG(), "owner-1", v.ID, &services.UpdateVariableRequest{
		Name:    "chapter_text",
		Default: "new fallback",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Default != "new fallback" {
		t.Errorf("default = %v, want new fallback", updated.Default)
	}
}
