package service

import (
	"testing"

	"meridian/internal/domain/services"
)

func TestGlobalListService_Create_WithItems(t *testing.T) {
	repo := newFakeGlobalListRepository()
	svc := NewGlobalListService(repo, discardLogger())

	list, err := svc.Create(contextBG(), "owner-1", &services.CreateGlobalListRequest{
		Name:  "review_checklist",
		Items: []string{"clarity", "tone", "accuracy"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(list.Items) != 3 {
		t.Fatalf("got %d items, want 3", len(list.Items))
	}
	for i, item := range list.Items {
		if item.Order != i {
			t.Errorf("item %d order = %d, want %d", i, item.Order, i)
		}
	}
}

func TestGlobalListService_AddItem_AppendsAtEnd(t *testing.T) {
	repo := newFakeGlobalListRepository()
	svc := NewGlobalListService(repo, discardLogger())

	list, err := svc.Create(contextBG(), "owner-1", &services.CreateGlobalListRequest{
		Name:  "names",
		Items: []string{"a", "b"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	item, err := svc.AddItem(contextBG(), "owner-1", list.ID, "c")
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if item.Order != 2 {
		t.Errorf("order = %d, want 2 (appended after 2 existing items)", item.Order)
	}
}

func TestGlobalListService_AddItem_RejectsEmptyValue(t *testing.T) {
	repo := newFakeGlobalListRepository()
	svc := NewGlobalListService(repo, discardLogger())

	list, _ := svc.Create(contextBG(), "owner-1", &services.CreateGlobalListRequest{Name: "names"})

	if _, err := svc.AddItem(contextBG(), "owner-1", list.ID, ""); err == nil {
		t.Fatal("expected validation error for empty item value")
	}
}

func TestGlobalListService_DeleteItem(t *testing.T) {
	repo := newFakeGlobalListRepository()
	svc := NewGlobalListService(repo, discardLogger())

	list, _ := svc.Create(contextBG(), "owner-1", &services.CreateGlobalListRequest{Name: "names", Items: []string{"a"}})
	item := list.Items[0]

	if err := svc.DeleteItem(contextBG(), "owner-1", list.ID, item.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}

	got, err := svc.Get(contextBG(), "owner-1", list.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Items) != 0 {
		t.Errorf("got %d items after delete, want 0", len(got.Items))
	}
}
