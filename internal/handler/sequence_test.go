package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"meridian/internal/domain/models"
	"meridian/internal/domain/services"
	"meridian/internal/httputil"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubSequenceService is a minimal services.SequenceService for handler tests.
type stubSequenceService struct {
	createFn func(ownerID string, req *services.CreateSequenceRequest) (*models.Sequence, error)
	getFn    func(ownerID, id string) (*models.Sequence, error)
}

func (s *stubSequenceService) Create(ctx context.Context, ownerID string, req *services.CreateSequenceRequest) (*models.Sequence, error) {
	return s.createFn(ownerID, req)
}
func (s *stubSequenceService) Get(ctx context.Context, ownerID, id string) (*models.Sequence, error) {
	return s.getFn(ownerID, id)
}
func (s *stubSequenceService) List(ctx context.Context, ownerID string) ([]models.Sequence, error) {
	return nil, nil
}
func (s *stubSequenceService) Update(ctx context.Context, ownerID, id string, req *services.UpdateSequenceRequest) (*models.Sequence, error) {
	return nil, nil
}
func (s *stubSequenceService) Delete(ctx context.Context, ownerID, id string) error {
	return nil
}

func TestSequenceHandler_Create(t *testing.T) {
	svc := &stubSequenceService{
		createFn: func(ownerID string, req *services.CreateSequenceRequest) (*models.Sequence, error) {
			if ownerID != "user-1" {
				t.Errorf("ownerID = %q, want user-1", ownerID)
			}
			return &models.Sequence{ID: "seq-1", OwnerID: ownerID, Name: req.Name}, nil
		},
	}
	h := NewSequenceHandler(svc, testLogger())

	body, _ := json.Marshal(map[string]string{"name": "Chapter Review"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sequences", bytes.NewReader(body))
	req = httputil.WithUserID(req, "user-1")
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body: %s", w.Code, w.Body.String())
	}
	var got models.Sequence
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if got.Name != "Chapter Review" {
		t.Errorf("name = %q, want Chapter Review", got.Name)
	}
}

func TestSequenceHandler_Get_MissingID(t *testing.T) {
	svc := &stubSequenceService{}
	h := NewSequenceHandler(svc, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sequences/", nil)
	w := httptest.NewRecorder()

	h.Get(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for missing path param", w.Code)
	}
}
