package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRecovery_CatchesPanic(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	handler := Recovery(testLogger())(next)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sequences", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 after recovering a panic", w.Code)
	}
}

func TestRecovery_PassesThroughNormalResponses(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := Recovery(testLogger())(next)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sequences", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 when nothing panics", w.Code)
	}
}
