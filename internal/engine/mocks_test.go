package engine

import (
	"context"
	"fmt"

	"meridian/internal/domain"
	"meridian/internal/domain/models"
)

// The mocks below are minimal in-memory implementations of the
// repository interfaces, scoped to what the engine package's own
// tests exercise — following the teacher's small-inline-mock test
// style (registry_test.go) rather than a generated/mockgen double.

type mockSequenceRepo struct {
	sequences map[string]*models.Sequence
}

func (m *mockSequenceRepo) Create(ctx context.Context, s *models.Sequence) error { return nil }
func (m *mockSequenceRepo) GetByID(ctx context.Context, ownerID, id string) (*models.Sequence, error) {
	s, ok := m.sequences[id]
	if !ok || s.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	return s, nil
}
func (m *mockSequenceRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Sequence, error) {
	return nil, nil
}
func (m *mockSequenceRepo) Update(ctx context.Context, s *models.Sequence) error { return nil }
func (m *mockSequenceRepo) Delete(ctx context.Context, ownerID, id string) error { return nil }

type mockBlockRepo struct {
	bySequence map[string][]models.Block
}

func (m *mockBlockRepo) Create(ctx context.Context, ownerID string, b *models.Block) error {
	m.bySequence[b.SequenceID] = append(m.bySequence[b.SequenceID], *b)
	return nil
}
func (m *mockBlockRepo) GetByID(ctx context.Context, ownerID, id string) (*models.Block, error) {
	for _, blocks := range m.bySequence {
		for _, b := range blocks {
			if b.ID == id {
				return &b, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}
func (m *mockBlockRepo) ListBySequence(ctx context.Context, ownerID, sequenceID string) ([]models.Block, error) {
	return m.bySequence[sequenceID], nil
}
func (m *mockBlockRepo) Update(ctx context.Context, ownerID string, b *models.Block) error { return nil }
func (m *mockBlockRepo) Delete(ctx context.Context, ownerID, id string) error              { return nil }

type mockVariableRepo struct {
	bySequence map[string][]models.Variable
}

func (m *mockVariableRepo) Create(ctx context.Context, ownerID string, v *models.Variable) error {
	return nil
}
func (m *mockVariableRepo) GetByID(ctx context.Context, ownerID, id string) (*models.Variable, error) {
	return nil, domain.ErrNotFound
}
func (m *mockVariableRepo) ListBySequence(ctx context.Context, ownerID, sequenceID string) ([]models.Variable, error) {
	return m.bySequence[sequenceID], nil
}
func (m *mockVariableRepo) Update(ctx context.Context, ownerID string, v *models.Variable) error {
	return nil
}
func (m *mockVariableRepo) Delete(ctx context.Context, ownerID, id string) error { return nil }

type mockGlobalListRepo struct {
	byOwner map[string][]models.GlobalList
}

func (m *mockGlobalListRepo) Create(ctx context.Context, l *models.GlobalList) error { return nil }
func (m *mockGlobalListRepo) GetByID(ctx context.Context, ownerID, id string) (*models.GlobalList, error) {
	return nil, domain.ErrNotFound
}
func (m *mockGlobalListRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.GlobalList, error) {
	return m.byOwner[ownerID], nil
}
func (m *mockGlobalListRepo) Update(ctx context.Context, ownerID string, l *models.GlobalList) error {
	return nil
}
func (m *mockGlobalListRepo) Delete(ctx context.Context, ownerID, id string) error { return nil }
func (m *mockGlobalListRepo) AddItem(ctx context.Context, ownerID, listID string, item *models.GlobalListItem) error {
	return nil
}
func (m *mockGlobalListRepo) UpdateItem(ctx context.Context, ownerID, listID string, item *models.GlobalListItem) error {
	return nil
}
func (m *mockGlobalListRepo) DeleteItem(ctx context.Context, ownerID, listID, itemID string) error {
	return nil
}

type mockRunRepo struct {
	runs map[string]*models.Run
}

func (m *mockRunRepo) Create(ctx context.Context, r *models.Run) error {
	if m.runs == nil {
		m.runs = make(map[string]*models.Run)
	}
	m.runs[r.ID] = r
	return nil
}
func (m *mockRunRepo) GetByID(ctx context.Context, ownerID, id string) (*models.Run, error) {
	r, ok := m.runs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}
func (m *mockRunRepo) ListBySequence(ctx context.Context, ownerID, sequenceID string) ([]models.Run, error) {
	return nil, nil
}
func (m *mockRunRepo) Update(ctx context.Context, r *models.Run) error {
	if m.runs == nil {
		m.runs = make(map[string]*models.Run)
	}
	m.runs[r.ID] = r
	return nil
}

type mockBlockRunRepo struct {
	byRun map[string][]*models.BlockRun
}

func (m *mockBlockRunRepo) Create(ctx context.Context, br *models.BlockRun) error {
	if m.byRun == nil {
		m.byRun = make(map[string][]*models.BlockRun)
	}
	br.ID = fmt.Sprintf("br-%d", len(m.byRun[br.RunID])+1)
	m.byRun[br.RunID] = append(m.byRun[br.RunID], br)
	return nil
}
func (m *mockBlockRunRepo) Update(ctx context.Context, br *models.BlockRun) error { return nil }
func (m *mockBlockRunRepo) GetByID(ctx context.Context, ownerID, id string) (*models.BlockRun, error) {
	return nil, domain.ErrNotFound
}
func (m *mockBlockRunRepo) ListByRun(ctx context.Context, ownerID, runID string) ([]models.BlockRun, error) {
	var out []models.BlockRun
	for _, br := range m.byRun[runID] {
		out = append(out, *br)
	}
	return out, nil
}
