package service

import (
	"context"
	"fmt"

	"meridian/internal/domain"
	"meridian/internal/domain/models"
)

// contextBG is shorthand for context.Background() in table-driven tests.
func contextBG() context.Context {
	return context.Background()
}

// fakeSequenceRepository is an in-memory SequenceRepository for service tests.
type fakeSequenceRepository struct {
	byID    map[string]*models.Sequence
	nextID  int
	failGet error
}

func newFakeSequenceRepository() *fakeSequenceRepository {
	return &fakeSequenceRepository{byID: map[string]*models.Sequence{}}
}

func (f *fakeSequenceRepository) Create(ctx context.Context, seq *models.Sequence) error {
	f.nextID++
	seq.ID = fmt.Sprintf("seq-%d", f.nextID)
	cp := *seq
	f.byID[seq.ID] = &cp
	return nil
}

func (f *fakeSequenceRepository) GetByID(ctx context.Context, ownerID, id string) (*models.Sequence, error) {
	if f.failGet != nil {
		return nil, f.failGet
	}
	seq, ok := f.byID[id]
	if !ok || seq.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	cp := *seq
	return &cp, nil
}

func (f *fakeSequenceRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Sequence, error) {
	var out []models.Sequence
	for _, seq := range f.byID {
		if seq.OwnerID == ownerID {
			out = append(out, *seq)
		}
	}
	return out, nil
}

func (f *fakeSequenceRepository) Update(ctx context.Context, seq *models.Sequence) error {
	if _, ok := f.byID[seq.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *seq
	f.byID[seq.ID] = &cp
	return nil
}

func (f *fakeSequenceRepository) Delete(ctx context.Context, ownerID, id string) error {
	seq, ok := f.byID[id]
	if !ok || seq.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// createForTest seeds a sequence directly, bypassing the service layer,
// for tests that need an existing sequence to hang a block/variable off.
func (f *fakeSequenceRepository) createForTest(ownerID, name string) (*models.Sequence, error) {
	seq := &models.Sequence{OwnerID: ownerID, Name: name}
	if err := f.Create(context.Background(), seq); err != nil {
		return nil, err
	}
	return seq, nil
}

// fakeBlockRepository is an in-memory BlockRepository for service tests.
type fakeBlockRepository struct {
	byID   map[string]*models.Block
	nextID int
}

func newFakeBlockRepository() *fakeBlockRepository {
	return &fakeBlockRepository{byID: map[string]*models.Block{}}
}

func (f *fakeBlockRepository) Create(ctx context.Context, ownerID string, block *models.Block) error {
	f.nextID++
	block.ID = fmt.Sprintf("block-%d", f.nextID)
	cp := *block
	f.byID[block.ID] = &cp
	return nil
}

func (f *fakeBlockRepository) GetByID(ctx context.Context, ownerID, id string) (*models.Block, error) {
	block, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *block
	return &cp, nil
}

func (f *fakeBlockRepository) ListBySequence(ctx context.Context, ownerID, sequenceID string) ([]models.Block, error) {
	var out []models.Block
	for _, b := range f.byID {
		if b.SequenceID == sequenceID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBlockRepository) Update(ctx context.Context, ownerID string, block *models.Block) error {
	if _, ok := f.byID[block.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *block
	f.byID[block.ID] = &cp
	return nil
}

func (f *fakeBlockRepository) Delete(ctx context.Context, ownerID, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeVariableRepository is an in-memory VariableRepository for service tests.
type fakeVariableRepository struct {
	byID   map[string]*models.Variable
	nextID int
}

func newFakeVariableRepository() *fakeVariableRepository {
	return &fakeVariableRepository{byID: map[string]*models.Variable{}}
}

func (f *fakeVariableRepository) Create(ctx context.Context, ownerID string, v *models.Variable) error {
	f.nextID++
	v.ID = fmt.Sprintf("var-%d", f.nextID)
	cp := *v
	f.byID[v.ID] = &cp
	return nil
}

func (f *fakeVariableRepository) GetByID(ctx context.Context, ownerID, id string) (*models.Variable, error) {
	v, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (f *fakeVariableRepository) ListBySequence(ctx context.Context, ownerID, sequenceID string) ([]models.Variable, error) {
	var out []models.Variable
	for _, v := range f.byID {
		if v.SequenceID == sequenceID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (f *fakeVariableRepository) Update(ctx context.Context, ownerID string, v *models.Variable) error {
	if _, ok := f.byID[v.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *v
	f.byID[v.ID] = &cp
	return nil
}

func (f *fakeVariableRepository) Delete(ctx context.Context, ownerID, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeGlobalListRepository is an in-memory GlobalListRepository for service tests.
type fakeGlobalListRepository struct {
	byID       map[string]*models.GlobalList
	nextListID int
	nextItemID int
}

func newFakeGlobalListRepository() *fakeGlobalListRepository {
	return &fakeGlobalListRepository{byID: map[string]*models.GlobalList{}}
}

func (f *fakeGlobalListRepository) Create(ctx context.Context, list *models.GlobalList) error {
	f.nextListID++
	list.ID = fmt.Sprintf("list-%d", f.nextListID)
	cp := *list
	f.byID[list.ID] = &cp
	return nil
}

func (f *fakeGlobalListRepository) GetByID(ctx context.Context, ownerID, id string) (*models.GlobalList, error) {
	list, ok := f.byID[id]
	if !ok || list.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	cp := *list
	return &cp, nil
}

func (f *fakeGlobalListRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.GlobalList, error) {
	var out []models.GlobalList
	for _, l := range f.byID {
		if l.OwnerID == ownerID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeGlobalListRepository) Update(ctx context.Context, ownerID string, list *models.GlobalList) error {
	existing, ok := f.byID[list.ID]
	if !ok || existing.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	cp := *list
	f.byID[list.ID] = &cp
	return nil
}

func (f *fakeGlobalListRepository) Delete(ctx context.Context, ownerID, id string) error {
	existing, ok := f.byID[id]
	if !ok || existing.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeGlobalListRepository) AddItem(ctx context.Context, ownerID, listID string, item *models.GlobalListItem) error {
	list, ok := f.byID[listID]
	if !ok || list.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	f.nextItemID++
	item.ID = fmt.Sprintf("item-%d", f.nextItemID)
	item.GlobalListID = listID
	list.Items = append(list.Items, *item)
	return nil
}

func (f *fakeGlobalListRepository) UpdateItem(ctx context.Context, ownerID, listID string, item *models.GlobalListItem) error {
	list, ok := f.byID[listID]
	if !ok || list.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	for i := range list.Items {
		if list.Items[i].ID == item.ID {
			list.Items[i].Value = item.Value
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeGlobalListRepository) DeleteItem(ctx context.Context, ownerID, listID, itemID string) error {
	list, ok := f.byID[listID]
	if !ok || list.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	for i := range list.Items {
		if list.Items[i].ID == itemID {
			list.Items = append(list.Items[:i], list.Items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// fakeRunRepository is an in-memory RunRepository for service tests.
type fakeRunRepository struct {
	byID   map[string]*models.Run
	nextID int
}

func newFakeRunRepository() *fakeRunRepository {
	return &fakeRunRepository{byID: map[string]*models.Run{}}
}

func (f *fakeRunRepository) Create(ctx context.Context, run *models.Run) error {
	f.nextID++
	run.ID = fmt.Sprintf("run-%d", f.nextID)
	cp := *run
	f.byID[run.ID] = &cp
	return nil
}

func (f *fakeRunRepository) GetByID(ctx context.Context, ownerID, id string) (*models.Run, error) {
	run, ok := f.byID[id]
	if !ok || run.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	cp := *run
	return &cp, nil
}

func (f *fakeRunRepository) ListBySequence(ctx context.Context, ownerID, sequenceID string) ([]models.Run, error) {
	var out []models.Run
	for _, r := range f.byID {
		if r.OwnerID == ownerID && r.SequenceID == sequenceID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRunRepository) Update(ctx context.Context, run *models.Run) error {
	if _, ok := f.byID[run.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *run
	f.byID[run.ID] = &cp
	return nil
}

// createForTest seeds a run directly, bypassing the service layer.
func (f *fakeRunRepository) createForTest(ownerID, sequenceID string) (*models.Run, error) {
	run := &models.Run{OwnerID: ownerID, SequenceID: sequenceID, Status: models.RunStatusPending}
	if err := f.Create(context.Background(), run); err != nil {
		return nil, err
	}
	return run, nil
}

// fakeUserRepository is an in-memory UserRepository for service tests.
type fakeUserRepository struct {
	byID    map[string]*models.User
	byEmail map[string]*models.User
	nextID  int
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{byID: map[string]*models.User{}, byEmail: map[string]*models.User{}}
}

func (f *fakeUserRepository) Create(ctx context.Context, user *models.User) error {
	if _, exists := f.byEmail[user.Email]; exists {
		return domain.ErrConflict
	}
	f.nextID++
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	cp := *user
	f.byID[user.ID] = &cp
	f.byEmail[user.Email] = &cp
	return nil
}

func (f *fakeUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (f *fakeUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *user
	return &cp, nil
}
