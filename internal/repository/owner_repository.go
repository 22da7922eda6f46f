package repository

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Basiiii/SmartStay-sub000/internal/model"
)

// OwnerRepo keeps the owners and the owner-to-accommodation
// association. Both sides of the association change under this repo's
// lock, so an accommodation can never point at an owner who does not
// list it back.
type OwnerRepo struct {
	mu   sync.RWMutex
	byID map[uint64]*model.Owner
	accs map[uint64]map[uint64]struct{}
	seq  *IdentitySequence
}

// NewOwnerRepo returns an empty repository with a fresh sequence.
func NewOwnerRepo() *OwnerRepo {
	return &OwnerRepo{
		byID: make(map[uint64]*model.Owner),
		accs: make(map[uint64]map[uint64]struct{}),
		seq:  NewIdentitySequence(),
	}
}

// Add validates the fields, mints an id and stores a new owner.
func (r *OwnerRepo) Add(name, email, phone string) (*model.Owner, error) {
	id, err := r.seq.Next()
	if err != nil {
		return nil, err
	}
	owner, err := model.NewOwner(id, name, email, phone)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[owner.ID] = owner
	r.accs[owner.ID] = make(map[uint64]struct{})
	return owner, nil
}

// Restore inserts an owner rebuilt from persisted state together with
// its accommodation ids and raises the sequence past its id.
func (r *OwnerRepo) Restore(owner *model.Owner, accommodationIDs []uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[owner.ID]; ok {
		return fmt.Errorf("%w: owner %d", ErrDuplicateID, owner.ID)
	}
	set := make(map[uint64]struct{}, len(accommodationIDs))
	for _, id := range accommodationIDs {
		set[id] = struct{}{}
	}
	r.byID[owner.ID] = owner
	r.accs[owner.ID] = set
	r.seq.Observe(owner.ID)
	return nil
}

// Get looks up an owner by id.
func (r *OwnerRepo) Get(id uint64) (*model.Owner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	owner, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrOwnerNotFound, id)
	}
	return owner, nil
}

// List returns every owner sorted by id.
func (r *OwnerRepo) List() []*model.Owner {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.Owner, 0, len(r.byID))
	for _, owner := range r.byID {
		out = append(out, owner)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Remove deletes an owner. Owners still holding accommodations return
// ErrOwnerHasProperties; their properties must be deleted first.
func (r *OwnerRepo) Remove(id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return fmt.Errorf("%w: id %d", ErrOwnerNotFound, id)
	}
	if len(r.accs[id]) > 0 {
		return fmt.Errorf("%w: owner %d", ErrOwnerHasProperties, id)
	}
	delete(r.byID, id)
	delete(r.accs, id)
	return nil
}

// Attach records that the owner holds the accommodation.
func (r *OwnerRepo) Attach(ownerID, accommodationID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.accs[ownerID]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrOwnerNotFound, ownerID)
	}
	set[accommodationID] = struct{}{}
	return nil
}

// Detach removes the accommodation from the owner's holdings. It is
// called as part of accommodation deletion; a missing association is
// not an error because deletion must stay idempotent on this side.
func (r *OwnerRepo) Detach(ownerID, accommodationID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.accs[ownerID]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrOwnerNotFound, ownerID)
	}
	delete(set, accommodationID)
	return nil
}

// AccommodationIDs returns the ids of the owner's accommodations in
// ascending order.
func (r *OwnerRepo) AccommodationIDs(ownerID uint64) ([]uint64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set, ok := r.accs[ownerID]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrOwnerNotFound, ownerID)
	}
	out := make([]uint64, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// Len returns the number of owners held.
func (r *OwnerRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
