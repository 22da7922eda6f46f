package repository

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Basiiii/SmartStay-sub000/internal/model"
)

// ClientRepo keeps the guests who book rooms. It is a flat id-keyed
// collection; reservations reference clients by id only.
type ClientRepo struct {
	mu   sync.RWMutex
	byID map[uint64]*model.Client
	seq  *IdentitySequence
}

// NewClientRepo returns an empty repository with a fresh sequence.
func NewClientRepo() *ClientRepo {
	return &ClientRepo{
		byID: make(map[uint64]*model.Client),
		seq:  NewIdentitySequence(),
	}
}

// Add validates the fields, mints an id and stores a new client.
func (r *ClientRepo) Add(name, email, phone string) (*model.Client, error) {
	id, err := r.seq.Next()
	if err != nil {
		return nil, err
	}
	client, err := model.NewClient(id, name, email, phone)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[client.ID] = client
	return client, nil
}

// Restore inserts a client rebuilt from persisted state and raises the
// sequence past its id.
func (r *ClientRepo) Restore(client *model.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[client.ID]; ok {
		return fmt.Errorf("%w: client %d", ErrDuplicateID, client.ID)
	}
	r.byID[client.ID] = client
	r.seq.Observe(client.ID)
	return nil
}

// Get looks up a client by id.
func (r *ClientRepo) Get(id uint64) (*model.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrClientNotFound, id)
	}
	return client, nil
}

// List returns every client sorted by id.
func (r *ClientRepo) List() []*model.Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.Client, 0, len(r.byID))
	for _, client := range r.byID {
		out = append(out, client)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Remove deletes a client by id.
func (r *ClientRepo) Remove(id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return fmt.Errorf("%w: id %d", ErrClientNotFound, id)
	}
	delete(r.byID, id)
	return nil
}

// Len returns the number of clients held.
func (r *ClientRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
