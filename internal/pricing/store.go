package pricing

import (
	"fmt"
	"sort"
	"sync"
)

// Store — хранилище рекомендаций. Add обязан атомарно проверять
// отсутствие PENDING по товару и вставлять запись.
type Store interface {
	HasPending(productID string) bool
	Add(rec *Recommendation) error
	Get(id string) (*Recommendation, bool)
	List(status Status) []*Recommendation
	SetStatus(id string, status Status) error
}

// MemStore — потокобезопасное хранилище в памяти.
type MemStore struct {
	mu   sync.Mutex
	byID map[string]*Recommendation
}

func NewMemStore() *MemStore {
	return &MemStore{byID: make(map[string]*Recommendation)}
}

func (s *MemStore) HasPending(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasPendingLocked(productID)
}

func (s *MemStore) hasPendingLocked(productID string) bool {
	for _, r := range s.byID {
		if r.ProductID == productID && r.Status == StatusPending {
			return true
		}
	}
	return false
}

func (s *MemStore) Add(rec *Recommendation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasPendingLocked(rec.ProductID) {
		return fmt.Errorf("по товару %s уже есть рекомендация в статусе PENDING", rec.ProductID)
	}
	cp := *rec
	s.byID[rec.ID] = &cp
	return nil
}

func (s *MemStore) Get(id string) (*Recommendation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	cp := *r
	return &cp, true
}

// List возвращает рекомендации, отфильтрованные по статусу (пустой статус —
// все), свежие первыми.
func (s *MemStore) List(status Status) []*Recommendation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Recommendation, 0, len(s.byID))
	for _, r := range s.byID {
		if status != "" && r.Status != status {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *MemStore) SetStatus(id string, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("рекомендация %s не найдена", id)
	}
	if r.Status != StatusPending {
		return fmt.Errorf("рекомендация %s уже разрешена (%s)", id, r.Status)
	}
	r.Status = status
	return nil
}
