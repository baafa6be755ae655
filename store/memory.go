package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"kas/models"
)

// MemoryStore 内存实现，用于测试和未配置数据库时的本地运行
type MemoryStore struct {
	mu     sync.RWMutex
	items  []models.Transaction
	nextID uint
}

// NewMemoryStore 创建内存存储，seed 中的记录会重新分配 ID
func NewMemoryStore(seed ...models.Transaction) *MemoryStore {
	s := &MemoryStore{nextID: 1}
	for i := range seed {
		t := seed[i]
		_ = s.Create(context.Background(), &t)
	}
	return s
}

func (s *MemoryStore) List(_ context.Context, r *DateRange) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Transaction, 0, len(s.items))
	for _, t := range s.items {
		if r != nil && !r.Contains(t.Date) {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID > out[j].ID
		}
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, id uint) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		t := s.items[i]
		return &t, nil
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) Create(_ context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx.ID = s.nextID
	s.nextID++
	tx.CreatedAt = time.Now()
	s.items = append(s.items, *tx)
	return nil
}

func (s *MemoryStore) Update(_ context.Context, id uint, f models.TransactionFields) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	s.items[i].Apply(f)
	t := s.items[i]
	return &t, nil
}

func (s *MemoryStore) Delete(_ context.Context, id uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return 0, nil
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return 1, nil
}

func (s *MemoryStore) DeleteMatching(_ context.Context, description string, category models.Category) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0]
	var n int64
	for _, t := range s.items {
		if t.Description == description && t.Category == category {
			n++
			continue
		}
		kept = append(kept, t)
	}
	s.items = kept
	return n, nil
}

func (s *MemoryStore) Close() error { return nil }

// indexOf 调用方需持有锁
func (s *MemoryStore) indexOf(id uint) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}
