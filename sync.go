package buckethash

import (
	"io"
	"sync"
)

// SyncTable 用一把锁包住整个HashTable
// Insert会同时修改计数与bucket大小, 不能按bucket分锁
type SyncTable struct {
	mu sync.Mutex
	h  *HashTable
}

func NewSyncTable(h *HashTable) *SyncTable {
	return &SyncTable{h: h}
}

// Find 返回副本, 视图不能离开锁
func (s *SyncTable) Find(key Key) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.h.Find(key)
	if !ok {
		return Record{}, false
	}
	return r.Clone(), true
}

func (s *SyncTable) Insert(key Key, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.Insert(key, record)
}

func (s *SyncTable) Delete(key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.Delete(key)
}

func (s *SyncTable) AddSubject(key Key, subject string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.AddSubject(key, subject)
}

func (s *SyncTable) RemoveSubject(key Key, subject string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.RemoveSubject(key, subject)
}

func (s *SyncTable) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.Clear()
}

func (s *SyncTable) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.Close()
}

func (s *SyncTable) KeyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.KeyCount()
}

func (s *SyncTable) TableSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.TableSize()
}

func (s *SyncTable) FillRatio() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.FillRatio()
}

func (s *SyncTable) Dump(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.Dump(w)
}

func (s *SyncTable) Digest() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.Digest()
}
