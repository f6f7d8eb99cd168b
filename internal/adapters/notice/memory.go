package notice

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"activitysignup/internal/domain"
)

type memorySlot struct {
	notice domain.Notice
	timer  *time.Timer
}

type memoryStore struct {
	ttl time.Duration
	now func() time.Time

	mu    sync.Mutex
	slots map[string]*memorySlot
}

// NewMemoryStore returns a process-local NoticeStore whose notices are
// dismissed ttl after being posted.
func NewMemoryStore(ttl time.Duration) domain.NoticeStore {
	return &memoryStore{
		ttl:   ttl,
		now:   time.Now,
		slots: make(map[string]*memorySlot),
	}
}

func (s *memoryStore) Post(_ context.Context, viewer string, n domain.Notice) (domain.Notice, error) {
	n = stamp(n, s.now(), s.ttl)
	id := n.ID

	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.slots[viewer]; ok {
		prev.timer.Stop()
	}
	s.slots[viewer] = &memorySlot{
		notice: n,
		timer: time.AfterFunc(s.ttl, func() {
			_, _ = s.Dismiss(context.Background(), viewer, id)
		}),
	}
	return n, nil
}

func (s *memoryStore) Current(_ context.Context, viewer string) (domain.Notice, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.slots[viewer]
	if !ok || !s.now().Before(slot.notice.ExpiresAt) {
		return domain.Notice{}, false, nil
	}
	return slot.notice, true, nil
}

func (s *memoryStore) Dismiss(_ context.Context, viewer, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.slots[viewer]
	if !ok || slot.notice.ID != id {
		return false, nil
	}
	slot.timer.Stop()
	delete(s.slots, viewer)
	return true, nil
}

// stamp assigns a fresh token and the display window.
func stamp(n domain.Notice, now time.Time, ttl time.Duration) domain.Notice {
	n.ID = uuid.NewString()
	n.IssuedAt = now.UTC()
	n.ExpiresAt = n.IssuedAt.Add(ttl)
	return n
}
