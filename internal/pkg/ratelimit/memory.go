package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count   int
	resetAt time.Time
}

// Memory is a process-local Limiter. Use Redis when running more than one replica.
type Memory struct {
	opts Options
	now  func() time.Time

	mu      sync.Mutex
	windows map[string]*window
}

func NewMemory(opts Options) *Memory {
	return &Memory{
		opts:    opts,
		now:     time.Now,
		windows: make(map[string]*window),
	}
}

func (m *Memory) Allow(_ context.Context, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	w, ok := m.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(m.opts.Window)}
		m.windows[key] = w
	}
	w.count++

	if len(m.windows) > 1024 {
		m.sweep(now)
	}
	return w.count <= m.opts.Limit
}

func (m *Memory) Reset(_ context.Context, key string) {
	m.mu.Lock()
	delete(m.windows, key)
	m.mu.Unlock()
}

func (m *Memory) sweep(now time.Time) {
	for k, w := range m.windows {
		if !now.Before(w.resetAt) {
			delete(m.windows, k)
		}
	}
}
