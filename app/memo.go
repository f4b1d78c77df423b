package app

import (
	"context"
	"sync"

	"chartsense/domain/core"

	"golang.org/x/sync/singleflight"
)

// DefaultMemoEntries bounds a Memo created with a non-positive size
const DefaultMemoEntries = 64

// Memo caches analysis results by exact input match. Concurrent identical
// requests share one computation. Eviction is first-in first-out.
type Memo struct {
	service *AnalysisService
	max     int

	mu      sync.Mutex
	entries map[core.AnalysisHash]*AnalysisResult
	order   []core.AnalysisHash
	hits    int
	misses  int

	group singleflight.Group
}

// MemoStats reports cache effectiveness
type MemoStats struct {
	Entries int `json:"entries"`
	Hits    int `json:"hits"`
	Misses  int `json:"misses"`
}

// NewMemo wraps service with a cache of at most maxEntries results
func NewMemo(service *AnalysisService, maxEntries int) *Memo {
	if maxEntries <= 0 {
		maxEntries = DefaultMemoEntries
	}
	return &Memo{
		service: service,
		max:     maxEntries,
		entries: make(map[core.AnalysisHash]*AnalysisResult),
	}
}

// Analyze returns the cached result for an identical request or computes
// it. Cached results are shared and must be treated as read-only.
func (m *Memo) Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error) {
	key := req.Hash()

	if result, ok := m.lookup(key); ok {
		return result, nil
	}

	v, err, _ := m.group.Do(key.String(), func() (interface{}, error) {
		if result, ok := m.peek(key); ok {
			return result, nil
		}
		result, err := m.service.Analyze(ctx, req)
		if err != nil {
			return nil, err
		}
		m.store(key, result)
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*AnalysisResult), nil
}

// Stats returns a snapshot of the cache counters
func (m *Memo) Stats() MemoStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return MemoStats{Entries: len(m.entries), Hits: m.hits, Misses: m.misses}
}

func (m *Memo) lookup(key core.AnalysisHash) (*AnalysisResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result, ok := m.entries[key]
	if ok {
		m.hits++
	} else {
		m.misses++
	}
	return result, ok
}

func (m *Memo) peek(key core.AnalysisHash) (*AnalysisResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result, ok := m.entries[key]
	return result, ok
}

func (m *Memo) store(key core.AnalysisHash, result *AnalysisResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[key]; ok {
		return
	}
	for len(m.order) >= m.max {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.entries, oldest)
	}
	m.entries[key] = result
	m.order = append(m.order, key)
}
