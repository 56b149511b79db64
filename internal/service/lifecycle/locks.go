package lifecycle

import (
	"sync"

	"github.com/google/uuid"
)

// projectLocks hands out one mutex per project so concurrent award attempts
// against the same project serialize while different projects stay fully
// independent.
type projectLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newProjectLocks() *projectLocks {
	return &projectLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (l *projectLocks) forProject(id uuid.UUID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}
