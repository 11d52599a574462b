package repository

import (
	"maps"
	"os"
	"sync"
)

// Reader looks up a variable in one backing store.
type Reader interface {
	Read(name string) (string, bool)
}

// Writer persists or removes a variable. Both methods report whether the
// store accepted the change.
type Writer interface {
	Write(name, value string) bool
	Delete(name string) bool
}

// Adapter is a store that can be both read and written.
type Adapter interface {
	Reader
	Writer
}

// ProcessAdapter reads and writes the process environment.
type ProcessAdapter struct{}

func NewProcessAdapter() ProcessAdapter { return ProcessAdapter{} }

func (ProcessAdapter) Read(name string) (string, bool) {
	return os.LookupEnv(name)
}

func (ProcessAdapter) Write(name, value string) bool {
	return os.Setenv(name, value) == nil
}

func (ProcessAdapter) Delete(name string) bool {
	return os.Unsetenv(name) == nil
}

// MapAdapter keeps variables in memory. It is safe for concurrent use.
type MapAdapter struct {
	mu   sync.RWMutex
	vars map[string]string
}

// NewMapAdapter returns an adapter seeded with a copy of initial.
func NewMapAdapter(initial map[string]string) *MapAdapter {
	vars := make(map[string]string, len(initial))
	maps.Copy(vars, initial)
	return &MapAdapter{vars: vars}
}

func (m *MapAdapter) Read(name string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vars[name]
	return v, ok
}

func (m *MapAdapter) Write(name, value string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vars[name] = value
	return true
}

func (m *MapAdapter) Delete(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.vars, name)
	return true
}

// Snapshot returns a copy of the stored variables.
func (m *MapAdapter) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.vars)
}
