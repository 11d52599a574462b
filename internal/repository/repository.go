// Package repository is the environment store that loaded entries are
// written into and that variable references are resolved against.
//
// A repository is assembled from adapters with a Builder. Readers are
// consulted in the order they were added; every write goes to all writers.
package repository

import (
	"github.com/xmazu/envload/internal/log"
)

// Repository reads and writes variables through its configured layers.
type Repository struct {
	reader Reader
	writer Writer
}

// Get returns the value of name from the first layer that defines it.
func (r *Repository) Get(name string) (string, bool) {
	return r.reader.Read(name)
}

func (r *Repository) Has(name string) bool {
	_, ok := r.reader.Read(name)
	return ok
}

// Set writes name. It returns false when a policy refused the write.
func (r *Repository) Set(name, value string) bool {
	if !r.writer.Write(name, value) {
		log.Tracef("repository: write of %s refused", name)
		return false
	}
	return true
}

// Clear removes name. It returns false when a policy refused the removal.
func (r *Repository) Clear(name string) bool {
	if !r.writer.Delete(name) {
		log.Tracef("repository: clear of %s refused", name)
		return false
	}
	return true
}

// Builder assembles a Repository.
type Builder struct {
	readers   []Reader
	writers   []Writer
	immutable bool
	allowList []string
}

// NewBuilder returns a builder without any adapters.
func NewBuilder() *Builder {
	return &Builder{}
}

// NewDefaultBuilder returns a builder backed by the process environment.
func NewDefaultBuilder() *Builder {
	return NewBuilder().AddAdapter(NewProcessAdapter())
}

func (b *Builder) AddReader(r Reader) *Builder {
	b.readers = append(b.readers, r)
	return b
}

func (b *Builder) AddWriter(w Writer) *Builder {
	b.writers = append(b.writers, w)
	return b
}

func (b *Builder) AddAdapter(a Adapter) *Builder {
	return b.AddReader(a).AddWriter(a)
}

// Immutable makes the repository leave externally defined variables alone.
func (b *Builder) Immutable() *Builder {
	b.immutable = true
	return b
}

// AllowList restricts writes to the given names.
func (b *Builder) AllowList(names ...string) *Builder {
	b.allowList = append([]string{}, names...)
	return b
}

func (b *Builder) Make() *Repository {
	reader := MultiReader(append([]Reader{}, b.readers...))
	var writer Writer = MultiWriter(append([]Writer{}, b.writers...))

	if b.immutable {
		writer = NewImmutableWriter(writer, reader)
	}
	if b.allowList != nil {
		writer = NewGuardedWriter(writer, b.allowList)
	}
	return &Repository{reader: reader, writer: writer}
}
