package repository

import (
	"sync"
)

// MultiReader consults readers in order; the first that defines a name wins.
type MultiReader []Reader

func (r MultiReader) Read(name string) (string, bool) {
	for _, reader := range r {
		if v, ok := reader.Read(name); ok {
			return v, true
		}
	}
	return "", false
}

// MultiWriter applies every change to all writers. It reports success only
// if every writer accepted it.
type MultiWriter []Writer

func (w MultiWriter) Write(name, value string) bool {
	ok := true
	for _, writer := range w {
		if !writer.Write(name, value) {
			ok = false
		}
	}
	return ok
}

func (w MultiWriter) Delete(name string) bool {
	ok := true
	for _, writer := range w {
		if !writer.Delete(name) {
			ok = false
		}
	}
	return ok
}

// ImmutableWriter refuses to change variables that were defined before it
// touched them. Names it wrote itself may be rewritten.
type ImmutableWriter struct {
	writer Writer
	reader Reader

	mu     sync.Mutex
	loaded map[string]bool
}

func NewImmutableWriter(writer Writer, reader Reader) *ImmutableWriter {
	return &ImmutableWriter{writer: writer, reader: reader, loaded: make(map[string]bool)}
}

func (w *ImmutableWriter) Write(name, value string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.externallyDefined(name) {
		return false
	}
	if !w.writer.Write(name, value) {
		return false
	}
	w.loaded[name] = true
	return true
}

func (w *ImmutableWriter) Delete(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.externallyDefined(name) {
		return false
	}
	if !w.writer.Delete(name) {
		return false
	}
	delete(w.loaded, name)
	return true
}

func (w *ImmutableWriter) externallyDefined(name string) bool {
	_, defined := w.reader.Read(name)
	return defined && !w.loaded[name]
}

// GuardedWriter only lets through names from an allow-list.
type GuardedWriter struct {
	writer  Writer
	allowed map[string]bool
}

func NewGuardedWriter(writer Writer, names []string) *GuardedWriter {
	allowed := make(map[string]bool, len(names))
	for _, n := range names {
		allowed[n] = true
	}
	return &GuardedWriter{writer: writer, allowed: allowed}
}

func (w *GuardedWriter) Write(name, value string) bool {
	return w.allowed[name] && w.writer.Write(name, value)
}

func (w *GuardedWriter) Delete(name string) bool {
	return w.allowed[name] && w.writer.Delete(name)
}
