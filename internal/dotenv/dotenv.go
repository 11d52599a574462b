// Package dotenv loads dotenv files into an environment repository.
package dotenv

import (
	"errors"
	"fmt"
	"maps"

	"github.com/xmazu/envload/internal/envfile"
	"github.com/xmazu/envload/internal/log"
	"github.com/xmazu/envload/internal/repository"
	"github.com/xmazu/envload/internal/store"
	"github.com/xmazu/envload/internal/validator"
)

// Dotenv ties a store of files to the repository they are loaded into.
type Dotenv struct {
	store store.Store
	repo  *repository.Repository
}

func New(s store.Store, repo *repository.Repository) *Dotenv {
	return &Dotenv{store: s, repo: repo}
}

// NewImmutable loads into the process environment without overwriting
// variables that are already set.
func NewImmutable(paths []string, opts ...store.Option) *Dotenv {
	repo := repository.NewDefaultBuilder().Immutable().Make()
	return New(store.NewFileStore(paths, opts...), repo)
}

// NewMutable loads into the process environment, overwriting existing values.
func NewMutable(paths []string, opts ...store.Option) *Dotenv {
	repo := repository.NewDefaultBuilder().Make()
	return New(store.NewFileStore(paths, opts...), repo)
}

// NewArrayBacked loads into memory only, leaving the process untouched.
func NewArrayBacked(paths []string, opts ...store.Option) *Dotenv {
	repo := repository.NewBuilder().AddAdapter(repository.NewMapAdapter(nil)).Make()
	return New(store.NewFileStore(paths, opts...), repo)
}

func (d *Dotenv) Repository() *repository.Repository { return d.repo }

// Load reads every source, parses it and writes its entries. A malformed
// file stops the load; files before it stay applied.
func (d *Dotenv) Load() (Loaded, error) {
	sources, err := d.store.Read()
	if err != nil {
		return nil, err
	}

	loaded := make(Loaded)
	for _, src := range sources {
		entries, err := envfile.Parse(src.Content)
		if err != nil {
			return loaded, fmt.Errorf("parse %s: %w", src.Path, err)
		}
		got := LoadEntries(d.repo, entries)
		log.WithField("entries", len(entries)).Debugf("loaded %s", src.Path)
		maps.Copy(loaded, got)
	}
	return loaded, nil
}

// SafeLoad is Load, except that finding no files at all is not an error.
func (d *Dotenv) SafeLoad() (Loaded, error) {
	loaded, err := d.Load()
	if errors.Is(err, store.ErrNoFiles) {
		return Loaded{}, nil
	}
	return loaded, err
}

// Required checks that names are defined and returns a validator for
// further assertions on them.
func (d *Dotenv) Required(names ...string) (*validator.Validator, error) {
	v := validator.New(d.repo, names, false)
	return v, v.Required()
}

// IfPresent returns a validator that skips names which are not defined.
func (d *Dotenv) IfPresent(names ...string) *validator.Validator {
	return validator.New(d.repo, names, true)
}

// Parse parses content and resolves it in isolation from the process
// environment.
func Parse(content string) (Loaded, error) {
	repo := repository.NewBuilder().AddAdapter(repository.NewMapAdapter(nil)).Make()
	return New(store.StringStore{Content: content}, repo).Load()
}
