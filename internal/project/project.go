// Package project resolves where env files live for a working directory and
// loads them with the settings from config files and flags.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/xmazu/envload/internal/config"
	"github.com/xmazu/envload/internal/dotenv"
	"github.com/xmazu/envload/internal/log"
	"github.com/xmazu/envload/internal/repository"
	"github.com/xmazu/envload/internal/store"
	"github.com/xmazu/envload/internal/validator"
	"github.com/xmazu/envload/internal/workspace"
)

// Options are the command-line overrides. Zero values defer to config.
type Options struct {
	Dir          string
	Paths        []string
	Names        []string
	ShortCircuit *bool
	Encoding     string
	Overload     *bool
}

// Project is a resolved set of env files.
type Project struct {
	Root         string
	Config       *config.Config
	Paths        []string
	Names        []string
	ShortCircuit bool
	Encoding     string
	Overload     bool
}

// Open resolves opts against the workspace containing opts.Dir.
func Open(opts Options) (*Project, error) {
	dir := opts.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		dir = wd
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve directory: %w", err)
	}

	root, err := workspace.FindRoot(dir)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(root)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	p := &Project{
		Root:         root,
		Config:       cfg,
		Names:        firstNonEmpty(opts.Names, cfg.Names, []string{store.DefaultName}),
		ShortCircuit: cfg.IsShortCircuit(),
		Encoding:     cfg.Encoding,
		Overload:     cfg.IsOverload(),
	}
	if opts.ShortCircuit != nil {
		p.ShortCircuit = *opts.ShortCircuit
	}
	if opts.Encoding != "" {
		p.Encoding = opts.Encoding
	}
	if opts.Overload != nil {
		p.Overload = *opts.Overload
	}

	switch {
	case len(opts.Paths) > 0:
		p.Paths = absAll(dir, opts.Paths)
	case len(cfg.Paths) > 0:
		p.Paths = absAll(root, cfg.Paths)
	default:
		found, err := workspace.FindEnvDir(dir, p.Names[0], workspace.MaxEnvSearchDepth)
		if err != nil {
			log.Debugf("project: %v", err)
			found = dir
		}
		p.Paths = []string{found}
	}
	log.WithField("root", root).Debugf("project: paths %v names %v", p.Paths, p.Names)
	return p, nil
}

func (p *Project) Store() *store.FileStore {
	return store.NewFileStore(p.Paths,
		store.WithNames(p.Names...),
		store.WithShortCircuit(p.ShortCircuit),
		store.WithEncoding(p.Encoding),
	)
}

// Candidates lists the files that would be read, existing or not.
func (p *Project) Candidates() []string {
	return store.FilePaths(p.Paths, p.Names)
}

// Files lists the candidate files that exist, in load order.
func (p *Project) Files() []string {
	var files []string
	for _, path := range p.Candidates() {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			files = append(files, path)
			if p.ShortCircuit {
				break
			}
		}
	}
	return files
}

// Result is the environment produced by Load.
type Result struct {
	Repo   *repository.Repository
	Env    *repository.MapAdapter
	Loaded dotenv.Loaded
}

// Load applies the files on top of base without touching the process
// environment. Variables in base are kept unless the project overloads.
// On error the result holds whatever was loaded before the failure.
func (p *Project) Load(base map[string]string) (*Result, error) {
	env := repository.NewMapAdapter(base)
	b := repository.NewBuilder().AddAdapter(env)
	if !p.Overload {
		b = b.Immutable()
	}
	repo := b.Make()

	loaded, err := dotenv.New(p.Store(), repo).Load()
	return &Result{Repo: repo, Env: env, Loaded: loaded}, err
}

// Check runs the configured rules against repo and merges every failure
// into one error.
func Check(repo validator.Getter, rules config.Rules) error {
	errs := []error{
		validator.New(repo, rules.Required, false).Required(),
		validator.New(repo, rules.NotEmpty, false).NotEmpty(),
		validator.New(repo, rules.Integer, true).IsInteger(),
		validator.New(repo, rules.Boolean, true).IsBoolean(),
	}
	for _, name := range sortedKeys(rules.Allowed) {
		errs = append(errs, validator.New(repo, []string{name}, true).AllowedValues(rules.Allowed[name]...))
	}
	for _, name := range sortedKeys(rules.Regex) {
		re, err := regexp.Compile(rules.Regex[name])
		if err != nil {
			return fmt.Errorf("rule for %s: %w", name, err)
		}
		errs = append(errs, validator.New(repo, []string{name}, true).AllowedRegexValues(re))
	}
	return validator.Merge(errs...)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func absAll(base string, paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(base, p)
		}
		out[i] = filepath.Clean(p)
	}
	return out
}

func firstNonEmpty(lists ...[]string) []string {
	for _, l := range lists {
		if len(l) > 0 {
			return l
		}
	}
	return nil
}
