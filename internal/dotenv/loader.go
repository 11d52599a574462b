package dotenv

import (
	"github.com/xmazu/envload/internal/envfile"
	"github.com/xmazu/envload/internal/log"
	"github.com/xmazu/envload/internal/repository"
)

// Loaded maps every name the repository accepted to its final value. A nil
// value means the entry had no '=' and the variable was cleared.
type Loaded map[string]*string

// Strings flattens l, mapping cleared names to "".
func (l Loaded) Strings() map[string]string {
	out := make(map[string]string, len(l))
	for k, v := range l {
		if v != nil {
			out[k] = *v
		} else {
			out[k] = ""
		}
	}
	return out
}

// LoadEntries applies entries to repo in order. Each value is resolved
// against the repository as it stands, so an entry can reference names set
// by earlier entries. Names refused by the repository are left out.
func LoadEntries(repo *repository.Repository, entries []envfile.Entry) Loaded {
	loaded := make(Loaded, len(entries))
	for _, e := range entries {
		if !e.HasValue() {
			if repo.Clear(e.Name) {
				loaded[e.Name] = nil
			}
			continue
		}

		value := envfile.Resolve(*e.Value, repo.Get)
		if repo.Set(e.Name, value) {
			loaded[e.Name] = &value
		} else {
			log.Debugf("loader: %s already defined, keeping existing value", e.Name)
		}
	}
	return loaded
}
