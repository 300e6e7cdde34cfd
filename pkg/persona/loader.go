package persona

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"gopkg.in/yaml.v3"
)

// Loader reads persona bundles from a directory tree of the form
//
//	{dir}/{persona}/persona.yaml
//	{dir}/{persona}/stages.yaml
//	{dir}/{persona}/mode.{name}.yaml
//
// Loaded bundles are memoized; persona files are static configuration, so
// entries never expire.
type Loader struct {
	dir   string
	cache *cache.Cache
}

func NewLoader(dir string) *Loader {
	return &Loader{
		dir:   dir,
		cache: cache.New(cache.NoExpiration, 10*time.Minute),
	}
}

// Load returns the bundle for the named persona. Names are case-insensitive.
func (l *Loader) Load(name string) (*Bundle, error) {
	key := strings.ToLower(name)
	if x, found := l.cache.Get(key); found {
		return x.(*Bundle), nil
	}

	base := filepath.Join(l.dir, key)
	bundle := &Bundle{Modes: make(map[string]Mode)}

	if err := loadYaml(filepath.Join(base, "persona.yaml"), &bundle.Persona); err != nil {
		return nil, fmt.Errorf("load persona %q: %w", key, err)
	}
	if err := loadYaml(filepath.Join(base, "stages.yaml"), &bundle.Stages); err != nil {
		return nil, fmt.Errorf("load stages for %q: %w", key, err)
	}

	modeFiles, err := filepath.Glob(filepath.Join(base, "mode.*.yaml"))
	if err != nil {
		return nil, err
	}
	for _, path := range modeFiles {
		modeName := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(path), "mode."), ".yaml")
		var mode Mode
		if err := loadYaml(path, &mode); err != nil {
			return nil, fmt.Errorf("load mode %q for %q: %w", modeName, key, err)
		}
		bundle.Modes[modeName] = mode
	}

	l.cache.Set(key, bundle, cache.NoExpiration)
	return bundle, nil
}

func loadYaml(path string, out interface{}) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(raw, out)
}
