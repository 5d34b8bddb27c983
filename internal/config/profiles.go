package config

import (
	"context"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/arena/internal/model"
)


// profilesFile is the on-disk layout of a profiles file.
type profilesFile struct {
	Profiles []*model.Profile `yaml:"profiles"`
}

// ProfileSet is a file-backed profile store for runs without a database.
// Thread-safe for concurrent access.
type ProfileSet struct {
	mu       sync.RWMutex
	profiles map[string]*model.Profile
}

// NewProfileSet builds a set from already loaded profiles.
func NewProfileSet(profiles ...*model.Profile) (*ProfileSet, error) {
	s := &ProfileSet{profiles: make(map[string]*model.Profile, len(profiles))}
	for _, p := range profiles {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := s.profiles[p.Name]; dup {
			return nil, fmt.Errorf("duplicate profile %q: %w", p.Name, model.ErrInvalidInput)
		}
		s.profiles[p.Name] = p
	}
	return s, nil
}

// LoadProfiles reads a profiles YAML file. A missing file is an error:
// there is no sensible default roster.
func LoadProfiles(path string) (*ProfileSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profiles %s: %w", path, err)
	}
	var f profilesFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing profiles %s: %w", path, err)
	}
	s, err := NewProfileSet(f.Profiles...)
	if err != nil {
		return nil, fmt.Errorf("validating profiles %s: %w", path, err)
	}
	return s, nil
}

// Load returns a copy of the named profile.
func (s *ProfileSet) Load(_ context.Context, name string) (*model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, model.ErrProfileNotFound)
	}
	return cloneProfile(p), nil
}

// Save stores (or replaces) a profile.
func (s *ProfileSet) Save(_ context.Context, p *model.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.Name] = cloneProfile(p)
	return nil
}

// Names returns profile names in lexical order.
func (s *ProfileSet) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.profiles))
	for name := range s.profiles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// WriteFile writes the set back as YAML, profiles sorted by name.
func (s *ProfileSet) WriteFile(path string) error {
	s.mu.RLock()
	f := profilesFile{Profiles: make([]*model.Profile, 0, len(s.profiles))}
	for _, p := range s.profiles {
		f.Profiles = append(f.Profiles, p)
	}
	s.mu.RUnlock()
	slices.SortFunc(f.Profiles, func(a, b *model.Profile) int {
		return strings.Compare(a.Name, b.Name)
	})

	var b strings.Builder
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encoding profiles: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding profiles: %w", err)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing profiles %s: %w", path, err)
	}
	return nil
}

func cloneProfile(p *model.Profile) *model.Profile {
	out := *p
	if p.Loadout != nil {
		out.Loadout = make(model.Loadout, len(p.Loadout))
		for class, set := range p.Loadout {
			out.Loadout[class] = maps.Clone(set)
		}
	}
	return &out
}
