package rules

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sync"
)

// Registry is the live rule set an engine run classifies files against: a
// map of extension token to FileType, plus a lazily populated cache of
// compiled Munchers keyed by name. A Registry is built fresh for every
// engine run so NewlyLoaded always reflects munchers touched this run.
type Registry struct {
	mu sync.Mutex

	fileTypes map[string]FileType
	munchers  map[string]Muncher
	newNames  map[string]bool

	ignorePaths []*regexp.Regexp
}

// NewRegistry loads every embedded file-type definition eagerly (there are
// few of these and an engine needs the full extension map up front to
// route files), validating each against the file-type schema. Munchers
// are loaded lazily on first use by GetMuncher.
func NewRegistry() (*Registry, error) {
	entries, err := fileTypesFS.ReadDir("data/file_types")
	if err != nil {
		return nil, fmt.Errorf("reading file type definitions: %w", err)
	}

	reg := &Registry{
		fileTypes:   make(map[string]FileType, len(entries)),
		munchers:    make(map[string]Muncher),
		newNames:    make(map[string]bool),
		ignorePaths: IgnorePaths(),
	}

	for _, entry := range entries {
		raw, err := fileTypesFS.ReadFile("data/file_types/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name(), err)
		}

		if err := validateFileType(raw); err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}

		var def FileTypeDef

		if err := json.Unmarshal(raw, &def); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", entry.Name(), err)
		}

		ft, err := CompileFileType(def)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}

		reg.fileTypes[def.FileExt] = ft
	}

	return reg, nil
}

// ShouldIgnore reports whether path matches one of the registry's ignore
// path patterns.
func (reg *Registry) ShouldIgnore(path string) bool {
	return ShouldIgnore(reg.ignorePaths, path)
}

// GetMuncher resolves and returns the Muncher that applies to filePath, or
// ok=false if no file type is registered for its extension token or no
// match in that file type applies to the path. The muncher itself is
// loaded and compiled at most once per registry instance; repeat lookups
// for the same name return the cached value.
func (reg *Registry) GetMuncher(filePath string) (m Muncher, ok bool, err error) {
	token, ok := ExtensionToken(filePath)
	if !ok {
		return Muncher{}, false, nil
	}

	ft, ok := reg.fileTypes[token]
	if !ok {
		return Muncher{}, false, nil
	}

	name, ok := ft.MuncherName(filePath)
	if !ok {
		return Muncher{}, false, nil
	}

	m, err = reg.loadMuncher(name)
	if err != nil {
		return Muncher{}, false, err
	}

	return m, true, nil
}

// loadMuncher returns the compiled Muncher for name, loading and compiling
// it from its embedded JSON definition on first request.
func (reg *Registry) loadMuncher(name string) (Muncher, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if m, ok := reg.munchers[name]; ok {
		return m, nil
	}

	raw, err := munchersFS.ReadFile("data/munchers/" + name + ".json")
	if err != nil {
		return Muncher{}, fmt.Errorf("reading muncher %s: %w", name, err)
	}

	if err := validateMuncher(raw); err != nil {
		return Muncher{}, fmt.Errorf("muncher %s: %w", name, err)
	}

	var def MuncherDef

	if err := json.Unmarshal(raw, &def); err != nil {
		return Muncher{}, fmt.Errorf("decoding muncher %s: %w", name, err)
	}

	m, err := Compile(name, def)
	if err != nil {
		return Muncher{}, err
	}

	reg.munchers[name] = m
	reg.newNames[name] = true

	return m, nil
}

// NewlyLoaded returns the names of every muncher this registry has loaded
// so far during this run.
func (reg *Registry) NewlyLoaded() []string {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	names := make([]string, 0, len(reg.newNames))
	for name := range reg.newNames {
		names = append(names, name)
	}

	return names
}
