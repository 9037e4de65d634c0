// Package people holds the fixed registry of people prayers can be written
// about, with the scripture chosen for each of them.
package people

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jeefy/prayerjournal/internal/models"
)

//go:embed people.yaml
var defaultYAML []byte

// Registry is an immutable, ordered set of people.
type Registry struct {
	people []models.Person
	byName map[string]struct{}
}

// Default returns the registry compiled into the binary.
func Default() (*Registry, error) {
	return Parse(defaultYAML)
}

// Load reads a registry from a YAML file. An empty path selects Default.
func Load(path string) (*Registry, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read people file: %w", err)
	}
	reg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

// Parse decodes a YAML list of people. Names must be non-empty and unique.
func Parse(data []byte) (*Registry, error) {
	var list []models.Person
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse people: %w", err)
	}
	if len(list) == 0 {
		return nil, errors.New("people list is empty")
	}
	byName := make(map[string]struct{}, len(list))
	for i, p := range list {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("person %d: name is required", i)
		}
		if _, dup := byName[p.Name]; dup {
			return nil, fmt.Errorf("person %q listed twice", p.Name)
		}
		byName[p.Name] = struct{}{}
	}
	return &Registry{people: list, byName: byName}, nil
}

// List returns a copy of the people in file order.
func (r *Registry) List() []models.Person {
	out := make([]models.Person, len(r.people))
	copy(out, r.people)
	return out
}

// Has reports whether name is registered. Matching is exact.
func (r *Registry) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Len returns the number of people.
func (r *Registry) Len() int { return len(r.people) }
