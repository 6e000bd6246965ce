// Package categories manages the workspace's list of transaction
// categories.
package categories

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/safespend-dev/safespend/internal/model"
)

// FileName is the category list inside the workspace.
const FileName = "categories.csv"

// ErrExists and ErrBuiltin are returned by Add and Remove.
var (
	ErrExists  = errors.New("category already exists")
	ErrBuiltin = errors.New("built-in categories cannot be removed")
)

// Service provides in-memory lookup over the category list.
type Service struct {
	cats []model.Category
}

// NewService creates a Service from a slice of categories.
func NewService(cats []model.Category) *Service {
	return &Service{cats: append([]model.Category(nil), cats...)}
}

// Load reads categories.csv from a workspace root.
func Load(repoRoot string) (*Service, error) {
	f, err := os.Open(filepath.Join(repoRoot, FileName))
	if err != nil {
		return nil, fmt.Errorf("opening categories: %w", err)
	}
	defer f.Close()

	cats, err := ReadCategories(f)
	if err != nil {
		return nil, fmt.Errorf("reading categories: %w", err)
	}
	return NewService(cats), nil
}

// All returns all categories in list order.
func (s *Service) All() []model.Category {
	return s.cats
}

// Names returns the category names in list order.
func (s *Service) Names() []string {
	names := make([]string, len(s.cats))
	for i, c := range s.cats {
		names[i] = c.Name
	}
	return names
}

// Get returns a category by name, ignoring case.
func (s *Service) Get(name string) (model.Category, bool) {
	for _, c := range s.cats {
		if equalName(c.Name, name) {
			return c, true
		}
	}
	return model.Category{}, false
}

// Exists reports whether a category with this name exists, ignoring case.
func (s *Service) Exists(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// ByType returns the categories usable for the given entry type, including
// those that fit both.
func (s *Service) ByType(t model.EntryType) []model.Category {
	var out []model.Category
	for _, c := range s.cats {
		if c.Type == t || c.Type == "" {
			out = append(out, c)
		}
	}
	return out
}

// Add appends a category.
func (s *Service) Add(c model.Category) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return fmt.Errorf("adding category: empty name")
	}
	if c.Type != "" && !c.Type.Valid() {
		return fmt.Errorf("adding category %q: unknown type %q", c.Name, c.Type)
	}
	if s.Exists(c.Name) {
		return fmt.Errorf("adding category %q: %w", c.Name, ErrExists)
	}
	s.cats = append(s.cats, c)
	return nil
}

// Remove deletes a user-added category.
func (s *Service) Remove(name string) error {
	if isDefault(name) {
		return fmt.Errorf("removing category %q: %w", name, ErrBuiltin)
	}
	for i, c := range s.cats {
		if equalName(c.Name, name) {
			s.cats = append(s.cats[:i], s.cats[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("removing category %q: not found", name)
}

// Save writes the list to categories.csv in the workspace root.
func (s *Service) Save(repoRoot string) error {
	path := filepath.Join(repoRoot, FileName)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating categories file: %w", err)
	}
	defer f.Close()

	if err := WriteCategories(f, s.cats); err != nil {
		return fmt.Errorf("writing categories: %w", err)
	}
	return nil
}

func equalName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
