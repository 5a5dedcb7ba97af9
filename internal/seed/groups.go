package seed

import (
	"context"
	_ "embed"
	"fmt"

	"yatube/internal/models"
	"yatube/internal/repository"
	"yatube/internal/validation"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed groups.yml
var builtInGroupsYAML []byte

// GroupSpec is one entry of groups.yml.
type GroupSpec struct {
	Title       string `yaml:"title"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
}

// LoadGroups parses a YAML list of groups and checks every slug.
func LoadGroups(data []byte) ([]GroupSpec, error) {
	var specs []GroupSpec
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("parse groups: %w", err)
	}
	seen := make(map[string]bool, len(specs))
	for _, g := range specs {
		if g.Title == "" {
			return nil, fmt.Errorf("group %q has no title", g.Slug)
		}
		if err := validation.ValidateGroupSlug(g.Slug); err != nil {
			return nil, fmt.Errorf("group %q: %w", g.Title, err)
		}
		if seen[g.Slug] {
			return nil, fmt.Errorf("duplicate group slug %q", g.Slug)
		}
		seen[g.Slug] = true
	}
	return specs, nil
}

// BuiltInGroups returns the groups embedded in the binary.
func BuiltInGroups() []GroupSpec {
	specs, err := LoadGroups(builtInGroupsYAML)
	if err != nil {
		panic(err)
	}
	return specs
}

// Groups upserts specs by slug and returns the stored rows in the same order.
func Groups(db *gorm.DB, specs []GroupSpec) ([]*models.Group, error) {
	out := make([]*models.Group, 0, len(specs))
	err := db.Transaction(func(tx *gorm.DB) error {
		repo := repository.NewGroupRepository(tx)
		for _, spec := range specs {
			group := &models.Group{Title: spec.Title, Slug: spec.Slug, Description: spec.Description}
			if err := repo.Upsert(context.Background(), group); err != nil {
				return fmt.Errorf("upsert group %s: %w", spec.Slug, err)
			}
			out = append(out, group)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
