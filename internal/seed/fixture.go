// Package seed loads the journey framework fixture: phases, domains, the
// tool catalog, canonical steps and their tool recommendations.
package seed

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"startup_journey/internal/models"
)

//go:embed journey.yaml
var defaultFixture []byte

type Fixture struct {
	Phases  []Phase  `yaml:"phases"`
	Domains []Domain `yaml:"domains"`
	Tools   []Tool   `yaml:"tools"`
	Steps   []Step   `yaml:"steps"`
}

type Phase struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Order       int    `yaml:"order"`
	Color       string `yaml:"color"`
	Icon        string `yaml:"icon"`
}

type Domain struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Color       string `yaml:"color"`
}

type Tool struct {
	Name             string   `yaml:"name"`
	Description      string   `yaml:"description"`
	Category         string   `yaml:"category"`
	URL              string   `yaml:"url"`
	PricingModel     string   `yaml:"pricing_model"`
	MonthlyCostCents int      `yaml:"monthly_cost_cents"`
	Rating           float64  `yaml:"rating"`
	Tags             []string `yaml:"tags"`
}

type Step struct {
	Name            string           `yaml:"name"`
	Phase           string           `yaml:"phase"`
	Domain          string           `yaml:"domain"`
	Order           int              `yaml:"order"`
	Description     string           `yaml:"description"`
	Objective       string           `yaml:"objective"`
	EstimatedDays   int              `yaml:"estimated_days"`
	Difficulty      string           `yaml:"difficulty"`
	Deliverables    []string         `yaml:"deliverables"`
	SuccessCriteria []string         `yaml:"success_criteria"`
	Tools           []Recommendation `yaml:"tools"`
}

type Recommendation struct {
	Name      string  `yaml:"name"`
	Relevance float64 `yaml:"relevance"`
	Primary   bool    `yaml:"primary"`
	Rationale string  `yaml:"rationale"`
}

// Default returns the fixture compiled into the binary.
func Default() (*Fixture, error) {
	return Parse(defaultFixture)
}

func LoadFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a fixture.
func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate reports every dangling reference and bad value at once.
func (f *Fixture) Validate() error {
	var errs []error

	phases := map[string]bool{}
	orders := map[int]string{}
	for _, p := range f.Phases {
		if p.Name == "" {
			errs = append(errs, errors.New("phase with empty name"))
			continue
		}
		if phases[p.Name] {
			errs = append(errs, fmt.Errorf("duplicate phase %q", p.Name))
		}
		if other, ok := orders[p.Order]; ok {
			errs = append(errs, fmt.Errorf("phases %q and %q share order %d", other, p.Name, p.Order))
		}
		phases[p.Name] = true
		orders[p.Order] = p.Name
	}

	domains := map[string]bool{}
	for _, d := range f.Domains {
		if d.Name == "" {
			errs = append(errs, errors.New("domain with empty name"))
			continue
		}
		domains[d.Name] = true
	}

	tools := map[string]bool{}
	for _, t := range f.Tools {
		if t.Name == "" {
			errs = append(errs, errors.New("tool with empty name"))
			continue
		}
		if tools[t.Name] {
			errs = append(errs, fmt.Errorf("duplicate tool %q", t.Name))
		}
		if t.PricingModel != "" && !models.ValidPricingModel(t.PricingModel) {
			errs = append(errs, fmt.Errorf("tool %q: unknown pricing model %q", t.Name, t.PricingModel))
		}
		if t.Rating < 0 || t.Rating > 5 {
			errs = append(errs, fmt.Errorf("tool %q: rating %.1f out of range", t.Name, t.Rating))
		}
		tools[t.Name] = true
	}

	for _, s := range f.Steps {
		if !phases[s.Phase] {
			errs = append(errs, fmt.Errorf("step %q: unknown phase %q", s.Name, s.Phase))
		}
		if !domains[s.Domain] {
			errs = append(errs, fmt.Errorf("step %q: unknown domain %q", s.Name, s.Domain))
		}
		if s.Difficulty != "" && !models.ValidDifficulty(s.Difficulty) {
			errs = append(errs, fmt.Errorf("step %q: unknown difficulty %q", s.Name, s.Difficulty))
		}
		for _, r := range s.Tools {
			if !tools[r.Name] {
				errs = append(errs, fmt.Errorf("step %q: unknown tool %q", s.Name, r.Name))
			}
			if r.Relevance < 0 || r.Relevance > 1 {
				errs = append(errs, fmt.Errorf("step %q: relevance of %q out of range", s.Name, r.Name))
			}
		}
	}

	return errors.Join(errs...)
}
