// Package seed loads declarative routing files (operators, sources and the
// weights linking them) and applies them idempotently.
package seed

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spec-kit/lead-distribution/internal/domain"
	"github.com/spec-kit/lead-distribution/internal/service"
	apperrors "github.com/spec-kit/lead-distribution/pkg/util/errorutil"
)

// File is the top-level document of a routing seed file.
type File struct {
	Operators   []Operator   `yaml:"operators"`
	Sources     []Source     `yaml:"sources"`
	Assignments []Assignment `yaml:"assignments"`
}

// Operator is matched by name.
type Operator struct {
	Name     string `yaml:"name"`
	Active   *bool  `yaml:"active"`
	Capacity *int   `yaml:"max_active_contacts"`
}

// Source is matched by code.
type Source struct {
	Code        string  `yaml:"code"`
	Name        string  `yaml:"name"`
	Description *string `yaml:"description"`
	Active      *bool   `yaml:"active"`
}

// Assignment references an operator by name and a source by code.
type Assignment struct {
	Operator string `yaml:"operator"`
	Source   string `yaml:"source"`
	Weight   *int   `yaml:"weight"`
}

// Result counts what Apply changed.
type Result struct {
	OperatorsCreated int
	OperatorsUpdated int
	SourcesCreated   int
	SourcesUpdated   int
	Assignments      int
}

// Load reads and parses a seed file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a seed document and checks its references.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("invalid seed file: %w", err)
	}
	return &f, nil
}

func (f *File) validate() error {
	operators := map[string]bool{}
	for i, op := range f.Operators {
		name := strings.TrimSpace(op.Name)
		if name == "" {
			return fmt.Errorf("operators[%d]: name is required", i)
		}
		if operators[name] {
			return fmt.Errorf("operators[%d]: duplicate name %q", i, name)
		}
		operators[name] = true
	}
	sources := map[string]bool{}
	for i, src := range f.Sources {
		code := strings.TrimSpace(src.Code)
		if code == "" {
			return fmt.Errorf("sources[%d]: code is required", i)
		}
		if sources[code] {
			return fmt.Errorf("sources[%d]: duplicate code %q", i, code)
		}
		sources[code] = true
	}
	for i, a := range f.Assignments {
		if !operators[strings.TrimSpace(a.Operator)] {
			return fmt.Errorf("assignments[%d]: unknown operator %q", i, a.Operator)
		}
		if !sources[strings.TrimSpace(a.Source)] {
			return fmt.Errorf("assignments[%d]: unknown source %q", i, a.Source)
		}
	}
	return nil
}

// Apply creates or updates every entry of f through the application services.
// Running it twice leaves the store unchanged.
func Apply(ctx context.Context, services *service.Services, f *File, logger *zap.Logger) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var res Result
	operatorIDs := make(map[string]string, len(f.Operators))
	for _, entry := range f.Operators {
		op, created, err := applyOperator(ctx, services.Operators, entry)
		if err != nil {
			return res, fmt.Errorf("operator %q: %w", entry.Name, err)
		}
		if created {
			res.OperatorsCreated++
		} else {
			res.OperatorsUpdated++
		}
		operatorIDs[op.Name] = op.ID
	}

	sourceIDs := make(map[string]string, len(f.Sources))
	for _, entry := range f.Sources {
		src, created, err := applySource(ctx, services.Sources, entry)
		if err != nil {
			return res, fmt.Errorf("source %q: %w", entry.Code, err)
		}
		if created {
			res.SourcesCreated++
		} else {
			res.SourcesUpdated++
		}
		sourceIDs[src.Code] = src.ID
	}

	for _, entry := range f.Assignments {
		_, err := services.Assignments.Assign(ctx, service.AssignmentInput{
			OperatorID: operatorIDs[strings.TrimSpace(entry.Operator)],
			SourceID:   sourceIDs[strings.TrimSpace(entry.Source)],
			Weight:     entry.Weight,
		})
		if err != nil {
			return res, fmt.Errorf("assignment %s/%s: %w", entry.Operator, entry.Source, err)
		}
		res.Assignments++
	}

	logger.Info("seed applied",
		zap.Int("operators_created", res.OperatorsCreated),
		zap.Int("sources_created", res.SourcesCreated),
		zap.Int("assignments", res.Assignments),
	)
	return res, nil
}

func applyOperator(ctx context.Context, operators *service.OperatorService, entry Operator) (*domain.Operator, bool, error) {
	existing, err := operators.GetByName(ctx, entry.Name)
	switch {
	case err == nil:
		op, err := operators.Update(ctx, existing.ID, service.OperatorUpdateInput{
			Active:   entry.Active,
			Capacity: entry.Capacity,
		})
		return op, false, err
	case apperrors.HasCode(err, apperrors.CodeNotFound):
		op, err := operators.Create(ctx, service.OperatorCreateInput{
			Name:     entry.Name,
			Active:   entry.Active,
			Capacity: entry.Capacity,
		})
		return op, true, err
	default:
		return nil, false, err
	}
}

func applySource(ctx context.Context, sources *service.SourceService, entry Source) (*domain.Source, bool, error) {
	name := entry.Name
	if strings.TrimSpace(name) == "" {
		name = entry.Code
	}
	existing, err := sources.GetByCode(ctx, strings.TrimSpace(entry.Code))
	switch {
	case err == nil:
		src, err := sources.Update(ctx, existing.ID, service.SourceUpdateInput{
			Name:        &name,
			Description: entry.Description,
			Active:      entry.Active,
		})
		return src, false, err
	case apperrors.HasCode(err, apperrors.CodeNotFound):
		src, err := sources.Create(ctx, service.SourceCreateInput{
			Name:        name,
			Code:        entry.Code,
			Description: entry.Description,
			Active:      entry.Active,
		})
		return src, true, err
	default:
		return nil, false, err
	}
}
