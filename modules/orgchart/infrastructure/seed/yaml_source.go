package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Devgupta0/Employee-Org-App/modules/orgchart/domain/ports"
	"github.com/Devgupta0/Employee-Org-App/modules/orgchart/domain/types"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnsupportedVersion = errors.New("orgchart seed: unsupported version")
	ErrMissingRoot        = errors.New("orgchart seed: missing root")
	ErrEmptyName          = errors.New("orgchart seed: empty name")
	errSeedNotFound       = errors.New("orgchart seed: config not found")
)

type seedFile struct {
	Version int             `yaml:"version"`
	Root    *types.Employee `yaml:"root"`
}

// ParseYAML decodes a versioned seed document.
func ParseYAML(b []byte) (types.Employee, error) {
	var f seedFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return types.Employee{}, err
	}
	if f.Version != 1 {
		return types.Employee{}, ErrUnsupportedVersion
	}
	if f.Root == nil {
		return types.Employee{}, ErrMissingRoot
	}
	if err := validateNames(*f.Root); err != nil {
		return types.Employee{}, err
	}
	return *f.Root, nil
}

func validateNames(e types.Employee) error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("%w: id=%d", ErrEmptyName, e.ID)
	}
	for _, s := range e.Subordinates {
		if err := validateNames(s); err != nil {
			return err
		}
	}
	return nil
}

// FileSource reads the seed from a YAML file on every LoadRoot.
type FileSource struct {
	Path string
}

var _ ports.SeedSource = FileSource{}

func (s FileSource) LoadRoot(ctx context.Context) (types.Employee, error) {
	if err := ctx.Err(); err != nil {
		return types.Employee{}, err
	}
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return types.Employee{}, err
	}
	return ParseYAML(b)
}

// SourceFromEnv returns a FileSource for ORGCHART_PATH, falling back to
// config/orgchart.yaml found in the working directory or one of its parents.
func SourceFromEnv() (FileSource, error) {
	if path := strings.TrimSpace(os.Getenv("ORGCHART_PATH")); path != "" {
		return FileSource{Path: path}, nil
	}
	path, err := defaultSeedPath()
	if err != nil {
		return FileSource{}, err
	}
	return FileSource{Path: path}, nil
}

func defaultSeedPath() (string, error) {
	path := "config/orgchart.yaml"
	for range 8 {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		path = filepath.Join("..", path)
	}
	return "", errSeedNotFound
}

// StaticSource serves a fixed chart.
type StaticSource struct {
	Root types.Employee
}

var _ ports.SeedSource = StaticSource{}

func (s StaticSource) LoadRoot(ctx context.Context) (types.Employee, error) {
	if err := ctx.Err(); err != nil {
		return types.Employee{}, err
	}
	return s.Root, nil
}

// Sample is the chart the app ships with.
func Sample() types.Employee {
	return types.Employee{ID: 1, Name: "John Smith", Subordinates: []types.Employee{
		{ID: 2, Name: "Margot Donald", Subordinates: []types.Employee{
			{ID: 6, Name: "Tina Teff"},
		}},
		{ID: 3, Name: "Tyler Simpson", Subordinates: []types.Employee{
			{ID: 7, Name: "Ben Willis"},
		}},
	}}
}
