// Package loader reads *.model.yaml files into a model graph.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// ModelDirEnvVar names the environment variable for a custom model directory.
const ModelDirEnvVar = "MB_MODEL_DIR"

// ModelFileSuffix is the suffix of model files.
const ModelFileSuffix = ".model.yaml"

// CurrentVersion is the newest file format version this package reads.
const CurrentVersion = 1

// maxParallel bounds the number of files parsed at once.
const maxParallel = 16

var (
	ErrNoModelFiles       = errors.New("no model files found")
	ErrUnsupportedVersion = errors.New("unsupported model file version")
)

// ElementSpec is one element as written in a model file. References to
// other elements (owner, source, target) use their IDs and may point into
// other files loaded together.
type ElementSpec struct {
	ID          string            `yaml:"id"`
	Kind        string            `yaml:"kind"`
	Name        string            `yaml:"name,omitempty"`
	Owner       string            `yaml:"owner,omitempty"`
	Abstract    bool              `yaml:"abstract,omitempty"`
	DiagramType string            `yaml:"diagram_type,omitempty"`
	Source      string            `yaml:"source,omitempty"`
	Target      string            `yaml:"target,omitempty"`
	Stereotypes []string          `yaml:"stereotypes,omitempty"`
	Attrs       map[string]string `yaml:"attrs,omitempty"`
	Width       int               `yaml:"width,omitempty"`
	Height      int               `yaml:"height,omitempty"`
}

// File is a parsed model file.
type File struct {
	Path     string        `yaml:"-"`
	Version  int           `yaml:"version"`
	Elements []ElementSpec `yaml:"elements"`
}

// GetModelDir returns the directory to look for model files in: the value of
// MB_MODEL_DIR when set, otherwise dir (or the working directory if empty).
func GetModelDir(dir string) (string, error) {
	if envDir := os.Getenv(ModelDirEnvVar); envDir != "" {
		return envDir, nil
	}
	if dir != "" {
		return dir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}
	return wd, nil
}

// FindModelFiles returns the model files in dir, sorted by name. Backups and
// merge artifacts are skipped.
func FindModelFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read model directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ModelFileSuffix) {
			continue
		}
		if strings.Contains(name, ".backup") ||
			strings.Contains(name, ".orig") ||
			strings.Contains(name, ".merge") {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoModelFiles, dir)
	}
	sort.Strings(paths)
	return paths, nil
}

// LoadFile parses the model file at path.
func LoadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model file: %w", err)
	}
	defer f.Close()
	return Parse(f, path)
}

// Parse reads a model file from r. path is only used in error messages and
// recorded in the result.
func Parse(r io.Reader, path string) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	file := &File{Path: path}
	if len(bytes.TrimSpace(data)) == 0 {
		file.Version = CurrentVersion
		return file, nil
	}
	if err := yaml.Unmarshal(data, file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if file.Version == 0 {
		file.Version = CurrentVersion
	}
	if file.Version > CurrentVersion {
		return nil, fmt.Errorf("%s: %w %d (max %d)", path, ErrUnsupportedVersion, file.Version, CurrentVersion)
	}
	return file, nil
}

// LoadFiles parses paths in parallel. The result keeps the order of paths.
// The first error cancels the remaining work.
func LoadFiles(ctx context.Context, paths []string) ([]*File, error) {
	files := make([]*File, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := LoadFile(path)
			if err != nil {
				return err
			}
			files[i] = f
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}
