package project

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhamidi/tsmeta/typescript"
)

// Project represents a component source tree whose compiled output is
// accompanied by declaration listings.
type Project struct {
	RootDir string
	SrcDir  string
	OutDir  string
	Config  *Config
	Pairs   []*Pair
}

// Pair is a declaration listing together with its compiled sibling.
type Pair struct {
	Name        string // base file name without extensions, e.g. "square"
	Declaration string // path to the .d.ts file
	Compiled    string // path to the sibling .js file, empty when absent
}

// Load scans the current directory for a component project.
// It reads tsmeta.yaml when present and pairs the .d.ts files under the
// source directory with their compiled .js siblings.
func Load() (*Project, error) {
	return LoadFrom(".")
}

// LoadFrom scans the given directory for a component project.
func LoadFrom(rootDir string) (*Project, error) {
	config, err := LoadConfig(filepath.Join(rootDir, DefaultConfigName))
	if err != nil {
		return nil, err
	}

	srcDir := filepath.Join(rootDir, config.Src)
	pairs, err := scanPairs(srcDir)
	if err != nil {
		return nil, fmt.Errorf("read src directory: %w", err)
	}

	return &Project{
		RootDir: rootDir,
		SrcDir:  srcDir,
		OutDir:  filepath.Join(rootDir, config.Out),
		Config:  config,
		Pairs:   pairs,
	}, nil
}

func scanPairs(srcDir string) ([]*Pair, error) {
	var pairs []*Pair

	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == srcDir {
				return nil
			}
			if name := d.Name(); strings.HasPrefix(name, ".") || name == "node_modules" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".d.ts") {
			return nil
		}

		pair := &Pair{
			Name:        strings.TrimSuffix(filepath.Base(path), ".d.ts"),
			Declaration: path,
		}
		compiled := strings.TrimSuffix(path, ".d.ts") + ".js"
		if _, err := os.Stat(compiled); err == nil {
			pair.Compiled = compiled
		}
		pairs = append(pairs, pair)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return pairs, nil
}

// Pair returns the pair with the given base name, or nil if not found.
func (p *Project) Pair(name string) *Pair {
	for _, pair := range p.Pairs {
		if pair.Name == name {
			return pair
		}
	}
	return nil
}

// Components parses every pair in the project and returns the recovered
// components.
func (p *Project) Components() []*typescript.Component {
	var components []*typescript.Component
	for _, pair := range p.Pairs {
		component, err := p.Component(pair)
		if err != nil {
			continue // skip pairs that fail to parse
		}
		components = append(components, component)
	}
	return components
}

// Component parses one pair. The declaration listing must parse; a
// compiled sibling that cannot be parsed is dropped from the result
// rather than failing the pair.
func (p *Project) Component(pair *Pair) (*typescript.Component, error) {
	src, err := os.ReadFile(pair.Declaration)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", pair.Declaration, err)
	}

	class, err := typescript.ParseDeclaration(src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pair.Declaration, err)
	}

	component := &typescript.Component{Path: pair.Declaration, Class: class}
	if pair.Compiled == "" {
		return component, nil
	}

	js, err := os.ReadFile(pair.Compiled)
	if err != nil {
		return component, nil
	}

	compiled, err := typescript.ParseCompiled(js, class, typescript.WithAnnotations(p.Config.Annotations...))
	if err != nil {
		return component, nil
	}
	component.Compiled = compiled

	return component, nil
}
