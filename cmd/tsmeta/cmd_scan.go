package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhamidi/tsmeta/project"
	"github.com/dhamidi/tsmeta/typescript"
	"github.com/spf13/cobra"
)

func newScanCmd() *cobra.Command {
	var timeout time.Duration
	var annotations []string

	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan a directory for declaration and compiled pairs",
		Long: "Scan walks a directory for declaration listings, pairs them with\n" +
			"compiled siblings and reports the recovered components. Without an\n" +
			"argument the project source directory from tsmeta.yaml is scanned.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runScan(args[0], annotations, timeout)
			}

			proj, err := project.Load()
			if err != nil {
				return err
			}
			names := annotations
			if len(names) == 0 {
				names = proj.Config.Annotations
			}
			return runScan(proj.SrcDir, names, timeout)
		},
	}

	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 10*time.Second, "timeout per file")
	cmd.Flags().StringSliceVarP(&annotations, "annotations", "a", nil, "decorator names stripped as annotations")

	return cmd
}

func runScan(path string, annotations []string, timeout time.Duration) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	var components []*typescript.Component
	var errors []string

	if info.IsDir() {
		components, errors = scanDirectory(path, annotations, timeout)
	} else if strings.HasSuffix(path, ".d.ts") {
		components, errors = scanSingleFile(path, annotations, timeout)
	} else {
		return fmt.Errorf("unsupported file type: %s (expected .d.ts)", path)
	}

	fmt.Printf("\n=== SCAN COMPLETE ===\n")
	fmt.Printf("Components found: %d\n", len(components))
	fmt.Printf("Errors: %d\n", len(errors))
	for _, e := range errors {
		fmt.Printf("  - %s\n", e)
	}
	return nil
}

func scanSingleFile(path string, annotations []string, timeout time.Duration) ([]*typescript.Component, []string) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	done := make(chan struct{})
	var component *typescript.Component
	var parseErr error

	go func() {
		defer close(done)
		component, parseErr = loadComponent(path, annotations)
	}()

	select {
	case <-done:
		if parseErr != nil {
			fmt.Printf("[ERROR] %s: %v\n", path, parseErr)
			return nil, []string{fmt.Sprintf("parse %s: %v", path, parseErr)}
		}
		fmt.Printf("[OK] %s (%s)\n", path, component.Class.Name)
		return []*typescript.Component{component}, nil
	case <-ctx.Done():
		fmt.Printf("[TIMEOUT] %s\n", path)
		return nil, []string{fmt.Sprintf("timeout parsing %s", path)}
	}
}

func loadComponent(path string, annotations []string) (*typescript.Component, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	class, err := typescript.ParseDeclaration(data)
	if err != nil {
		return nil, err
	}
	component := &typescript.Component{Path: path, Class: class}

	compiledPath := strings.TrimSuffix(path, ".d.ts") + ".js"
	js, err := os.ReadFile(compiledPath)
	if err != nil {
		if os.IsNotExist(err) {
			return component, nil
		}
		return nil, err
	}

	compiled, err := typescript.ParseCompiled(js, class, typescript.WithAnnotations(annotations...))
	if err != nil {
		return nil, err
	}
	component.Compiled = compiled

	return component, nil
}

func scanDirectory(path string, annotations []string, timeout time.Duration) ([]*typescript.Component, []string) {
	var files []string
	var errors []string

	err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			errors = append(errors, fmt.Sprintf("walk %s: %v", p, err))
			return nil
		}
		if d.IsDir() {
			if name := d.Name(); p != path && (strings.HasPrefix(name, ".") || name == "node_modules") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(p, ".d.ts") {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		errors = append(errors, fmt.Sprintf("walk %s: %v", path, err))
	}

	fmt.Printf("Found %d files to scan\n", len(files))

	var components []*typescript.Component
	for i, file := range files {
		fmt.Printf("[%d/%d] ", i+1, len(files))
		fileComponents, fileErrors := scanSingleFile(file, annotations, timeout)
		components = append(components, fileComponents...)
		errors = append(errors, fileErrors...)
	}

	return components, errors
}
