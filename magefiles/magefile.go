//go:build mage

// Package main contains Mage build targets for share-tracker developer tooling.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"

	"github.com/pdiddy/share-tracker/pkg/types"
)

const (
	binDir  = "bin"
	binName = "share-tracker"
	cmdPkg  = "./cmd/share-tracker"
)

// baseDir is where Init and Stats look for period directories. Override with
// SHARE_TRACKER_BASE_DIR.
func baseDir() string {
	if dir := os.Getenv("SHARE_TRACKER_BASE_DIR"); dir != "" {
		return dir
	}
	return "."
}

// Build compiles the CLI binary into bin/, stamping the version from git.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || version == "" {
		version = "dev"
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-ldflags", "-X main.version="+version, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s (%s)\n", out, version)
	return nil
}

// Test runs the package tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Check runs the tests, then builds the binary.
func Check() {
	mg.SerialDeps(Test, Build)
}

// Init creates the canonical period directories under the base dir.
func Init() error {
	for _, period := range types.CanonicalPeriods {
		dir := filepath.Join(baseDir(), period)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Period directories initialized.")
	return nil
}

// Stats prints Go line counts and how many report PDFs each canonical
// period holds.
func Stats() error {
	prod, tests, err := countGoLines(".")
	if err != nil {
		return err
	}
	fmt.Printf("Lines of code (Go, production): %d\n", prod)
	fmt.Printf("Lines of code (Go, tests):      %d\n", tests)

	fmt.Println("\nReports per period:")
	for _, period := range types.CanonicalPeriods {
		n, err := countReports(filepath.Join(baseDir(), period))
		if err != nil {
			fmt.Printf("  %-12s  missing\n", period)
			continue
		}
		fmt.Printf("  %-12s  %d\n", period, n)
	}
	return nil
}

// countGoLines counts non-blank lines in production and test Go files,
// skipping the example pack.
func countGoLines(root string) (prod, tests int, err error) {
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), "_") || d.Name() == binDir {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := 0
		sc := bufio.NewScanner(bytes.NewReader(data))
		for sc.Scan() {
			if strings.TrimSpace(sc.Text()) != "" {
				n++
			}
		}
		if strings.HasSuffix(path, "_test.go") {
			tests += n
		} else {
			prod += n
		}
		return nil
	})
	return prod, tests, err
}

func countReports(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			n++
		}
	}
	return n, nil
}
