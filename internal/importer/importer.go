// Package importer loads catalog items from YAML files into a collection
// store.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/lunar-antiques/lunar/internal/collection"
	"github.com/lunar-antiques/lunar/internal/progress"
)

// File is the layout of an import file.
type File struct {
	Items []collection.Item `yaml:"items"`
}

// Problem describes an item that was skipped.
type Problem struct {
	File  string
	Title string
	Err   error
}

func (p Problem) String() string {
	if p.Title == "" {
		return fmt.Sprintf("%s: %v", p.File, p.Err)
	}
	return fmt.Sprintf("%s: %q: %v", p.File, p.Title, p.Err)
}

// Result counts what an import did.
type Result struct {
	Files    int
	Imported int
	Skipped  int
	Problems []Problem
}

// Expand resolves doublestar patterns (e.g. "catalog/**/*.yml") into a
// sorted, de-duplicated list of files. A pattern matching nothing is an
// error.
func Expand(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
			return nil, fmt.Errorf("invalid pattern %q", pattern)
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expanding %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", pattern)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

// Importer adds items from import files to Store.
type Importer struct {
	Store    collection.Store
	Reporter progress.Reporter
}

// Run imports every item of every file. Invalid items and unreadable files
// are skipped and reported; a store failure aborts the run.
func (im *Importer) Run(ctx context.Context, files []string) (Result, error) {
	rep := im.Reporter
	if rep == nil {
		rep = progress.Discard{}
	}

	res := Result{Files: len(files)}
	rep.Start(len(files))
	defer rep.Finish()

	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		rep.Update(i+1, filepath.Base(path))

		items, err := readFile(path)
		if err != nil {
			res.Problems = append(res.Problems, Problem{File: path, Err: err})
			continue
		}

		for _, it := range items {
			it.ID = ""
			if err := collection.Validate(&it); err != nil {
				res.Skipped++
				res.Problems = append(res.Problems, Problem{File: path, Title: it.Title, Err: err})
				continue
			}
			if _, err := im.Store.Add(ctx, it); err != nil {
				if errors.Is(err, collection.ErrInvalidItem) {
					res.Skipped++
					res.Problems = append(res.Problems, Problem{File: path, Title: it.Title, Err: err})
					continue
				}
				return res, fmt.Errorf("adding %q from %s: %w", it.Title, path, err)
			}
			res.Imported++
		}
		slog.Debug("imported file", "path", path, "items", len(items))
	}
	return res, nil
}

func readFile(path string) ([]collection.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	return f.Items, nil
}
