// Copyright 2021 Andrew Archibald. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command trigramindex builds and queries trigram substring indexes over
// a directory tree.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/pprof"

	"github.com/urfave/cli/v2"

	"github.com/andrewarchi/trigramindex/index"
	"github.com/andrewarchi/trigramindex/walk"
)

// indexEnvVar names the index-path environment variable, analogous to
// codesearch's CSEARCHINDEX.
const indexEnvVar = "TRIGRAMINDEX"

// defaultIndexPath resolves an index path: the environment variable
// first, then a .trigramindex found by walking up from the working
// directory, then one under the user's home directory.
func defaultIndexPath() (string, error) {
	if p := os.Getenv(indexEnvVar); p != "" {
		return p, nil
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		p := filepath.Join(dir, ".trigramindex")
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".trigramindex"), nil
}

func main() {
	app := &cli.App{
		Name:  "trigramindex",
		Usage: "build and query trigram substring indexes",
		Commands: []*cli.Command{
			indexCommand,
			searchCommand,
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

var indexCommand = &cli.Command{
	Name:      "index",
	Usage:     "build an index over a directory tree",
	ArgsUsage: "DIR",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "path to write the index to (default: " + indexEnvVar + " or .trigramindex)"},
		&cli.BoolFlag{Name: "gitignore", Value: true, Usage: "skip files excluded by .gitignore"},
		&cli.BoolFlag{Name: "logskip", Usage: "log files skipped by .gitignore"},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "print whole-index size stats after building"},
		&cli.StringFlag{Name: "cpuprofile", Usage: "write a CPU profile to this file"},
	},
	Action: runIndex,
}

var searchCommand = &cli.Command{
	Name:      "search",
	Usage:     "print candidate DocIDs for a query",
	ArgsUsage: "[INDEX] QUERY",
	Action:    runSearch,
}

func runIndex(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("index requires exactly one DIR argument", 2)
	}

	if prof := c.String("cpuprofile"); prof != "" {
		f, err := os.Create(prof)
		if err != nil {
			return fmt.Errorf("trigramindex: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("trigramindex: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	root := c.Args().Get(0)
	out := c.String("output")
	if out == "" {
		var err error
		out, err = defaultIndexPath()
		if err != nil {
			return fmt.Errorf("trigramindex: %w", err)
		}
	}

	w, err := newWalker(c.Bool("gitignore"), c.Bool("logskip"))
	if err != nil {
		return fmt.Errorf("trigramindex: %w", err)
	}

	b := index.NewBuilder()
	err = w.Walk(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			log.Printf("skipping %s: %v", path, err)
			return nil
		}
		lowerASCII(content)
		if _, err := b.AddDoc(content); err != nil {
			return fmt.Errorf("add %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("trigramindex: walk %s: %w", root, err)
	}

	tmp := out + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("trigramindex: %w", err)
	}
	stats, err := b.Build(f)
	if err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("trigramindex: build: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("trigramindex: %w", err)
	}
	if err := os.Rename(tmp, out); err != nil {
		return fmt.Errorf("trigramindex: %w", err)
	}

	if c.Bool("verbose") {
		fmt.Fprintf(c.App.Writer, "docs=%d trigrams=%d postings_bytes=%d total_bytes=%d\n",
			stats.NumDocs, stats.NumTrigrams, stats.PostingsBytes, stats.TotalBytes)
	}
	return nil
}

func runSearch(c *cli.Context) error {
	var path, query string
	switch c.NArg() {
	case 1:
		query = c.Args().Get(0)
		var err error
		path, err = defaultIndexPath()
		if err != nil {
			return fmt.Errorf("trigramindex: %w", err)
		}
	case 2:
		path, query = c.Args().Get(0), c.Args().Get(1)
	default:
		return cli.Exit("search requires a QUERY argument, and an optional INDEX path", 2)
	}

	src, err := index.OpenFile(path)
	if err != nil {
		return fmt.Errorf("trigramindex: %w", err)
	}
	defer src.Close()

	ix, err := index.Open(src)
	if err != nil {
		return fmt.Errorf("trigramindex: %w", err)
	}

	q := []byte(query)
	lowerASCII(q)
	ids, err := ix.Candidates(q)
	if err != nil {
		return fmt.Errorf("trigramindex: %w", err)
	}
	for _, id := range ids {
		fmt.Fprintln(c.App.Writer, id)
	}
	return nil
}

func newWalker(useGitignore, logSkip bool) (walk.Walker, error) {
	if !useGitignore {
		return walk.NewWalker(), nil
	}
	return walk.NewGitignoreWalker(logSkip)
}

// lowerASCII folds b to lower case in place, leaving non-ASCII bytes
// untouched. The index has no notion of case folding (§1 Non-goals);
// this keeps queries and indexed content on a consistent footing for the
// common case of case-insensitive source search.
func lowerASCII(b []byte) {
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
}
