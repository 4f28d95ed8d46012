// Package scripts discovers the protocol test scripts shipped inside a
// CalDAVTester tree. The launcher only uses the catalog for listing and for
// warning about unknown targets; the external test runner remains the
// authority on what actually runs.
package scripts

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// testsRelPath is where CalDAVTester keeps its test scripts, relative to the
// test-suite root.
var testsRelPath = filepath.Join("scripts", "tests")

// Script describes a single discovered test script.
type Script struct {
	Name   string // Path relative to the tests directory, eg. "CalDAV/get.xml"
	Subdir string // First path element, empty for top-level scripts
	Size   int64
}

// Catalog holds the discovered test scripts for one suite root.
type Catalog struct {
	config  Config
	scripts []Script
}

// Config contains catalog configuration
type Config struct {
	Log      log.Logger
	TestRoot string
	Subdir   string // Optional subdirectory filter
}

// NewCatalog walks the suite's tests directory and collects its scripts.
func NewCatalog(cfg Config) (*Catalog, error) {
	if cfg.TestRoot == "" {
		return nil, fmt.Errorf("test root is required")
	}
	if cfg.Log == nil {
		cfg.Log = log.Root()
	}

	c := &Catalog{config: cfg}
	if err := c.discover(); err != nil {
		return nil, fmt.Errorf("failed to discover test scripts: %w", err)
	}

	cfg.Log.Debug("Catalog loaded", "len(scripts)", len(c.scripts))
	return c, nil
}

func (c *Catalog) discover() error {
	testsDir := filepath.Join(c.config.TestRoot, testsRelPath)
	if _, err := os.Stat(testsDir); err != nil {
		return fmt.Errorf("tests directory %s: %w", testsDir, err)
	}

	return filepath.WalkDir(testsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".xml") {
			return nil
		}
		rel, err := filepath.Rel(testsDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		subdir := ""
		if i := strings.IndexByte(rel, '/'); i >= 0 {
			subdir = rel[:i]
		}
		if c.config.Subdir != "" && subdir != c.config.Subdir {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		c.scripts = append(c.scripts, Script{
			Name:   rel,
			Subdir: subdir,
			Size:   info.Size(),
		})
		return nil
	})
}

// Scripts returns the discovered scripts in walk order.
func (c *Catalog) Scripts() []Script {
	return c.scripts
}

// Known reports whether target names a discovered script. Targets are the
// selectors forwarded to the test runner; anything that is not a plain
// script path (eg. "--all") is treated as known.
func (c *Catalog) Known(target string) bool {
	if strings.HasPrefix(target, "-") {
		return true
	}
	want := filepath.ToSlash(target)
	for _, s := range c.scripts {
		if s.Name == want || s.Name == want+".xml" {
			return true
		}
	}
	return false
}

// RenderTable writes the catalog as a table, one row per script.
func (c *Catalog) RenderTable(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("Test scripts (%d)", len(c.scripts)))

	t.AppendHeader(table.Row{"Script", "Subdirectory", "Size"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Script", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Size", Align: text.AlignRight},
	})

	for _, s := range c.scripts {
		t.AppendRow(table.Row{s.Name, s.Subdir, s.Size})
	}
	t.Render()
}
