// Package catalog loads launcher candidate lists from CSV, TSV or JSON files
// and reloads them when the file changes.
package catalog

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"yashubustudio/launchersearch/lexical"
)

// ErrUnsupportedFormat is returned for files that are not .csv, .tsv or .json.
var ErrUnsupportedFormat = errors.New("unsupported catalog format")

// Options selects columns explicitly. A column is either a header name or a
// 1-based index written as "#2". Empty fields are auto-detected.
type Options struct {
	TitleColumn   string
	PackageColumn string
	KeyColumn     string
}

// Load reads the catalog at path, picking the format from the extension.
func Load(path string) ([]lexical.App, error) {
	return LoadWithOptions(path, Options{})
}

// LoadWithOptions is Load with explicit column choices for delimited files.
func LoadWithOptions(path string, opts Options) ([]lexical.App, error) {
	var comma rune
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		comma = ','
	case ".tsv":
		comma = '\t'
	case ".json":
	default:
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupportedFormat)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	var apps []lexical.App
	if ext == ".json" {
		apps, err = ParseJSON(f)
	} else {
		apps, err = ParseDelimited(f, comma, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return apps, nil
}

// ParseJSON decodes an array of {"title", "package", "key"} objects. Entries
// without a title are dropped.
func ParseJSON(r io.Reader) ([]lexical.App, error) {
	var raw []lexical.App
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, err
	}
	out := make([]lexical.App, 0, len(raw))
	for _, app := range raw {
		app.Name = cleanCell(app.Name)
		app.Package = cleanCell(app.Package)
		app.Key = cleanCell(app.Key)
		if app.Name == "" {
			continue
		}
		out = append(out, app)
	}
	return out, nil
}

// ParseDelimited reads CSV-style rows separated by comma. When the first row
// names no known column it is treated as data, with the title in the first
// column and the package in the second.
func ParseDelimited(r io.Reader, comma rune, opts Options) ([]lexical.App, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("empty file")
	}
	header := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		header[i] = cleanCell(cell)
	}
	cols, hasHeader, err := resolveColumns(header, opts)
	if err != nil {
		return nil, err
	}
	start := 0
	if hasHeader {
		start = 1
	}
	apps := make([]lexical.App, 0, len(rows)-start)
	for _, row := range rows[start:] {
		app := lexical.App{
			Name:    cols.title.cell(row),
			Package: cols.pkg.cell(row),
			Key:     cols.key.cell(row),
		}
		if app.Name == "" {
			continue
		}
		apps = append(apps, app)
	}
	return apps, nil
}

// column is where one field lives in a row. index is -1 when absent.
type column struct {
	index int
	named bool
}

var noColumn = column{index: -1}

func (c column) cell(row []string) string {
	if c.index < 0 || c.index >= len(row) {
		return ""
	}
	return cleanCell(row[c.index])
}

type rowLayout struct {
	title, pkg, key column
}

// resolveColumns maps header onto fields. The header row holds data unless
// some field was found by name; headerless files take the title from the
// first column and the package from the second.
func resolveColumns(header []string, opts Options) (rowLayout, bool, error) {
	names := currentColumns()
	var (
		layout rowLayout
		err    error
	)
	if layout.title, err = locateColumn(header, opts.TitleColumn, names.Title); err != nil {
		return layout, false, err
	}
	if layout.pkg, err = locateColumn(header, opts.PackageColumn, names.Package); err != nil {
		return layout, false, err
	}
	if layout.key, err = locateColumn(header, opts.KeyColumn, names.Key); err != nil {
		return layout, false, err
	}
	hasHeader := layout.title.named || layout.pkg.named || layout.key.named
	if layout.title.index >= 0 {
		return layout, hasHeader, nil
	}
	if hasHeader {
		return layout, false, errors.New("no title column found")
	}
	layout.title = column{index: 0}
	if layout.pkg.index < 0 && len(header) > 1 {
		layout.pkg = column{index: 1}
	}
	return layout, false, nil
}

// locateColumn finds a field by selector, either a header name or "#n", or
// when selector is empty by the first header cell equal to one of names.
func locateColumn(header []string, selector string, names []string) (column, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		i := slices.IndexFunc(header, func(cell string) bool {
			return slices.ContainsFunc(names, func(n string) bool { return strings.EqualFold(cell, n) })
		})
		if i < 0 {
			return noColumn, nil
		}
		return column{index: i, named: true}, nil
	}
	if i := slices.IndexFunc(header, func(cell string) bool { return strings.EqualFold(cell, selector) }); i >= 0 {
		return column{index: i, named: true}, nil
	}
	digits, ok := strings.CutPrefix(selector, "#")
	if !ok {
		return noColumn, fmt.Errorf("column %q not found", selector)
	}
	pos, err := strconv.Atoi(strings.TrimSpace(digits))
	switch {
	case err != nil:
		return noColumn, fmt.Errorf("invalid column index %q", selector)
	case pos < 1:
		return noColumn, fmt.Errorf("column indices are 1-based: %q", selector)
	case pos > len(header):
		return noColumn, fmt.Errorf("column index %s is out of range", selector)
	}
	return column{index: pos - 1}, nil
}

func cleanCell(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "\ufeff")
	return v
}
