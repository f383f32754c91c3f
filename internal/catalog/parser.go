package catalog

import (
	"bufio"
	"compress/gzip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
	"gopkg.in/yaml.v3"
)

// Format identifies a catalog file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
)

// Options control how catalog files are decoded.
type Options struct {
	// Encoding names the text encoding of CSV files: "utf-8" (default),
	// "windows-1252", "iso-8859-1" or "windows-1251".
	Encoding string
	// Delimiter is the CSV field separator. Zero means ','.
	Delimiter rune
}

var encodings = map[string]encoding.Encoding{
	"windows-1252": charmap.Windows1252,
	"cp1252":       charmap.Windows1252,
	"iso-8859-1":   charmap.ISO8859_1,
	"latin1":       charmap.ISO8859_1,
	"windows-1251": charmap.Windows1251,
	"cp1251":       charmap.Windows1251,
}

// Validate reports unsupported options.
func (o Options) Validate() error {
	switch enc := strings.ToLower(o.Encoding); enc {
	case "", "utf-8", "utf8":
	default:
		if _, ok := encodings[enc]; !ok {
			return fmt.Errorf("unsupported encoding: %s", o.Encoding)
		}
	}
	return nil
}

// DetectFormat infers the format and compression from a file name.
// JSON files are decoded as YAML.
func DetectFormat(name string) (Format, bool, error) {
	lower := strings.ToLower(name)
	gzipped := strings.HasSuffix(lower, ".gz")
	lower = strings.TrimSuffix(lower, ".gz")

	switch path.Ext(lower) {
	case ".csv", ".txt":
		return FormatCSV, gzipped, nil
	case ".yaml", ".yml", ".json":
		return FormatYAML, gzipped, nil
	}
	return "", gzipped, fmt.Errorf("unsupported catalog format: %s", name)
}

// decode reads a complete catalog from r. name is only used to pick the format.
func decode(r io.Reader, name string, opts Options) ([]Entry, error) {
	format, gzipped, err := DetectFormat(name)
	if err != nil {
		return nil, err
	}

	if gzipped {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader for %s: %w", name, err)
		}
		defer gz.Close()
		r = gz
	}

	switch format {
	case FormatYAML:
		return parseYAML(r)
	default:
		return parseCSV(r, opts)
	}
}

func parseCSV(r io.Reader, opts Options) ([]Entry, error) {
	if enc, ok := encodings[strings.ToLower(opts.Encoding)]; ok {
		r = transform.NewReader(r, enc.NewDecoder())
	}

	reader := csv.NewReader(bufio.NewReader(r))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("catalog is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog header: %w", err)
	}

	columns := map[string]int{}
	for i, h := range header {
		columns[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, required := range []string{"name", "price", "category"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("catalog header is missing column %q", required)
		}
	}

	field := func(record []string, column string) string {
		i := columns[column]
		if i >= len(record) {
			return ""
		}
		return record[i]
	}

	var entries []Entry
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog record %d: %w", line, err)
		}

		entries = append(entries, Entry{
			Line:     line,
			Name:     field(record, "name"),
			Price:    field(record, "price"),
			Category: field(record, "category"),
		})
	}

	return entries, nil
}

type yamlEntry struct {
	Name     string `yaml:"name"`
	Price    string `yaml:"price"`
	Category string `yaml:"category"`
}

func parseYAML(r io.Reader) ([]Entry, error) {
	var doc []yamlEntry
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("catalog is empty")
		}
		return nil, fmt.Errorf("failed to decode YAML catalog: %w", err)
	}

	entries := make([]Entry, 0, len(doc))
	for i, e := range doc {
		entries = append(entries, Entry{
			Line:     i + 1,
			Name:     e.Name,
			Price:    e.Price,
			Category: e.Category,
		})
	}
	return entries, nil
}
