// Package render executes header templates over enriched test vectors.
//
// Templates use Go's text/template syntax. The data passed to a template
// has exactly one binding, tests, holding the records in document order:
//
//	{{range .tests}}{{cwords .x_hexwords}}{{end}}
package render

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/remiblancher/vecgen/internal/vector"
)

// TestsBinding is the name under which records are exposed to templates.
const TestsBinding = "tests"

// Templates contains the default header templates, keyed by file name.
//
//go:embed templates/*.tpl
var Templates embed.FS

// Renderer is a parsed header template.
type Renderer struct {
	name string
	tmpl *template.Template
}

// New parses template text.
func New(name, text string) (*Renderer, error) {
	tmpl, err := template.New(name).
		Option("missingkey=error").
		Funcs(Funcs()).
		Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	return &Renderer{name: name, tmpl: tmpl}, nil
}

// NewFromFile parses the template at path.
func NewFromFile(path string) (*Renderer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	return New(path, string(data))
}

// Default parses the embedded template with the given file name.
func Default(name string) (*Renderer, error) {
	data, err := fs.ReadFile(Templates, "templates/"+name)
	if err != nil {
		return nil, fmt.Errorf("no embedded template %q: %w", name, err)
	}
	return New(name, string(data))
}

// HasDefault reports whether an embedded template exists for name.
func HasDefault(name string) bool {
	_, err := fs.Stat(Templates, "templates/"+name)
	return err == nil
}

// DefaultNames lists the embedded template file names.
func DefaultNames() []string {
	entries, _ := fs.ReadDir(Templates, "templates")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

// Name returns the template name (file path or embedded name).
func (r *Renderer) Name() string {
	return r.name
}

// Render writes the rendered template to w. Nothing is written if the
// template fails.
func (r *Renderer) Render(w io.Writer, records []vector.Record) error {
	out, err := r.RenderBytes(records)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// RenderBytes renders the template into memory.
func (r *Renderer) RenderBytes(records []vector.Record) ([]byte, error) {
	if records == nil {
		records = []vector.Record{}
	}
	var buf bytes.Buffer
	data := map[string]any{TestsBinding: records}
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render template %s: %w", r.name, err)
	}
	return buf.Bytes(), nil
}

// Funcs returns the helper functions available to templates.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"cwords":  CWords,
		"cbytes":  CBytes,
		"join":    strings.Join,
		"cstring": CString,
		"cbool":   CBool,
		"wrap":    Wrap,
	}
}

// CWords joins hex words into an array initializer body.
func CWords(ws []string) string {
	return strings.Join(ws, ", ")
}

// CBytes formats bytes as an array initializer body.
func CBytes(b []byte) string {
	parts := make([]string, len(b))
	for i, c := range b {
		parts[i] = fmt.Sprintf("0x%02x", c)
	}
	return strings.Join(parts, ", ")
}

// CString quotes any value as a C string literal. Non-printable and
// non-ASCII bytes become octal escapes.
func CString(v any) string {
	s := ""
	if v != nil {
		s = fmt.Sprint(v)
	}
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"' || c == '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c >= 0x20 && c < 0x7f:
			b.WriteByte(c)
		default:
			b.WriteString(fmt.Sprintf("\\%03o", c))
		}
	}
	b.WriteByte('"')
	return b.String()
}

// CBool renders a truthy value as a C boolean literal.
func CBool(v any) string {
	switch x := v.(type) {
	case bool:
		return strconv.FormatBool(x)
	case string:
		if b, err := strconv.ParseBool(x); err == nil {
			return strconv.FormatBool(b)
		}
	case nil:
		return "false"
	}
	return "true"
}

// Wrap splits items into lines of at most n items, joined by ", " within
// a line and ",\n"+indent between lines.
func Wrap(n int, indent string, items []string) string {
	if n <= 0 {
		n = len(items)
	}
	var lines []string
	for i := 0; i < len(items); i += n {
		end := i + n
		if end > len(items) {
			end = len(items)
		}
		lines = append(lines, strings.Join(items[i:end], ", "))
	}
	return strings.Join(lines, ",\n"+indent)
}
