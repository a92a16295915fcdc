// Package vector defines test-vector families and enriches loaded records
// with their fixed-width encodings.
package vector

import (
	"fmt"
	"sort"
	"sync"

	"github.com/remiblancher/vecgen/internal/words"
)

// HexWordsSuffix is appended to a field name to form its derived name.
const HexWordsSuffix = "_hexwords"

// Message field names shared by the built-in families.
const (
	FieldMsg      = "msg"
	FieldMsgLen   = "msg_len"
	FieldMsgBytes = "msg_bytes"
)

// FieldSpec describes one integer field encoded as a word sequence.
type FieldSpec struct {
	Name    string       // Source field in the record
	Derived string       // Field the encoded words are stored under
	Policy  words.Policy // What to do with bits beyond the family width
}

// Family describes one algorithm's test-vector layout.
type Family struct {
	Name        string
	Description string

	// Bits is the encoded width of every integer field; a multiple of 32.
	Bits   int
	Fields []FieldSpec

	MessageField      string
	MessageLenField   string
	MessageBytesField string

	// DefaultTemplate and DefaultOutput are file names resolved next to
	// the executable when no explicit path is given.
	DefaultTemplate string
	DefaultOutput   string
}

// WordCount returns the number of 32-bit words per encoded field.
func (f *Family) WordCount() int {
	return f.Bits / words.WordBits
}

// Validate checks that the family definition is usable.
func (f *Family) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidFamily)
	}
	if f.Bits <= 0 || f.Bits%words.WordBits != 0 {
		return fmt.Errorf("%w: %s: bits must be a positive multiple of %d, got %d",
			ErrInvalidFamily, f.Name, words.WordBits, f.Bits)
	}
	if len(f.Fields) == 0 {
		return fmt.Errorf("%w: %s: at least one field is required", ErrInvalidFamily, f.Name)
	}
	if f.MessageField == "" || f.MessageLenField == "" || f.MessageBytesField == "" {
		return fmt.Errorf("%w: %s: message field names are required", ErrInvalidFamily, f.Name)
	}

	derived := map[string]bool{f.MessageBytesField: true}
	for _, fs := range f.Fields {
		if fs.Name == "" || fs.Derived == "" {
			return fmt.Errorf("%w: %s: field and derived names are required", ErrInvalidFamily, f.Name)
		}
		if derived[fs.Derived] {
			return fmt.Errorf("%w: %s: duplicate derived field %q", ErrInvalidFamily, f.Name, fs.Derived)
		}
		derived[fs.Derived] = true
	}
	return nil
}

// Built-in family names.
const (
	ECDSAP256 = "ecdsa-p256"
	RSA3072   = "rsa-3072"
)

func checked(name string) FieldSpec {
	return FieldSpec{Name: name, Derived: name + HexWordsSuffix, Policy: words.Checked}
}

// builtins returns fresh copies of the families shipped with the tool.
func builtins() []*Family {
	return []*Family{
		{
			Name:              ECDSAP256,
			Description:       "ECDSA P-256 signature verification",
			Bits:              256,
			Fields:            []FieldSpec{checked("x"), checked("y"), checked("r"), checked("s")},
			MessageField:      FieldMsg,
			MessageLenField:   FieldMsgLen,
			MessageBytesField: FieldMsgBytes,
			DefaultTemplate:   "ecdsa_p256_verify_testvectors.h.tpl",
			DefaultOutput:     "ecdsa_p256_verify_testvectors.h",
		},
		{
			Name:        RSA3072,
			Description: "RSA-3072 signature verification",
			Bits:        3072,
			Fields: []FieldSpec{
				checked("n"),
				// Test sets include deliberately oversized (invalid)
				// signatures; the verifier only accepts 3072-bit inputs.
				{Name: "signature", Derived: "sig" + HexWordsSuffix, Policy: words.Truncate},
			},
			MessageField:      FieldMsg,
			MessageLenField:   FieldMsgLen,
			MessageBytesField: FieldMsgBytes,
			DefaultTemplate:   "rsa_3072_verify_testvectors.h.tpl",
			DefaultOutput:     "rsa_3072_verify_testvectors.h",
		},
	}
}

// Registry holds the families available to the generator.
type Registry struct {
	mu       sync.RWMutex
	families map[string]*Family
}

// NewRegistry creates a registry holding the built-in families.
func NewRegistry() *Registry {
	r := &Registry{families: make(map[string]*Family)}
	for _, f := range builtins() {
		r.families[f.Name] = f
	}
	return r
}

// Register adds or replaces a family after validating it.
func (r *Registry) Register(f *Family) error {
	if err := f.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.families[f.Name] = f
	return nil
}

// Lookup returns the family registered under name.
func (r *Registry) Lookup(name string) (*Family, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.families[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFamily, name)
	}
	return f, nil
}

// Families returns all registered families sorted by name.
func (r *Registry) Families() []*Family {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Family, 0, len(r.families))
	for _, f := range r.families {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Builtin returns a copy of a built-in family by name.
func Builtin(name string) (*Family, error) {
	return NewRegistry().Lookup(name)
}
