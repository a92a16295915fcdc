package vector

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/remiblancher/vecgen/internal/words"
)

// Record is one test vector as loaded from the input document.
// Integer fields hold *big.Int values; other fields are kept verbatim.
type Record map[string]any

// ID returns the record's test_case_id rendered as text, or "".
func (r Record) ID() string {
	v, ok := r["test_case_id"]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// Int returns field name as a big integer.
func (r Record) Int(name string) (*big.Int, error) {
	v, ok := r[name]
	if !ok {
		return nil, ErrMissingField
	}
	return toBigInt(v)
}

// toBigInt converts the value types produced by the loaders and by
// hand-built records into a big integer.
func toBigInt(v any) (*big.Int, error) {
	switch n := v.(type) {
	case *big.Int:
		if n == nil {
			return nil, ErrNotInteger
		}
		return n, nil
	case int:
		return big.NewInt(int64(n)), nil
	case int64:
		return big.NewInt(n), nil
	case uint64:
		return new(big.Int).SetUint64(n), nil
	case json.Number:
		return parseInt(string(n))
	case string:
		return parseInt(n)
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return nil, fmt.Errorf("%w: %v", ErrNotInteger, n)
		}
		x, _ := big.NewFloat(n).Int(nil)
		return x, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrNotInteger, v)
	}
}

// parseInt reads a decimal or 0x/0o/0b prefixed literal. Unprefixed text
// is decimal even with a leading zero.
func parseInt(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	base := 10
	if t := strings.TrimLeft(s, "+-"); len(t) > 2 && t[0] == '0' && strings.ContainsRune("xXoObB", rune(t[1])) {
		base = 0
	}
	x, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotInteger, s)
	}
	return x, nil
}

// Enrich adds the derived word and byte fields to r in place.
// Existing fields are never overwritten.
func (f *Family) Enrich(r Record) error {
	for _, fs := range f.Fields {
		if _, exists := r[fs.Derived]; exists {
			return &RecordError{ID: r.ID(), Field: fs.Name, Err: fmt.Errorf("%w: %s", ErrFieldConflict, fs.Derived)}
		}
	}
	if _, exists := r[f.MessageBytesField]; exists {
		return &RecordError{ID: r.ID(), Field: f.MessageField, Err: fmt.Errorf("%w: %s", ErrFieldConflict, f.MessageBytesField)}
	}

	derived := make(map[string]any, len(f.Fields)+1)
	for _, fs := range f.Fields {
		x, err := r.Int(fs.Name)
		if err != nil {
			return &RecordError{ID: r.ID(), Field: fs.Name, Err: err}
		}
		hw, err := words.HexWords(x, f.WordCount(), fs.Policy)
		if err != nil {
			return &RecordError{ID: r.ID(), Field: fs.Name, Err: err}
		}
		derived[fs.Derived] = hw
	}

	msgBytes, err := f.messageBytes(r)
	if err != nil {
		return err
	}
	derived[f.MessageBytesField] = msgBytes

	// Commit only once every field encoded, so a failing record is untouched.
	for k, v := range derived {
		r[k] = v
	}
	return nil
}

func (f *Family) messageBytes(r Record) ([]byte, error) {
	msg, err := r.Int(f.MessageField)
	if err != nil {
		return nil, &RecordError{ID: r.ID(), Field: f.MessageField, Err: err}
	}
	n, err := r.Int(f.MessageLenField)
	if err != nil {
		return nil, &RecordError{ID: r.ID(), Field: f.MessageLenField, Err: err}
	}
	if !n.IsInt64() || n.Int64() > math.MaxInt32 {
		return nil, &RecordError{ID: r.ID(), Field: f.MessageLenField, Err: fmt.Errorf("%w: length %s", words.ErrMessageLength, n)}
	}
	b, err := words.MessageBytes(msg, int(n.Int64()))
	if err != nil {
		return nil, &RecordError{ID: r.ID(), Field: f.MessageField, Err: err}
	}
	return b, nil
}

// EnrichAll enriches every record in document order and stops at the
// first failure.
func (f *Family) EnrichAll(records []Record) error {
	for i, r := range records {
		if err := f.Enrich(r); err != nil {
			var re *RecordError
			if errors.As(err, &re) {
				re.Index = i
			}
			return err
		}
	}
	return nil
}
