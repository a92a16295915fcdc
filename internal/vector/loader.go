package vector

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/remiblancher/vecgen/internal/words"
)

// familyFileYAML is the YAML representation of a family definition file.
type familyFileYAML struct {
	Families []familyYAML `yaml:"families"`
}

type familyYAML struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Bits        int         `yaml:"bits"`
	Fields      []fieldYAML `yaml:"fields"`
	Message     messageYAML `yaml:"message,omitempty"`
	Template    string      `yaml:"template,omitempty"`
	Output      string      `yaml:"output,omitempty"`
}

type fieldYAML struct {
	Name     string `yaml:"name"`
	Derived  string `yaml:"derived,omitempty"`  // default: name + "_hexwords"
	Truncate bool   `yaml:"truncate,omitempty"` // drop bits beyond the width instead of failing
}

type messageYAML struct {
	Field  string `yaml:"field,omitempty"`
	Length string `yaml:"length,omitempty"`
	Bytes  string `yaml:"bytes,omitempty"`
}

// LoadFamilyFile loads family definitions from a YAML file.
func LoadFamilyFile(path string) ([]*Family, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read family file: %w", err)
	}

	fams, err := LoadFamiliesFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fams, nil
}

// LoadFamiliesFromBytes loads family definitions from YAML bytes.
func LoadFamiliesFromBytes(data []byte) ([]*Family, error) {
	var ff familyFileYAML
	if err := yaml.Unmarshal(data, &ff); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(ff.Families) == 0 {
		return nil, fmt.Errorf("%w: no families defined", ErrInvalidFamily)
	}

	out := make([]*Family, 0, len(ff.Families))
	for _, fy := range ff.Families {
		f := familyYAMLToFamily(&fy)
		if err := f.Validate(); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// familyYAMLToFamily fills in defaults matching the built-in families.
func familyYAMLToFamily(fy *familyYAML) *Family {
	f := &Family{
		Name:              fy.Name,
		Description:       fy.Description,
		Bits:              fy.Bits,
		MessageField:      orDefault(fy.Message.Field, FieldMsg),
		MessageLenField:   orDefault(fy.Message.Length, FieldMsgLen),
		MessageBytesField: orDefault(fy.Message.Bytes, FieldMsgBytes),
		DefaultTemplate:   fy.Template,
		DefaultOutput:     fy.Output,
	}
	for _, fd := range fy.Fields {
		fs := FieldSpec{
			Name:    fd.Name,
			Derived: orDefault(fd.Derived, fd.Name+HexWordsSuffix),
			Policy:  words.Checked,
		}
		if fd.Truncate {
			fs.Policy = words.Truncate
		}
		f.Fields = append(f.Fields, fs)
	}
	return f
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// RegisterFile loads a family file and registers every family in it.
func (r *Registry) RegisterFile(path string) ([]*Family, error) {
	fams, err := LoadFamilyFile(path)
	if err != nil {
		return nil, err
	}
	for _, f := range fams {
		if err := r.Register(f); err != nil {
			return nil, err
		}
	}
	return fams, nil
}
