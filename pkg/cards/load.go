package cards

import (
	"bytes"
	_ "embed"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/kindred/pkg/errors"
)

//go:embed defaults.toml
var defaultTemplates []byte

// file is the on-disk shape shared by every format.
type file struct {
	Templates []*Template `toml:"template" yaml:"templates"`
}

// Decoder reads templates in one file format.
type Decoder interface {
	Type() string
	Supports(filename string) bool
	Decode(data []byte) ([]*Template, error)
}

// TOMLDecoder reads [[template]] tables.
type TOMLDecoder struct{}

func (TOMLDecoder) Type() string { return "toml" }

func (TOMLDecoder) Supports(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".toml")
}

func (TOMLDecoder) Decode(data []byte) ([]*Template, error) {
	var f file
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return f.Templates, nil
}

// YAMLDecoder reads a top-level "templates" list.
type YAMLDecoder struct{}

func (YAMLDecoder) Type() string { return "yaml" }

func (YAMLDecoder) Supports(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

func (YAMLDecoder) Decode(data []byte) ([]*Template, error) {
	var f file
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, err
	}
	return f.Templates, nil
}

// Decoders lists the supported formats.
var Decoders = []Decoder{TOMLDecoder{}, YAMLDecoder{}}

func decoderFor(name string) (Decoder, bool) {
	for _, d := range Decoders {
		if d.Supports(name) {
			return d, true
		}
	}
	return nil, false
}

// Defaults returns the built-in template set.
func Defaults() *Registry {
	templates, err := TOMLDecoder{}.Decode(defaultTemplates)
	if err != nil {
		panic("cards: invalid built-in templates: " + err.Error())
	}
	r, err := NewRegistry(templates...)
	if err != nil {
		panic("cards: invalid built-in templates: " + err.Error())
	}
	return r
}

// Load reads templates from a file or from every supported file in a
// directory (sorted by name, not recursive) and validates them as one set.
// An empty path returns [Defaults].
func Load(path string) (*Registry, error) {
	if path == "" {
		return Defaults(), nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "templates %s", path)
	}

	files := []string{path}
	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "templates %s", path)
		}
		files = files[:0]
		for _, e := range entries {
			if _, ok := decoderFor(e.Name()); ok && !e.IsDir() {
				files = append(files, filepath.Join(path, e.Name()))
			}
		}
		slices.Sort(files)
		if len(files) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "no template files in %s", path)
		}
	}

	var all []*Template
	for _, f := range files {
		templates, err := LoadFile(f)
		if err != nil {
			return nil, err
		}
		all = append(all, templates...)
	}
	return NewRegistry(all...)
}

// LoadFile decodes one template file without validating it.
func LoadFile(path string) ([]*Template, error) {
	d, ok := decoderFor(path)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unsupported template file %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	templates, err := d.Decode(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTemplate, err, "parse %s as %s", path, d.Type())
	}
	return templates, nil
}
