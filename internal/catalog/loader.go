package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	hcljson "github.com/hashicorp/hcl/v2/json"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnsupportedFormat is returned for catalog files with an unknown extension
	ErrUnsupportedFormat = errors.New("unsupported catalog file format")
	// ErrInvalidMode is returned when a catalog file sets an unknown mode
	ErrInvalidMode = errors.New("invalid catalog mode")
)

// Mode controls how a Definition is combined with the built-in catalogs
type Mode string

const (
	// ModeExtend adds the definition's types to the base catalogs
	ModeExtend Mode = "extend"
	// ModeReplace discards the base catalogs; lists the definition omits become empty
	ModeReplace Mode = "replace"
)

// Definition is the content of a catalog file
type Definition struct {
	Mode          Mode     `yaml:"mode"`
	VMTypes       []string `yaml:"vm_types"`
	NetworkTypes  []string `yaml:"network_types"`
	PublicIPTypes []string `yaml:"public_ip_types"`
	SecurityTypes []string `yaml:"security_types"`
}

// Apply combines the definition with base and returns new catalogs.
// base is not modified.
func (d Definition) Apply(base *Catalogs) (*Catalogs, error) {
	switch d.Mode {
	case "", ModeExtend:
		if base == nil {
			base = Default()
		}
		return New(
			append(base.VMTypes(), d.VMTypes...),
			append(base.NetworkTypes(), d.NetworkTypes...),
			append(base.PublicIPTypes(), d.PublicIPTypes...),
			append(base.SecurityTypes(), d.SecurityTypes...),
		), nil
	case ModeReplace:
		return New(d.VMTypes, d.NetworkTypes, d.PublicIPTypes, d.SecurityTypes), nil
	default:
		return nil, fmt.Errorf("%w: %q (expected %q or %q)", ErrInvalidMode, d.Mode, ModeExtend, ModeReplace)
	}
}

// LoadFile reads a catalog definition. The format follows the extension:
// .hcl for native HCL, .json for HCL's JSON syntax, .yaml or .yml for YAML.
func LoadFile(path string) (Definition, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".hcl":
		file, diags := hclsyntax.ParseConfig(src, path, hcl.Pos{Line: 1, Column: 1})
		if diags.HasErrors() {
			return Definition{}, fmt.Errorf("failed to parse catalog file: %v", diags)
		}
		return decodeHCLBody(file.Body)
	case ".json":
		file, diags := hcljson.Parse(src, path)
		if diags.HasErrors() {
			return Definition{}, fmt.Errorf("failed to parse catalog file: %v", diags)
		}
		return decodeHCLBody(file.Body)
	case ".yaml", ".yml":
		return decodeYAML(src)
	default:
		return Definition{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Load reads the catalog file at path and applies it on top of the built-ins.
// An empty path returns the built-in catalogs.
func Load(path string) (*Catalogs, error) {
	if path == "" {
		return Default(), nil
	}
	def, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return def.Apply(Default())
}

func decodeYAML(src []byte) (Definition, error) {
	var def Definition
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return Definition{}, fmt.Errorf("failed to decode catalog YAML: %w", err)
	}
	return def, nil
}

func decodeHCLBody(body hcl.Body) (Definition, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return Definition{}, fmt.Errorf("failed to read catalog attributes: %v", diags)
	}

	var def Definition
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return Definition{}, fmt.Errorf("failed to evaluate %s: %v", name, diags)
		}

		var err error
		switch name {
		case "mode":
			if !val.IsNull() && val.Type() == cty.String && val.IsKnown() {
				def.Mode = Mode(val.AsString())
			} else {
				err = fmt.Errorf("%s: mode must be a string", attr.Range)
			}
		case "vm_types":
			def.VMTypes, err = stringList(attr, val)
		case "network_types":
			def.NetworkTypes, err = stringList(attr, val)
		case "public_ip_types":
			def.PublicIPTypes, err = stringList(attr, val)
		case "security_types":
			def.SecurityTypes, err = stringList(attr, val)
		default:
			err = fmt.Errorf("%s: unknown catalog attribute %q", attr.Range, name)
		}
		if err != nil {
			return Definition{}, err
		}
	}
	return def, nil
}

// stringList converts a list, set or tuple of strings
func stringList(attr *hcl.Attribute, val cty.Value) ([]string, error) {
	if val.IsNull() {
		return nil, nil
	}
	ty := val.Type()
	if !val.IsWhollyKnown() || !(ty.IsListType() || ty.IsSetType() || ty.IsTupleType()) {
		return nil, fmt.Errorf("%s: %s must be a list of strings", attr.Range, attr.Name)
	}

	out := make([]string, 0, val.LengthInt())
	it := val.ElementIterator()
	for it.Next() {
		_, v := it.Element()
		if v.IsNull() || v.Type() != cty.String {
			return nil, fmt.Errorf("%s: %s must only contain strings", attr.Range, attr.Name)
		}
		out = append(out, v.AsString())
	}
	return out, nil
}
