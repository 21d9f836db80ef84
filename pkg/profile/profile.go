// Package profile builds knob tables from YAML profile files.
//
// A profile names a GUID namespace and the knobs published under it:
//
//	namespace: 52d39693-4f64-4ee6-81de-458937727855
//	knobs:
//	  - name: BootMode
//	    type: uint8
//	    default: 1
//	    enum: [0, 1, 2]
//	  - name: SerialBaud
//	    type: uint32
//	    default: 115200
//	    min: 9600
//	    max: 921600
//	  - name: MacAddress
//	    type: bytes
//	    size: 6
//	    default: aa:bb:cc:dd:ee:ff
//
// Knob order in the file fixes knob ids. A knob without its own guid
// inherits the profile namespace, and a knob without attributes gets
// the usual non-volatile boot-time set. Defaults must satisfy the
// declared constraints; a profile that ships an out-of-range default
// fails to load.
package profile

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tmarstad/confknob/pkg/knob"
	"github.com/tmarstad/confknob/pkg/varlist"
	"github.com/tmarstad/confknob/pkg/varstore"
)

type document struct {
	Namespace string        `yaml:"namespace"`
	Knobs     []declaration `yaml:"knobs"`
}

// declaration is one knob entry as written in the profile. Default,
// min, max and enum values stay raw nodes so that decimal and 0x
// scalars parse the same way for every knob type.
type declaration struct {
	Name       string      `yaml:"name"`
	Type       string      `yaml:"type"`
	Size       int         `yaml:"size"`
	GUID       string      `yaml:"guid"`
	Attributes *uint32     `yaml:"attributes"`
	Default    yaml.Node   `yaml:"default"`
	Min        *yaml.Node  `yaml:"min"`
	Max        *yaml.Node  `yaml:"max"`
	Enum       []yaml.Node `yaml:"enum"`
}

var widths = map[string]int{
	"uint8": 1, "uint16": 2, "uint32": 4, "uint64": 8,
	"int8": 1, "int16": 2, "int32": 4, "int64": 8,
}

// Load reads and parses the profile at path.
func Load(path string) (*knob.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	table, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	return table, nil
}

// Parse builds a knob table from profile text. Unknown fields are
// rejected so that a misspelled constraint cannot silently turn into
// an unconstrained knob.
func Parse(data []byte) (*knob.Table, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	if len(doc.Knobs) == 0 {
		return nil, fmt.Errorf("profile declares no knobs")
	}

	var namespace varlist.GUID
	if doc.Namespace != "" {
		g, err := varlist.ParseGUID(doc.Namespace)
		if err != nil {
			return nil, fmt.Errorf("bad namespace: %w", err)
		}
		namespace = g
	}

	knobs := make([]knob.Knob, 0, len(doc.Knobs))
	for i, d := range doc.Knobs {
		k, err := d.build(i, namespace, doc.Namespace != "")
		if err != nil {
			return nil, fmt.Errorf("knob %d (%s): %w", i, d.Name, err)
		}
		knobs = append(knobs, k)
	}
	return knob.NewTable(knobs)
}

func (d declaration) build(pos int, namespace varlist.GUID, haveNamespace bool) (knob.Knob, error) {
	k := knob.Knob{
		ID:         knob.ID(pos),
		Name:       d.Name,
		GUID:       namespace,
		Attributes: varstore.AttrDefault,
	}
	if d.GUID != "" {
		g, err := varlist.ParseGUID(d.GUID)
		if err != nil {
			return knob.Knob{}, fmt.Errorf("bad guid: %w", err)
		}
		k.GUID = g
	} else if !haveNamespace {
		return knob.Knob{}, fmt.Errorf("no guid and the profile declares no namespace")
	}
	if d.Attributes != nil {
		k.Attributes = *d.Attributes
	}

	switch d.Type {
	case "bool":
		return d.buildBool(k)
	case "uint8", "uint16", "uint32", "uint64":
		return d.buildUint(k)
	case "int8", "int16", "int32", "int64":
		return d.buildInt(k)
	case "bytes":
		return d.buildBytes(k)
	case "":
		return knob.Knob{}, fmt.Errorf("missing type")
	default:
		return knob.Knob{}, fmt.Errorf("unknown type %q", d.Type)
	}
}

func (d declaration) buildBool(k knob.Knob) (knob.Knob, error) {
	if d.Size != 0 {
		return knob.Knob{}, fmt.Errorf("size applies to bytes knobs only")
	}
	if len(d.Enum) > 0 || d.Min != nil || d.Max != nil {
		return knob.Knob{}, fmt.Errorf("bool knobs take no range or enum constraints")
	}

	def := byte(0)
	if !d.Default.IsZero() {
		s, err := scalarValue(&d.Default)
		if err != nil {
			return knob.Knob{}, fmt.Errorf("bad default: %w", err)
		}
		v, err := strconv.ParseBool(s)
		if err != nil {
			return knob.Knob{}, fmt.Errorf("bad default %q for bool", s)
		}
		if v {
			def = 1
		}
	}

	k.Size = 1
	k.Default = []byte{def}
	k.Validator = knob.BoolStrict()
	return k, nil
}

func (d declaration) buildUint(k knob.Knob) (knob.Knob, error) {
	if d.Size != 0 {
		return knob.Knob{}, fmt.Errorf("size applies to bytes knobs only")
	}
	width := widths[d.Type]
	bits := width * 8

	var def uint64
	if !d.Default.IsZero() {
		s, err := scalarValue(&d.Default)
		if err != nil {
			return knob.Knob{}, fmt.Errorf("bad default: %w", err)
		}
		def, err = strconv.ParseUint(s, 0, bits)
		if err != nil {
			return knob.Knob{}, fmt.Errorf("default %q does not fit %s", s, d.Type)
		}
	}

	switch {
	case len(d.Enum) > 0 && (d.Min != nil || d.Max != nil):
		return knob.Knob{}, fmt.Errorf("enum and min/max are mutually exclusive")
	case len(d.Enum) > 0:
		vals := make([]uint64, len(d.Enum))
		for i := range d.Enum {
			s, err := scalarValue(&d.Enum[i])
			if err != nil {
				return knob.Knob{}, fmt.Errorf("bad enum value: %w", err)
			}
			vals[i], err = strconv.ParseUint(s, 0, bits)
			if err != nil {
				return knob.Knob{}, fmt.Errorf("enum value %q does not fit %s", s, d.Type)
			}
		}
		k.Validator = knob.OneOfUint(vals...)
	case d.Min != nil || d.Max != nil:
		lo, hi := uint64(0), uintMax(bits)
		if d.Min != nil {
			v, err := parseBoundUint(d.Min, bits)
			if err != nil {
				return knob.Knob{}, fmt.Errorf("bad min: %w", err)
			}
			lo = v
		}
		if d.Max != nil {
			v, err := parseBoundUint(d.Max, bits)
			if err != nil {
				return knob.Knob{}, fmt.Errorf("bad max: %w", err)
			}
			hi = v
		}
		k.Validator = knob.UintRange(lo, hi)
	}

	k.Size = width
	k.Default = leBytes(def, width)
	if k.Validator != nil && !k.Validator.Validate(k.Default) {
		return knob.Knob{}, fmt.Errorf("default %d violates the declared constraints", def)
	}
	return k, nil
}

func (d declaration) buildInt(k knob.Knob) (knob.Knob, error) {
	if d.Size != 0 {
		return knob.Knob{}, fmt.Errorf("size applies to bytes knobs only")
	}
	if len(d.Enum) > 0 {
		return knob.Knob{}, fmt.Errorf("enum requires an unsigned type")
	}
	width := widths[d.Type]
	bits := width * 8

	var def int64
	if !d.Default.IsZero() {
		s, err := scalarValue(&d.Default)
		if err != nil {
			return knob.Knob{}, fmt.Errorf("bad default: %w", err)
		}
		def, err = strconv.ParseInt(s, 0, bits)
		if err != nil {
			return knob.Knob{}, fmt.Errorf("default %q does not fit %s", s, d.Type)
		}
	}

	if d.Min != nil || d.Max != nil {
		lo, hi := intMin(bits), intMax(bits)
		if d.Min != nil {
			v, err := parseBoundInt(d.Min, bits)
			if err != nil {
				return knob.Knob{}, fmt.Errorf("bad min: %w", err)
			}
			lo = v
		}
		if d.Max != nil {
			v, err := parseBoundInt(d.Max, bits)
			if err != nil {
				return knob.Knob{}, fmt.Errorf("bad max: %w", err)
			}
			hi = v
		}
		k.Validator = knob.IntRange(lo, hi)
	}

	k.Size = width
	k.Default = leBytes(uint64(def), width)
	if k.Validator != nil && !k.Validator.Validate(k.Default) {
		return knob.Knob{}, fmt.Errorf("default %d violates the declared constraints", def)
	}
	return k, nil
}

func (d declaration) buildBytes(k knob.Knob) (knob.Knob, error) {
	if len(d.Enum) > 0 || d.Min != nil || d.Max != nil {
		return knob.Knob{}, fmt.Errorf("bytes knobs take no range or enum constraints")
	}
	if d.Size <= 0 {
		return knob.Knob{}, fmt.Errorf("bytes knob needs a positive size")
	}

	def := make([]byte, d.Size)
	if !d.Default.IsZero() {
		s, err := scalarValue(&d.Default)
		if err != nil {
			return knob.Knob{}, fmt.Errorf("bad default: %w", err)
		}
		clean := strings.NewReplacer(":", "", " ", "").Replace(strings.TrimPrefix(s, "0x"))
		raw, err := hex.DecodeString(clean)
		if err != nil {
			return knob.Knob{}, fmt.Errorf("default is not a hex string: %w", err)
		}
		if len(raw) != d.Size {
			return knob.Knob{}, fmt.Errorf("default is %d bytes, declared size is %d", len(raw), d.Size)
		}
		def = raw
	}

	k.Size = d.Size
	k.Default = def
	return k, nil
}

func scalarValue(n *yaml.Node) (string, error) {
	if n.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("expected a scalar value")
	}
	return n.Value, nil
}

func parseBoundUint(n *yaml.Node, bits int) (uint64, error) {
	s, err := scalarValue(n)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(s, 0, bits)
	if err != nil {
		return 0, fmt.Errorf("%q does not fit %d bits", s, bits)
	}
	return v, nil
}

func parseBoundInt(n *yaml.Node, bits int) (int64, error) {
	s, err := scalarValue(n)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(s, 0, bits)
	if err != nil {
		return 0, fmt.Errorf("%q does not fit %d signed bits", s, bits)
	}
	return v, nil
}

func leBytes(v uint64, width int) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b[:width]
}

func uintMax(bits int) uint64 { return uint64(math.MaxUint64) >> (64 - bits) }
func intMin(bits int) int64   { return int64(math.MinInt64) >> (64 - bits) }
func intMax(bits int) int64   { return int64(math.MaxInt64) >> (64 - bits) }
