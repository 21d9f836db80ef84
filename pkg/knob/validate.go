package knob

import "encoding/binary"

// Validator vets a resolved value before it is accepted. Returning false
// rejects the value and resolution falls back to the knob's default.
type Validator interface {
	Validate(value []byte) bool
}

// ValidatorFunc adapts a plain function to the Validator interface.
type ValidatorFunc func(value []byte) bool

func (f ValidatorFunc) Validate(value []byte) bool {
	return f(value)
}

// UintRange accepts little-endian unsigned values of 1, 2, 4 or 8 bytes
// within [min, max].
func UintRange(min, max uint64) Validator {
	return ValidatorFunc(func(value []byte) bool {
		v, ok := uintLE(value)
		return ok && v >= min && v <= max
	})
}

// IntRange accepts little-endian two's-complement values of 1, 2, 4 or 8
// bytes within [min, max].
func IntRange(min, max int64) Validator {
	return ValidatorFunc(func(value []byte) bool {
		v, ok := intLE(value)
		return ok && v >= min && v <= max
	})
}

// OneOfUint accepts little-endian unsigned values equal to one of the
// listed values.
func OneOfUint(allowed ...uint64) Validator {
	set := make(map[uint64]struct{}, len(allowed))
	for _, a := range allowed {
		set[a] = struct{}{}
	}
	return ValidatorFunc(func(value []byte) bool {
		v, ok := uintLE(value)
		if !ok {
			return false
		}
		_, ok = set[v]
		return ok
	})
}

// BoolStrict accepts exactly the single bytes 0x00 and 0x01.
func BoolStrict() Validator {
	return ValidatorFunc(func(value []byte) bool {
		return len(value) == 1 && value[0] <= 1
	})
}

func uintLE(v []byte) (uint64, bool) {
	switch len(v) {
	case 1:
		return uint64(v[0]), true
	case 2:
		return uint64(binary.LittleEndian.Uint16(v)), true
	case 4:
		return uint64(binary.LittleEndian.Uint32(v)), true
	case 8:
		return binary.LittleEndian.Uint64(v), true
	}
	return 0, false
}

func intLE(v []byte) (int64, bool) {
	switch len(v) {
	case 1:
		return int64(int8(v[0])), true
	case 2:
		return int64(int16(binary.LittleEndian.Uint16(v))), true
	case 4:
		return int64(int32(binary.LittleEndian.Uint32(v))), true
	case 8:
		return int64(binary.LittleEndian.Uint64(v)), true
	}
	return 0, false
}
