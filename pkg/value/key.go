package value

import "strconv"

// KeyKind discriminates a PropertyKey's spelling.
type KeyKind uint8

const (
	KeyString KeyKind = iota
	KeySymbol
)

// PropertyKey identifies a named property: either a string spelling or a
// Symbol identity. Numeric (array-index) keys are represented as their
// canonical string spelling ("0", "1", ...) at this layer; the indexed fast
// paths parse that spelling back into a uint32 where it matters.
type PropertyKey struct {
	kind KeyKind
	name string
	sym  *Symbol
}

func StringKey(s string) PropertyKey { return PropertyKey{kind: KeyString, name: s} }

func SymbolKey(s *Symbol) PropertyKey { return PropertyKey{kind: KeySymbol, sym: s} }

// KeyFromValue interns a primitive Value (string, symbol, or number) into a
// PropertyKey the way the computed property paths require.
func KeyFromValue(v Value) PropertyKey {
	switch v.Kind() {
	case KindSymbol:
		return SymbolKey(v.AsSymbol())
	case KindString:
		return StringKey(v.AsString())
	case KindNumber:
		return StringKey(formatNumericKey(v.AsNumber()))
	default:
		return StringKey("")
	}
}

func formatNumericKey(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func (k PropertyKey) Kind() KeyKind    { return k.kind }
func (k PropertyKey) IsString() bool   { return k.kind == KeyString }
func (k PropertyKey) IsSymbol() bool   { return k.kind == KeySymbol }
func (k PropertyKey) Name() string     { return k.name }
func (k PropertyKey) Symbol() *Symbol  { return k.sym }

func (k PropertyKey) String() string {
	if k.kind == KeySymbol {
		return k.sym.String()
	}
	return k.name
}

// Hash returns a value suitable as a Go map key that never collides a string
// key with a symbol key, even if the symbol's description equals the string.
func (k PropertyKey) Hash() any {
	if k.kind == KeySymbol {
		return k.sym
	}
	return k.name
}

// ToArrayIndex parses a key's string spelling as a canonical ECMAScript
// array index: digits only, no leading zero except "0" itself, and strictly
// less than 2^32-1 (the max array index; 2^32-1 itself is reserved for
// length overflow and is never a valid index).
func (k PropertyKey) ToArrayIndex() (uint32, bool) {
	if k.kind != KeyString {
		return 0, false
	}
	return ParseArrayIndex(k.name)
}

// ParseArrayIndex applies the same rule directly to a string spelling.
func ParseArrayIndex(s string) (uint32, bool) {
	if s == "" {
		return 0, false
	}
	if s == "0" {
		return 0, true
	}
	if s[0] < '1' || s[0] > '9' {
		return 0, false
	}
	var n uint64
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + uint64(c-'0')
		if n > 0xFFFFFFFE {
			return 0, false
		}
	}
	return uint32(n), true
}
