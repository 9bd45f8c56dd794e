package effect

import "fmt"

// Kind identifies one cosmetic effect. The set is closed: every per-kind table
// in the renderer is an array of length NumKinds.
type Kind uint8

const (
	Holographic Kind = iota
	Metallic
	Chrome
	Crystal
	Foil
	Vintage
	Particle
	Glow
	Prismatic
	Interference
	BrushedMetal
	GoldFoil

	NumKinds
)

var kindNames = [NumKinds]string{
	Holographic:  "holographic",
	Metallic:     "metallic",
	Chrome:       "chrome",
	Crystal:      "crystal",
	Foil:         "foil",
	Vintage:      "vintage",
	Particle:     "particle",
	Glow:         "glow",
	Prismatic:    "prismatic",
	Interference: "interference",
	BrushedMetal: "brushedMetal",
	GoldFoil:     "goldFoil",
}

// Kinds returns every valid kind in declaration order.
func Kinds() []Kind {
	ks := make([]Kind, NumKinds)
	for i := range ks {
		ks[i] = Kind(i)
	}
	return ks
}

func (k Kind) Valid() bool {
	return k < NumKinds
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
	return kindNames[k]
}

// ParseKind maps a persisted type name to a Kind.
func ParseKind(s string) (Kind, bool) {
	for i, n := range kindNames {
		if n == s {
			return Kind(i), true
		}
	}
	return 0, false
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("effect: invalid kind %d", uint8(k))
	}
	return []byte(kindNames[k]), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	v, ok := ParseKind(string(b))
	if !ok {
		return fmt.Errorf("effect: unknown kind %q", b)
	}
	*k = v
	return nil
}
