package effect

// BlendMode is the pixel-combination rule used when a layer's contribution is
// composited onto the image accumulated below it.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota
	BlendMultiply
	BlendScreen
	BlendOverlay
	BlendSoftLight
	BlendHardLight
	BlendColorDodge
	BlendColorBurn

	NumBlendModes
)

var blendNames = [NumBlendModes]string{
	BlendNormal:     "normal",
	BlendMultiply:   "multiply",
	BlendScreen:     "screen",
	BlendOverlay:    "overlay",
	BlendSoftLight:  "soft-light",
	BlendHardLight:  "hard-light",
	BlendColorDodge: "color-dodge",
	BlendColorBurn:  "color-burn",
}

func (b BlendMode) String() string {
	if b >= NumBlendModes {
		return blendNames[BlendNormal]
	}
	return blendNames[b]
}

// ParseBlendMode returns BlendNormal and false for unknown names.
func ParseBlendMode(s string) (BlendMode, bool) {
	for i, n := range blendNames {
		if n == s {
			return BlendMode(i), true
		}
	}
	return BlendNormal, false
}

func (b BlendMode) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText never fails: unknown modes degrade to normal.
func (b *BlendMode) UnmarshalText(text []byte) error {
	*b, _ = ParseBlendMode(string(text))
	return nil
}
