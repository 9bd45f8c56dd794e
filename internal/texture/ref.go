package texture

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// RefKind classifies a card image reference.
type RefKind uint8

const (
	RefMissing RefKind = iota
	RefMalformed
	// RefEphemeral references only live for one session (object URLs and
	// device-local temp handles) and never survive a reload.
	RefEphemeral
	RefURL
	RefFile
	RefContent // "sha256:<hex>", resolved through an Index
	RefData    // inline data: URI
)

func (k RefKind) String() string {
	switch k {
	case RefMissing:
		return "missing"
	case RefMalformed:
		return "malformed"
	case RefEphemeral:
		return "ephemeral"
	case RefURL:
		return "url"
	case RefFile:
		return "file"
	case RefContent:
		return "content"
	case RefData:
		return "data"
	}
	return "unknown"
}

// Stable reports whether a reference of this kind can be loaded at all.
func (k RefKind) Stable() bool {
	return k >= RefURL
}

var (
	ErrMissing     = errors.New("texture: no image reference")
	ErrMalformed   = errors.New("texture: malformed image reference")
	ErrEphemeral   = errors.New("texture: ephemeral image reference")
	ErrUnsupported = errors.New("texture: unsupported image format")
	ErrNotFound    = errors.New("texture: image not found")
)

var ephemeralPrefixes = []string{"blob:", "tmp:", "session:", "capacitor:"}

var contentRE = regexp.MustCompile(`^sha256:[0-9a-f]{64}$`)

// Classify inspects ref without touching the network or disk.
func Classify(ref string) RefKind {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return RefMissing
	}
	lower := strings.ToLower(ref)
	for _, p := range ephemeralPrefixes {
		if strings.HasPrefix(lower, p) {
			return RefEphemeral
		}
	}
	switch {
	case strings.HasPrefix(lower, "sha256:"):
		if contentRE.MatchString(lower) {
			return RefContent
		}
		return RefMalformed
	case strings.HasPrefix(lower, "data:"):
		if strings.Contains(ref, ",") {
			return RefData
		}
		return RefMalformed
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		u, err := url.Parse(ref)
		if err != nil || u.Host == "" {
			return RefMalformed
		}
		return RefURL
	case strings.HasPrefix(lower, "file://"):
		u, err := url.Parse(ref)
		if err != nil || u.Path == "" {
			return RefMalformed
		}
		return RefFile
	case strings.Contains(lower, "://"):
		return RefMalformed
	}
	if strings.ContainsRune(ref, 0) {
		return RefMalformed
	}
	return RefFile
}

// errFor maps a non-loadable kind to its sentinel error.
func errFor(k RefKind) error {
	switch k {
	case RefMissing:
		return ErrMissing
	case RefEphemeral:
		return ErrEphemeral
	case RefMalformed:
		return ErrMalformed
	}
	return nil
}

// filePath extracts the filesystem path of a RefFile reference.
func filePath(ref string) string {
	if strings.HasPrefix(strings.ToLower(ref), "file://") {
		if u, err := url.Parse(ref); err == nil {
			return u.Path
		}
	}
	return ref
}
