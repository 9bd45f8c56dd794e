// Package card holds the card record consumed by the viewer and the
// serializable effect state produced for the save flow.
package card

import (
	"encoding/json"
	"fmt"
)

// Record is a card as handed over by the editing side. Rarity and Title
// only tint the fallback texture; they never drive effect logic.
type Record struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Rarity   string `json:"rarity"`
	ImageRef string `json:"imageRef"`
	// DesignMetadata is an opaque blob owned by the editor. It may embed a
	// previously saved effect state.
	DesignMetadata json.RawMessage `json:"designMetadata,omitempty"`
}

// metadataKey is where the effect state lives inside DesignMetadata.
const metadataKey = "effectState"

// EffectState extracts a saved effect state from the design metadata.
// Both the nested {"effectState": {...}} form and a bare state object are
// accepted. ok is false when the metadata holds no state.
func (r Record) EffectState() (st EffectState, ok bool, err error) {
	if len(r.DesignMetadata) == 0 {
		return EffectState{}, false, nil
	}
	var meta map[string]json.RawMessage
	if err := json.Unmarshal(r.DesignMetadata, &meta); err != nil {
		return EffectState{}, false, fmt.Errorf("card: parse metadata %s: %w", r.ID, err)
	}
	raw, nested := meta[metadataKey]
	if !nested {
		if _, bare := meta["layers"]; !bare {
			return EffectState{}, false, nil
		}
		raw = r.DesignMetadata
	}
	if err := json.Unmarshal(raw, &st); err != nil {
		return EffectState{}, false, fmt.Errorf("card: decode effect state %s: %w", r.ID, err)
	}
	return st, true, nil
}

// WithEffectState returns a copy of r whose metadata carries st. Other
// metadata keys are kept.
func (r Record) WithEffectState(st EffectState) (Record, error) {
	meta := map[string]json.RawMessage{}
	if len(r.DesignMetadata) > 0 {
		if err := json.Unmarshal(r.DesignMetadata, &meta); err != nil || meta == nil {
			// Non-object metadata cannot carry extra keys; start over.
			meta = map[string]json.RawMessage{}
		}
	}
	raw, err := json.Marshal(st)
	if err != nil {
		return r, fmt.Errorf("card: encode effect state %s: %w", r.ID, err)
	}
	meta[metadataKey] = raw
	out, err := json.Marshal(meta)
	if err != nil {
		return r, fmt.Errorf("card: encode metadata %s: %w", r.ID, err)
	}
	r.DesignMetadata = out
	return r, nil
}
