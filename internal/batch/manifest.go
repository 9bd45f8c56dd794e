package batch

import (
	"encoding/json"
	"os"

	"holocard-renderer/internal/material"
)

// ManifestEntry represents one rendered card in the output manifest.
type ManifestEntry struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Rarity   string         `json:"rarity,omitempty"`
	Image    string         `json:"image"`
	Preset   string         `json:"preset"`
	Material material.State `json:"material"`
}

// WriteManifest writes manifest.json for the successful results.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, 0, len(results))
	for _, r := range results {
		if !r.Success {
			continue
		}
		entries = append(entries, ManifestEntry{
			ID:       r.ID,
			Title:    r.Title,
			Rarity:   r.Rarity,
			Image:    r.Image,
			Preset:   r.Preset,
			Material: r.Material,
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
