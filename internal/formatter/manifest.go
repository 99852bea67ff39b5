package formatter

import (
	"fmt"
	"os"
	"time"

	"github.com/desertthunder/solotter/internal/shared"
)

// ManifestEntry records the outcome of exporting one group.
type ManifestEntry struct {
	Path        string `json:"path"`
	Type        string `json:"type"`
	MemberCount int    `json:"memberCount"`
	File        string `json:"file,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Manifest summarizes a bulk export.
type Manifest struct {
	Handle     string          `json:"handle"`
	Format     Format          `json:"format"`
	ExportedAt time.Time       `json:"exportedAt"`
	Succeeded  int             `json:"succeeded"`
	Failed     int             `json:"failed"`
	Groups     []ManifestEntry `json:"groups"`
}

// WriteManifest writes m as indented JSON to path.
func WriteManifest(m *Manifest, path string) error {
	data, err := shared.MarshalJSON(m, true)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
