package report

import (
	"fmt"
	"io"
	"time"

	"github.com/arloliu/realmrecover"
	"github.com/goccy/go-yaml"
)

// Manifest is the machine-readable summary of a run.
type Manifest struct {
	RunID     string     `yaml:"run_id"`
	StartedAt time.Time  `yaml:"started_at"`
	Input     InputInfo  `yaml:"input"`
	Roots     []RootInfo `yaml:"roots"`
	Match     bool       `yaml:"match"`
	Scan      ScanInfo   `yaml:"scan"`
	Artifacts []Artifact `yaml:"artifacts"`
}

// InputInfo identifies the evidence file.
type InputInfo struct {
	Path   string `yaml:"path"`
	Size   uint64 `yaml:"size"`
	Blake3 string `yaml:"blake3"`
}

// RootInfo summarizes one root walk.
type RootInfo struct {
	Label       string `yaml:"label"`
	Offset      uint64 `yaml:"offset"`
	Active      bool   `yaml:"active"`
	Tables      int    `yaml:"tables"`
	Visited     int    `yaml:"visited"`
	Diagnostics int    `yaml:"diagnostics"`
}

// ScanInfo summarizes the signature scan.
type ScanInfo struct {
	Hits   int `yaml:"hits"`
	All    int `yaml:"all"`
	Unused int `yaml:"unused"`
}

// NewManifest summarizes res. The manifest itself is not listed in artifacts.
func NewManifest(res *realmrecover.Result, source string, artifacts []Artifact) Manifest {
	m := Manifest{
		RunID:     res.RunID.String(),
		StartedAt: res.StartedAt,
		Input: InputInfo{
			Path:   source,
			Size:   res.Size,
			Blake3: res.Digest,
		},
		Match: res.Diff.Match(),
		Scan: ScanInfo{
			Hits:   res.Scan.Hits,
			All:    len(res.Scan.All),
			Unused: len(res.Scan.Unused),
		},
		Artifacts: artifacts,
	}

	for i, root := range res.Header.Roots() {
		w := res.Walks[i]
		m.Roots = append(m.Roots, RootInfo{
			Label:       realmrecover.RootLabel(i),
			Offset:      root,
			Active:      byte(i) == res.Header.RootFlag(),
			Tables:      len(w.Snapshot.Tables),
			Visited:     w.Tracker.Len(),
			Diagnostics: len(w.Diagnostics),
		})
	}

	return m
}

// Encode writes the manifest as YAML.
func (m Manifest) Encode(w io.Writer) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	_, err = w.Write(data)

	return err
}

// ReadManifest parses a manifest written by Encode.
func ReadManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("failed to decode manifest: %w", err)
	}

	return m, nil
}
