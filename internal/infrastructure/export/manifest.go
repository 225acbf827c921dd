package export

import (
	"bytes"
	"fmt"
	"time"

	appsales "github.com/ch4444rlie/SyntheticAmazonOrder/internal/application/sales"
	"gopkg.in/yaml.v3"
)

// Manifest is the YAML document written next to the exported tables
type Manifest struct {
	RunID       string         `yaml:"run_id"`
	Seed        uint64         `yaml:"seed"`
	GeneratedAt string         `yaml:"generated_at"`
	Products    ManifestCounts `yaml:"products"`
	Orders      ManifestCounts `yaml:"orders"`
	Invoices    int            `yaml:"invoices"`
	Rows        ManifestRows   `yaml:"rows"`
	Fallbacks   int            `yaml:"naming_fallbacks"`
	Names       []string       `yaml:"product_names"`
	Files       []ManifestFile `yaml:"files"`
}

// ManifestCounts pairs what was asked for with what was produced
type ManifestCounts struct {
	Requested int `yaml:"requested"`
	Generated int `yaml:"generated"`
}

type ManifestRows struct {
	Orders   int `yaml:"orders"`
	Invoices int `yaml:"invoices"`
}

type ManifestFile struct {
	Key         string `yaml:"key"`
	ContentType string `yaml:"content_type"`
	Size        int64  `yaml:"size"`
}

// NewManifest builds a Manifest from a run summary
func NewManifest(s appsales.RunSummary) Manifest {
	m := Manifest{
		RunID:       s.RunID,
		Seed:        s.Seed,
		GeneratedAt: s.GeneratedAt.UTC().Format(time.RFC3339),
		Products:    ManifestCounts{Requested: s.ProductsRequested, Generated: len(s.ProductNames)},
		Orders:      ManifestCounts{Requested: s.OrdersRequested, Generated: s.Orders},
		Invoices:    s.Invoices,
		Rows:        ManifestRows{Orders: s.OrderRows, Invoices: s.InvoiceRows},
		Fallbacks:   s.NamingFallbacks,
		Names:       append([]string(nil), s.ProductNames...),
		Files:       make([]ManifestFile, 0, len(s.Files)),
	}
	for _, f := range s.Files {
		m.Files = append(m.Files, ManifestFile{Key: f.Key, ContentType: f.ContentType, Size: f.Size})
	}
	return m
}

// Encode renders the manifest as YAML
func (m Manifest) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeManifest parses a manifest written by Encode
func DecodeManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return m, nil
}
