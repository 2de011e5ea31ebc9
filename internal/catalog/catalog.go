// Package catalog holds the fixed reference lists seeded verbatim:
// languages, timezones, venue types, carbon equivalence factors and the like.
// The lists ship embedded as YAML; a directory configured as catalog_dir can
// override any of them file by file.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var embedded embed.FS

type Language struct {
	ISO639_1   string `yaml:"iso_639_1"`
	Name       string `yaml:"name"`
	NativeName string `yaml:"native_name"`
	SortOrder  int    `yaml:"sort_order"`
}

type Timezone struct {
	Name      string `yaml:"name"`
	Label     string `yaml:"label"`
	UTCOffset string `yaml:"utc_offset"`
	IsDefault bool   `yaml:"is_default"`
}

type VenueType struct {
	Slug        string `yaml:"slug"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
}

type CarbonEquivalence struct {
	Slug         string  `yaml:"slug"`
	Name         string  `yaml:"name"`
	Category     string  `yaml:"category"`
	Unit         string  `yaml:"unit"`
	CO2KgPerUnit float64 `yaml:"co2_kg_per_unit"`
	Source       string  `yaml:"source"`
	Description  string  `yaml:"description"`
}

type Achievement struct {
	Slug        string `yaml:"slug"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
	Points      int    `yaml:"points"`
	Threshold   int    `yaml:"threshold"`
	Icon        string `yaml:"icon"`
}

type Badge struct {
	Slug        string `yaml:"slug"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Tier        string `yaml:"tier"`
	Color       string `yaml:"color"`
}

type PlantSpecies struct {
	ScientificName      string  `yaml:"scientific_name"`
	CommonName          string  `yaml:"common_name"`
	Family              string  `yaml:"family"`
	PlantType           string  `yaml:"plant_type"`
	NativeRegion        string  `yaml:"native_region"`
	CO2AbsorptionKgYear float64 `yaml:"co2_absorption_kg_year"`
	WaterNeeds          string  `yaml:"water_needs"`
	IsNative            bool    `yaml:"is_native"`
}

type MediaOutlet struct {
	Slug         string `yaml:"slug"`
	Name         string `yaml:"name"`
	OutletType   string `yaml:"outlet_type"`
	Website      string `yaml:"website"`
	Language     string `yaml:"language"` // ISO 639-1 code
	Coverage     string `yaml:"coverage"`
	AudienceSize int    `yaml:"audience_size"`
	IsVerified   bool   `yaml:"is_verified"`
}

type Cooperative struct {
	Name string `yaml:"name"`
	City string `yaml:"city"`
	Type string `yaml:"type"`
}

type City struct {
	Name      string  `yaml:"name"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	Timezone  string  `yaml:"timezone"`
}

type Catalog struct {
	base     fs.FS
	override fs.FS
}

// New returns the embedded catalogue, optionally overridden by the YAML files
// found in dir.
func New(dir string) *Catalog {
	base, _ := fs.Sub(embedded, "data")
	c := &Catalog{base: base}
	if dir != "" {
		c.override = os.DirFS(dir)
	}
	return c
}

func (c *Catalog) read(name string) ([]byte, error) {
	if c.override != nil {
		data, err := fs.ReadFile(c.override, name)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
	}
	return fs.ReadFile(c.base, path.Clean(name))
}

// load decodes a YAML list and rejects empty or duplicate natural keys.
func load[T any](c *Catalog, name string, key func(T) string) ([]T, error) {
	data, err := c.read(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalogue %s: %w", name, err)
	}

	var items []T
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse catalogue %s: %w", name, err)
	}

	seen := make(map[string]bool, len(items))
	for i, item := range items {
		k := key(item)
		if k == "" {
			return nil, fmt.Errorf("catalogue %s: entry %d has an empty key", name, i)
		}
		if seen[k] {
			return nil, fmt.Errorf("catalogue %s: duplicate key %q", name, k)
		}
		seen[k] = true
	}
	return items, nil
}

func (c *Catalog) Languages() ([]Language, error) {
	return load(c, "languages.yaml", func(l Language) string { return l.ISO639_1 })
}

func (c *Catalog) Timezones() ([]Timezone, error) {
	return load(c, "timezones.yaml", func(tz Timezone) string { return tz.Name })
}

func (c *Catalog) VenueTypes() ([]VenueType, error) {
	return load(c, "venue_types.yaml", func(v VenueType) string { return v.Slug })
}

func (c *Catalog) CarbonEquivalences() ([]CarbonEquivalence, error) {
	return load(c, "carbon_equivalences.yaml", func(e CarbonEquivalence) string { return e.Slug })
}

func (c *Catalog) Achievements() ([]Achievement, error) {
	return load(c, "achievements.yaml", func(a Achievement) string { return a.Slug })
}

func (c *Catalog) Badges() ([]Badge, error) {
	return load(c, "badges.yaml", func(b Badge) string { return b.Slug })
}

func (c *Catalog) PlantSpecies() ([]PlantSpecies, error) {
	return load(c, "plant_species.yaml", func(p PlantSpecies) string { return p.ScientificName })
}

func (c *Catalog) MediaOutlets() ([]MediaOutlet, error) {
	return load(c, "media_outlets.yaml", func(m MediaOutlet) string { return m.Slug })
}

func (c *Catalog) Cooperatives() ([]Cooperative, error) {
	return load(c, "cooperatives.yaml", func(co Cooperative) string { return co.Name })
}

func (c *Catalog) Cities() ([]City, error) {
	return load(c, "cities.yaml", func(ci City) string { return ci.Name })
}
