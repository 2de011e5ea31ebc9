package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmbeddedCatalogues(t *testing.T) {
	c := New("")

	languages, err := c.Languages()
	if err != nil {
		t.Fatalf("Languages: %v", err)
	}
	var codes []string
	for _, l := range languages {
		codes = append(codes, l.ISO639_1)
	}
	if got := strings.Join(codes, ","); got != "es,ca,gl,eu,fr,pt" {
		t.Errorf("languages = %s, want es,ca,gl,eu,fr,pt", got)
	}

	venueTypes, err := c.VenueTypes()
	if err != nil {
		t.Fatalf("VenueTypes: %v", err)
	}
	if len(venueTypes) != 14 {
		t.Errorf("len(venue types) = %d, want 14", len(venueTypes))
	}

	timezones, err := c.Timezones()
	if err != nil {
		t.Fatalf("Timezones: %v", err)
	}
	defaults := 0
	for _, tz := range timezones {
		if tz.IsDefault {
			defaults++
		}
	}
	if defaults != 1 {
		t.Errorf("default timezones = %d, want exactly 1", defaults)
	}

	factors, err := c.CarbonEquivalences()
	if err != nil {
		t.Fatalf("CarbonEquivalences: %v", err)
	}
	for _, f := range factors {
		if f.CO2KgPerUnit < 0 {
			t.Errorf("factor %s is negative: %v", f.Slug, f.CO2KgPerUnit)
		}
		if f.Unit == "" {
			t.Errorf("factor %s has no unit", f.Slug)
		}
	}
}

func TestCrossReferences(t *testing.T) {
	c := New("")

	languages, err := c.Languages()
	if err != nil {
		t.Fatalf("Languages: %v", err)
	}
	known := map[string]bool{}
	for _, l := range languages {
		known[l.ISO639_1] = true
	}

	outlets, err := c.MediaOutlets()
	if err != nil {
		t.Fatalf("MediaOutlets: %v", err)
	}
	for _, o := range outlets {
		if !known[o.Language] {
			t.Errorf("outlet %s uses unknown language %q", o.Slug, o.Language)
		}
	}

	timezones, err := c.Timezones()
	if err != nil {
		t.Fatalf("Timezones: %v", err)
	}
	zones := map[string]bool{}
	for _, tz := range timezones {
		zones[tz.Name] = true
	}

	cities, err := c.Cities()
	if err != nil {
		t.Fatalf("Cities: %v", err)
	}
	for _, city := range cities {
		if !zones[city.Timezone] {
			t.Errorf("city %s uses unknown timezone %q", city.Name, city.Timezone)
		}
	}
}

func TestOverrideDirectory(t *testing.T) {
	dir := t.TempDir()
	content := "- iso_639_1: es\n  name: Spanish\n  native_name: Español\n- iso_639_1: en\n  name: English\n  native_name: English\n"
	if err := os.WriteFile(filepath.Join(dir, "languages.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("write override: %v", err)
	}

	c := New(dir)

	languages, err := c.Languages()
	if err != nil {
		t.Fatalf("Languages: %v", err)
	}
	if len(languages) != 2 || languages[1].ISO639_1 != "en" {
		t.Errorf("override not applied: %+v", languages)
	}

	// Files missing from the override directory fall back to the embedded copy.
	venueTypes, err := c.VenueTypes()
	if err != nil {
		t.Fatalf("VenueTypes: %v", err)
	}
	if len(venueTypes) != 14 {
		t.Errorf("len(venue types) = %d, want 14", len(venueTypes))
	}
}

func TestDuplicateKeysRejected(t *testing.T) {
	dir := t.TempDir()
	content := "- slug: bus\n  name: Bus\n  category: transport\n  unit: km\n  co2_kg_per_unit: 0.1\n- slug: bus\n  name: Bus again\n  category: transport\n  unit: km\n  co2_kg_per_unit: 0.2\n"
	if err := os.WriteFile(filepath.Join(dir, "carbon_equivalences.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("write override: %v", err)
	}

	if _, err := New(dir).CarbonEquivalences(); err == nil {
		t.Fatal("expected duplicate slug to be rejected")
	}
}
