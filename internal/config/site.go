package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Site describes the measurement site; its fields travel with every product
// as provenance. Loaded from a YAML file so one deployment can be repointed
// between stations without code changes.
type Site struct {
	Name      string  `yaml:"name" json:"name"`
	Latitude  float64 `yaml:"latitude" json:"latitude"`
	Longitude float64 `yaml:"longitude" json:"longitude"`
	Altitude  float64 `yaml:"altitude" json:"altitude"` // metres above mean sea level
}

// LoadSite reads and validates a site metadata file.
func LoadSite(path string) (Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Site{}, fmt.Errorf("read site config: %w", err)
	}
	var site Site
	if err := yaml.Unmarshal(data, &site); err != nil {
		return Site{}, fmt.Errorf("parse site config %s: %w", path, err)
	}
	if site.Name == "" {
		return Site{}, fmt.Errorf("site config %s: name is required", path)
	}
	if site.Latitude < -90 || site.Latitude > 90 {
		return Site{}, fmt.Errorf("site config %s: latitude %v out of range", path, site.Latitude)
	}
	if site.Longitude < -180 || site.Longitude > 180 {
		return Site{}, fmt.Errorf("site config %s: longitude %v out of range", path, site.Longitude)
	}
	return site, nil
}
