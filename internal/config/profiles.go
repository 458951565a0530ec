package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"namespotter.com/namespotter-go/internal/cv"
)

// RegionProfile is a named capture region that can be recalled by name.
type RegionProfile struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	X           int    `yaml:"x"`
	Y           int    `yaml:"y"`
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
}

// Region converts the profile to a capture region.
func (p RegionProfile) Region() cv.Region {
	return cv.Region{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height}
}

type profileFile struct {
	Profiles []RegionProfile `yaml:"profiles"`
}

// LoadProfiles reads region profiles from a YAML file. A missing file is
// not an error; it returns an empty set.
func LoadProfiles(path string) ([]RegionProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read profiles file: %w", err)
	}

	var file profileFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse profiles file: %w", err)
	}

	for _, p := range file.Profiles {
		if p.Name == "" {
			return nil, fmt.Errorf("profile with empty name in %s", path)
		}
		if !p.Region().Valid() {
			return nil, fmt.Errorf("profile %q has invalid dimensions %dx%d", p.Name, p.Width, p.Height)
		}
	}
	return file.Profiles, nil
}

// SaveProfiles writes region profiles to a YAML file, sorted by name.
func SaveProfiles(path string, profiles []RegionProfile) error {
	sorted := make([]RegionProfile, len(profiles))
	copy(sorted, profiles)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	data, err := yaml.Marshal(profileFile{Profiles: sorted})
	if err != nil {
		return fmt.Errorf("failed to encode profiles: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// FindProfile returns the profile with the given name.
func FindProfile(profiles []RegionProfile, name string) (RegionProfile, bool) {
	for _, p := range profiles {
		if p.Name == name {
			return p, true
		}
	}
	return RegionProfile{}, false
}
