package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/redhat/upgrade-checks/test/framework/version"
)

// Load reads a profile from a YAML file
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file %s: %w", path, err)
	}

	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}

	if err := Validate(&profile); err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", path, err)
	}

	return &profile, nil
}

// LoadAll reads all YAML profiles from a directory
func LoadAll(dir string) ([]*Profile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles directory %s: %w", dir, err)
	}

	var profiles []*Profile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}

		profile, err := Load(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}

	return profiles, nil
}

// LoadByName loads one profile by name from a directory
func LoadByName(dir, name string) (*Profile, error) {
	// Try with .yaml extension first, then .yml
	path := filepath.Join(dir, name+".yaml")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		path = filepath.Join(dir, name+".yml")
	}

	profile, err := Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile %q: %w", name, err)
	}
	return profile, nil
}

// Validate checks that a profile has all required fields and a
// well-formed, strictly ascending upgrade path
func Validate(p *Profile) error {
	if p.Name == "" {
		return fmt.Errorf("profile name is required")
	}

	if p.Platform.Deployment == "" {
		return fmt.Errorf("platform.deployment is required")
	}
	if p.Platform.Image == "" {
		return fmt.Errorf("platform.image is required")
	}
	if strings.Contains(p.Platform.Image, ":") {
		return fmt.Errorf("platform.image must not carry a tag, got %q", p.Platform.Image)
	}

	if p.Connection.Host == "" {
		return fmt.Errorf("connection.host is required")
	}
	if p.Connection.Port <= 0 {
		return fmt.Errorf("connection.port must be positive, got %d", p.Connection.Port)
	}

	base, err := version.Parse(p.BaseVersion)
	if err != nil {
		return fmt.Errorf("baseVersion: %w", err)
	}

	if len(p.UpgradePath) == 0 {
		return fmt.Errorf("upgradePath must list at least one version")
	}
	prev := base
	for i, raw := range p.UpgradePath {
		v, err := version.Parse(raw)
		if err != nil {
			return fmt.Errorf("upgradePath[%d]: %w", i, err)
		}
		if !prev.Less(v) {
			return fmt.Errorf("upgradePath[%d]: %s does not advance past %s", i, v, prev)
		}
		prev = v
	}

	return nil
}

// ListProfileNames returns the names of all profiles in a directory
func ListProfileNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".yaml") {
			names = append(names, strings.TrimSuffix(name, ".yaml"))
		} else if strings.HasSuffix(name, ".yml") {
			names = append(names, strings.TrimSuffix(name, ".yml"))
		}
	}

	return names, nil
}
