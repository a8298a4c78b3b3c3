package profile

import (
	"github.com/redhat/upgrade-checks/test/framework/version"
)

// Profile represents a complete upgrade test profile configuration
type Profile struct {
	// Name is the unique identifier for this profile
	Name string `yaml:"name"`

	// Description provides human-readable details about the profile
	Description string `yaml:"description"`

	// Platform contains deployment settings of the system under test
	Platform PlatformConfig `yaml:"platform"`

	// Connection locates the platform's SQL endpoint
	Connection ConnectionConfig `yaml:"connection"`

	// BaseVersion is the version the run starts from (e.g., "0.50.0")
	BaseVersion string `yaml:"baseVersion"`

	// UpgradePath is the ordered list of versions to upgrade through,
	// one per upgrade boundary. Must be strictly ascending and start
	// above BaseVersion.
	UpgradePath []string `yaml:"upgradePath"`
}

// PlatformConfig defines how the system under test is deployed
type PlatformConfig struct {
	// Deployment is the name of the platform's Deployment object
	Deployment string `yaml:"deployment"`

	// Container is the container within the deployment to upgrade.
	// Defaults to the deployment name if empty.
	Container string `yaml:"container,omitempty"`

	// Image is the image repository without a tag (e.g.,
	// "quay.io/platform/server"); versions from the upgrade path are
	// appended as tags
	Image string `yaml:"image"`

	// Services lists auxiliary Deployments the checks may start and
	// stop during a run, keyed by the name checks use
	Services map[string]string `yaml:"services,omitempty"`
}

// ConnectionConfig defines the SQL endpoint of the platform
type ConnectionConfig struct {
	// Host of the SQL listener
	Host string `yaml:"host"`

	// Port of the SQL listener (e.g., 6875)
	Port int `yaml:"port"`

	// User to connect as
	User string `yaml:"user"`

	// Database to connect to
	Database string `yaml:"database"`

	// SSLMode for the connection (defaults to "disable")
	SSLMode string `yaml:"sslMode,omitempty"`
}

// Steps returns the total number of scenario steps this profile drives:
// one initialize step plus one per upgrade boundary.
func (p *Profile) Steps() int {
	return len(p.UpgradePath) + 1
}

// Base returns the parsed base version. The profile must have been
// validated first.
func (p *Profile) Base() version.Version {
	return version.MustParse(p.BaseVersion)
}

// Path returns the parsed upgrade path in order. The profile must have
// been validated first.
func (p *Profile) Path() []version.Version {
	out := make([]version.Version, len(p.UpgradePath))
	for i, raw := range p.UpgradePath {
		out[i] = version.MustParse(raw)
	}
	return out
}
