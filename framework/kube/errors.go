package kube

import "errors"

var (
	// ErrNamespaceRequired indicates that a namespace was not provided
	ErrNamespaceRequired = errors.New("namespace is required")

	// ErrClusterConnection indicates failure to connect to the cluster
	ErrClusterConnection = errors.New("failed to connect to cluster")

	// ErrProfileRequired indicates an environment was built without a profile
	ErrProfileRequired = errors.New("profile is required")

	// ErrUpgradePathExhausted indicates an upgrade step past the end of the
	// profile's upgrade path
	ErrUpgradePathExhausted = errors.New("no versions left on the upgrade path")

	// ErrUnknownService indicates a service name the profile does not define
	ErrUnknownService = errors.New("service not defined in profile")

	// ErrUnknownHandle indicates a Join with a handle this environment did not issue
	ErrUnknownHandle = errors.New("handle was not issued by this environment")
)
