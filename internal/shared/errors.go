package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")

	// API and service errors
	ErrRemoteAPI          = fmt.Errorf("twitter API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrTimeout            = fmt.Errorf("operation timed out")
	ErrSnapshotNotFound   = fmt.Errorf("snapshot not found")

	// Group errors
	ErrInvalidPath          = fmt.Errorf("invalid group path")
	ErrInvalidGroupType     = fmt.Errorf("invalid group type")
	ErrUnsupportedOperation = fmt.Errorf("unsupported operation")

	// Snapshot errors
	ErrInvalidSnapshot = fmt.Errorf("invalid snapshot")
	ErrDuplicateMember = fmt.Errorf("duplicate member in snapshot")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
