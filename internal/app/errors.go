package app

import "errors"

// Sentinel kinds for service errors.
var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidRecord    = errors.New("invalid score record")
)
