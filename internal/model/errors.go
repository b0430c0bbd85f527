package model

import "errors"

var (
	ErrBodyRequired = errors.New("request body required")
	ErrPathsNotList = errors.New("file paths must be a list")
)

// Stable reasons reported in ProcessingError.
const (
	ReasonInvalidPathType  = "Invalid path type"
	ReasonNotAccessible    = "File does not exist or is not accessible"
	ReasonNotFound         = "File not found"
	ReasonInvalidJSON      = "Invalid JSON format"
	ReasonPermissionDenied = "Permission denied"
	ReasonEncoding         = "File encoding error"
	ReasonNotObject        = "File does not contain a JSON object"
	ReasonUsersNotList     = "'users' field must be a list"
	ReasonUnexpected       = "Unexpected error"
	ReasonCancelled        = "Processing cancelled"
)
