package domain

import "errors"

var (
	ErrEmptyCredential    = errors.New("credential must not be empty")
	ErrCredentialConflict = errors.New("credential file already exists")
	ErrEmptyQuestion      = errors.New("question must not be empty")
	ErrNoFiles            = errors.New("no files to process")
	ErrFileTooLarge       = errors.New("file exceeds maximum allowed size")
	ErrBatchFailed        = errors.New("no files were processed")
	ErrUnsupportedFormat  = errors.New("unsupported export format")
)
