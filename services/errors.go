package services

import "errors"

// Common errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrValidation         = errors.New("validation error")
	ErrTitleRequired      = errors.New("title is required")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInternal           = errors.New("internal server error")

	// Upload errors
	ErrFileTooLarge    = errors.New("file too large")
	ErrInvalidFileType = errors.New("invalid file type")
	ErrNoFilesUploaded = errors.New("no files were successfully uploaded")
	ErrNoLogoUploaded  = errors.New("no logo file uploaded")
)
