package errors

import "errors"

var (
	ErrNotFound = errors.New("menu document not found")

	ErrInvalidID = errors.New("invalid menu document ID format")

	ErrFileMissing = errors.New("menu document file missing from storage")

	ErrInvalidMIME = errors.New("uploaded file is not a PDF")

	ErrFileTooLarge = errors.New("uploaded file exceeds size limit")
)
