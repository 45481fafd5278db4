// Package errors provides structured error handling for centrefind.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: Storage and filesystem errors
//   - 4XX: Validation errors
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file and storage I/O errors.
	CategoryIO Category = "IO"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// Storage / filesystem errors (200-299)
	ErrCodeStorageOpen    = "ERR_201_STORAGE_OPEN"
	ErrCodeStorageIO      = "ERR_202_STORAGE_IO"
	ErrCodeCorruptIndex   = "ERR_203_CORRUPT_INDEX"
	ErrCodeRebuildLocked  = "ERR_204_REBUILD_LOCKED"
	ErrCodeRootNotFound   = "ERR_205_ROOT_NOT_FOUND"
	ErrCodeAccelerator    = "ERR_206_ACCELERATOR"

	// Validation errors (400-499)
	ErrCodeInvalidTarget = "ERR_401_INVALID_TARGET"
	ErrCodeInvalidQuery  = "ERR_402_INVALID_QUERY"

	// Internal errors (500-599)
	ErrCodeInternal = "ERR_501_INTERNAL"
)

// categoryFromCode derives the error category from the code's number range.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode derives the severity from the code.
// Locked rebuilds and missing roots are recoverable by the caller;
// everything else defaults to ERROR.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeRootNotFound, ErrCodeAccelerator:
		return SeverityWarning
	case ErrCodeStorageIO:
		return SeverityFatal
	default:
		return SeverityError
	}
}
