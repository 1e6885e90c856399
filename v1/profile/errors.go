package profile

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Sentinel errors for the profile store. CRUD methods return these already
// translated; callers match with errors.Is.
var (
	// ErrNotFound - no row matched the lookup
	ErrNotFound = errors.New("[Profile] record not found")

	// ErrDuplicate - a unique constraint was violated (e.g. email)
	ErrDuplicate = errors.New("[Profile] duplicate record")

	// ErrInvalidInput - the caller passed an unusable value (empty ID, bad kind)
	ErrInvalidInput = errors.New("[Profile] invalid input")
)

// TranslateError maps GORM errors onto the package sentinels, preserving
// the original error in the chain. gorm.Config.TranslateError is enabled,
// so driver-specific constraint errors already arrive normalized.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	default:
		return err
	}
}

// IsPermanent reports whether retrying the same call cannot help.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrDuplicate) ||
		errors.Is(err, ErrInvalidInput)
}
