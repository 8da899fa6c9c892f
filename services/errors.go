package services

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Errors returned by the services. Callers match them with errors.Is; the
// wrapped message names the offending entity.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrSelfReference      = errors.New("cannot team with yourself")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
	ErrGameFull           = errors.New("game is full")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func validateInput(input interface{}) error {
	if err := validate.Struct(input); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// lookupError turns a repository read error into ErrNotFound when the row is
// missing, e.g. `user "bob" not found`.
func lookupError(what string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %w", what, ErrNotFound)
	}
	return fmt.Errorf("database error retrieving %s: %w", what, err)
}

// writeError turns a unique-constraint violation into ErrConflict.
func writeError(what string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s %w", what, ErrConflict)
	}
	return fmt.Errorf("failed to save %s: %w", what, err)
}

// requireAbsent fails with ErrConflict when a lookup found a row.
func requireAbsent(what string, err error) error {
	if err == nil {
		return fmt.Errorf("%s %w", what, ErrConflict)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return fmt.Errorf("database error checking %s: %w", what, err)
}
