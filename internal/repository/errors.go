package repository

import (
	"errors"
	"fmt"

	"go-inventory-api/internal/apperr"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL codes that mean "another writer got there first".
var conflictCodes = map[string]bool{
	"40001": true, // serialization_failure
	"40P01": true, // deadlock_detected
	"55P03": true, // lock_not_available
}

// translateError maps driver and GORM errors onto apperr kinds.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", apperr.ErrDuplicate, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return fmt.Errorf("%w: %s", apperr.ErrDuplicate, pgErr.Message)
		}
		if conflictCodes[pgErr.Code] {
			return fmt.Errorf("%w: %s", apperr.ErrConflict, pgErr.Message)
		}
	}
	return err
}
