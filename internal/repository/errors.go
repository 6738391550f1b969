package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicate reports a unique constraint violation.
var ErrDuplicate = errors.New("duplicate record")

// ErrReferenceMissing reports a foreign key violation.
var ErrReferenceMissing = errors.New("referenced record missing")

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return errors.Join(ErrDuplicate, err)
		case pgForeignKeyViolation:
			return errors.Join(ErrReferenceMissing, err)
		}
	}
	return err
}
