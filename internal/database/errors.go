package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
	codeCheckViolation      = "23514"
	codeSerialization       = "40001"
	codeDeadlock            = "40P01"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func IsForeignKeyViolation(err error) bool { return pgCode(err) == codeForeignKeyViolation }

func IsUniqueViolation(err error) bool { return pgCode(err) == codeUniqueViolation }

func IsCheckViolation(err error) bool { return pgCode(err) == codeCheckViolation }

// IsConflict reports whether err is a serialization failure or deadlock that
// a fresh attempt of the same transaction may not hit.
func IsConflict(err error) bool {
	switch pgCode(err) {
	case codeSerialization, codeDeadlock:
		return true
	}
	return false
}
