package postgres

import (
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Kerhoff/giftlist/internal/repository"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// translate maps Postgres constraint violations onto repository sentinels so
// callers never depend on driver error types.
func translate(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case codeUniqueViolation:
		return fmt.Errorf("%w: %s", repository.ErrDuplicate, pqErr.Constraint)
	case codeForeignKeyViolation:
		return fmt.Errorf("%w: %s", repository.ErrForeignKey, pqErr.Constraint)
	}
	return err
}
