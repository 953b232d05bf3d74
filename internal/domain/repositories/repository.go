package repositories

import (
	"errors"
	"fmt"

	"github.com/funnelmanager/funnel-composer-api/internal/domain/entities"
	"gorm.io/gorm"
)

// The repositories are the only layer touching the store. Each constructor
// takes a *gorm.DB so the use cases can rebuild a repository on a transaction
// handle and keep multi-table writes atomic.
//
// GORM runs with TranslateError enabled, so store-enforced constraint
// failures arrive as gorm.ErrDuplicatedKey / gorm.ErrForeignKeyViolated and
// can be mapped onto the same typed kinds the advisory pre-checks use. A
// caller can never tell a lost race from a plain duplicate.

// translateWrite maps a write failure to a typed error. onDuplicate is the
// kind a uniqueness violation should surface as for that table.
func translateWrite(err error, onDuplicate error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return onDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return entities.ErrConstraintViolation
	default:
		return fmt.Errorf("%w: %v", entities.ErrPersistence, err)
	}
}

// translateRead maps a read failure, surfacing notFound for missing rows.
func translateRead(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	default:
		return fmt.Errorf("%w: %v", entities.ErrPersistence, err)
	}
}

// IsCatalogMiss reports whether err means a catalog lookup (step, section,
// component) found nothing, for callers using lookups as existence checks.
func IsCatalogMiss(err error) bool {
	return errors.Is(err, entities.ErrUnknownStep) ||
		errors.Is(err, entities.ErrUnknownSection) ||
		errors.Is(err, entities.ErrUnknownComponent)
}
