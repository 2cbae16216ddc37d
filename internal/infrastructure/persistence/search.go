package persistence

import (
	"errors"
	"strings"

	"github.com/invoicedash/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// search matches the ILIKE pattern against any of the columns.
// Column names are constants of this package, never user input.
func search(pattern string, columns ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		conds := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, col := range columns {
			conds[i] = col + " ILIKE ?"
			args[i] = pattern
		}
		return db.Where(strings.Join(conds, " OR "), args...)
	}
}

// page applies the fixed page size and offset of q
func page(q shared.ListQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Limit(shared.ItemsPerPage).Offset(q.Offset())
	}
}

// notFound maps gorm.ErrRecordNotFound to shared.ErrNotFound
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

// affected turns a write that touched no rows into shared.ErrNotFound
func affected(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
