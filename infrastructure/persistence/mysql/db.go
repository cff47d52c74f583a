package mysql

import (
	"context"
	"errors"
	"strings"

	"storefront/infrastructure/persistence"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// getDB returns the transaction from context if available, otherwise the default db
func getDB(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return db.WithContext(ctx)
}

// inTx uses the unit of work's transaction when there is one and opens its
// own otherwise, so multi-statement saves stay atomic either way.
func inTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return fn(tx)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return strings.Contains(err.Error(), "Duplicate entry")
}
