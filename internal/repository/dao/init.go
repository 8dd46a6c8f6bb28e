package dao

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&UserRole{},
		&ExhibitorProfile{},
		&Exhibition{},
		&Application{},
		&Registration{},
		&Property{},
	)
}

// DropTables is used by the integration tests to start from a clean schema.
func DropTables(db *gorm.DB) error {
	return db.Migrator().DropTable(
		&Property{},
		&Registration{},
		&Application{},
		&Exhibition{},
		&ExhibitorProfile{},
		&UserRole{},
		&User{},
	)
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation
}
