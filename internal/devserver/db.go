package devserver

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func configurePool(sqlDB *sql.DB) {
	const (
		maxOpenConns    = 20
		maxIdleConns    = 10
		connMaxLifetime = 30 * time.Minute
		connMaxIdleTime = 5 * time.Minute
	)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)
}

// InitDB opens postgres when databaseURL is set, an embedded sqlite file
// otherwise. Tests pass ":memory:" through sqlitePath.
func InitDB(ctx context.Context, databaseURL, sqlitePath string) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	if databaseURL != "" {
		db, err = gorm.Open(postgres.Open(databaseURL), &gorm.Config{
			PrepareStmt: true,
			NowFunc:     func() time.Time { return time.Now().UTC() },
		})
	} else {
		if sqlitePath == "" {
			sqlitePath = "devserver.db"
		}
		db, err = gorm.Open(sqlite.Open(sqlitePath), &gorm.Config{})
	}
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if databaseURL != "" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sql.DB handle: %w", err)
		}
		configurePool(sqlDB)

		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := sqlDB.PingContext(pingCtx); err != nil {
			return nil, fmt.Errorf("ping db: %w", err)
		}
	}

	if err := db.AutoMigrate(
		&User{}, &Product{}, &RefreshToken{}, &CartItem{},
		&WishlistItem{}, &Order{}, &OrderItem{}, &PasswordReset{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}
