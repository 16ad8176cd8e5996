package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/iliyamo/hotel-reservation/internal/config"
)

// Open connects to one MySQL store and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATE/DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// OpenStores opens every configured logical store and returns the handles
// keyed by store name.  Any failure closes the handles opened so far.
func OpenStores(stores map[string]config.StoreConfig) (map[string]*sql.DB, error) {
	opened := make(map[string]*sql.DB, len(stores))
	for name, sc := range stores {
		db, err := Open(sc.User, sc.Pass, sc.Host, sc.Port, sc.Name)
		if err != nil {
			for _, d := range opened {
				_ = d.Close()
			}
			return nil, fmt.Errorf("open store %s: %w", name, err)
		}
		opened[name] = db
	}
	return opened, nil
}
