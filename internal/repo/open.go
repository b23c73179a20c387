package repo

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/diary/internal/db"
)

// Open connects the backend named by the scheme of dsn and migrates it.
func Open(ctx context.Context, dsn string) (Store, error) {
	driver, err := db.DriverOf(dsn)
	if err != nil {
		return nil, err
	}

	var store Store
	if driver == db.DriverMongo {
		mdb, err := db.OpenMongo(ctx, dsn)
		if err != nil {
			return nil, err
		}
		store = &MongoRepo{DB: mdb}
	} else {
		gdb, err := db.Open(ctx, dsn)
		if err != nil {
			return nil, err
		}
		store = &GormRepo{DB: gdb}
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("migrate %s store: %w", driver, err)
	}
	return store, nil
}
