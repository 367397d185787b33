package database

import (
	"fmt"
)

// AreaRepository handles the lazily-created region and state rows that
// routes are tagged with. Cities are pre-seeded and referenced by id only.
type AreaRepository struct {
	db    DB
	retry Retryer
}

// NewAreaRepository creates a new AreaRepository
func NewAreaRepository(db DB, retry Retryer) *AreaRepository {
	return &AreaRepository{db: db, retry: retry}
}

// FindOrCreateRegion resolves a region name to its id, inserting the row on
// first use.
func (r *AreaRepository) FindOrCreateRegion(name string) (int64, error) {
	return r.findOrCreate("regions", name)
}

// FindOrCreateState resolves a state name to its id, inserting the row on
// first use.
func (r *AreaRepository) FindOrCreateState(name string) (int64, error) {
	return r.findOrCreate("states", name)
}

// findOrCreate upserts by unique name and returns the row id in a single
// round trip. The no-op DO UPDATE makes RETURNING yield the existing id on
// conflict.
func (r *AreaRepository) findOrCreate(table, name string) (int64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, table)

	var id int64
	err := r.retry.Do(func() error {
		return r.db.Get(&id, query, name)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to find or create %s row: %w", table, err)
	}
	return id, nil
}
