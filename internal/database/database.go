package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Connect opens and pings a PostgreSQL pool.
func Connect(url string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id SERIAL PRIMARY KEY,
	email TEXT UNIQUE NOT NULL,
	password TEXT NOT NULL,
	name TEXT NOT NULL DEFAULT '',
	role TEXT NOT NULL DEFAULT 'admin'
);

CREATE TABLE IF NOT EXISTS publications (
	id SERIAL PRIMARY KEY,
	title TEXT NOT NULL DEFAULT 'untitled',
	price NUMERIC(14,2) NOT NULL DEFAULT 0,
	currency TEXT NOT NULL DEFAULT 'USD',
	description TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT 'VEHICLE',
	specs JSONB NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS publication_images (
	id SERIAL PRIMARY KEY,
	publication_id INTEGER NOT NULL REFERENCES publications(id) ON DELETE CASCADE,
	image_path TEXT NOT NULL,
	is_cover BOOLEAN NOT NULL DEFAULT FALSE,
	position INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_publication_images_publication_id
	ON publication_images(publication_id);

CREATE TABLE IF NOT EXISTS contacts (
	id SERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	message TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// InitSchema creates the catalog tables when they don't exist yet.
func InitSchema(db *sqlx.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}
