package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/CataldiDonato/catalogo-autos/internal/model"
)

type ContactRepository struct {
	db *sqlx.DB
}

func NewContactRepository(db *sqlx.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// Insert saves a contact-form message and fills in the generated id and
// created_at.
func (r *ContactRepository) Insert(ctx context.Context, c *model.Contact) error {
	const query = `
		INSERT INTO contacts (name, email, message)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query, c.Name, c.Email, c.Message).
		Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("ContactRepository.Insert: %w", err)
	}
	return nil
}
