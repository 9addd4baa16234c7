package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"

	"github.com/CataldiDonato/catalogo-autos/internal/model"
)

// ErrNotFound signals an unknown publication id. Multi-table writes
// roll back completely before returning it.
var ErrNotFound = errors.New("publication not found")

type PublicationRepository struct {
	DB *sqlx.DB
}

func NewPublicationRepository(db *sqlx.DB) *PublicationRepository {
	return &PublicationRepository{DB: db}
}

// PublicationPatch carries the fields of a partial update. Nil fields
// keep their stored values (COALESCE on the database side).
type PublicationPatch struct {
	Title       *string
	Price       *float64
	Currency    *string
	Description *string
	Category    *model.Category
	Specs       types.JSONText
}

// Create inserts the publication row plus one image row per path, all
// in one transaction. Image position is the slice index and only index
// 0 is the cover. On success p carries its generated id, timestamps and
// hydrated image set.
func (r *PublicationRepository) Create(ctx context.Context, p *model.Publication, imagePaths []string) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("PublicationRepository.Create: begin: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowxContext(ctx, `
		INSERT INTO publications (title, price, currency, description, category, specs)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, p.Title, p.Price, p.Currency, p.Description, string(p.Category), specsArg(p.Specs)).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("PublicationRepository.Create: insert publication: %w", err)
	}

	images, err := insertImages(ctx, tx, p.ID, imagePaths)
	if err != nil {
		return fmt.Errorf("PublicationRepository.Create: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("PublicationRepository.Create: commit: %w", err)
	}
	p.Images = images
	return nil
}

// Update applies a partial field update and, when imagePaths is
// non-empty, replaces the complete image set. An empty imagePaths
// leaves the stored images untouched. Returns ErrNotFound for an
// unknown id with nothing mutated.
func (r *PublicationRepository) Update(ctx context.Context, id int64, patch PublicationPatch, imagePaths []string) (*model.Publication, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("PublicationRepository.Update: begin: %w", err)
	}
	defer tx.Rollback()

	var p model.Publication
	err = tx.GetContext(ctx, &p, `
		UPDATE publications SET
			title       = COALESCE($1, title),
			price       = COALESCE($2, price),
			currency    = COALESCE($3, currency),
			description = COALESCE($4, description),
			category    = COALESCE($5, category),
			specs       = COALESCE($6, specs),
			updated_at  = CURRENT_TIMESTAMP
		WHERE id = $7
		RETURNING id, title, price, currency, description, category, specs, created_at, updated_at
	`, patch.Title, patch.Price, patch.Currency, patch.Description, categoryArg(patch.Category), specsArg(patch.Specs), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("PublicationRepository.Update: update publication: %w", err)
	}

	if len(imagePaths) > 0 {
		if _, err := tx.ExecContext(ctx, `DELETE FROM publication_images WHERE publication_id = $1`, id); err != nil {
			return nil, fmt.Errorf("PublicationRepository.Update: delete images: %w", err)
		}
		p.Images, err = insertImages(ctx, tx, id, imagePaths)
		if err != nil {
			return nil, fmt.Errorf("PublicationRepository.Update: %w", err)
		}
	} else {
		p.Images, err = imagesFor(ctx, tx, id)
		if err != nil {
			return nil, fmt.Errorf("PublicationRepository.Update: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("PublicationRepository.Update: commit: %w", err)
	}
	return &p, nil
}

// Delete removes the publication; its image rows cascade in the schema.
func (r *PublicationRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM publications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("PublicationRepository.Delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("PublicationRepository.Delete: rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PublicationRepository) GetByID(ctx context.Context, id int64) (*model.Publication, error) {
	var p model.Publication
	err := r.DB.GetContext(ctx, &p, `
		SELECT id, title, price, currency, description, category, specs, created_at, updated_at
		FROM publications WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("PublicationRepository.GetByID: %w", err)
	}
	p.Images, err = imagesFor(ctx, r.DB, id)
	if err != nil {
		return nil, fmt.Errorf("PublicationRepository.GetByID: %w", err)
	}
	return &p, nil
}

// GetAll returns publications with their ordered image sets, optionally
// filtered by category. Images is always non-nil in the result.
func (r *PublicationRepository) GetAll(ctx context.Context, category string) ([]model.Publication, error) {
	query := `
		SELECT id, title, price, currency, description, category, specs, created_at, updated_at
		FROM publications`
	args := []interface{}{}
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY id ASC`

	var pubs []model.Publication
	if err := r.DB.SelectContext(ctx, &pubs, query, args...); err != nil {
		return nil, fmt.Errorf("PublicationRepository.GetAll: %w", err)
	}
	if len(pubs) == 0 {
		return []model.Publication{}, nil
	}

	ids := make([]int64, len(pubs))
	for i := range pubs {
		ids[i] = pubs[i].ID
	}
	var images []model.PublicationImage
	err := r.DB.SelectContext(ctx, &images, `
		SELECT id, publication_id, image_path, is_cover, position
		FROM publication_images
		WHERE publication_id = ANY($1)
		ORDER BY publication_id, position
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("PublicationRepository.GetAll: images: %w", err)
	}

	grouped := make(map[int64][]model.PublicationImage, len(pubs))
	for _, img := range images {
		grouped[img.PublicationID] = append(grouped[img.PublicationID], img)
	}
	for i := range pubs {
		pubs[i].Images = grouped[pubs[i].ID]
		if pubs[i].Images == nil {
			pubs[i].Images = []model.PublicationImage{}
		}
	}
	return pubs, nil
}

// insertImages writes the ordered image set for a publication: position
// is the index, the first path is the cover.
func insertImages(ctx context.Context, tx *sqlx.Tx, publicationID int64, paths []string) ([]model.PublicationImage, error) {
	images := make([]model.PublicationImage, 0, len(paths))
	for i, path := range paths {
		img := model.PublicationImage{
			PublicationID: publicationID,
			ImagePath:     path,
			IsCover:       i == 0,
			Position:      i,
		}
		err := tx.QueryRowxContext(ctx, `
			INSERT INTO publication_images (publication_id, image_path, is_cover, position)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, publicationID, path, i == 0, i).Scan(&img.ID)
		if err != nil {
			return nil, fmt.Errorf("insert image %d: %w", i, err)
		}
		images = append(images, img)
	}
	return images, nil
}

type queryer interface {
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

func imagesFor(ctx context.Context, q queryer, publicationID int64) ([]model.PublicationImage, error) {
	images := []model.PublicationImage{}
	err := q.SelectContext(ctx, &images, `
		SELECT id, publication_id, image_path, is_cover, position
		FROM publication_images
		WHERE publication_id = $1
		ORDER BY position
	`, publicationID)
	if err != nil {
		return nil, fmt.Errorf("select images: %w", err)
	}
	return images, nil
}

// specsArg passes NULL for an absent specs value so COALESCE keeps the
// stored column, and raw JSON bytes otherwise.
func specsArg(specs types.JSONText) interface{} {
	if specs == nil {
		return nil
	}
	return []byte(specs)
}

func categoryArg(c *model.Category) interface{} {
	if c == nil {
		return nil
	}
	return string(*c)
}
