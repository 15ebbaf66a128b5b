package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/kennelworks/kennelbook/internal/model"
)

var ErrBreedNotFound = errors.New("breed not found")

type BreedRepository interface {
	Create(ctx context.Context, breed *model.Breed) error
	ByID(ctx context.Context, id int64) (*model.Breed, error)
	// Breeds returns all breeds ordered by name, for form select lists.
	Breeds(ctx context.Context) ([]*model.Breed, error)
	Update(ctx context.Context, breed *model.Breed) error
	Delete(ctx context.Context, id int64) error
}

type breedRepository struct {
	db *sqlx.DB
}

func NewBreedRepository(db *sqlx.DB) *breedRepository {
	return &breedRepository{db: db}
}

func (r *breedRepository) Create(ctx context.Context, breed *model.Breed) error {
	query := `INSERT INTO breeds (name, registry_name) VALUES ($1, $2) RETURNING id`
	return r.db.QueryRowxContext(ctx, query, breed.Name, breed.RegistryName).Scan(&breed.ID)
}

func (r *breedRepository) ByID(ctx context.Context, id int64) (*model.Breed, error) {
	breed := &model.Breed{}
	err := r.db.GetContext(ctx, breed, `SELECT * FROM breeds WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrBreedNotFound
	}

	return breed, err
}

func (r *breedRepository) Breeds(ctx context.Context) ([]*model.Breed, error) {
	var breeds []*model.Breed
	err := r.db.SelectContext(ctx, &breeds, `SELECT * FROM breeds ORDER BY name`)
	if err != nil {
		return nil, err
	}

	return breeds, nil
}

func (r *breedRepository) Update(ctx context.Context, breed *model.Breed) error {
	query := `UPDATE breeds SET name = $1, registry_name = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, breed.Name, breed.RegistryName, breed.ID)
	return err
}

func (r *breedRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM breeds WHERE id = $1`, id)
	return err
}
