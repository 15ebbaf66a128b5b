package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/kennelworks/kennelbook/internal/model"
)

var ErrBreederNotFound = errors.New("breeder not found")

type BreederRepository interface {
	Create(ctx context.Context, breeder *model.Breeder) error
	ByID(ctx context.Context, id int64) (*model.Breeder, error)
	// Breeders returns all breeders ordered by name, for form select lists.
	Breeders(ctx context.Context) ([]*model.Breeder, error)
	Update(ctx context.Context, breeder *model.Breeder) error
	Delete(ctx context.Context, id int64) error
}

type breederRepository struct {
	db *sqlx.DB
}

func NewBreederRepository(db *sqlx.DB) *breederRepository {
	return &breederRepository{db: db}
}

func (r *breederRepository) Create(ctx context.Context, breeder *model.Breeder) error {
	query := `INSERT INTO breeders (name, commercial_name, address, postal_code, phone, email)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`

	return r.db.QueryRowxContext(ctx, query,
		breeder.Name,
		breeder.CommercialName,
		breeder.Address,
		breeder.PostalCode,
		breeder.Phone,
		breeder.Email,
	).Scan(&breeder.ID)
}

func (r *breederRepository) ByID(ctx context.Context, id int64) (*model.Breeder, error) {
	breeder := &model.Breeder{}
	query := `SELECT * FROM breeders WHERE id = $1`

	err := r.db.GetContext(ctx, breeder, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrBreederNotFound
	}

	return breeder, err
}

func (r *breederRepository) Breeders(ctx context.Context) ([]*model.Breeder, error) {
	var breeders []*model.Breeder
	query := `SELECT * FROM breeders ORDER BY name`

	err := r.db.SelectContext(ctx, &breeders, query)
	if err != nil {
		return nil, err
	}

	return breeders, nil
}

func (r *breederRepository) Update(ctx context.Context, breeder *model.Breeder) error {
	query := `UPDATE breeders
	          SET name = $1, commercial_name = $2, address = $3, postal_code = $4, phone = $5, email = $6
	          WHERE id = $7`

	_, err := r.db.ExecContext(ctx, query,
		breeder.Name,
		breeder.CommercialName,
		breeder.Address,
		breeder.PostalCode,
		breeder.Phone,
		breeder.Email,
		breeder.ID,
	)
	return err
}

func (r *breederRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM breeders WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
