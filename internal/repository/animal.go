package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/kennelworks/kennelbook/internal/model"
)

var (
	ErrAnimalNotFound = errors.New("animal not found")

	// ErrConflict reports an optimistic-concurrency failure: the row changed
	// or vanished between read and write. Distinguishable from generic
	// persistence failure so the caller can decide which it was.
	ErrConflict = errors.New("animal was modified concurrently")
)

type AnimalRepository interface {
	// Create inserts the animal and its photo rows as one atomic unit.
	Create(ctx context.Context, animal *model.Animal) error
	ByID(ctx context.Context, id int64) (*model.Animal, error)
	Animals(ctx context.Context) ([]*model.Animal, error)
	ByBreeder(ctx context.Context, breederID int64) ([]*model.Animal, error)
	// Update writes the row guarded by the updated_at token read at load
	// time; a stale token yields ErrConflict.
	Update(ctx context.Context, animal *model.Animal, token time.Time) error
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
	CountByBreeder(ctx context.Context, breederID int64) (int, error)
	CountByBreed(ctx context.Context, breedID int64) (int, error)
}

type animalRepository struct {
	db *sqlx.DB
}

func NewAnimalRepository(db *sqlx.DB) *animalRepository {
	return &animalRepository{db: db}
}

func (r *animalRepository) Create(ctx context.Context, animal *model.Animal) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// RETURNING works on both sqlite and postgres; LastInsertId does not.
	query := `INSERT INTO animals (name, sex, birth_date, purchase_date, purchase_price, lop_registry, breed_id, breeder_id, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING id`

	err = tx.QueryRowxContext(ctx, query,
		animal.Name,
		animal.Sex,
		animal.BirthDate,
		animal.PurchaseDate,
		animal.PurchasePrice,
		animal.LOPRegistry,
		animal.BreedID,
		animal.BreederID,
		animal.CreatedAt,
		animal.UpdatedAt,
	).Scan(&animal.ID)
	if err != nil {
		return err
	}

	for _, photo := range animal.Photos {
		photo.AnimalID = animal.ID

		photoQuery := `INSERT INTO photos (animal_id, filename, location, created_at)
		               VALUES ($1, $2, $3, $4)
		               RETURNING id`
		err = tx.QueryRowxContext(ctx, photoQuery,
			photo.AnimalID,
			photo.Filename,
			photo.Location,
			photo.CreatedAt,
		).Scan(&photo.ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *animalRepository) ByID(ctx context.Context, id int64) (*model.Animal, error) {
	animal := model.NewAnimal()
	query := `SELECT * FROM animals WHERE id = $1`

	err := r.db.GetContext(ctx, animal, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrAnimalNotFound
	}
	if err != nil {
		return nil, err
	}

	err = r.db.SelectContext(ctx, &animal.Photos, `SELECT * FROM photos WHERE animal_id = $1`, id)
	if err != nil {
		return nil, err
	}
	if animal.Photos == nil {
		animal.Photos = []*model.Photo{}
	}

	return animal, nil
}

func (r *animalRepository) Animals(ctx context.Context) ([]*model.Animal, error) {
	var animals []*model.Animal
	query := `SELECT * FROM animals ORDER BY name`

	err := r.db.SelectContext(ctx, &animals, query)
	if err != nil {
		return nil, err
	}

	return animals, nil
}

func (r *animalRepository) ByBreeder(ctx context.Context, breederID int64) ([]*model.Animal, error) {
	var animals []*model.Animal
	query := `SELECT * FROM animals WHERE breeder_id = $1 ORDER BY name`

	err := r.db.SelectContext(ctx, &animals, query, breederID)
	if err != nil {
		return nil, err
	}

	return animals, nil
}

func (r *animalRepository) Update(ctx context.Context, animal *model.Animal, token time.Time) error {
	query := `UPDATE animals
	          SET name = $1, sex = $2, birth_date = $3, purchase_date = $4, purchase_price = $5, lop_registry = $6, breed_id = $7, breeder_id = $8, updated_at = $9
	          WHERE id = $10 AND updated_at = $11`

	res, err := r.db.ExecContext(ctx, query,
		animal.Name,
		animal.Sex,
		animal.BirthDate,
		animal.PurchaseDate,
		animal.PurchasePrice,
		animal.LOPRegistry,
		animal.BreedID,
		animal.BreederID,
		animal.UpdatedAt,
		animal.ID,
		token,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrConflict
	}

	return nil
}

func (r *animalRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM animals WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *animalRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(1) FROM animals WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *animalRepository) CountByBreeder(ctx context.Context, breederID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(1) FROM animals WHERE breeder_id = $1`, breederID)
	return count, err
}

func (r *animalRepository) CountByBreed(ctx context.Context, breedID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(1) FROM animals WHERE breed_id = $1`, breedID)
	return count, err
}
