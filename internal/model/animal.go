package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Animal struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Sex       string    `db:"sex"` // free text, e.g. "M" / "F"
	BirthDate time.Time `db:"birth_date"`
	// PurchaseDate is nil when the animal was born at the breeder's facility
	PurchaseDate  *time.Time      `db:"purchase_date"`
	PurchasePrice decimal.Decimal `db:"purchase_price"`
	LOPRegistry   string          `db:"lop_registry"`
	BreedID       int64           `db:"breed_id"`
	BreederID     int64           `db:"breeder_id"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`

	// Photos is loaded separately; never nil on a constructed animal
	Photos []*Photo `db:"-"`
}

// NewAnimal returns an animal with an empty, non-nil photo collection.
func NewAnimal() *Animal {
	return &Animal{
		Photos: []*Photo{},
	}
}
