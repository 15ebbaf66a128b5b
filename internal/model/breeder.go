package model

type Breeder struct {
	ID             int64  `db:"id"`
	Name           string `db:"name"`
	CommercialName string `db:"commercial_name"` // trade name in the dog-selling business
	Address        string `db:"address"`
	PostalCode     string `db:"postal_code"`
	Phone          string `db:"phone"`
	Email          string `db:"email"`
}
