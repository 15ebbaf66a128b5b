package model

type Breed struct {
	ID           int64  `db:"id"`
	Name         string `db:"name"`
	RegistryName string `db:"registry_name"` // official name in the breed registry
}
