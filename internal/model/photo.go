package model

import (
	"time"
)

const (
	// PlaceholderPhotoFilename is the sentinel stored name attached when no
	// image was uploaded for an animal.
	PlaceholderPhotoFilename = "noAnimal.jpg"
	// PlaceholderPhotoLocation is the sentinel location tag of the placeholder.
	PlaceholderPhotoLocation = "no image"
)

type Photo struct {
	ID        int64     `db:"id"`
	AnimalID  int64     `db:"animal_id"`
	Filename  string    `db:"filename"`
	Location  string    `db:"location"`
	CreatedAt time.Time `db:"created_at"`
}

// NewPlaceholderPhoto returns the sentinel photo row recorded for animals
// without an uploaded image.
func NewPlaceholderPhoto(now time.Time) *Photo {
	return &Photo{
		Filename:  PlaceholderPhotoFilename,
		Location:  PlaceholderPhotoLocation,
		CreatedAt: now,
	}
}
