package service

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"path"
	"time"

	"github.com/kennelworks/kennelbook/internal/model"
	"github.com/kennelworks/kennelbook/internal/repository"
	"github.com/kennelworks/kennelbook/internal/storage"
	"github.com/kennelworks/kennelbook/internal/validation"
)

// photoDir is the fixed subdirectory under the content root where animal
// photographs are stored.
const photoDir = "animals"

const msgPersistFailure = "could not save the animal, please try again"

var ErrAnimalNotFound = repository.ErrAnimalNotFound

// AnimalInput carries one form submission. PriceText is the transient
// free-text price field; it is parsed into the persisted price and never
// stored itself.
type AnimalInput struct {
	Name         string
	Sex          string
	BirthDate    time.Time
	PurchaseDate *time.Time // nil = born at the breeder's facility
	PriceText    string
	LOPRegistry  string
	BreedID      int64
	BreederID    int64
	Photo        *multipart.FileHeader // optional upload
}

type AnimalService struct {
	repo        repository.AnimalRepository
	breederRepo repository.BreederRepository
	breedRepo   repository.BreedRepository
	storage     storage.Storage
	blobTimeout time.Duration
	now         func() time.Time
}

func NewAnimalService(
	repo repository.AnimalRepository,
	breederRepo repository.BreederRepository,
	breedRepo repository.BreedRepository,
	blobStorage storage.Storage,
	blobTimeout time.Duration,
) *AnimalService {
	return &AnimalService{
		repo:        repo,
		breederRepo: breederRepo,
		breedRepo:   breedRepo,
		storage:     blobStorage,
		blobTimeout: blobTimeout,
		now:         time.Now,
	}
}

// Create runs the animal-creation workflow: validate and normalize the
// submission, then persist the animal together with its photo row in one
// transaction, and only after the commit succeeded write the photo bytes to
// blob storage.
//
// All validation failures are accumulated before the commit decision; a
// non-empty violation set aborts with no side effect, returning the
// partially-filled animal so the form can be re-rendered with prior input.
// Persistence failures become a generic violation, never an error. A blob
// write that fails after the commit triggers a compensating delete of the
// committed row so the store never references missing bytes.
func (s *AnimalService) Create(ctx context.Context, input AnimalInput) (*model.Animal, validation.Violations, error) {
	now := s.now()

	animal := model.NewAnimal()
	animal.Name = input.Name
	animal.Sex = input.Sex
	animal.BirthDate = input.BirthDate
	animal.PurchaseDate = input.PurchaseDate
	animal.LOPRegistry = input.LOPRegistry
	animal.BreedID = input.BreedID
	animal.BreederID = input.BreederID
	animal.CreatedAt = now
	animal.UpdatedAt = now

	violations := validation.Violations{}
	s.validateFields(animal, &violations)

	intake := validation.ClassifyPhoto(input.Photo)
	switch intake.Status {
	case validation.PhotoNone:
		animal.Photos = append(animal.Photos, model.NewPlaceholderPhoto(now))
	case validation.PhotoInvalid:
		violations.Add("Fotografia", intake.Message)
	case validation.PhotoAccepted:
		filename := photoFilename(input.BreederID, intake.Extension)
		animal.Photos = append(animal.Photos, &model.Photo{
			Filename:  filename,
			Location:  path.Join(photoDir, filename),
			CreatedAt: now,
		})
	}

	price, provided, err := validation.NormalizePrice(input.PriceText)
	if err != nil {
		violations.Add("PrecoCompraAux", "purchase price must be a number with up to two decimals")
	} else if provided {
		animal.PurchasePrice = price
	}

	if !violations.Empty() {
		return animal, violations, nil
	}

	err = s.repo.Create(ctx, animal)
	if err != nil {
		slog.Error("failed to persist animal", "error", err, "breeder_id", input.BreederID)
		violations.Add("", msgPersistFailure)
		return animal, violations, nil
	}

	if intake.Status == validation.PhotoAccepted {
		err = s.writePhotoBytes(ctx, animal.Photos[0], input.Photo)
		if err != nil {
			slog.Error("photo write failed after commit, deleting animal row",
				"error", err, "animal_id", animal.ID, "filename", animal.Photos[0].Filename)

			delErr := s.repo.Delete(context.WithoutCancel(ctx), animal.ID)
			if delErr != nil {
				slog.Error("compensating delete failed, row references missing photo",
					"error", delErr, "animal_id", animal.ID)
			}

			violations.Add("", msgPersistFailure)
			return animal, violations, nil
		}
	}

	return animal, nil, nil
}

func (s *AnimalService) validateFields(animal *model.Animal, violations *validation.Violations) {
	if animal.Name == "" {
		violations.Add("Nome", "name is required")
	}
	if animal.BirthDate.IsZero() {
		violations.Add("DataNasc", "birth date is required")
	}
	if animal.BreedID == 0 {
		violations.Add("RacaFK", "must select a breed")
	}
	if animal.BreederID == 0 {
		violations.Add("CriadorFK", "must select a breeder")
	}
}

// writePhotoBytes streams the uploaded bytes to durable storage, bounded by
// the configured timeout. Called only after the database commit succeeded.
func (s *AnimalService) writePhotoBytes(ctx context.Context, photo *model.Photo, header *multipart.FileHeader) error {
	file, err := header.Open()
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	ctx, cancel := context.WithTimeout(ctx, s.blobTimeout)
	defer cancel()

	return s.storage.Save(ctx, path.Join(photoDir, photo.Filename), file)
}

// Update applies an edit submission under optimistic concurrency. On a
// write conflict the row's existence is re-checked: a vanished row reports
// not-found; a changed row propagates the conflict to the caller.
func (s *AnimalService) Update(ctx context.Context, id int64, input AnimalInput) (*model.Animal, validation.Violations, error) {
	animal, err := s.repo.ByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	token := animal.UpdatedAt

	animal.Name = input.Name
	animal.Sex = input.Sex
	animal.BirthDate = input.BirthDate
	animal.PurchaseDate = input.PurchaseDate
	animal.LOPRegistry = input.LOPRegistry
	animal.BreedID = input.BreedID
	animal.BreederID = input.BreederID

	violations := validation.Violations{}
	s.validateFields(animal, &violations)

	price, provided, err := validation.NormalizePrice(input.PriceText)
	if err != nil {
		violations.Add("PrecoCompraAux", "purchase price must be a number with up to two decimals")
	} else if provided {
		animal.PurchasePrice = price
	}

	if !violations.Empty() {
		return animal, violations, nil
	}

	animal.UpdatedAt = s.now()

	err = s.repo.Update(ctx, animal, token)
	if errors.Is(err, repository.ErrConflict) {
		exists, existsErr := s.repo.Exists(ctx, id)
		if existsErr != nil {
			return nil, nil, existsErr
		}
		if !exists {
			return nil, nil, repository.ErrAnimalNotFound
		}
		return nil, nil, err
	}
	if err != nil {
		slog.Error("failed to update animal", "error", err, "animal_id", id)
		violations.Add("", msgPersistFailure)
		return animal, violations, nil
	}

	return animal, nil, nil
}

func (s *AnimalService) ByID(ctx context.Context, id int64) (*model.Animal, error) {
	return s.repo.ByID(ctx, id)
}

func (s *AnimalService) Animals(ctx context.Context) ([]*model.Animal, error) {
	return s.repo.Animals(ctx)
}

func (s *AnimalService) ByBreeder(ctx context.Context, breederID int64) ([]*model.Animal, error) {
	return s.repo.ByBreeder(ctx, breederID)
}

// Delete removes the animal row. Photo rows cascade; physical photo bytes
// are left in place.
func (s *AnimalService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// PhotoURL resolves the public URL of an animal's photo. The placeholder
// sentinel has no stored bytes and resolves to "".
func (s *AnimalService) PhotoURL(photo *model.Photo) string {
	if photo == nil || photo.Filename == model.PlaceholderPhotoFilename {
		return ""
	}
	return s.storage.URL(path.Join(photoDir, photo.Filename))
}

// FormReferences supplies the breeder and breed select lists for rendering
// the animal form, each ordered by name.
func (s *AnimalService) FormReferences(ctx context.Context) ([]*model.Breeder, []*model.Breed, error) {
	breeders, err := s.breederRepo.Breeders(ctx)
	if err != nil {
		return nil, nil, err
	}

	breeds, err := s.breedRepo.Breeds(ctx)
	if err != nil {
		return nil, nil, err
	}

	return breeders, breeds, nil
}
