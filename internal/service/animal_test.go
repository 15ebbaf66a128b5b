package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/kennelworks/kennelbook/internal/model"
	"github.com/kennelworks/kennelbook/internal/repository"
)

// -------------------------
// In-memory fakes
// -------------------------

type memAnimalRepo struct {
	nextID    int64
	animals   map[int64]*model.Animal
	events    *[]string
	createErr error
	updateErr error
	exists    *bool // overrides Exists when set
}

func newMemAnimalRepo(events *[]string) *memAnimalRepo {
	return &memAnimalRepo{animals: map[int64]*model.Animal{}, events: events}
}

func (r *memAnimalRepo) Create(ctx context.Context, animal *model.Animal) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	animal.ID = r.nextID
	for i, photo := range animal.Photos {
		photo.AnimalID = animal.ID
		photo.ID = int64(i + 1)
	}
	r.animals[animal.ID] = animal
	*r.events = append(*r.events, "repo.Create")
	return nil
}

func (r *memAnimalRepo) ByID(ctx context.Context, id int64) (*model.Animal, error) {
	animal, ok := r.animals[id]
	if !ok {
		return nil, repository.ErrAnimalNotFound
	}
	return animal, nil
}

func (r *memAnimalRepo) Animals(ctx context.Context) ([]*model.Animal, error) {
	out := make([]*model.Animal, 0, len(r.animals))
	for _, animal := range r.animals {
		out = append(out, animal)
	}
	return out, nil
}

func (r *memAnimalRepo) ByBreeder(ctx context.Context, breederID int64) ([]*model.Animal, error) {
	out := make([]*model.Animal, 0)
	for _, animal := range r.animals {
		if animal.BreederID == breederID {
			out = append(out, animal)
		}
	}
	return out, nil
}

func (r *memAnimalRepo) Update(ctx context.Context, animal *model.Animal, token time.Time) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	stored, ok := r.animals[animal.ID]
	if !ok {
		return repository.ErrConflict
	}
	if !stored.UpdatedAt.Equal(token) {
		return repository.ErrConflict
	}
	r.animals[animal.ID] = animal
	*r.events = append(*r.events, "repo.Update")
	return nil
}

func (r *memAnimalRepo) Delete(ctx context.Context, id int64) error {
	delete(r.animals, id)
	*r.events = append(*r.events, "repo.Delete")
	return nil
}

func (r *memAnimalRepo) Exists(ctx context.Context, id int64) (bool, error) {
	if r.exists != nil {
		return *r.exists, nil
	}
	_, ok := r.animals[id]
	return ok, nil
}

func (r *memAnimalRepo) CountByBreeder(ctx context.Context, breederID int64) (int, error) {
	count := 0
	for _, animal := range r.animals {
		if animal.BreederID == breederID {
			count++
		}
	}
	return count, nil
}

func (r *memAnimalRepo) CountByBreed(ctx context.Context, breedID int64) (int, error) {
	count := 0
	for _, animal := range r.animals {
		if animal.BreedID == breedID {
			count++
		}
	}
	return count, nil
}

type memBreederRepo struct {
	breeders []*model.Breeder
	deleted  []int64
}

func (r *memBreederRepo) Create(ctx context.Context, breeder *model.Breeder) error { return nil }
func (r *memBreederRepo) ByID(ctx context.Context, id int64) (*model.Breeder, error) {
	for _, breeder := range r.breeders {
		if breeder.ID == id {
			return breeder, nil
		}
	}
	return nil, repository.ErrBreederNotFound
}
func (r *memBreederRepo) Breeders(ctx context.Context) ([]*model.Breeder, error) {
	return r.breeders, nil
}
func (r *memBreederRepo) Update(ctx context.Context, breeder *model.Breeder) error { return nil }
func (r *memBreederRepo) Delete(ctx context.Context, id int64) error {
	r.deleted = append(r.deleted, id)
	return nil
}

type memBreedRepo struct {
	breeds  []*model.Breed
	deleted []int64
}

func (r *memBreedRepo) Create(ctx context.Context, breed *model.Breed) error { return nil }
func (r *memBreedRepo) ByID(ctx context.Context, id int64) (*model.Breed, error) {
	for _, breed := range r.breeds {
		if breed.ID == id {
			return breed, nil
		}
	}
	return nil, repository.ErrBreedNotFound
}
func (r *memBreedRepo) Breeds(ctx context.Context) ([]*model.Breed, error) { return r.breeds, nil }
func (r *memBreedRepo) Update(ctx context.Context, breed *model.Breed) error { return nil }
func (r *memBreedRepo) Delete(ctx context.Context, id int64) error {
	r.deleted = append(r.deleted, id)
	return nil
}

type fakeStorage struct {
	events  *[]string
	saves   map[string][]byte
	saveErr error
}

func newFakeStorage(events *[]string) *fakeStorage {
	return &fakeStorage{events: events, saves: map[string][]byte{}}
}

func (s *fakeStorage) Save(ctx context.Context, path string, file io.Reader) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	content, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	s.saves[path] = content
	*s.events = append(*s.events, "storage.Save "+path)
	return nil
}

func (s *fakeStorage) Delete(ctx context.Context, path string) error {
	delete(s.saves, path)
	*s.events = append(*s.events, "storage.Delete "+path)
	return nil
}

func (s *fakeStorage) URL(path string) string { return "/media/" + path }

// -------------------------
// Helpers
// -------------------------

func newTestService(repo *memAnimalRepo, store *fakeStorage) *AnimalService {
	svc := NewAnimalService(
		repo,
		&memBreederRepo{breeders: []*model.Breeder{{ID: 7, Name: "Ana"}, {ID: 9, Name: "Rui"}}},
		&memBreedRepo{breeds: []*model.Breed{{ID: 3, Name: "Beagle"}, {ID: 5, Name: "Serra da Estrela"}}},
		store,
		time.Second,
	)
	svc.now = func() time.Time { return time.Date(2023, 6, 9, 12, 0, 0, 0, time.UTC) }
	return svc
}

// uploadedFile builds a real multipart file header whose Open works.
func uploadedFile(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	partHeader := make(textproto.MIMEHeader)
	partHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="Fotografia"; filename=%q`, filename))
	partHeader.Set("Content-Type", contentType)

	part, err := w.CreatePart(partHeader)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["Fotografia"][0]
}

func validInput() AnimalInput {
	return AnimalInput{
		Name:      "Rex",
		Sex:       "M",
		BirthDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		PriceText: "250.00",
		BreedID:   3,
		BreederID: 7,
	}
}

// -------------------------
// Create
// -------------------------

func TestCreateAnimal_NoPhoto(t *testing.T) {
	events := []string{}
	repo := newMemAnimalRepo(&events)
	store := newFakeStorage(&events)
	svc := newTestService(repo, store)

	animal, violations, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	require.True(t, violations.Empty())
	require.NotZero(t, animal.ID)
	require.True(t, animal.PurchasePrice.Equal(decimal.RequireFromString("250.00")))

	require.Len(t, animal.Photos, 1)
	require.Equal(t, model.PlaceholderPhotoFilename, animal.Photos[0].Filename)
	require.Equal(t, model.PlaceholderPhotoLocation, animal.Photos[0].Location)
	require.False(t, animal.Photos[0].CreatedAt.IsZero())

	// no bytes written for the placeholder
	require.Equal(t, []string{"repo.Create"}, events)
}

func TestCreateAnimal_WithPNG(t *testing.T) {
	events := []string{}
	repo := newMemAnimalRepo(&events)
	store := newFakeStorage(&events)
	svc := newTestService(repo, store)

	input := validInput()
	input.Photo = uploadedFile(t, "rex.png", "image/png", []byte("png-bytes"))

	animal, violations, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	require.True(t, violations.Empty())

	require.Len(t, animal.Photos, 1)
	filename := animal.Photos[0].Filename
	require.Regexp(t, regexp.MustCompile(`^7_[0-9a-f-]{36}\.png$`), filename)

	// commit first, then exactly one blob write for the generated path
	require.Equal(t, []string{"repo.Create", "storage.Save animals/" + filename}, events)
	require.Equal(t, []byte("png-bytes"), store.saves["animals/"+filename])
}

func TestCreateAnimal_MissingBreed(t *testing.T) {
	events := []string{}
	repo := newMemAnimalRepo(&events)
	store := newFakeStorage(&events)
	svc := newTestService(repo, store)

	input := validInput()
	input.BreedID = 0

	_, violations, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, []string{"must select a breed"}, violations.Messages())

	// rejected before any persistence or storage call
	require.Empty(t, events)
}

func TestCreateAnimal_InvalidImageType(t *testing.T) {
	events := []string{}
	repo := newMemAnimalRepo(&events)
	store := newFakeStorage(&events)
	svc := newTestService(repo, store)

	input := validInput()
	input.Photo = uploadedFile(t, "rex.gif", "image/gif", []byte("gif-bytes"))

	animal, violations, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	require.Contains(t, violations.Messages(), "must supply a valid image, PNG or JPG")
	require.Empty(t, animal.Photos)
	require.Empty(t, events)
}

func TestCreateAnimal_UnparseablePrice(t *testing.T) {
	events := []string{}
	repo := newMemAnimalRepo(&events)
	store := newFakeStorage(&events)
	svc := newTestService(repo, store)

	input := validInput()
	input.PriceText = "two hundred"

	_, violations, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, "purchase price must be a number with up to two decimals", violations.ByField("PrecoCompraAux"))
	require.Empty(t, events)
}

func TestCreateAnimal_BlankPriceDefaultsToZero(t *testing.T) {
	events := []string{}
	repo := newMemAnimalRepo(&events)
	store := newFakeStorage(&events)
	svc := newTestService(repo, store)

	input := validInput()
	input.PriceText = ""

	animal, violations, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	require.True(t, violations.Empty())
	require.True(t, animal.PurchasePrice.IsZero())
}

func TestCreateAnimal_AccumulatesAllViolations(t *testing.T) {
	events := []string{}
	repo := newMemAnimalRepo(&events)
	store := newFakeStorage(&events)
	svc := newTestService(repo, store)

	_, violations, err := svc.Create(context.Background(), AnimalInput{PriceText: "bad"})
	require.NoError(t, err)
	require.Len(t, violations, 5) // name, birth date, breed, breeder, price
	require.Empty(t, events)
}

func TestCreateAnimal_RejectionIsIdempotent(t *testing.T) {
	events := []string{}
	repo := newMemAnimalRepo(&events)
	store := newFakeStorage(&events)
	svc := newTestService(repo, store)

	input := validInput()
	input.BreedID = 0
	input.Name = ""

	_, first, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	_, second, err := svc.Create(context.Background(), input)
	require.NoError(t, err)

	require.Equal(t, first.Messages(), second.Messages())
	require.Empty(t, events)
}

func TestCreateAnimal_PersistFailure(t *testing.T) {
	events := []string{}
	repo := newMemAnimalRepo(&events)
	repo.createErr = fmt.Errorf("disk full")
	store := newFakeStorage(&events)
	svc := newTestService(repo, store)

	input := validInput()
	input.Photo = uploadedFile(t, "rex.png", "image/png", []byte("png-bytes"))

	_, violations, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, []string{msgPersistFailure}, violations.Messages())

	// commit failed, so no bytes may reach storage
	require.Empty(t, store.saves)
}

func TestCreateAnimal_BlobWriteFailureDeletesRow(t *testing.T) {
	events := []string{}
	repo := newMemAnimalRepo(&events)
	store := newFakeStorage(&events)
	store.saveErr = fmt.Errorf("bucket unreachable")
	svc := newTestService(repo, store)

	input := validInput()
	input.Photo = uploadedFile(t, "rex.jpg", "image/jpeg", []byte("jpg-bytes"))

	animal, violations, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, []string{msgPersistFailure}, violations.Messages())

	// compensating delete: the committed row must not survive pointing at
	// missing bytes
	require.Equal(t, []string{"repo.Create", "repo.Delete"}, events)
	exists, err := repo.Exists(context.Background(), animal.ID)
	require.NoError(t, err)
	require.False(t, exists)
}

// -------------------------
// Update
// -------------------------

func TestUpdateAnimal_Success(t *testing.T) {
	events := []string{}
	repo := newMemAnimalRepo(&events)
	store := newFakeStorage(&events)
	svc := newTestService(repo, store)

	created, violations, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	require.True(t, violations.Empty())

	input := validInput()
	input.Name = "Rexy"
	input.PriceText = "300,50"

	updated, violations, err := svc.Update(context.Background(), created.ID, input)
	require.NoError(t, err)
	require.True(t, violations.Empty())
	require.Equal(t, "Rexy", updated.Name)
	require.True(t, updated.PurchasePrice.Equal(decimal.RequireFromString("300.5")))
}

func TestUpdateAnimal_VanishedRowReportsNotFound(t *testing.T) {
	events := []string{}
	repo := newMemAnimalRepo(&events)
	store := newFakeStorage(&events)
	svc := newTestService(repo, store)

	created, _, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	// a racing delete removes the row between read and write; the write
	// reports a conflict and the existence re-check resolves it to
	// not-found
	repo.updateErr = repository.ErrConflict
	gone := false
	repo.exists = &gone

	_, _, err = svc.Update(context.Background(), created.ID, validInput())
	require.ErrorIs(t, err, repository.ErrAnimalNotFound)
}

func TestUpdateAnimal_ChangedRowPropagatesConflict(t *testing.T) {
	events := []string{}
	repo := newMemAnimalRepo(&events)
	store := newFakeStorage(&events)
	svc := newTestService(repo, store)

	created, _, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	repo.updateErr = repository.ErrConflict

	_, _, err = svc.Update(context.Background(), created.ID, validInput())
	require.ErrorIs(t, err, repository.ErrConflict)
}

func TestUpdateAnimal_ValidationBlocksWrite(t *testing.T) {
	events := []string{}
	repo := newMemAnimalRepo(&events)
	store := newFakeStorage(&events)
	svc := newTestService(repo, store)

	created, _, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	input := validInput()
	input.Name = ""

	_, violations, err := svc.Update(context.Background(), created.ID, input)
	require.NoError(t, err)
	require.Equal(t, "name is required", violations.ByField("Nome"))
	require.NotContains(t, events, "repo.Update")
}

// -------------------------
// Misc
// -------------------------

func TestPhotoURL(t *testing.T) {
	events := []string{}
	svc := newTestService(newMemAnimalRepo(&events), newFakeStorage(&events))

	require.Equal(t, "", svc.PhotoURL(nil))
	require.Equal(t, "", svc.PhotoURL(&model.Photo{Filename: model.PlaceholderPhotoFilename}))
	require.Equal(t, "/media/animals/7_abc.png", svc.PhotoURL(&model.Photo{Filename: "7_abc.png"}))
}

func TestPhotoFilename_Pattern(t *testing.T) {
	first := photoFilename(7, ".png")
	second := photoFilename(7, ".png")

	require.Regexp(t, regexp.MustCompile(`^7_[0-9a-f-]{36}\.png$`), first)
	require.NotEqual(t, first, second) // fresh token per call
}

func TestFormReferences(t *testing.T) {
	events := []string{}
	svc := newTestService(newMemAnimalRepo(&events), newFakeStorage(&events))

	breeders, breeds, err := svc.FormReferences(context.Background())
	require.NoError(t, err)
	require.Len(t, breeders, 2)
	require.Len(t, breeds, 2)
}
