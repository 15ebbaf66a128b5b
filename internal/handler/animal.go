package handler

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/kennelworks/kennelbook/internal/model"
	"github.com/kennelworks/kennelbook/internal/repository"
	"github.com/kennelworks/kennelbook/internal/service"
	"github.com/kennelworks/kennelbook/internal/ui"
	"github.com/kennelworks/kennelbook/internal/validation"
)

// maxUploadSize bounds the in-memory portion of a multipart parse.
const maxUploadSize = 10 << 20

type AnimalHandler struct {
	animals *service.AnimalService
}

func NewAnimalHandler(animals *service.AnimalService) *AnimalHandler {
	return &AnimalHandler{animals: animals}
}

// animalForm echoes the raw submission back into the re-rendered form.
type animalForm struct {
	Nome           string
	Sexo           string
	DataNasc       string
	DataCompra     string
	PrecoCompraAux string
	RegistoLOP     string
	RacaFK         string
	CriadorFK      string
}

func animalFormFromRequest(r *http.Request) animalForm {
	return animalForm{
		Nome:           r.FormValue("Nome"),
		Sexo:           r.FormValue("Sexo"),
		DataNasc:       r.FormValue("DataNasc"),
		DataCompra:     r.FormValue("DataCompra"),
		PrecoCompraAux: r.FormValue("PrecoCompraAux"),
		RegistoLOP:     r.FormValue("RegistoLOP"),
		RacaFK:         r.FormValue("RacaFK"),
		CriadorFK:      r.FormValue("CriadorFK"),
	}
}

func animalFormFromModel(animal *model.Animal) animalForm {
	form := animalForm{
		Nome:           animal.Name,
		Sexo:           animal.Sex,
		DataNasc:       animal.BirthDate.Format("2006-01-02"),
		PrecoCompraAux: animal.PurchasePrice.StringFixed(2),
		RegistoLOP:     animal.LOPRegistry,
		RacaFK:         strconv.FormatInt(animal.BreedID, 10),
		CriadorFK:      strconv.FormatInt(animal.BreederID, 10),
	}
	if animal.PurchaseDate != nil {
		form.DataCompra = animal.PurchaseDate.Format("2006-01-02")
	}
	return form
}

// toInput converts raw form text into the service input. Unparseable dates
// and references map to zero values; the service's structural validation
// reports them.
func (f animalForm) toInput(photo *multipart.FileHeader) service.AnimalInput {
	input := service.AnimalInput{
		Name:        f.Nome,
		Sex:         f.Sexo,
		PriceText:   f.PrecoCompraAux,
		LOPRegistry: f.RegistoLOP,
		Photo:       photo,
	}

	if birth, err := time.Parse("2006-01-02", f.DataNasc); err == nil {
		input.BirthDate = birth
	}
	if purchase, err := time.Parse("2006-01-02", f.DataCompra); err == nil {
		input.PurchaseDate = &purchase
	}
	input.BreedID, _ = strconv.ParseInt(f.RacaFK, 10, 64)
	input.BreederID, _ = strconv.ParseInt(f.CriadorFK, 10, 64)

	return input
}

func (h *AnimalHandler) ListPage(w http.ResponseWriter, r *http.Request) {
	animals, err := h.animals.Animals(r.Context())
	if err != nil {
		slog.Error("failed to list animals", "error", err)
		http.Error(w, "failed to load animals", http.StatusInternalServerError)
		return
	}

	breederNames, breedNames, err := h.referenceNames(r)
	if err != nil {
		slog.Error("failed to load references", "error", err)
		http.Error(w, "failed to load animals", http.StatusInternalServerError)
		return
	}

	type row struct {
		Animal      *model.Animal
		BreederName string
		BreedName   string
	}
	rows := make([]row, 0, len(animals))
	for _, animal := range animals {
		rows = append(rows, row{
			Animal:      animal,
			BreederName: breederNames[animal.BreederID],
			BreedName:   breedNames[animal.BreedID],
		})
	}

	ui.Render(w, r, "animals_list.html", map[string]any{"Animals": rows})
}

func (h *AnimalHandler) DetailPage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	animal, err := h.animals.ByID(r.Context(), id)
	if errors.Is(err, repository.ErrAnimalNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("failed to get animal", "error", err, "animal_id", id)
		http.Error(w, "failed to load animal", http.StatusInternalServerError)
		return
	}

	breederNames, breedNames, err := h.referenceNames(r)
	if err != nil {
		slog.Error("failed to load references", "error", err)
		http.Error(w, "failed to load animal", http.StatusInternalServerError)
		return
	}

	type photoView struct {
		URL       string
		Filename  string
		Location  string
		CreatedAt time.Time
	}
	photos := make([]photoView, 0, len(animal.Photos))
	for _, photo := range animal.Photos {
		photos = append(photos, photoView{
			URL:       h.animals.PhotoURL(photo),
			Filename:  photo.Filename,
			Location:  photo.Location,
			CreatedAt: photo.CreatedAt,
		})
	}

	ui.Render(w, r, "animal_detail.html", map[string]any{
		"Animal":      animal,
		"BreederName": breederNames[animal.BreederID],
		"BreedName":   breedNames[animal.BreedID],
		"Photos":      photos,
	})
}

func (h *AnimalHandler) NewPage(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, "New animal", "/animals", animalForm{}, nil, false)
}

func (h *AnimalHandler) Create(w http.ResponseWriter, r *http.Request) {
	err := r.ParseMultipartForm(maxUploadSize)
	if err != nil {
		slog.Error("failed to parse form", "error", err)
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	form := animalFormFromRequest(r)
	_, violations, err := h.animals.Create(r.Context(), form.toInput(uploadedPhoto(r)))
	if err != nil {
		slog.Error("failed to create animal", "error", err)
		http.Error(w, "failed to create animal", http.StatusInternalServerError)
		return
	}

	if !violations.Empty() {
		h.renderForm(w, r, "New animal", "/animals", form, violations, false)
		return
	}

	http.Redirect(w, r, "/animals", http.StatusSeeOther)
}

func (h *AnimalHandler) EditPage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	animal, err := h.animals.ByID(r.Context(), id)
	if errors.Is(err, repository.ErrAnimalNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("failed to get animal", "error", err, "animal_id", id)
		http.Error(w, "failed to load animal", http.StatusInternalServerError)
		return
	}

	h.renderForm(w, r, "Edit animal", "/animals/"+strconv.FormatInt(id, 10)+"/edit",
		animalFormFromModel(animal), nil, true)
}

func (h *AnimalHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	err := r.ParseMultipartForm(maxUploadSize)
	if err != nil {
		slog.Error("failed to parse form", "error", err)
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	form := animalFormFromRequest(r)
	_, violations, err := h.animals.Update(r.Context(), id, form.toInput(nil))
	if errors.Is(err, repository.ErrAnimalNotFound) {
		http.NotFound(w, r)
		return
	}
	if errors.Is(err, repository.ErrConflict) {
		http.Error(w, "the animal was modified by someone else, reload and try again", http.StatusConflict)
		return
	}
	if err != nil {
		slog.Error("failed to update animal", "error", err, "animal_id", id)
		http.Error(w, "failed to update animal", http.StatusInternalServerError)
		return
	}

	if !violations.Empty() {
		h.renderForm(w, r, "Edit animal", "/animals/"+strconv.FormatInt(id, 10)+"/edit",
			form, violations, true)
		return
	}

	http.Redirect(w, r, "/animals", http.StatusSeeOther)
}

func (h *AnimalHandler) DeletePage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	animal, err := h.animals.ByID(r.Context(), id)
	if errors.Is(err, repository.ErrAnimalNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("failed to get animal", "error", err, "animal_id", id)
		http.Error(w, "failed to load animal", http.StatusInternalServerError)
		return
	}

	breederNames, breedNames, err := h.referenceNames(r)
	if err != nil {
		slog.Error("failed to load references", "error", err)
		http.Error(w, "failed to load animal", http.StatusInternalServerError)
		return
	}

	ui.Render(w, r, "animal_delete.html", map[string]any{
		"Animal":      animal,
		"BreederName": breederNames[animal.BreederID],
		"BreedName":   breedNames[animal.BreedID],
	})
}

func (h *AnimalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	err := h.animals.Delete(r.Context(), id)
	if err != nil {
		slog.Error("failed to delete animal", "error", err, "animal_id", id)
		http.Error(w, "failed to delete animal", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/animals", http.StatusSeeOther)
}

// renderForm re-displays the animal form with echoed input, any violation
// messages, and freshly fetched breeder/breed select lists.
func (h *AnimalHandler) renderForm(w http.ResponseWriter, r *http.Request, title, action string, form animalForm, violations validation.Violations, isEdit bool) {
	breeders, breeds, err := h.animals.FormReferences(r.Context())
	if err != nil {
		slog.Error("failed to load form references", "error", err)
		http.Error(w, "failed to load form", http.StatusInternalServerError)
		return
	}

	ui.Render(w, r, "animal_form.html", map[string]any{
		"Title":      title,
		"Action":     action,
		"Form":       form,
		"Violations": violations,
		"Breeders":   breeders,
		"Breeds":     breeds,
		"IsEdit":     isEdit,
	})
}

func (h *AnimalHandler) referenceNames(r *http.Request) (map[int64]string, map[int64]string, error) {
	breeders, breeds, err := h.animals.FormReferences(r.Context())
	if err != nil {
		return nil, nil, err
	}

	breederNames := make(map[int64]string, len(breeders))
	for _, breeder := range breeders {
		breederNames[breeder.ID] = breeder.Name
	}
	breedNames := make(map[int64]string, len(breeds))
	for _, breed := range breeds {
		breedNames[breed.ID] = breed.Name
	}

	return breederNames, breedNames, nil
}

// uploadedPhoto returns the photo file header, or nil when the file input
// was left empty (browsers submit an empty part either way).
func uploadedPhoto(r *http.Request) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	headers := r.MultipartForm.File["Fotografia"]
	if len(headers) == 0 {
		return nil
	}
	if headers[0].Filename == "" && headers[0].Size == 0 {
		return nil
	}
	return headers[0]
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
