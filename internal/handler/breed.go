package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/kennelworks/kennelbook/internal/model"
	"github.com/kennelworks/kennelbook/internal/repository"
	"github.com/kennelworks/kennelbook/internal/service"
	"github.com/kennelworks/kennelbook/internal/ui"
	"github.com/kennelworks/kennelbook/internal/validation"
)

type BreedHandler struct {
	breeds *service.BreedService
}

func NewBreedHandler(breeds *service.BreedService) *BreedHandler {
	return &BreedHandler{breeds: breeds}
}

func (h *BreedHandler) ListPage(w http.ResponseWriter, r *http.Request) {
	breeds, err := h.breeds.Breeds(r.Context())
	if err != nil {
		slog.Error("failed to list breeds", "error", err)
		http.Error(w, "failed to load breeds", http.StatusInternalServerError)
		return
	}

	ui.Render(w, r, "breeds_list.html", map[string]any{"Breeds": breeds})
}

func (h *BreedHandler) NewPage(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, "New breed", "/breeds", &model.Breed{}, nil)
}

func breedFromRequest(r *http.Request) *model.Breed {
	return &model.Breed{
		Name:         r.FormValue("Nome"),
		RegistryName: r.FormValue("NomeRegisto"),
	}
}

func (h *BreedHandler) Create(w http.ResponseWriter, r *http.Request) {
	breed := breedFromRequest(r)

	violations, err := h.breeds.Create(r.Context(), breed)
	if err != nil {
		slog.Error("failed to create breed", "error", err)
		violations = validation.Violations{{Message: "could not save the breed, please try again"}}
	}

	if !violations.Empty() {
		h.renderForm(w, r, "New breed", "/breeds", breed, violations)
		return
	}

	http.Redirect(w, r, "/breeds", http.StatusSeeOther)
}

func (h *BreedHandler) EditPage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	breed, err := h.breeds.ByID(r.Context(), id)
	if errors.Is(err, repository.ErrBreedNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("failed to get breed", "error", err, "breed_id", id)
		http.Error(w, "failed to load breed", http.StatusInternalServerError)
		return
	}

	h.renderForm(w, r, "Edit breed", "/breeds/"+strconv.FormatInt(id, 10)+"/edit", breed, nil)
}

func (h *BreedHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	breed := breedFromRequest(r)
	breed.ID = id

	violations, err := h.breeds.Update(r.Context(), breed)
	if errors.Is(err, repository.ErrBreedNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("failed to update breed", "error", err, "breed_id", id)
		violations = validation.Violations{{Message: "could not save the breed, please try again"}}
	}

	if !violations.Empty() {
		h.renderForm(w, r, "Edit breed", "/breeds/"+strconv.FormatInt(id, 10)+"/edit", breed, violations)
		return
	}

	http.Redirect(w, r, "/breeds", http.StatusSeeOther)
}

func (h *BreedHandler) DeletePage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	breed, err := h.breeds.ByID(r.Context(), id)
	if errors.Is(err, repository.ErrBreedNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("failed to get breed", "error", err, "breed_id", id)
		http.Error(w, "failed to load breed", http.StatusInternalServerError)
		return
	}

	ui.Render(w, r, "breed_delete.html", map[string]any{"Breed": breed})
}

func (h *BreedHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	violations, err := h.breeds.Delete(r.Context(), id)
	if err != nil {
		slog.Error("failed to delete breed", "error", err, "breed_id", id)
		http.Error(w, "failed to delete breed", http.StatusInternalServerError)
		return
	}

	if !violations.Empty() {
		breed, err := h.breeds.ByID(r.Context(), id)
		if errors.Is(err, repository.ErrBreedNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			slog.Error("failed to get breed", "error", err, "breed_id", id)
			http.Error(w, "failed to load breed", http.StatusInternalServerError)
			return
		}

		ui.Render(w, r, "breed_delete.html", map[string]any{
			"Breed":      breed,
			"Violations": violations,
		})
		return
	}

	http.Redirect(w, r, "/breeds", http.StatusSeeOther)
}

func (h *BreedHandler) renderForm(w http.ResponseWriter, r *http.Request, title, action string, breed *model.Breed, violations validation.Violations) {
	ui.Render(w, r, "breed_form.html", map[string]any{
		"Title":      title,
		"Action":     action,
		"Breed":      breed,
		"Violations": violations,
	})
}
