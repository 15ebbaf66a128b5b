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

type BreederHandler struct {
	breeders *service.BreederService
	animals  *service.AnimalService
}

func NewBreederHandler(breeders *service.BreederService, animals *service.AnimalService) *BreederHandler {
	return &BreederHandler{breeders: breeders, animals: animals}
}

func breederFromRequest(r *http.Request) *model.Breeder {
	return &model.Breeder{
		Name:           r.FormValue("Nome"),
		CommercialName: r.FormValue("NomeComercial"),
		Address:        r.FormValue("Morada"),
		PostalCode:     r.FormValue("CodPostal"),
		Phone:          r.FormValue("Telemovel"),
		Email:          r.FormValue("Email"),
	}
}

func (h *BreederHandler) ListPage(w http.ResponseWriter, r *http.Request) {
	breeders, err := h.breeders.Breeders(r.Context())
	if err != nil {
		slog.Error("failed to list breeders", "error", err)
		http.Error(w, "failed to load breeders", http.StatusInternalServerError)
		return
	}

	ui.Render(w, r, "breeders_list.html", map[string]any{"Breeders": breeders})
}

func (h *BreederHandler) DetailPage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	breeder, err := h.breeders.ByID(r.Context(), id)
	if errors.Is(err, repository.ErrBreederNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("failed to get breeder", "error", err, "breeder_id", id)
		http.Error(w, "failed to load breeder", http.StatusInternalServerError)
		return
	}

	animals, err := h.animals.ByBreeder(r.Context(), id)
	if err != nil {
		slog.Error("failed to list breeder animals", "error", err, "breeder_id", id)
		http.Error(w, "failed to load breeder", http.StatusInternalServerError)
		return
	}

	ui.Render(w, r, "breeder_detail.html", map[string]any{
		"Breeder": breeder,
		"Animals": animals,
	})
}

func (h *BreederHandler) NewPage(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, "New breeder", "/breeders", &model.Breeder{}, nil)
}

func (h *BreederHandler) Create(w http.ResponseWriter, r *http.Request) {
	breeder := breederFromRequest(r)

	violations, err := h.breeders.Create(r.Context(), breeder)
	if err != nil {
		slog.Error("failed to create breeder", "error", err)
		violations = validation.Violations{{Message: "could not save the breeder, please try again"}}
	}

	if !violations.Empty() {
		h.renderForm(w, r, "New breeder", "/breeders", breeder, violations)
		return
	}

	http.Redirect(w, r, "/breeders", http.StatusSeeOther)
}

func (h *BreederHandler) EditPage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	breeder, err := h.breeders.ByID(r.Context(), id)
	if errors.Is(err, repository.ErrBreederNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("failed to get breeder", "error", err, "breeder_id", id)
		http.Error(w, "failed to load breeder", http.StatusInternalServerError)
		return
	}

	h.renderForm(w, r, "Edit breeder", "/breeders/"+strconv.FormatInt(id, 10)+"/edit", breeder, nil)
}

func (h *BreederHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	breeder := breederFromRequest(r)
	breeder.ID = id

	violations, err := h.breeders.Update(r.Context(), breeder)
	if errors.Is(err, repository.ErrBreederNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("failed to update breeder", "error", err, "breeder_id", id)
		violations = validation.Violations{{Message: "could not save the breeder, please try again"}}
	}

	if !violations.Empty() {
		h.renderForm(w, r, "Edit breeder", "/breeders/"+strconv.FormatInt(id, 10)+"/edit", breeder, violations)
		return
	}

	http.Redirect(w, r, "/breeders", http.StatusSeeOther)
}

func (h *BreederHandler) DeletePage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	breeder, err := h.breeders.ByID(r.Context(), id)
	if errors.Is(err, repository.ErrBreederNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("failed to get breeder", "error", err, "breeder_id", id)
		http.Error(w, "failed to load breeder", http.StatusInternalServerError)
		return
	}

	ui.Render(w, r, "breeder_delete.html", map[string]any{"Breeder": breeder})
}

func (h *BreederHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	violations, err := h.breeders.Delete(r.Context(), id)
	if err != nil {
		slog.Error("failed to delete breeder", "error", err, "breeder_id", id)
		http.Error(w, "failed to delete breeder", http.StatusInternalServerError)
		return
	}

	if !violations.Empty() {
		breeder, err := h.breeders.ByID(r.Context(), id)
		if errors.Is(err, repository.ErrBreederNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			slog.Error("failed to get breeder", "error", err, "breeder_id", id)
			http.Error(w, "failed to load breeder", http.StatusInternalServerError)
			return
		}

		ui.Render(w, r, "breeder_delete.html", map[string]any{
			"Breeder":    breeder,
			"Violations": violations,
		})
		return
	}

	http.Redirect(w, r, "/breeders", http.StatusSeeOther)
}

func (h *BreederHandler) renderForm(w http.ResponseWriter, r *http.Request, title, action string, breeder *model.Breeder, violations validation.Violations) {
	ui.Render(w, r, "breeder_form.html", map[string]any{
		"Title":      title,
		"Action":     action,
		"Breeder":    breeder,
		"Violations": violations,
	})
}
