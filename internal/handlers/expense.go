// Package handlers maps the HTTP surface onto the expense service
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/chucky-1/expenses/internal/model"
	"github.com/chucky-1/expenses/internal/repository"
	"github.com/chucky-1/expenses/internal/service"
)

const notFoundDetail = "Expense not found"

type Expense struct {
	service   *service.Expenses
	validator *validator.Validate
}

func NewExpense(service *service.Expenses, validator *validator.Validate) *Expense {
	return &Expense{
		service:   service,
		validator: validator,
	}
}

func (h *Expense) Routes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/all/", h.GetAll)
	r.Get("/{id:[0-9]+}/", h.GetByID)
	r.Get("/{start}/{end}/", h.GetByRange)
	r.Put("/update/{id}/", h.Update)
	r.Delete("/delete/{id}/", h.Delete)
}

func (h *Expense) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	date, err := time.Parse(model.DateLayout, req.Date)
	if err != nil {
		respondError(w, http.StatusBadRequest, "date must be in DD.MM.YYYY format")
		return
	}

	expense, err := h.service.Create(r.Context(), req.Name, req.Amount, date)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, model.CreateExpenseResponse{
		Message: "Expense created successfully",
		Expense: *expense,
	})
}

func (h *Expense) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "id must be an integer")
		return
	}

	expense, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, expense)
}

func (h *Expense) GetByRange(w http.ResponseWriter, r *http.Request) {
	start, err := time.Parse(model.DateLayout, chi.URLParam(r, "start"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "start date must be in DD.MM.YYYY format")
		return
	}
	end, err := time.Parse(model.DateLayout, chi.URLParam(r, "end"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "end date must be in DD.MM.YYYY format")
		return
	}

	expenses, err := h.service.GetByRange(r.Context(), start, end)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	if len(expenses) == 0 {
		respondError(w, http.StatusNotFound, notFoundDetail)
		return
	}
	respondJSON(w, http.StatusOK, expenses)
}

func (h *Expense) GetAll(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.service.GetAll(r.Context())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	if len(expenses) == 0 {
		respondError(w, http.StatusNotFound, notFoundDetail)
		return
	}
	respondJSON(w, http.StatusOK, expenses)
}

func (h *Expense) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "id must be an integer")
		return
	}

	var req model.UpdateExpenseRequest
	if err = json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err = h.validator.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	expense, err := h.service.Update(r.Context(), id, req.Name, req.Amount)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, model.UpdateExpenseResponse{
		Message: "Expense updated successfully",
		Expense: *expense,
	})
}

func (h *Expense) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "id must be an integer")
		return
	}

	if err = h.service.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, model.MessageResponse{Message: "Expense deleted successfully"})
}

func (h *Expense) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ExpenseNotFoundErr):
		respondError(w, http.StatusNotFound, notFoundDetail)
	case errors.Is(err, service.RateUnavailableErr):
		logrus.Errorf("expense handler: currency conversion failed: %v", err)
		respondError(w, http.StatusBadGateway, "currency conversion failed")
	default:
		logrus.Errorf("expense handler: %v", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("expense handler couldn't encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, model.ErrorResponse{Detail: detail})
}
