// Package accounts — handlers.go обрабатывает HTTP-запросы к /users.
// Это контракт, который потребляет игровой сервис:
// список, создание, полная замена и удаление пользователей.
package accounts

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"moneyrain.ru/clicker/internal/common"
)

// Handler обрабатывает HTTP-запросы хранилища.
type Handler struct {
	service *Service
}

// NewHandler создаёт обработчик поверх сервиса.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register подключает маршруты к mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /users", h.handleList)
	mux.HandleFunc("POST /users", h.handleCreate)
	mux.HandleFunc("PUT /users", h.handleUpdate)
	mux.HandleFunc("DELETE /users", h.handleDelete)
}

// userView — представление учётной записи в ответах API.
type userView struct {
	ID                  int64  `json:"id"`
	Username            string `json:"username"`
	Balance             int64  `json:"balance"`
	IncomeRate          int64  `json:"incomeRate"`
	SecondaryIncomeRate int64  `json:"secondaryIncomeRate"`
	BuffUnlocked        bool   `json:"buffUnlocked"`
}

type createRequest struct {
	Username string `json:"username"`
}

type updateRequest struct {
	Username            string `json:"username"`
	Balance             int64  `json:"balance"`
	IncomeRate          int64  `json:"incomeRate"`
	SecondaryIncomeRate int64  `json:"secondaryIncomeRate"`
	BuffUnlocked        bool   `json:"buffUnlocked"`
}

type deleteRequest struct {
	ID int64 `json:"id"`
}

// handleList обрабатывает GET /users — весь список.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.List(r.Context())
	if err != nil {
		log.WithError(err).Error("Ошибка чтения списка пользователей")
		writeError(w, http.StatusInternalServerError, "ошибка чтения списка")
		return
	}

	// Пустой список сериализуем как [], а не null
	users := make([]userView, 0, len(accounts))
	for _, a := range accounts {
		users = append(users, userView{
			ID:                  a.ID,
			Username:            a.Username,
			Balance:             a.Balance,
			IncomeRate:          a.IncomeRate,
			SecondaryIncomeRate: a.SecondaryIncomeRate,
			BuffUnlocked:        a.BuffUnlocked,
		})
	}
	writeJSON(w, http.StatusOK, map[string][]userView{"users": users})
}

// handleCreate обрабатывает POST /users — создание с нулевым снапшотом.
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "некорректное тело запроса")
		return
	}

	err := h.service.Create(r.Context(), req.Username)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusCreated)
	case errors.Is(err, common.ErrEmptyUsername), errors.Is(err, common.ErrUsernameTooLong):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrUsernameTaken):
		writeError(w, http.StatusConflict, err.Error())
	default:
		log.WithError(err).Error("Ошибка создания пользователя")
		writeError(w, http.StatusInternalServerError, "ошибка создания")
	}
}

// handleUpdate обрабатывает PUT /users — полную замену по имени.
func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "некорректное тело запроса")
		return
	}

	err := h.service.Update(r.Context(), req.Username, UpdateSnapshot{
		Balance:             req.Balance,
		IncomeRate:          req.IncomeRate,
		SecondaryIncomeRate: req.SecondaryIncomeRate,
		BuffUnlocked:        req.BuffUnlocked,
	})
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, common.ErrEmptyUsername):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrUserNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		log.WithError(err).Error("Ошибка обновления пользователя")
		writeError(w, http.StatusInternalServerError, "ошибка обновления")
	}
}

// handleDelete обрабатывает DELETE /users — удаление по id из тела.
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "некорректное тело запроса")
		return
	}

	err := h.service.Delete(r.Context(), req.ID)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, common.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		log.WithError(err).Error("Ошибка удаления пользователя")
		writeError(w, http.StatusInternalServerError, "ошибка удаления")
	}
}

// writeJSON сериализует ответ в JSON.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("Ошибка сериализации ответа")
	}
}

// writeError отдаёт ошибку в едином формате {"error": "..."}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
