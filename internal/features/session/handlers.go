// Package session — handlers.go обрабатывает HTTP-запросы UI-слоя:
// логин, логаут, клик, покупка и чтение состояния.
// Рендеринг и вёрстка — забота клиента; здесь только JSON.
package session

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"moneyrain.ru/clicker/internal/common"
)

// Handler обрабатывает HTTP-запросы к сессии.
type Handler struct {
	manager *Manager
}

// NewHandler создаёт обработчик поверх контейнера сессий.
func NewHandler(manager *Manager) *Handler {
	return &Handler{manager: manager}
}

// Register подключает маршруты к mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /session/login", h.handleLogin)
	mux.HandleFunc("POST /session/logout", h.handleLogout)
	mux.HandleFunc("POST /session/click", h.handleClick)
	mux.HandleFunc("POST /session/purchase", h.handlePurchase)
	mux.HandleFunc("GET /session/state", h.handleState)
}

type loginRequest struct {
	Username string `json:"username"`
}

type purchaseRequest struct {
	ItemID int64 `json:"itemId"`
}

// handleLogin обрабатывает POST /session/login.
//
// Ответы:
//   - 200 — вход выполнен, в теле полное состояние сессии
//   - 404 — пользователь не найден (состояние не меняется)
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "некорректное тело запроса")
		return
	}

	sess, err := h.manager.Login(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "❌ Пользователь с таким именем не найден")
			return
		}
		log.WithError(err).Error("Ошибка логина")
		writeError(w, http.StatusBadGateway, "хранилище пользователей недоступно")
		return
	}

	writeJSON(w, http.StatusOK, sess.View())
}

// handleLogout обрабатывает POST /session/logout.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.Logout(r.Context()); err != nil {
		if errors.Is(err, common.ErrNoActiveSession) {
			writeError(w, http.StatusConflict, "нет активной сессии")
			return
		}
		log.WithError(err).Error("Ошибка логаута")
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleClick обрабатывает POST /session/click.
func (h *Handler) handleClick(w http.ResponseWriter, r *http.Request) {
	sess := h.manager.Current()
	if sess == nil {
		writeError(w, http.StatusConflict, "нет активной сессии")
		return
	}
	writeJSON(w, http.StatusOK, sess.Click())
}

// handlePurchase обрабатывает POST /session/purchase.
// Отклонённая покупка — не ошибка: вернётся applied=false
// с нетронутым состоянием.
func (h *Handler) handlePurchase(w http.ResponseWriter, r *http.Request) {
	sess := h.manager.Current()
	if sess == nil {
		writeError(w, http.StatusConflict, "нет активной сессии")
		return
	}

	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "некорректное тело запроса")
		return
	}

	writeJSON(w, http.StatusOK, sess.Purchase(req.ItemID))
}

// handleState обрабатывает GET /session/state.
func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	sess := h.manager.Current()
	if sess == nil {
		writeError(w, http.StatusConflict, "нет активной сессии")
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
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
