// Package server содержит общий HTTP-сервер для обоих бинарников.
// server.go отвечает за запуск, graceful shutdown и сборку
// цепочки middleware (восстановление после паники, логирование,
// ограничение частоты запросов).
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"moneyrain.ru/clicker/internal/server/middleware"
)

// Server оборачивает http.Server с настроенной цепочкой middleware.
type Server struct {
	http    *http.Server
	limiter *middleware.RateLimiter
}

// New создаёт сервер на addr поверх обработчика handler.
//
// Параметры:
//   - addr: адрес прослушивания, например ":8080"
//   - handler: корневой mux с маршрутами
//   - rateLimit: лимит запросов с одного IP за окно
//   - rateWindow: окно ограничителя
func New(addr string, handler http.Handler, rateLimit int, rateWindow time.Duration) *Server {
	limiter := middleware.NewRateLimiter(rateLimit, rateWindow)

	// Порядок имеет значение: recover снаружи, лимитер внутри
	chain := middleware.Recover(
		middleware.LogRequests(
			middleware.Limit(limiter, handler),
		),
	)

	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           chain,
			ReadHeaderTimeout: 5 * time.Second,
		},
		limiter: limiter,
	}
}

// Start запускает сервер и блокируется до остановки.
// Возвращает nil при штатном Shutdown.
func (s *Server) Start() error {
	log.Infof("HTTP-сервер слушает %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop останавливает сервер, дожидаясь активных запросов.
func (s *Server) Stop(ctx context.Context) error {
	defer s.limiter.Close()

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("HTTP-сервер остановлен")
	return nil
}
