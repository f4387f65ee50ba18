package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/depp1024/living/internal/domain"
	"github.com/depp1024/living/internal/engine"
	"github.com/depp1024/living/internal/version"
	"github.com/depp1024/living/pkg/api"
	"github.com/depp1024/living/pkg/geo"
	"github.com/depp1024/living/pkg/logger"
	"github.com/gorilla/mux"
)

type Server struct {
	Service *engine.Service
	Port    string

	router *mux.Router
	http   *http.Server
}

func New(svc *engine.Service, port string) *Server {
	s := &Server{
		Service: svc,
		Port:    port,
		router:  mux.NewRouter(),
	}
	s.routes()
	s.http = &http.Server{
		Addr:        ":" + port,
		Handler:     s.router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}
	return s
}

// Handler - корневой обработчик (для httptest).
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router
	r.Use(enableCORS)

	r.HandleFunc("/ws", s.handleWS)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/version", s.handleVersion).Methods(http.MethodGet)

	r.HandleFunc("/view", s.handleView).Methods(http.MethodPost)
	r.HandleFunc("/areas", s.handleListAreas).Methods(http.MethodGet)
	r.HandleFunc("/areas", s.handleLoadArea).Methods(http.MethodPost)
	r.HandleFunc("/areas", s.handleClearAreas).Methods(http.MethodDelete)
	r.HandleFunc("/areas/{id}", s.handleArea).Methods(http.MethodGet)
	r.HandleFunc("/areas/{id}/agents", s.handleAgents).Methods(http.MethodGet)
	r.HandleFunc("/areas/{id}/agents/{handle}", s.handleAgent).Methods(http.MethodGet)

	NewDebugHandler(s.Service).RegisterRoutes(r)
}

// Run запускает HTTP сервер
func (s *Server) Run() error {
	logger.Log.Infof("Living server running on :%s", s.Port)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Разрешаем запросы с фронтенда
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, version.Info())
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	var req api.ViewRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := s.Service.HandleZoom(r.Context(), req.ZoomStart, req.ZoomEnd, toGeo(req.Center))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListAreas(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Service.Areas())
}

func (s *Server) handleLoadArea(w http.ResponseWriter, r *http.Request) {
	var req api.LoadRequest
	if r.ContentLength != 0 && !decodeBody(w, r, &req) {
		return
	}
	center := s.Service.Center()
	if c := toGeo(req.Center); c != nil {
		center = *c
	}

	area, err := s.Service.LoadArea(r.Context(), center)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, area.Summary())
}

func (s *Server) handleClearAreas(w http.ResponseWriter, r *http.Request) {
	n := s.Service.ClearAreas()
	writeJSON(w, http.StatusOK, map[string]int{"cleared": n})
}

func (s *Server) handleArea(w http.ResponseWriter, r *http.Request) {
	area, ok := s.area(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, area.Summary())
}

func (s *Server) handleAgents(w http.ResponseWriter, r *http.Request) {
	area, ok := s.area(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, area.Snapshot())
}

func (s *Server) handleAgent(w http.ResponseWriter, r *http.Request) {
	area, ok := s.area(w, r)
	if !ok {
		return
	}
	h, err := domain.ParseAgentHandle(mux.Vars(r)["handle"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	detail, found := area.AgentDetail(h)
	if !found {
		writeError(w, domain.ErrStaleHandle)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) area(w http.ResponseWriter, r *http.Request) (*engine.Area, bool) {
	area, err := s.Service.Area(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return area, true
}

// decodeBody читает JSON и проверяет его. При ошибке ответ уже записан.
func decodeBody(w http.ResponseWriter, r *http.Request, v api.Validator) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, api.ErrorResponse{Error: "invalid json: " + err.Error()})
		return false
	}
	if err := v.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return false
	}
	return true
}

// statusFor сопоставляет ошибки домена с HTTP-кодами.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrAreaNotFound), errors.Is(err, domain.ErrStaleHandle):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAborted):
		return http.StatusConflict
	case errors.Is(err, domain.ErrDataFetch):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		logger.Log.WithError(err).Error("Request failed")
	}
	writeJSON(w, code, api.ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Log.WithError(err).Debug("write response failed")
	}
}

func toGeo(p *api.LatLng) *geo.LatLng {
	if p == nil {
		return nil
	}
	return &geo.LatLng{Lat: p.Lat, Lng: p.Lng}
}
