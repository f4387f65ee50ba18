package server

import (
	"net/http"

	"github.com/depp1024/living/internal/engine"
	"github.com/depp1024/living/pkg/api"
	"github.com/gorilla/mux"
)

// DebugHandler предоставляет доступ к внутреннему состоянию областей
type DebugHandler struct {
	Service *engine.Service
}

func NewDebugHandler(s *engine.Service) *DebugHandler {
	return &DebugHandler{Service: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(r *mux.Router) {
	d := r.PathPrefix("/debug").Subrouter()
	d.HandleFunc("/areas/{id}/queue", h.handleTurnQueue).Methods(http.MethodGet)
	d.HandleFunc("/areas/{id}/facilities", h.handleFacilities).Methods(http.MethodGet)
	d.HandleFunc("/observers", h.handleObservers).Methods(http.MethodGet)
	d.HandleFunc("/observers/{id}", h.handleObserver).Methods(http.MethodGet)
}

// /debug/areas/{id}/queue - очередь планировщика в порядке пробуждения (на момент последнего снимка)
func (h *DebugHandler) handleTurnQueue(w http.ResponseWriter, r *http.Request) {
	area, err := h.Service.Area(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, area.QueueDump())
}

// /debug/areas/{id}/facilities - заведения, привязанные к клеткам сетки
func (h *DebugHandler) handleFacilities(w http.ResponseWriter, r *http.Request) {
	area, err := h.Service.Area(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	type FacilityView struct {
		NodeID  int64  `json:"nodeId"`
		Name    string `json:"name"`
		Amenity string `json:"amenity"`
		X       int    `json:"x"`
		Y       int    `json:"y"`
	}

	// Сетка после сборки только читается, поэтому доступ без блокировки области
	result := []FacilityView{}
	for _, a := range area.World.Grid.Annotations() {
		result = append(result, FacilityView{
			NodeID:  a.NodeID,
			Name:    a.Tags.PlaceName(area.World.Languages),
			Amenity: a.Tags.Amenity(),
			X:       a.X,
			Y:       a.Y,
		})
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *DebugHandler) handleObservers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"observers": h.Service.Hub.SubscriberCount()})
}

// /debug/observers/{id} - подключён ли наблюдатель (id пишется в лог при подключении)
func (h *DebugHandler) handleObserver(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !h.Service.Hub.HasSubscriber(id) {
		writeJSON(w, http.StatusNotFound, api.ErrorResponse{Error: "observer " + id + " not connected"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "connected": true})
}
