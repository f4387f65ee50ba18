package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/depp1024/living/internal/domain"
	"github.com/depp1024/living/internal/network"
	"github.com/depp1024/living/pkg/api"
	"github.com/depp1024/living/pkg/geo"
	"github.com/depp1024/living/pkg/logger"
	"github.com/depp1024/living/pkg/utils"
	"github.com/sirupsen/logrus"
)

// GeoSource - источник дорог и заведений (Overpass).
type GeoSource interface {
	Status(ctx context.Context) (domain.GeoStatus, error)
	Ways(ctx context.Context, rect geo.Rect) (*domain.RoadNetwork, error)
	Facilities(ctx context.Context, rect geo.Rect, amenities []string) ([]domain.Facility, error)
}

// RosterSource отдает профили людей.
type RosterSource interface {
	Profiles(ctx context.Context) ([]*domain.Profile, error)
}

// DialogueSource отдает таблицу разговоров.
type DialogueSource interface {
	Dialogue(ctx context.Context) (*domain.DialogueTable, error)
}

// JournalOpener открывает журнал для новой области.
type JournalOpener func(h domain.JournalHeader) (Journal, error)

// ServiceOption настраивает Service.
type ServiceOption func(*Service)

// WithRateLimitClock задает часы для ожидания слота Overpass (в тестах - VirtualClock).
func WithRateLimitClock(c Clock) ServiceOption {
	return func(s *Service) { s.rateClock = c }
}

func WithJournalOpener(fn JournalOpener) ServiceOption {
	return func(s *Service) { s.openJournal = fn }
}

func WithHub(h *network.Broadcaster) ServiceOption {
	return func(s *Service) { s.Hub = h }
}

type runningArea struct {
	area   *Area
	cancel context.CancelFunc
}

// Service управляет жизненным циклом областей: загрузка, работа, очистка.
type Service struct {
	cfg      Config
	geo      GeoSource
	roster   RosterSource
	dialogue DialogueSource

	Hub         *network.Broadcaster
	rateClock   Clock
	openJournal JournalOpener

	mu         sync.Mutex
	areas      map[string]*runningArea
	order      []string
	loads      int64
	cancelLoad context.CancelFunc
	loadSeq    int64

	ctx    context.Context
	cancel context.CancelFunc
	log    *logrus.Entry
}

func NewService(cfg Config, geoSrc GeoSource, roster RosterSource, dialogue DialogueSource, opts ...ServiceOption) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		cfg:       cfg,
		geo:       geoSrc,
		roster:    roster,
		dialogue:  dialogue,
		Hub:       network.NewBroadcaster(),
		rateClock: RealClock{Scale: 1},
		areas:     make(map[string]*runningArea),
		ctx:       ctx,
		cancel:    cancel,
		log:       logger.Log.WithField("component", "service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultCenter - центр карты по локали (London, если локаль неизвестна).
func DefaultCenter(locale string) geo.LatLng {
	switch locale {
	case "ja", "ja-JP":
		return geo.LatLng{Lat: 35.6896342, Lng: 139.6921007}
	case "en-US":
		return geo.LatLng{Lat: 38.8954503, Lng: -77.0158701}
	case "fr", "fr-FR":
		return geo.LatLng{Lat: 48.8564826, Lng: 2.3524135}
	case "it", "it-IT":
		return geo.LatLng{Lat: 41.8930546, Lng: 12.4834738}
	default:
		return geo.LatLng{Lat: 51.504827, Lng: -0.0786264}
	}
}

// Center - центр из конфига или по локали.
func (s *Service) Center() geo.LatLng {
	if s.cfg.Center != nil {
		return *s.cfg.Center
	}
	return DefaultCenter(s.cfg.Locale)
}

// LoadArea загружает данные вокруг center, строит мир, расставляет людей и запускает область.
// Предыдущая незавершённая загрузка отменяется. При ошибке ничего не остаётся.
func (s *Service) LoadArea(ctx context.Context, center geo.LatLng) (*Area, error) {
	loadCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	if s.cancelLoad != nil {
		s.cancelLoad()
	}
	s.cancelLoad = cancel
	n := s.loads
	s.loads++
	s.loadSeq = n
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		cancel()
		if s.loadSeq == n {
			s.cancelLoad = nil
		}
		s.mu.Unlock()
	}()

	area, err := s.buildArea(loadCtx, center, s.cfg.Seed+n)
	if err != nil {
		if loadCtx.Err() != nil && !errors.Is(err, domain.ErrAborted) {
			err = fmt.Errorf("load area at %s: %w: %w", center, domain.ErrAborted, err)
		} else {
			err = fmt.Errorf("load area at %s: %w", center, err)
		}
		s.log.WithError(err).Warn("Area load failed")
		return nil, err
	}

	runCtx, stop := context.WithCancel(s.ctx)
	s.mu.Lock()
	// Очистка или новая загрузка могли прийти, пока строился мир.
	if err := loadCtx.Err(); err != nil || s.loadSeq != n {
		s.mu.Unlock()
		stop()
		area.Dispose()
		err = fmt.Errorf("load area at %s: %w: superseded while building", center, domain.ErrAborted)
		s.log.WithError(err).Warn("Area load failed")
		return nil, err
	}
	s.areas[area.ID] = &runningArea{area: area, cancel: stop}
	s.order = append(s.order, area.ID)
	s.mu.Unlock()

	s.Hub.Broadcast(api.ServerMessage{Type: api.MessageAreaLoaded, AreaID: area.ID})
	go func() {
		if err := area.Run(runCtx); err != nil && !errors.Is(err, domain.ErrAborted) {
			area.log.WithError(err).Error("Area loop failed")
		}
	}()
	return area, nil
}

func (s *Service) buildArea(ctx context.Context, center geo.LatLng, seed int64) (*Area, error) {
	rect := geo.RectFromCenter(center.Lat, center.Lng, s.cfg.QueryRadiusKm)
	id := utils.GenerateID()
	log := s.log.WithFields(logrus.Fields{"area": id, "center": center.String()})

	if err := s.waitSlot(ctx); err != nil {
		return nil, err
	}
	roads, err := s.geo.Ways(ctx, rect)
	if err != nil {
		return nil, fmt.Errorf("ways: %w", err)
	}
	log.WithField("ways", len(roads.Ways)).Debug("Roads loaded")

	if err := s.waitSlot(ctx); err != nil {
		return nil, err
	}
	facilities, err := s.geo.Facilities(ctx, rect, domain.AllAmenities())
	if err != nil {
		return nil, fmt.Errorf("facilities: %w", err)
	}

	dialogue, err := s.dialogue.Dialogue(ctx)
	if err != nil {
		return nil, fmt.Errorf("dialogue: %w", err)
	}
	profiles, err := s.roster.Profiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("roster: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAborted, err)
	}

	world := BuildWorld(WorldData{
		ID:         id,
		Center:     center,
		Rect:       rect,
		Network:    roads,
		Facilities: facilities,
		Dialogue:   dialogue,
		Locale:     s.cfg.Locale,
		Languages:  s.cfg.PreferredLanguages(),
		Seed:       seed,
	})

	opts := []AreaOption{WithPublisher(s.Hub.Broadcast, s.cfg.SnapshotInterval)}
	if s.openJournal != nil {
		j, err := s.openJournal(domain.JournalHeader{
			Version:   1,
			Area:      id,
			Seed:      seed,
			Timestamp: time.Now().Unix(),
			Lat:       center.Lat,
			Lng:       center.Lng,
		})
		if err != nil {
			log.WithError(err).Warn("Journal disabled for area")
		} else {
			opts = append(opts, WithJournal(j))
		}
	}

	area := NewArea(world, seed, s.cfg.Clock(), opts...)
	area.Record(domain.JournalEvent{Kind: domain.EventAreaLoaded, Detail: center.String()})
	for _, p := range profiles {
		area.Spawn(p)
	}
	area.refreshView()

	log.WithFields(logrus.Fields{"agents": len(profiles), "seed": seed}).Info("Area loaded")
	return area, nil
}

// waitSlot ждет свободный слот Overpass плюс небольшой запас.
func (s *Service) waitSlot(ctx context.Context) error {
	st, err := s.geo.Status(ctx)
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}
	wait := st.Wait + domain.RateLimitPaddingMs*time.Millisecond
	if err := s.rateClock.Sleep(ctx, wait); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrAborted, err)
	}
	return nil
}

// CancelLoad прерывает незавершённую загрузку, если она есть.
func (s *Service) CancelLoad() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelLoad != nil {
		s.cancelLoad()
	}
}

// ClearAreas останавливает и очищает все области. Возвращает число очищенных.
func (s *Service) ClearAreas() int {
	s.mu.Lock()
	if s.cancelLoad != nil {
		s.cancelLoad()
	}
	areas := make([]*runningArea, 0, len(s.order))
	for _, id := range s.order {
		areas = append(areas, s.areas[id])
	}
	s.areas = make(map[string]*runningArea)
	s.order = nil
	s.mu.Unlock()

	for _, ra := range areas {
		ra.cancel()
		<-ra.area.Done()
		ra.area.Dispose()
		s.Hub.Broadcast(api.ServerMessage{Type: api.MessageAreaCleared, AreaID: ra.area.ID})
	}
	if len(areas) > 0 {
		s.log.WithField("areas", len(areas)).Info("Areas cleared")
	}
	return len(areas)
}

// HandleZoom реагирует на смену масштаба карты: подъём выше порога загружает область,
// масштаб на пороге и ниже убирает все области.
func (s *Service) HandleZoom(ctx context.Context, start, end int, center *geo.LatLng) (api.ViewResponse, error) {
	threshold := s.cfg.ZoomThreshold
	var resp api.ViewResponse

	switch {
	case start <= threshold && threshold < end:
		c := s.Center()
		if center != nil {
			c = *center
		}
		area, err := s.LoadArea(ctx, c)
		if err != nil {
			if errors.Is(err, domain.ErrAborted) {
				resp.Cleared = s.ClearAreas() > 0
			}
			return resp, err
		}
		summary := area.Summary()
		resp.Loaded = &summary

	case end <= threshold:
		resp.Cleared = s.ClearAreas() > 0
	}
	return resp, nil
}

// Areas - сводка по всем областям в порядке загрузки.
func (s *Service) Areas() []api.AreaSummary {
	s.mu.Lock()
	areas := make([]*Area, 0, len(s.order))
	for _, id := range s.order {
		areas = append(areas, s.areas[id].area)
	}
	s.mu.Unlock()

	out := make([]api.AreaSummary, 0, len(areas))
	for _, a := range areas {
		out = append(out, a.Summary())
	}
	return out
}

// Area ищет область по id.
func (s *Service) Area(id string) (*Area, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ra, ok := s.areas[id]
	if !ok {
		return nil, fmt.Errorf("area %s: %w", id, domain.ErrAreaNotFound)
	}
	return ra.area, nil
}

// Shutdown останавливает все области и загрузки.
func (s *Service) Shutdown() {
	s.ClearAreas()
	s.cancel()
}
