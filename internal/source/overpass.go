package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/depp1024/living/internal/domain"
	"github.com/depp1024/living/pkg/geo"
	"github.com/depp1024/living/pkg/logger"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/sirupsen/logrus"
)

const (
	overpassName   = "overpass"
	overpassHeader = "[out:json][timeout:60][maxsize:134217728];"
)

// responseSchema - минимальная форма ответа interpreter, на которую мы опираемся.
const responseSchema = `{
  "type": "object",
  "required": ["elements"],
  "properties": {
    "elements": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["type", "id"],
        "properties": {
          "type":  {"enum": ["node", "way", "relation", "area"]},
          "id":    {"type": "integer"},
          "lat":   {"type": "number", "minimum": -90, "maximum": 90},
          "lon":   {"type": "number", "minimum": -180, "maximum": 180},
          "nodes": {"type": "array", "items": {"type": "integer"}},
          "tags":  {"type": "object", "additionalProperties": {"type": "string"}}
        }
      }
    }
  }
}`

// Cache хранит сырые ответы interpreter по тексту запроса.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, body []byte) error
}

// Overpass - клиент Overpass API (status + interpreter).
type Overpass struct {
	baseURL string
	client  *http.Client
	cache   Cache
	schema  *jsonschema.Schema
	log     *logrus.Entry
}

type OverpassOption func(*Overpass)

func WithCache(c Cache) OverpassOption {
	return func(o *Overpass) { o.cache = c }
}

func WithHTTPClient(c *http.Client) OverpassOption {
	return func(o *Overpass) { o.client = c }
}

func NewOverpass(baseURL string, timeout time.Duration, opts ...OverpassOption) (*Overpass, error) {
	schema, err := jsonschema.CompileString("overpass-response.json", responseSchema)
	if err != nil {
		return nil, fmt.Errorf("compile overpass schema: %w", err)
	}
	o := &Overpass{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		schema:  schema,
		log:     logger.Log.WithField("component", overpassName),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Status спрашивает, когда освободится слот для запроса.
func (o *Overpass) Status(ctx context.Context) (domain.GeoStatus, error) {
	body, err := get(ctx, o.client, overpassName, o.baseURL+"/status")
	if err != nil {
		return domain.GeoStatus{}, err
	}
	st, err := ParseStatus(string(body))
	if err != nil {
		return domain.GeoStatus{}, &domain.FetchError{Source: overpassName, Err: err}
	}
	o.log.WithFields(logrus.Fields{"available": st.Available, "wait": st.Wait}).Debug("Overpass status")
	return st, nil
}

// ParseStatus разбирает текст /api/status.
// Четвертая строка либо "Slot available after: <t>, in N seconds.", либо сообщает о свободном слоте.
func ParseStatus(text string) (domain.GeoStatus, error) {
	lines := strings.Split(text, "\n")
	if len(lines) < 4 {
		return domain.GeoStatus{}, fmt.Errorf("status: expected at least 4 lines, got %d", len(lines))
	}

	slot := lines[3]
	if !strings.Contains(slot, "after") {
		return domain.GeoStatus{Available: true}, nil
	}

	slotText := strings.TrimPrefix(slot, "Slot available after: ")
	if i := strings.Index(slotText, ", in"); i >= 0 {
		slotText = slotText[:i]
	}
	slotAt, err := time.Parse(time.RFC3339, strings.TrimSpace(slotText))
	if err != nil {
		return domain.GeoStatus{}, fmt.Errorf("status: slot time: %w", err)
	}
	now, err := time.Parse(time.RFC3339, strings.TrimSpace(strings.TrimPrefix(lines[1], "Current time: ")))
	if err != nil {
		return domain.GeoStatus{}, fmt.Errorf("status: current time: %w", err)
	}

	wait := slotAt.Sub(now)
	if wait < 0 {
		wait = 0
	}
	return domain.GeoStatus{Available: false, Wait: wait}, nil
}

// Ways загружает дороги (way[highway]) вместе с их узлами.
func (o *Overpass) Ways(ctx context.Context, rect geo.Rect) (*domain.RoadNetwork, error) {
	resp, err := o.interpret(ctx, WaysQuery(rect))
	if err != nil {
		return nil, err
	}

	net := domain.NewRoadNetwork()
	for _, el := range resp.Elements {
		switch el.Type {
		case "node":
			net.AddNode(&domain.Node{ID: el.ID, Lat: el.Lat, Lng: el.Lon, Tags: el.Tags})
		case "way":
			net.AddWay(&domain.Way{ID: el.ID, NodeIDs: el.Nodes, Tags: el.Tags})
		}
	}
	o.log.WithFields(logrus.Fields{"nodes": len(net.Nodes), "ways": len(net.Ways)}).Info("Roads fetched")
	return net, nil
}

// Facilities загружает узлы заведений указанных категорий.
func (o *Overpass) Facilities(ctx context.Context, rect geo.Rect, amenities []string) ([]domain.Facility, error) {
	if len(amenities) == 0 {
		return nil, nil
	}
	resp, err := o.interpret(ctx, FacilitiesQuery(rect, amenities))
	if err != nil {
		return nil, err
	}

	var out []domain.Facility
	for _, el := range resp.Elements {
		if el.Type != "node" {
			continue
		}
		out = append(out, domain.Facility{ID: el.ID, Lat: el.Lat, Lng: el.Lon, Tags: el.Tags})
	}
	o.log.WithField("facilities", len(out)).Info("Facilities fetched")
	return out, nil
}

// WaysQuery - запрос дорог с узлами; прямоугольник через антимеридиан идет двумя половинами.
func WaysQuery(rect geo.Rect) string {
	var b strings.Builder
	b.WriteString(overpassHeader)
	b.WriteString("(")
	for _, r := range rect.Split() {
		b.WriteString("way[highway]")
		b.WriteString(bbox(r))
		b.WriteString(";")
	}
	b.WriteString(");(._;>;);out;")
	return b.String()
}

// FacilitiesQuery - запрос node[amenity=X] по каждой категории и каждой половине прямоугольника.
func FacilitiesQuery(rect geo.Rect, amenities []string) string {
	var b strings.Builder
	b.WriteString(overpassHeader)
	b.WriteString("(")
	for _, amenity := range amenities {
		for _, r := range rect.Split() {
			b.WriteString("node[amenity=")
			b.WriteString(amenity)
			b.WriteString("]")
			b.WriteString(bbox(r))
			b.WriteString(";")
		}
	}
	b.WriteString(");out body;")
	return b.String()
}

// bbox - (south,west,north,east).
func bbox(r geo.Rect) string {
	return "(" + strings.Join([]string{
		formatCoord(r.BottomLeft.Lat),
		formatCoord(r.BottomLeft.Lng),
		formatCoord(r.TopRight.Lat),
		formatCoord(r.TopRight.Lng),
	}, ",") + ")"
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type element struct {
	Type  string            `json:"type"`
	ID    int64             `json:"id"`
	Lat   float64           `json:"lat"`
	Lon   float64           `json:"lon"`
	Nodes []int64           `json:"nodes"`
	Tags  map[string]string `json:"tags"`
}

type interpreterResponse struct {
	Elements []element `json:"elements"`
}

// interpret выполняет запрос (или берет его из кэша) и проверяет форму ответа.
func (o *Overpass) interpret(ctx context.Context, query string) (*interpreterResponse, error) {
	log := o.log.WithField("query_len", len(query))

	var body []byte
	cached := false
	if o.cache != nil {
		b, ok, err := o.cache.Get(ctx, query)
		if err != nil {
			log.WithError(err).Warn("Cache read failed")
		} else if ok {
			body, cached = b, true
		}
	}

	if !cached {
		b, err := get(ctx, o.client, overpassName, o.baseURL+"/interpreter?data="+url.QueryEscape(query))
		if err != nil {
			return nil, err
		}
		body = b
	}

	resp, err := o.decode(body)
	if err != nil {
		return nil, &domain.FetchError{Source: overpassName, Err: err}
	}

	if o.cache != nil && !cached {
		if err := o.cache.Put(ctx, query, body); err != nil {
			log.WithError(err).Warn("Cache write failed")
		}
	}
	log.WithFields(logrus.Fields{"cached": cached, "elements": len(resp.Elements)}).Debug("Overpass query done")
	return resp, nil
}

func (o *Overpass) decode(body []byte) (*interpreterResponse, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if err := o.schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid response: %w", err)
	}
	var resp interpreterResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &resp, nil
}
