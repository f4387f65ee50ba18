package engine

import (
	"fmt"
	"os"
	"time"

	"github.com/depp1024/living/internal/domain"
	"github.com/depp1024/living/pkg/geo"
	"gopkg.in/yaml.v3"
)

// Config хранит параметры запуска движка
type Config struct {
	// Seed - мастер-зерно. Область N получает Seed + N.
	Seed int64  `yaml:"seed"`
	Port string `yaml:"port"`

	// Locale выбирает тексты профилей и центр по умолчанию.
	Locale string `yaml:"locale"`
	// Languages - приоритет языков для имён мест (name:<lang>).
	Languages []string `yaml:"languages"`
	// Center - начальная точка; nil - по локали.
	Center *geo.LatLng `yaml:"center"`

	QueryRadiusKm float64 `yaml:"query_radius_km"`
	ZoomThreshold int     `yaml:"zoom_threshold"`

	// TimeScale ускоряет реальные часы области (2 = вдвое быстрее). 0 - виртуальные часы без сна.
	TimeScale        float64       `yaml:"time_scale"`
	SnapshotInterval time.Duration `yaml:"snapshot_interval"`

	OverpassURL    string        `yaml:"overpass_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	RosterSource   string        `yaml:"roster"`
	DialogueSource string        `yaml:"dialogue"`

	JournalDir string        `yaml:"journal_dir"`
	CachePath  string        `yaml:"cache_path"`
	CacheTTL   time.Duration `yaml:"cache_ttl"`
}

// NewConfig создает конфиг по умолчанию (случайный сид)
func NewConfig() Config {
	return Config{
		Seed:             time.Now().UnixNano(),
		Port:             "8080",
		Locale:           domain.DefaultLocale,
		QueryRadiusKm:    domain.QueryRadiusKm,
		ZoomThreshold:    domain.ZoomThreshold,
		TimeScale:        1,
		SnapshotInterval: time.Second,
		OverpassURL:      "https://overpass-api.de/api",
		RequestTimeout:   90 * time.Second,
		RosterSource:     "data/people.tsv",
		DialogueSource:   "data/talk.csv",
		CacheTTL:         24 * time.Hour,
	}
}

// LoadConfig читает YAML поверх значений по умолчанию. Пустой путь - только умолчания.
func LoadConfig(path string) (Config, error) {
	cfg := NewConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate проверяет значения, которые иначе сломают область тихо.
func (c Config) Validate() error {
	if c.QueryRadiusKm <= 0 {
		return fmt.Errorf("query_radius_km must be positive, got %v", c.QueryRadiusKm)
	}
	if c.TimeScale < 0 {
		return fmt.Errorf("time_scale must not be negative, got %v", c.TimeScale)
	}
	if c.Center != nil && (c.Center.Lat < -90 || c.Center.Lat > 90) {
		return fmt.Errorf("center latitude out of range: %v", c.Center.Lat)
	}
	return nil
}

// PreferredLanguages - языки для имён мест; по умолчанию язык локали.
func (c Config) PreferredLanguages() []string {
	if len(c.Languages) > 0 {
		return c.Languages
	}
	return []string{c.Locale}
}

// Clock выбирает часы области по TimeScale.
func (c Config) Clock() Clock {
	if c.TimeScale == 0 {
		return VirtualClock{}
	}
	return RealClock{Scale: c.TimeScale}
}
