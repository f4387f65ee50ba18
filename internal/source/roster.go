package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/depp1024/living/internal/domain"
	"github.com/depp1024/living/pkg/logger"
)

// Префиксы локализованных колонок таблицы профилей.
const (
	colName  = "name:"
	colIntro = "self-introduction:"
	colWord  = "a-little-word:"
)

// RosterTable читает профили людей из TSV/CSV: локальный файл или экспорт таблицы по URL.
type RosterTable struct {
	Location string
	client   *http.Client
}

func NewRosterTable(location string, timeout time.Duration) *RosterTable {
	return &RosterTable{Location: location, client: &http.Client{Timeout: timeout}}
}

func (r *RosterTable) Profiles(ctx context.Context) ([]*domain.Profile, error) {
	data, err := readLocation(ctx, r.client, "roster", r.Location)
	if err != nil {
		return nil, err
	}
	profiles, err := ParseRoster(bytes.NewReader(data))
	if err != nil {
		return nil, &domain.FetchError{Source: "roster", Err: err}
	}
	logger.Log.WithField("profiles", len(profiles)).Info("Roster loaded")
	return profiles, nil
}

// ParseRoster разбирает таблицу с заголовком:
// id, nickname, name:<loc>, self-introduction:<loc>, a-little-word:<loc>, icon, color, routing-pattern, routing-comment.
// Разделитель - табуляция, если она есть в заголовке, иначе запятая.
func ParseRoster(r io.Reader) ([]*domain.Profile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	header, _, _ := strings.Cut(string(data), "\n")

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = ','
	if strings.Contains(header, "\t") {
		cr.Comma = '\t'
	}
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parse roster: empty table")
	}

	columns := records[0]
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[strings.TrimSpace(c)] = i
	}
	if _, ok := index["nickname"]; !ok {
		return nil, fmt.Errorf("parse roster: %w: nickname column", domain.ErrMissingTag)
	}

	var out []*domain.Profile
	for n, rec := range records[1:] {
		field := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		p := &domain.Profile{
			ID:       field("id"),
			Nickname: field("nickname"),
			Names:    map[string]string{},
			Intros:   map[string]string{},
			Words:    map[string]string{},
			Icon:     field("icon"),
			Color:    field("color"),
			Patterns: domain.ParseRoutingPattern(field("routing-pattern")),
			Comments: domain.ParseRoutingComments(field("routing-comment")),
		}
		if p.Nickname == "" {
			logger.Log.WithField("row", n+2).Warn("Skipping roster row without nickname")
			continue
		}
		if p.ID == "" {
			p.ID = p.Nickname
		}

		for col := range index {
			switch {
			case strings.HasPrefix(col, colName):
				p.Names[strings.TrimPrefix(col, colName)] = field(col)
			case strings.HasPrefix(col, colIntro):
				p.Intros[strings.TrimPrefix(col, colIntro)] = field(col)
			case strings.HasPrefix(col, colWord):
				p.Words[strings.TrimPrefix(col, colWord)] = field(col)
			}
		}
		out = append(out, p)
	}
	return out, nil
}
