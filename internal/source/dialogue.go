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

// DialogueFile читает таблицу разговоров: строки "speakerA,speakerB,стенограмма".
type DialogueFile struct {
	Location string
	client   *http.Client
}

func NewDialogueFile(location string, timeout time.Duration) *DialogueFile {
	return &DialogueFile{Location: location, client: &http.Client{Timeout: timeout}}
}

func (d *DialogueFile) Dialogue(ctx context.Context) (*domain.DialogueTable, error) {
	data, err := readLocation(ctx, d.client, "dialogue", d.Location)
	if err != nil {
		return nil, err
	}
	table, err := ParseDialogue(bytes.NewReader(data))
	if err != nil {
		return nil, &domain.FetchError{Source: "dialogue", Err: err}
	}
	logger.Log.WithField("pairs", table.Len()).Info("Dialogue loaded")
	return table, nil
}

// ParseDialogue разбирает записи (a, b, стенограмма). Запятые внутри стенограммы сохраняются.
func ParseDialogue(r io.Reader) (*domain.DialogueTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	table := domain.NewDialogueTable()
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse dialogue row %d: %w", row, err)
		}
		if len(rec) < 3 {
			continue
		}
		a, b := strings.TrimSpace(rec[0]), strings.TrimSpace(rec[1])
		lines := domain.ParseTranscript(strings.Join(rec[2:], ","))
		if a == "" || b == "" || len(lines) == 0 {
			logger.Log.WithField("row", row).Debug("Skipping empty dialogue row")
			continue
		}
		table.Add(a, b, lines)
	}
	return table, nil
}
