package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/depp1024/living/internal/domain"
	"github.com/klauspost/compress/zstd"
)

// JournalSession - прочитанный журнал.
type JournalSession struct {
	Header domain.JournalHeader
	Events []domain.JournalEvent
}

func (s *JournalService) Load(path string) (*JournalSession, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	return readJournal(dec)
}

func readJournal(r io.Reader) (*JournalSession, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	// 1. Заголовок
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("failed to read header: %w", err)
		}
		return nil, fmt.Errorf("failed to read header: empty journal")
	}
	var header fileHeader
	if err := json.Unmarshal(sc.Bytes(), &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Валидация
	if header.Magic != MagicHeader {
		return nil, fmt.Errorf("invalid magic")
	}
	if header.Version != Version1 {
		return nil, fmt.Errorf("unsupported version: %d (expected %d)", header.Version, Version1)
	}

	session := &JournalSession{Header: header.JournalHeader}

	// 2. События
	for line := 2; sc.Scan(); line++ {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var ev domain.JournalEvent
		if err := json.Unmarshal(sc.Bytes(), &ev); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		session.Events = append(session.Events, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return session, nil
}
