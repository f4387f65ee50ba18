package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/depp1024/living/internal/domain"
	"github.com/klauspost/compress/zstd"
)

const (
	MagicHeader string = `LVJR`
	Version1    int    = 1
)

// fileHeader - первая строка журнала.
type fileHeader struct {
	Magic string `json:"magic"`
	domain.JournalHeader
}

// JournalService создает и читает журналы прогонов в каталоге.
type JournalService struct {
	SaveDir string
}

func NewJournalService(dir string) (*JournalService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("journal dir %s: %w", dir, err)
	}
	return &JournalService{SaveDir: dir}, nil
}

// Path - имя файла журнала для области.
func (s *JournalService) Path(h domain.JournalHeader) string {
	filename := fmt.Sprintf("journal_%d_%s_%d.jsonl.zst", h.Seed, h.Area, h.Timestamp)
	return filepath.Join(s.SaveDir, filename)
}

// Open создает файл и пишет заголовок.
func (s *JournalService) Open(h domain.JournalHeader) (*JournalWriter, error) {
	if h.Version == 0 {
		h.Version = Version1
	}
	f, err := os.Create(s.Path(h))
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	w := &JournalWriter{path: f.Name(), f: f, enc: enc, w: bufio.NewWriterSize(enc, 64*1024)}

	if err := w.writeLine(fileHeader{Magic: MagicHeader, JournalHeader: h}); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	return w, nil
}

// JournalWriter пишет события JSONL в zstd-поток.
type JournalWriter struct {
	path string

	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

func (w *JournalWriter) Path() string { return w.path }

func (w *JournalWriter) Append(ev domain.JournalEvent) error {
	return w.writeLine(ev)
}

func (w *JournalWriter) writeLine(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.w == nil {
		return os.ErrClosed
	}

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Close дописывает буфер и закрывает zstd-кадр. Повторный вызов безопасен.
func (w *JournalWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var firstErr error
	if w.w != nil {
		firstErr = w.w.Flush()
		w.w = nil
	}
	if w.enc != nil {
		if err := w.enc.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		w.enc = nil
	}
	if w.f != nil {
		if err := w.f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		w.f = nil
	}
	return firstErr
}
