// Package source загружает внешние данные области: дороги и заведения (Overpass),
// профили людей и таблицу разговоров.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/depp1024/living/internal/domain"
)

// maxBody - предел ответа (как maxsize в запросе Overpass).
const maxBody = 128 << 20

// get выполняет GET и возвращает тело. Любой не-200 ответ - FetchError.
func get(ctx context.Context, client *http.Client, name, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &domain.FetchError{Source: name, Err: err}
	}
	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s: %w: %w", name, domain.ErrAborted, ctx.Err())
		}
		return nil, &domain.FetchError{Source: name, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &domain.FetchError{Source: name, Status: resp.StatusCode, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &domain.FetchError{
			Source: name,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("unexpected response %q", truncate(string(body), 200)),
		}
	}
	return body, nil
}

// readLocation читает локальный файл или URL (экспорт таблицы).
func readLocation(ctx context.Context, client *http.Client, name, location string) ([]byte, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return get(ctx, client, name, location)
	}
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, &domain.FetchError{Source: name, Err: err}
	}
	return data, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
