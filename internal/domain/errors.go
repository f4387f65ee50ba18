package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDataFetch - внешний источник не ответил или ответил мусором. Откатывает загрузку области.
	ErrDataFetch = errors.New("data fetch failed")
	// ErrAborted - загрузка отменена через context.
	ErrAborted = errors.New("aborted")
	// ErrNoPath - между клетками нет маршрута.
	ErrNoPath = errors.New("no path")
	// ErrMissingTag - у узла нет нужного тега.
	ErrMissingTag = errors.New("missing tag")
	// ErrMissingNode - дорога ссылается на несуществующий узел.
	ErrMissingNode = errors.New("missing node")
	// ErrStaleHandle - агент по хендлу уже удалён.
	ErrStaleHandle = errors.New("stale agent handle")
	// ErrAreaNotFound - области с таким ID нет.
	ErrAreaNotFound = errors.New("area not found")
)

// FetchError описывает неудачный запрос к источнику данных.
type FetchError struct {
	Source string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Source, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

// Unwrap даёт errors.Is сработать и на ErrDataFetch, и на исходную причину.
func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDataFetch}
	}
	return []error{ErrDataFetch, e.Err}
}
