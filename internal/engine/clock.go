package engine

import (
	"context"
	"time"
)

// Clock - источник пауз для планировщика области.
type Clock interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// RealClock спит по-настоящему, ускоряя время в Scale раз.
type RealClock struct {
	Scale float64
}

func (c RealClock) Sleep(ctx context.Context, d time.Duration) error {
	if c.Scale > 0 && c.Scale != 1 {
		d = time.Duration(float64(d) / c.Scale)
	}
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// VirtualClock не спит: время области идёт только по очереди.
type VirtualClock struct{}

func (VirtualClock) Sleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}
