package api

import (
	"errors"
	"fmt"
)

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (p LatLng) Validate() error {
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("lat out of range: %v", p.Lat)
	}
	if p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("lng out of range: %v", p.Lng)
	}
	return nil
}

func (r ViewRequest) Validate() error {
	if r.ZoomStart < 0 || r.ZoomEnd < 0 {
		return errors.New("zoom cannot be negative")
	}
	if r.Center != nil {
		return r.Center.Validate()
	}
	return nil
}

func (r LoadRequest) Validate() error {
	if r.Center != nil {
		return r.Center.Validate()
	}
	return nil
}

func (m ClientMessage) Validate() error {
	switch m.Type {
	case ClientView:
		if m.View == nil {
			return errors.New("view command without payload")
		}
		return m.View.Validate()
	case ClientClear:
		return nil
	}
	return fmt.Errorf("unknown command %q", m.Type)
}
