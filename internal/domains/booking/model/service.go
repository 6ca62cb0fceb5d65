package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Service is a bookable treatment. Name is the catalog key.
type Service struct {
	Name            string  `json:"name"`
	DurationMinutes int     `json:"duration"`
	Price           float64 `json:"price"`
}

func DefaultServices() []Service {
	return []Service{
		{Name: "Massage", DurationMinutes: 60, Price: 80},
		{Name: "Gesichtsbehandlung", DurationMinutes: 45, Price: 65},
		{Name: "Maniküre", DurationMinutes: 30, Price: 40},
	}
}

// Catalog is the read-only set of services offered.
type Catalog struct {
	services []Service
	byName   map[string]Service
}

func NewCatalog(services []Service) (*Catalog, error) {
	if len(services) == 0 {
		return nil, errors.New("catalog needs at least one service")
	}

	catalog := &Catalog{
		services: make([]Service, 0, len(services)),
		byName:   make(map[string]Service, len(services)),
	}

	for _, svc := range services {
		name := strings.TrimSpace(svc.Name)

		switch {
		case name == "":
			return nil, errors.New("service name is required")
		case svc.DurationMinutes <= 0:
			return nil, fmt.Errorf("service %q: %w", name, ErrInvalidDuration)
		case svc.Price < 0:
			return nil, fmt.Errorf("service %q: price must not be negative", name)
		}

		if _, exists := catalog.byName[name]; exists {
			return nil, fmt.Errorf("service %q is listed twice", name)
		}

		svc.Name = name
		catalog.services = append(catalog.services, svc)
		catalog.byName[name] = svc
	}

	return catalog, nil
}

// ParseCatalog reads a JSON array of services. An empty or unusable value yields the default catalog.
func ParseCatalog(raw string) *Catalog {
	if strings.TrimSpace(raw) != "" {
		var services []Service

		err := json.Unmarshal([]byte(raw), &services)
		if err == nil {
			catalog, err := NewCatalog(services)
			if err == nil {
				return catalog
			}

			log.Error().Err(err).Msg("configured service catalog is invalid, using defaults")
		} else {
			log.Error().Err(err).Msg("failed to parse configured service catalog, using defaults")
		}
	}

	catalog, _ := NewCatalog(DefaultServices())

	return catalog
}

// Services returns the catalog in configuration order.
func (c *Catalog) Services() []Service {
	out := make([]Service, len(c.services))
	copy(out, c.services)

	return out
}

func (c *Catalog) Lookup(name string) (Service, bool) {
	svc, ok := c.byName[name]

	return svc, ok
}

// Resolve maps names to services, keeping the requested order.
func (c *Catalog) Resolve(names []string) ([]Service, error) {
	resolved := make([]Service, 0, len(names))

	for _, name := range names {
		svc, ok := c.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: service %q not found", ErrUnknownService, name)
		}

		resolved = append(resolved, svc)
	}

	return resolved, nil
}
