package utils

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ParseOptionalUUID returns nil for an empty string
func ParseOptionalUUID(s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// GenerateTicketNo generates a unique sale ticket number, e.g. B001-20240501-1A2B3C4D
func GenerateTicketNo(prefix string, at time.Time) string {
	return prefix + "-" + at.Format("20060102") + "-" + strings.ToUpper(uuid.New().String()[:8])
}
