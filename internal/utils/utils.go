package utils

import (
	"time"

	"github.com/google/uuid"
)

// GenerateUUID returns a new random identifier
func GenerateUUID() string {
	return uuid.New().String()
}

// NowUTC returns the current time in UTC
func NowUTC() time.Time {
	return time.Now().UTC()
}
