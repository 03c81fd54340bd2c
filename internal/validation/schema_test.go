package validation

import (
	"testing"

	"runam-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCreateTask_ValidPayload(t *testing.T) {
	payload := []byte(`{
		"title": "Buy groceries",
		"description": "Pick up rice and beans from Mile 12 market",
		"budget": 3000,
		"timeWindow": "Today",
		"location": {"lat": 6.45, "lng": 3.39, "label": "Lekki Phase 1"}
	}`)

	assert.NoError(t, ValidateCreateTask(payload))
}

func TestValidateCreateTask_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{
			name:    "missing title",
			payload: `{"description": "drop off a parcel", "budget": 1000, "location": {"lat": 6.45, "lng": 3.39}}`,
		},
		{
			name:    "zero budget",
			payload: `{"title": "Free errand", "description": "no budget at all", "budget": 0, "location": {"lat": 6.45, "lng": 3.39}}`,
		},
		{
			name:    "negative budget",
			payload: `{"title": "Odd errand", "description": "negative budget", "budget": -500, "location": {"lat": 6.45, "lng": 3.39}}`,
		},
		{
			name:    "fractional budget",
			payload: `{"title": "Odd errand", "description": "fractional budget", "budget": 10.5, "location": {"lat": 6.45, "lng": 3.39}}`,
		},
		{
			name:    "missing location",
			payload: `{"title": "Buy fuel", "description": "fill a 10L keg", "budget": 8000}`,
		},
		{
			name:    "latitude out of range",
			payload: `{"title": "Buy fuel", "description": "fill a 10L keg", "budget": 8000, "location": {"lat": 95, "lng": 3.39}}`,
		},
		{
			name:    "unknown time window",
			payload: `{"title": "Buy fuel", "description": "fill a 10L keg", "budget": 8000, "timeWindow": "Tomorrow", "location": {"lat": 6.45, "lng": 3.39}}`,
		},
		{
			name:    "title too short",
			payload: `{"title": "ab", "description": "short title here", "budget": 1000, "location": {"lat": 6.45, "lng": 3.39}}`,
		},
		{
			name:    "not json",
			payload: `budget=1000`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateCreateTask([]byte(tc.payload))
			require.Error(t, err)
			assert.Equal(t, models.ErrValidation, models.KindOf(err))
		})
	}
}
