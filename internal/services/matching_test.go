package services

import (
	"testing"

	"runam-backend/internal/models"
	"runam-backend/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTaskAt(tasks *store.TaskStore, title string, lat, lng float64) *models.Task {
	return tasks.Create("poster-1", models.CreateTaskRequest{
		Title:       title,
		Description: "errand",
		Budget:      2000,
		Location:    models.Location{Lat: lat, Lng: lng},
	})
}

func TestNearby_FiltersByRadius(t *testing.T) {
	tasks := store.NewTaskStore()
	index := NewStoreMatchingIndex(tasks)

	// Roughly: 0.01 deg latitude is ~1.1km
	createTaskAt(tasks, "close", 6.46, 3.39)
	createTaskAt(tasks, "far", 7.45, 3.39) // ~111km north

	nearby := index.Nearby(6.45, 3.39, 5)
	require.Len(t, nearby, 1)
	assert.Equal(t, "close", nearby[0].Title)
	assert.InDelta(t, 1.11, nearby[0].DistanceKm, 0.05)
}

func TestNearby_SortedNearestFirst(t *testing.T) {
	tasks := store.NewTaskStore()
	index := NewStoreMatchingIndex(tasks)

	createTaskAt(tasks, "third", 6.48, 3.39)
	createTaskAt(tasks, "first", 6.451, 3.39)
	createTaskAt(tasks, "second", 6.47, 3.39)

	nearby := index.Nearby(6.45, 3.39, 10)
	require.Len(t, nearby, 3)
	assert.Equal(t, "first", nearby[0].Title)
	assert.Equal(t, "second", nearby[1].Title)
	assert.Equal(t, "third", nearby[2].Title)
}

func TestNearby_ExcludesAcceptedTasks(t *testing.T) {
	tasks := store.NewTaskStore()
	arbiter := NewArbiter(tasks)
	index := NewStoreMatchingIndex(tasks)

	open := createTaskAt(tasks, "still open", 6.451, 3.39)
	taken := createTaskAt(tasks, "taken", 6.452, 3.39)
	_, err := arbiter.Accept(taken.ID, "runner-1")
	require.NoError(t, err)

	nearby := index.Nearby(6.45, 3.39, 5)
	require.Len(t, nearby, 1)
	assert.Equal(t, open.ID, nearby[0].ID)
}

func TestNearby_EmptyWhenNothingInRange(t *testing.T) {
	tasks := store.NewTaskStore()
	index := NewStoreMatchingIndex(tasks)

	createTaskAt(tasks, "abuja", 9.07, 7.49)

	assert.Empty(t, index.Nearby(6.45, 3.39, 5))
}
