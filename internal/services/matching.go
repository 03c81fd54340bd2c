package services

import (
	"math"
	"sort"

	"runam-backend/internal/models"
	"runam-backend/internal/store"
)

// MatchingIndex answers nearby-task queries. The production geo index is a
// separate service; this interface is all the core depends on.
type MatchingIndex interface {
	Nearby(lat, lng, radiusKm float64) []models.NearbyTask
}

// StoreMatchingIndex is the default MatchingIndex: a haversine scan over the
// open tasks in the store. Fine for a single node; ranking quality is not
// this package's problem.
type StoreMatchingIndex struct {
	tasks *store.TaskStore
}

// NewStoreMatchingIndex creates the store-backed matching index
func NewStoreMatchingIndex(tasks *store.TaskStore) *StoreMatchingIndex {
	return &StoreMatchingIndex{tasks: tasks}
}

// Nearby returns open tasks within radiusKm of (lat, lng), nearest first
func (m *StoreMatchingIndex) Nearby(lat, lng, radiusKm float64) []models.NearbyTask {
	var nearby []models.NearbyTask
	for _, task := range m.tasks.ListOpen() {
		d := haversineKm(lat, lng, task.Location.Lat, task.Location.Lng)
		if d <= radiusKm {
			nearby = append(nearby, models.NearbyTask{Task: task, DistanceKm: d})
		}
	}
	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].DistanceKm < nearby[j].DistanceKm
	})
	return nearby
}

const earthRadiusKm = 6371.0

// haversineKm is the great-circle distance between two points in kilometers
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
