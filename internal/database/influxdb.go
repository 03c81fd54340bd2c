package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"runam-backend/internal/models"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
)

// EventRecorder writes one point per audit entry to InfluxDB so lifecycle
// activity (accepts, attestations, freezes) can be charted over time.
type EventRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	org      string
	bucket   string
}

// NewEventRecorder creates a new InfluxDB event recorder
func NewEventRecorder(url, token, org, bucket string) (*EventRecorder, error) {
	log.Printf("[INFLUX-INIT] Initializing InfluxDB 2.0 client: url=%s, org=%s, bucket=%s", url, org, bucket)

	client := influxdb2.NewClient(url, token)

	health, err := client.Health(context.Background())
	if err != nil {
		log.Printf("[INFLUX-ERROR] Failed to check InfluxDB health: %v", err)
		client.Close()
		return nil, fmt.Errorf("failed to connect to InfluxDB: %w", err)
	}
	if health.Status != "pass" {
		log.Printf("[INFLUX-WARN] InfluxDB health check returned status: %s", health.Status)
	}

	writeAPI := client.WriteAPIBlocking(org, bucket)

	log.Printf("[INFLUX-INIT] InfluxDB 2.0 client initialized successfully")
	return &EventRecorder{
		client:   client,
		writeAPI: writeAPI,
		org:      org,
		bucket:   bucket,
	}, nil
}

// Close shuts down the InfluxDB client
func (r *EventRecorder) Close() {
	r.client.Close()
}

// RecordAudit writes each audit entry as a task_event measurement point.
// Failures are logged, never surfaced; the in-memory log is authoritative.
func (r *EventRecorder) RecordAudit(task models.Task, entries []models.AuditEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, entry := range entries {
		point := influxdb2.NewPointWithMeasurement("task_event").
			AddTag("task_id", entry.TaskID).
			AddTag("actor_id", entry.ActorID).
			AddTag("field", entry.Field).
			AddField("old_value", entry.OldValue).
			AddField("new_value", entry.NewValue).
			AddField("version", task.Version).
			SetTime(entry.CreatedAt)

		if err := r.writeAPI.WritePoint(ctx, point); err != nil {
			log.Printf("[INFLUX-ERROR] Failed to write task event for %s: %v", entry.TaskID, err)
			return
		}
	}
}
