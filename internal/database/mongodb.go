package database

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"runam-backend/internal/config"
	"runam-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ArchiveClient wraps MongoDB for durable copies of the audit log, reports
// and task snapshots. The in-memory stores stay authoritative; this archive
// exists for dispute review and never fails a request.
type ArchiveClient struct {
	client              *mongo.Client
	database            *mongo.Database
	auditCollection     *mongo.Collection
	reportsCollection   *mongo.Collection
	snapshotsCollection *mongo.Collection
}

// NewArchiveClient creates a new MongoDB archive client
func NewArchiveClient(cfg config.MongoDBConfig) (*ArchiveClient, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Build connection URI
	uri := cfg.URI
	if uri == "" {
		if cfg.Username != "" && cfg.Password != "" {
			userInfo := url.UserPassword(cfg.Username, cfg.Password)
			uri = fmt.Sprintf("mongodb://%s@%s:%s/%s?authSource=%s",
				userInfo.String(),
				cfg.Host,
				cfg.Port,
				cfg.Database,
				url.QueryEscape(cfg.AuthSource),
			)
		} else {
			uri = fmt.Sprintf("mongodb://%s:%s/%s", cfg.Host, cfg.Port, cfg.Database)
		}
	}

	// Log connection attempt (mask password)
	logURI := uri
	if cfg.Password != "" && cfg.Username != "" {
		logURI = fmt.Sprintf("mongodb://%s:***@%s:%s/%s", cfg.Username, cfg.Host, cfg.Port, cfg.Database)
	}
	log.Printf("Attempting to connect to MongoDB at %s", logURI)

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB at %s: %w", logURI, err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB at %s: %w", logURI, err)
	}

	database := client.Database(cfg.Database)
	auditCollection := database.Collection("audit_log")
	reportsCollection := database.Collection("reports")
	snapshotsCollection := database.Collection("task_snapshots")

	// Index audit entries by task for review queries
	auditIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "taskId", Value: 1}, {Key: "createdAt", Value: 1}},
	}
	if _, err := auditCollection.Indexes().CreateOne(ctx, auditIndex); err != nil {
		// Index might already exist, that's okay
		fmt.Printf("Note: MongoDB audit index creation: %v\n", err)
	}

	reportIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "taskId", Value: 1}},
	}
	if _, err := reportsCollection.Indexes().CreateOne(ctx, reportIndex); err != nil {
		fmt.Printf("Note: MongoDB reports index creation: %v\n", err)
	}

	return &ArchiveClient{
		client:              client,
		database:            database,
		auditCollection:     auditCollection,
		reportsCollection:   reportsCollection,
		snapshotsCollection: snapshotsCollection,
	}, nil
}

// Close closes the MongoDB client connection
func (c *ArchiveClient) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.client.Disconnect(ctx)
}

// RecordAudit archives the entries of a task write and upserts the latest
// task snapshot. Called by the task store outside its lock; failures are
// logged, never surfaced.
func (c *ArchiveClient) RecordAudit(task models.Task, entries []models.AuditEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if len(entries) > 0 {
		docs := make([]interface{}, len(entries))
		for i, entry := range entries {
			docs[i] = entry
		}
		if _, err := c.auditCollection.InsertMany(ctx, docs); err != nil {
			log.Printf("[AUDIT] WARNING: failed to archive %d audit entries for task %s: %v", len(entries), task.ID, err)
		}
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": task.ID}
	update := bson.M{"$set": task}
	if _, err := c.snapshotsCollection.UpdateOne(ctx, filter, update, opts); err != nil {
		log.Printf("[AUDIT] WARNING: failed to archive snapshot of task %s: %v", task.ID, err)
	}
}

// ArchiveReport stores a durable copy of a report
func (c *ArchiveClient) ArchiveReport(report models.Report) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := c.reportsCollection.InsertOne(ctx, report); err != nil {
		log.Printf("[AUDIT] WARNING: failed to archive report %s: %v", report.ID, err)
	}
}

// AuditHistory retrieves the archived audit trail of a task, oldest first
func (c *ArchiveClient) AuditHistory(taskID string) ([]models.AuditEntry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := c.auditCollection.Find(ctx, bson.M{"taskId": taskID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit history: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.AuditEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode audit history: %w", err)
	}
	return entries, nil
}
