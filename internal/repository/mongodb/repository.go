package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/stockbook/internal/domain/models"
)

const (
	snapshotCollection = "report_snapshots"
	connectTimeout     = 10 * time.Second
)

// Repository stores point-in-time report snapshots.
type Repository interface {
	SaveReportSnapshot(ctx context.Context, snapshot models.ReportSnapshot) error
}

// MongoDBRepository keeps one document per snapshot in report_snapshots.
type MongoDBRepository struct {
	client    *mongo.Client
	snapshots *mongo.Collection
}

// NewMongoDBRepository connects to uri and verifies the server answers a ping.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:    client,
		snapshots: client.Database(dbName).Collection(snapshotCollection),
	}, nil
}

// SaveReportSnapshot inserts the snapshot with money and quantities as Decimal128.
func (r *MongoDBRepository) SaveReportSnapshot(ctx context.Context, snapshot models.ReportSnapshot) error {
	doc, err := toDocument(snapshot)
	if err != nil {
		return err
	}

	if _, err := r.snapshots.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert report snapshot: %w", err)
	}
	return nil
}

func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
