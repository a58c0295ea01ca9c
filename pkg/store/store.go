package store

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/paraty-go/backend/internal/config"
	"github.com/paraty-go/backend/pkg/registration"
)

const (
	submissionsCollection = "partner_submissions"
	checksCollection      = "healthchecks"
)

// Store is the document-store layer backing submissions and the write-test
// health probe.
type Store struct {
	client *mongo.Client
	db     string
}

func Connect(ctx context.Context, cfg *config.Mongo) (*Store, error) {
	client, err := mongo.NewClient(options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(err, "invalid document store configuration")
	}

	if err := client.Connect(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to connect to document store")
	}

	log.WithFields(log.Fields{"kind": "store", "database": cfg.Database}).Debug("connected")
	return &Store{client: client, db: cfg.Database}, nil
}

func (s *Store) Close(ctx context.Context) {
	_ = s.client.Disconnect(ctx)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) collection(name string) *mongo.Collection {
	return s.client.Database(s.db).Collection(name)
}

// Collections lists the collection names of the configured database.
func (s *Store) Collections(ctx context.Context) ([]string, error) {
	names, err := s.client.Database(s.db).ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list collections")
	}
	return names, nil
}

// CountSubmissions counts stored submissions, scanning at most limit
// documents.
func (s *Store) CountSubmissions(ctx context.Context, limit int64) (int64, error) {
	count, err := s.collection(submissionsCollection).CountDocuments(ctx, bson.D{}, options.Count().SetLimit(limit))
	if err != nil {
		return 0, errors.Wrap(err, "failed to count submissions")
	}
	return count, nil
}

// SaveSubmission persists one submission and returns its document id.
func (s *Store) SaveSubmission(ctx context.Context, sub *registration.Submission) (string, error) {
	res, err := s.collection(submissionsCollection).InsertOne(ctx, sub)
	if err != nil {
		return "", errors.Wrap(err, "failed to store submission")
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprintf("%v", res.InsertedID), nil
}

// PutCheckDocument writes a throwaway document used by the write-test probe.
func (s *Store) PutCheckDocument(ctx context.Context, id string) error {
	_, err := s.collection(checksCollection).InsertOne(ctx, bson.M{
		"_id":       id,
		"createdAt": time.Now().UTC(),
	})
	return errors.Wrapf(err, "failed to write check document %s", id)
}

// GetCheckDocument verifies the check document can be read back.
func (s *Store) GetCheckDocument(ctx context.Context, id string) error {
	err := s.collection(checksCollection).FindOne(ctx, bson.M{"_id": id}).Err()
	return errors.Wrapf(err, "failed to read back check document %s", id)
}

// DeleteCheckDocument removes the check document again.
func (s *Store) DeleteCheckDocument(ctx context.Context, id string) error {
	_, err := s.collection(checksCollection).DeleteOne(ctx, bson.M{"_id": id})
	return errors.Wrapf(err, "failed to delete check document %s", id)
}
