package probe

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/paraty-go/backend/internal/config"
	"github.com/paraty-go/backend/pkg/check"
	"github.com/paraty-go/backend/pkg/store"
)

const mongoTimeout = 30 * time.Second

func withStore(cfg *config.Mongo, fn func(ctx context.Context, st *store.Store) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	st, err := store.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close(ctx)

	return fn(ctx, st)
}

type mongoPingProbe struct {
	cfg *config.Mongo
}

func NewMongoPingProbe(cfg *config.Mongo) *mongoPingProbe {
	return &mongoPingProbe{cfg: cfg}
}

func (m *mongoPingProbe) Exec() error {
	return withStore(m.cfg, func(ctx context.Context, st *store.Store) error {
		if err := st.Ping(ctx); err != nil {
			return err
		}
		log.WithFields(log.Fields{"kind": "probe", "name": "mongodb", "status": "alive"}).Debug()
		return nil
	})
}

type mongoCollectionsProbe struct {
	cfg *config.Mongo
}

func NewMongoCollectionsProbe(cfg *config.Mongo) *mongoCollectionsProbe {
	return &mongoCollectionsProbe{cfg: cfg}
}

func (m *mongoCollectionsProbe) Exec() error {
	return withStore(m.cfg, func(ctx context.Context, st *store.Store) error {
		names, err := st.Collections(ctx)
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{"kind": "probe", "name": "mongodb", "collections": len(names)}).Debug()
		return nil
	})
}

type mongoCountProbe struct {
	cfg   *config.Mongo
	limit int64
}

func NewMongoCountProbe(cfg *config.Mongo, limit int64) *mongoCountProbe {
	return &mongoCountProbe{cfg: cfg, limit: limit}
}

func (m *mongoCountProbe) Exec() error {
	return withStore(m.cfg, func(ctx context.Context, st *store.Store) error {
		count, err := st.CountSubmissions(ctx, m.limit)
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{"kind": "probe", "name": "mongodb", "submissions": count}).Debug()
		return nil
	})
}

// checkDocumentStore is the slice of the store the round-trip probe needs.
type checkDocumentStore interface {
	PutCheckDocument(ctx context.Context, id string) error
	GetCheckDocument(ctx context.Context, id string) error
	DeleteCheckDocument(ctx context.Context, id string) error
}

type mongoRoundTripProbe struct {
	cfg *config.Mongo
}

// NewMongoRoundTripProbe writes a throwaway document, reads it back and
// deletes it again. The delete is attempted even when the read back fails;
// a failed delete after a successful read back is advisory only.
func NewMongoRoundTripProbe(cfg *config.Mongo) *mongoRoundTripProbe {
	return &mongoRoundTripProbe{cfg: cfg}
}

func (m *mongoRoundTripProbe) Exec() error {
	return withStore(m.cfg, func(ctx context.Context, st *store.Store) error {
		return roundTrip(ctx, st)
	})
}

func roundTrip(ctx context.Context, st checkDocumentStore) error {
	id := fmt.Sprintf("healthcheck-%d", time.Now().UnixNano())

	if err := st.PutCheckDocument(ctx, id); err != nil {
		return err
	}

	verifyErr := st.GetCheckDocument(ctx, id)
	deleteErr := st.DeleteCheckDocument(ctx, id)

	if verifyErr != nil {
		return verifyErr
	}
	if deleteErr != nil {
		return check.Advise("check document %s was written but not cleaned up: %s", id, deleteErr.Error())
	}

	log.WithFields(log.Fields{"kind": "probe", "name": "mongodb", "document": id}).Debug("round trip complete")
	return nil
}
