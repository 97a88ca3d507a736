package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscope/pkg/domain/interfaces"
	"github.com/secmon-lab/riskscope/pkg/domain/model"
	"google.golang.org/api/iterator"
)

// ErrNotFound is returned when the requested document does not exist
var ErrNotFound = model.ErrNotFound

// Base collection names
const (
	CollectionSituations          = "situations"
	CollectionRisks               = "identified_risks"
	CollectionEvaluations         = "risk_evaluations"
	CollectionCountermeasures     = "countermeasures"
	CollectionMetaCountermeasures = "meta_countermeasures"
)

// collections resolves collection names with an optional prefix
type collections struct {
	prefix string
}

func (c *collections) name(base string) string {
	if c.prefix != "" {
		return c.prefix + "_" + base
	}
	return base
}

type Firestore struct {
	client         *firestore.Client
	cols           *collections
	situation      *situationRepository
	risk           *riskRepository
	evaluation     *evaluationRepository
	countermeasure *countermeasureRepository
	meta           *metaCountermeasureRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix prefixes every collection name, used to isolate test runs
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.cols.prefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}

	cols := &collections{}
	f := &Firestore{
		client:         client,
		cols:           cols,
		situation:      &situationRepository{client: client, cols: cols},
		risk:           &riskRepository{client: client, cols: cols},
		evaluation:     &evaluationRepository{client: client, cols: cols},
		countermeasure: &countermeasureRepository{client: client, cols: cols},
		meta:           &metaCountermeasureRepository{client: client, cols: cols},
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Situation() interfaces.SituationRepository {
	return f.situation
}

func (f *Firestore) Risk() interfaces.RiskRepository {
	return f.risk
}

func (f *Firestore) Evaluation() interfaces.EvaluationRepository {
	return f.evaluation
}

func (f *Firestore) Countermeasure() interfaces.CountermeasureRepository {
	return f.countermeasure
}

func (f *Firestore) MetaCountermeasure() interfaces.MetaCountermeasureRepository {
	return f.meta
}

// Ping reads at most one situation to confirm the database is reachable
func (f *Firestore) Ping(ctx context.Context) error {
	iter := f.client.Collection(f.cols.name(CollectionSituations)).Limit(1).Documents(ctx)
	defer iter.Stop()

	if _, err := iter.Next(); err != nil && err != iterator.Done {
		return goerr.Wrap(err, "failed to reach firestore")
	}
	return nil
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

// decodeAll drains iter into documents of type T
func decodeAll[T any](iter *firestore.DocumentIterator) ([]*T, error) {
	defer iter.Stop()

	var out []*T
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate documents")
		}

		var v T
		if err := doc.DataTo(&v); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal document", goerr.V("id", doc.Ref.ID))
		}
		out = append(out, &v)
	}
	return out, nil
}
