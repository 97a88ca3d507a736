package firestore

import "github.com/m-mizutani/fireconf"

// IndexConfig returns the composite indexes required by the list queries.
// collectionPrefix must match the prefix passed to WithCollectionPrefix.
func IndexConfig(collectionPrefix string) *fireconf.Config {
	cols := &collections{prefix: collectionPrefix}

	byParent := func(parentField string) fireconf.Index {
		return fireconf.Index{
			Fields: []fireconf.IndexField{
				{Path: parentField, Order: fireconf.OrderAscending},
				{Path: "created_at", Order: fireconf.OrderAscending},
				{Path: "rank", Order: fireconf.OrderAscending},
			},
		}
	}

	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				// ListBySituation: situation_id ASC, created_at ASC, rank ASC
				Name:    cols.name(CollectionRisks),
				Indexes: []fireconf.Index{byParent("situation_id")},
			},
			{
				// ListByEvaluation and ListByMeta
				Name: cols.name(CollectionCountermeasures),
				Indexes: []fireconf.Index{
					byParent("evaluation_id"),
					byParent("meta_id"),
				},
			},
			{
				Name:    cols.name(CollectionMetaCountermeasures),
				Indexes: []fireconf.Index{byParent("evaluation_id")},
			},
		},
	}
}
