package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"storefront/internal/catalog/models"
	"storefront/pkg/platform/sentinel"
)

// itemDocument is the stored shape. The driver assigns _id on insert, which
// gives a stable insertion order to sort by.
type itemDocument struct {
	ObjectID    bson.ObjectID `bson:"_id,omitempty"`
	ID          string        `bson:"id"`
	Category    string        `bson:"category"`
	Title       string        `bson:"title"`
	Description string        `bson:"description"`
	Price       *float64      `bson:"price,omitempty"`
	Image       string        `bson:"image"`
	Highlights  []string      `bson:"highlights"`
	IsFeatured  bool          `bson:"isFeatured"`
}

func (d *itemDocument) toModel() *models.Item {
	highlights := d.Highlights
	if highlights == nil {
		highlights = []string{}
	}
	return &models.Item{
		ID:          d.ID,
		Category:    d.Category,
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		Image:       d.Image,
		Highlights:  highlights,
		IsFeatured:  d.IsFeatured,
	}
}

func insertFields(item *models.Item) bson.D {
	highlights := item.Highlights
	if highlights == nil {
		highlights = []string{}
	}
	fields := bson.D{
		{Key: "id", Value: item.ID},
		{Key: "category", Value: item.Category},
		{Key: "title", Value: item.Title},
		{Key: "description", Value: item.Description},
		{Key: "image", Value: item.Image},
		{Key: "highlights", Value: highlights},
		{Key: "isFeatured", Value: item.IsFeatured},
	}
	if item.Price != nil {
		fields = append(fields, bson.E{Key: "price", Value: *item.Price})
	}
	return fields
}

// MongoStore persists catalog items in a single collection with a unique
// index on the item identifier.
type MongoStore struct {
	coll *mongo.Collection

	createIndex func(ctx context.Context) error
	bulkWrite   func(ctx context.Context, writes []mongo.WriteModel) (*mongo.BulkWriteResult, error)

	indexMu sync.Mutex
	indexed bool
}

// NewMongo returns a store over db.collection. The collection is named after
// the catalog route ("products" or "projects").
func NewMongo(db *mongo.Database, collection string) *MongoStore {
	s := &MongoStore{coll: db.Collection(collection)}
	s.createIndex = s.createIDIndex
	s.bulkWrite = func(ctx context.Context, writes []mongo.WriteModel) (*mongo.BulkWriteResult, error) {
		return s.coll.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true))
	}
	return s
}

func (s *MongoStore) createIDIndex(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("id_unique"),
	})
	return err
}

// EnsureIndexes creates the unique identifier index. InsertIfAbsent calls it
// until it succeeds once, so a store opened while the server was down still
// gets the index before its first write.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	s.indexMu.Lock()
	defer s.indexMu.Unlock()
	if s.indexed {
		return nil
	}
	if err := s.createIndex(ctx); err != nil {
		return fmt.Errorf("create catalog index: %w", err)
	}
	s.indexed = true
	return nil
}

func (s *MongoStore) Count(ctx context.Context) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count catalog items: %w", err)
	}
	return n, nil
}

// InsertIfAbsent upserts every item with $setOnInsert in one ordered bulk
// write, so items whose identifier already exists are left untouched.
func (s *MongoStore) InsertIfAbsent(ctx context.Context, items []*models.Item) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	writes := make([]mongo.WriteModel, 0, len(items))
	for _, item := range items {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.D{{Key: "id", Value: item.ID}}).
			SetUpdate(bson.D{{Key: "$setOnInsert", Value: insertFields(item)}}).
			SetUpsert(true))
	}

	if err := s.EnsureIndexes(ctx); err != nil {
		return 0, err
	}

	// Two concurrent upserts of the same identifier can race on the unique
	// index and stop the ordered batch; another pass finishes it because the
	// upserts already applied are no-ops.
	const attempts = 3
	inserted := 0
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		var res *mongo.BulkWriteResult
		res, err = s.bulkWrite(ctx, writes)
		if res != nil {
			inserted += int(res.UpsertedCount)
		}
		if err == nil {
			return inserted, nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return inserted, fmt.Errorf("insert catalog items: %w", err)
		}
	}
	return inserted, fmt.Errorf("insert catalog items: still conflicting after %d attempts: %w", attempts, err)
}

func (s *MongoStore) List(ctx context.Context) ([]*models.Item, error) {
	return s.find(ctx, bson.D{})
}

func (s *MongoStore) ListFeatured(ctx context.Context) ([]*models.Item, error) {
	return s.find(ctx, bson.D{{Key: "isFeatured", Value: true}})
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (*models.Item, error) {
	var doc itemDocument
	err := s.coll.FindOne(ctx, bson.D{{Key: "id", Value: id}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find catalog item: %w", err)
	}
	return doc.toModel(), nil
}

func (s *MongoStore) find(ctx context.Context, filter bson.D) ([]*models.Item, error) {
	cur, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find catalog items: %w", err)
	}
	var docs []itemDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode catalog items: %w", err)
	}
	out := make([]*models.Item, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toModel())
	}
	return out, nil
}
