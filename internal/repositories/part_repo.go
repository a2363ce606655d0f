// Package repositories adapts the remote document database to the client
// core. Each collection gets a typed repository; identifiers are opaque
// strings assigned on insert, and every method honors the caller's context
// deadline.
package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Dnicola11/repuestos/internal/backend"
	"github.com/Dnicola11/repuestos/internal/models"
)

type PartRepository interface {
	// Insert stores the draft with both timestamps set to now and returns the
	// assigned identifier.
	Insert(ctx context.Context, draft models.PartDraft, now time.Time) (string, error)
	// ListAll returns every part ordered by creation time descending, with
	// read-side defaults applied.
	ListAll(ctx context.Context) ([]models.Part, error)
	// UpdateFields merges the non-nil fields into the document and stamps a
	// fresh modification time.
	UpdateFields(ctx context.Context, id string, fields models.PartUpdate, now time.Time) error
	Delete(ctx context.Context, id string) error
}

type partRepo struct {
	coll *mongo.Collection
}

func NewPartRepository(coll *mongo.Collection) PartRepository {
	return &partRepo{coll: coll}
}

// partEntity is the stored document shape. MinStock is a pointer so a stored
// zero survives the read-side default for absent thresholds.
type partEntity struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description,omitempty"`
	Quantity    int       `bson:"quantity"`
	Price       float64   `bson:"price"`
	Category    string    `bson:"category,omitempty"`
	MinStock    *int      `bson:"min_stock,omitempty"`
	ImageURL    string    `bson:"image_url,omitempty"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func partFromEntity(ent partEntity) models.Part {
	p := models.Part{
		ID:          ent.ID,
		Name:        ent.Name,
		Description: ent.Description,
		Quantity:    ent.Quantity,
		Price:       ent.Price,
		Category:    ent.Category,
		ImageURL:    ent.ImageURL,
		CreatedAt:   ent.CreatedAt,
		UpdatedAt:   ent.UpdatedAt,
	}
	if p.Category == "" {
		p.Category = models.DefaultCategory
	}
	if ent.MinStock != nil {
		p.MinStock = *ent.MinStock
	} else {
		p.MinStock = models.DefaultMinStock
	}
	return p
}

func (r *partRepo) Insert(ctx context.Context, draft models.PartDraft, now time.Time) (string, error) {
	const op = "repositories.part.Insert"

	minStock := draft.MinStock
	ent := partEntity{
		ID:          uuid.NewString(),
		Name:        draft.Name,
		Description: draft.Description,
		Quantity:    draft.Quantity,
		Price:       draft.Price,
		Category:    draft.Category,
		MinStock:    &minStock,
		ImageURL:    draft.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := r.coll.InsertOne(ctx, ent); err != nil {
		return "", translate(op, err)
	}
	return ent.ID, nil
}

func (r *partRepo) ListAll(ctx context.Context) ([]models.Part, error) {
	const op = "repositories.part.ListAll"

	cur, err := r.coll.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, translate(op, err)
	}
	defer cur.Close(ctx)

	out := make([]models.Part, 0)
	for cur.Next(ctx) {
		var ent partEntity
		if err := cur.Decode(&ent); err != nil {
			return nil, translate(op+" decode", err)
		}
		out = append(out, partFromEntity(ent))
	}
	if err := cur.Err(); err != nil {
		return nil, translate(op+" cursor", err)
	}
	return out, nil
}

func (r *partRepo) UpdateFields(ctx context.Context, id string, fields models.PartUpdate, now time.Time) error {
	const op = "repositories.part.UpdateFields"

	set := bson.M{"updated_at": now}
	if fields.Name != nil {
		set["name"] = *fields.Name
	}
	if fields.Description != nil {
		set["description"] = *fields.Description
	}
	if fields.Quantity != nil {
		set["quantity"] = *fields.Quantity
	}
	if fields.Price != nil {
		set["price"] = *fields.Price
	}
	if fields.Category != nil {
		set["category"] = *fields.Category
	}
	if fields.MinStock != nil {
		set["min_stock"] = *fields.MinStock
	}
	if fields.ImageURL != nil {
		set["image_url"] = *fields.ImageURL
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return translate(op, err)
	}
	if res.MatchedCount == 0 {
		return backend.New(backend.KindNotFound, fmt.Sprintf("%s: no part with id %s", op, id))
	}
	return nil
}

func (r *partRepo) Delete(ctx context.Context, id string) error {
	const op = "repositories.part.Delete"

	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return translate(op, err)
	}
	return nil
}
