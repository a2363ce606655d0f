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

type CategoryRepository interface {
	Insert(ctx context.Context, draft models.CategoryDraft, now time.Time) (string, error)
	ListAll(ctx context.Context) ([]models.Category, error)
	UpdateFields(ctx context.Context, id string, fields models.CategoryUpdate) error
	Delete(ctx context.Context, id string) error
}

type categoryRepo struct {
	coll *mongo.Collection
}

func NewCategoryRepository(coll *mongo.Collection) CategoryRepository {
	return &categoryRepo{coll: coll}
}

type categoryEntity struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description,omitempty"`
	Color       string    `bson:"color,omitempty"`
	CreatedAt   time.Time `bson:"created_at"`
}

func categoryFromEntity(ent categoryEntity) models.Category {
	return models.Category{
		ID:          ent.ID,
		Name:        ent.Name,
		Description: ent.Description,
		Color:       ent.Color,
		CreatedAt:   ent.CreatedAt,
	}
}

func (r *categoryRepo) Insert(ctx context.Context, draft models.CategoryDraft, now time.Time) (string, error) {
	const op = "repositories.category.Insert"

	ent := categoryEntity{
		ID:          uuid.NewString(),
		Name:        draft.Name,
		Description: draft.Description,
		Color:       draft.Color,
		CreatedAt:   now,
	}
	if _, err := r.coll.InsertOne(ctx, ent); err != nil {
		return "", translate(op, err)
	}
	return ent.ID, nil
}

func (r *categoryRepo) ListAll(ctx context.Context) ([]models.Category, error) {
	const op = "repositories.category.ListAll"

	cur, err := r.coll.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, translate(op, err)
	}
	defer cur.Close(ctx)

	out := make([]models.Category, 0)
	for cur.Next(ctx) {
		var ent categoryEntity
		if err := cur.Decode(&ent); err != nil {
			return nil, translate(op+" decode", err)
		}
		out = append(out, categoryFromEntity(ent))
	}
	if err := cur.Err(); err != nil {
		return nil, translate(op+" cursor", err)
	}
	return out, nil
}

func (r *categoryRepo) UpdateFields(ctx context.Context, id string, fields models.CategoryUpdate) error {
	const op = "repositories.category.UpdateFields"

	set := bson.M{}
	if fields.Name != nil {
		set["name"] = *fields.Name
	}
	if fields.Description != nil {
		set["description"] = *fields.Description
	}
	if fields.Color != nil {
		set["color"] = *fields.Color
	}
	if len(set) == 0 {
		return nil
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return translate(op, err)
	}
	if res.MatchedCount == 0 {
		return backend.New(backend.KindNotFound, fmt.Sprintf("%s: no category with id %s", op, id))
	}
	return nil
}

func (r *categoryRepo) Delete(ctx context.Context, id string) error {
	const op = "repositories.category.Delete"

	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return translate(op, err)
	}
	return nil
}
