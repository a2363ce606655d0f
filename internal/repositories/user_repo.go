package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Dnicola11/repuestos/internal/models"
)

type UserRepository interface {
	// Insert stores a new account and returns its identifier. A duplicate
	// email surfaces as an email-in-use backend error via the unique index.
	Insert(ctx context.Context, account models.Account) (string, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	// EnsureIndexes creates the unique email index. Called once at startup.
	EnsureIndexes(ctx context.Context) error
}

type userRepo struct {
	coll *mongo.Collection
}

func NewUserRepository(coll *mongo.Collection) UserRepository {
	return &userRepo{coll: coll}
}

type userEntity struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	DisplayName  string    `bson:"display_name,omitempty"`
	CreatedAt    time.Time `bson:"created_at"`
}

func (r *userRepo) Insert(ctx context.Context, account models.Account) (string, error) {
	const op = "repositories.user.Insert"

	ent := userEntity{
		ID:           uuid.NewString(),
		Email:        account.Email,
		PasswordHash: account.PasswordHash,
		DisplayName:  account.DisplayName,
		CreatedAt:    account.CreatedAt,
	}
	if ent.CreatedAt.IsZero() {
		ent.CreatedAt = time.Now()
	}

	if _, err := r.coll.InsertOne(ctx, ent); err != nil {
		return "", translate(op, err)
	}
	return ent.ID, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	const op = "repositories.user.GetByEmail"

	var ent userEntity
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&ent); err != nil {
		return nil, translate(op, err)
	}
	return &models.Account{
		ID:           ent.ID,
		Email:        ent.Email,
		PasswordHash: ent.PasswordHash,
		DisplayName:  ent.DisplayName,
		CreatedAt:    ent.CreatedAt,
	}, nil
}

func (r *userRepo) EnsureIndexes(ctx context.Context) error {
	const op = "repositories.user.EnsureIndexes"

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return translate(op, err)
	}
	return nil
}
