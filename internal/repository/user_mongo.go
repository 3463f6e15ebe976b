package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/beconsistent/consistent-api/internal/model"
)

type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewMongoUser(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique email index. Uniqueness must live in
// the store; the service-level existence check alone loses the race
// between two concurrent registrations for the same address.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}
	return nil
}

// Email is the identity key and compared case-insensitively; every path
// lowercases before touching the collection.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *MongoUserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	now := time.Now().UTC()
	user.Email = normalizeEmail(user.Email)
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.User{}, ErrDuplicateKey
		}
		return model.User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	return user, nil
}

func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	var user model.User
	err := r.coll.FindOne(ctx, bson.M{"email": normalizeEmail(email)}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.User{}, ErrNoDocuments
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func (r *MongoUserRepository) UpdateByEmail(ctx context.Context, email string, upd model.UserUpdate) (model.User, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.AvatarURL != nil {
		set["avatar_url"] = *upd.AvatarURL
	}
	if upd.ReminderTime != nil {
		set["reminder_time"] = *upd.ReminderTime
	}
	if upd.ReportTime != nil {
		set["report_time"] = *upd.ReportTime
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user model.User
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"email": normalizeEmail(email)}, bson.M{"$set": set}, opts,
	).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.User{}, ErrNoDocuments
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (r *MongoUserRepository) UpdatePasswordHash(ctx context.Context, email, passwordHash string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"email": normalizeEmail(email)},
		bson.M{"$set": bson.M{"password_hash": passwordHash, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNoDocuments
	}
	return nil
}

func (r *MongoUserRepository) FindByNotifyTime(ctx context.Context, hhmm string) ([]model.User, error) {
	q := bson.M{"$or": bson.A{
		bson.M{"reminder_time": hhmm},
		bson.M{"report_time": hhmm},
	}}
	return r.find(ctx, q)
}

func (r *MongoUserRepository) ListAll(ctx context.Context) ([]model.User, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoUserRepository) find(ctx context.Context, q bson.M) ([]model.User, error) {
	cur, err := r.coll.Find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := []model.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

var _ UserRepository = (*MongoUserRepository)(nil)
