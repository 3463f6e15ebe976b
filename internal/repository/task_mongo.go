package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/beconsistent/consistent-api/internal/model"
)

type MongoTaskRepository struct {
	coll *mongo.Collection
}

func NewMongoTask(db *mongo.Database) *MongoTaskRepository {
	return &MongoTaskRepository{coll: db.Collection(tasksCollection)}
}

func (r *MongoTaskRepository) Create(ctx context.Context, task model.Task) (model.Task, error) {
	now := time.Now().UTC()
	task.ID = primitive.NewObjectID()
	task.CreatedAt = now
	task.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, task); err != nil {
		return model.Task{}, fmt.Errorf("failed to insert task: %w", err)
	}
	return task, nil
}

func (r *MongoTaskRepository) CreateMany(ctx context.Context, tasks []model.Task) (int, error) {
	if len(tasks) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	docs := make([]any, 0, len(tasks))
	for _, t := range tasks {
		t.ID = primitive.NewObjectID()
		t.CreatedAt = now
		t.UpdatedAt = now
		docs = append(docs, t)
	}

	res, err := r.coll.InsertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("failed to insert tasks: %w", err)
	}
	return len(res.InsertedIDs), nil
}

func (r *MongoTaskRepository) GetByID(ctx context.Context, ownerKey, taskID string) (model.Task, error) {
	oid, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return model.Task{}, ErrNoDocuments
	}

	var task model.Task
	err = r.coll.FindOne(ctx, bson.M{"_id": oid, "owner_key": ownerKey}).Decode(&task)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Task{}, ErrNoDocuments
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

func (r *MongoTaskRepository) Update(ctx context.Context, task model.Task) (model.Task, error) {
	update := bson.M{"$set": bson.M{
		"title":        task.Title,
		"date":         task.Date,
		"is_completed": task.IsCompleted,
		"updated_at":   time.Now().UTC(),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated model.Task
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": task.ID, "owner_key": task.OwnerKey}, update, opts,
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Task{}, ErrNoDocuments
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to update task: %w", err)
	}
	return updated, nil
}

func (r *MongoTaskRepository) Delete(ctx context.Context, ownerKey, taskID string) error {
	oid, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return ErrNoDocuments
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid, "owner_key": ownerKey})
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNoDocuments
	}
	return nil
}

func (r *MongoTaskRepository) List(ctx context.Context, filter TaskListFilter) ([]model.Task, error) {
	q := bson.M{"owner_key": filter.OwnerKey}

	switch {
	case filter.Date != "":
		q["date"] = filter.Date
	case filter.FromDate != "" || filter.ToDate != "":
		rangeQ := bson.M{}
		if filter.FromDate != "" {
			rangeQ["$gte"] = filter.FromDate
		}
		if filter.ToDate != "" {
			rangeQ["$lt"] = filter.ToDate
		}
		q["date"] = rangeQ
	}

	if filter.OnlyIncomplete {
		q["is_completed"] = false
	}

	return r.find(ctx, q)
}

func (r *MongoTaskRepository) ListByMonthPrefix(ctx context.Context, ownerKey, yearMonth string) ([]model.Task, error) {
	q := bson.M{
		"owner_key": ownerKey,
		"date":      primitive.Regex{Pattern: "^" + yearMonth},
	}
	return r.find(ctx, q)
}

func (r *MongoTaskRepository) find(ctx context.Context, q bson.M) ([]model.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "created_at", Value: 1}})
	cur, err := r.coll.Find(ctx, q, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := []model.Task{}
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

var _ TaskRepository = (*MongoTaskRepository)(nil)
