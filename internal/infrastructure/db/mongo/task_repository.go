package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskhive/todo-system/internal/core/domain"
	"github.com/taskhive/todo-system/internal/core/ports"
)

const tasksCollection = "tasks"

// TaskRepository implements ports.TaskRepository on MongoDB.
type TaskRepository struct {
	coll *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{coll: db.Collection(tasksCollection)}
}

type mongoTask struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ListID    string             `bson:"list_id"`
	Text      string             `bson:"text"`
	Date      string             `bson:"date"`
	Checked   bool               `bson:"checked"`
	Priority  string             `bson:"priority"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (mt *mongoTask) toDomain() *domain.Task {
	return &domain.Task{
		ID:        mt.ID.Hex(),
		ListID:    mt.ListID,
		Text:      mt.Text,
		Date:      mt.Date,
		Checked:   mt.Checked,
		Priority:  domain.Priority(mt.Priority),
		CreatedAt: mt.CreatedAt,
	}
}

func (r *TaskRepository) Insert(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	doc := mongoTask{
		ListID:    task.ListID,
		Text:      task.Text,
		Date:      task.Date,
		Checked:   task.Checked,
		Priority:  string(task.Priority),
		CreatedAt: task.CreatedAt.UTC(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	created := *task
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

// ListByList returns the list's tasks ascending by creation time.
func (r *TaskRepository) ListByList(ctx context.Context, listID string) ([]*domain.Task, error) {
	cur, err := r.coll.Find(ctx, bson.M{"list_id": listID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	defer cur.Close(ctx)

	out := []*domain.Task{}
	for cur.Next(ctx) {
		var mt mongoTask
		if err := cur.Decode(&mt); err != nil {
			return nil, err
		}
		out = append(out, mt.toDomain())
	}
	return out, cur.Err()
}

// Update applies only the fields present in the patch and returns the
// post-update document.
func (r *TaskRepository) Update(ctx context.Context, listID, taskID string, patch ports.TaskPatch) (*domain.Task, error) {
	oid, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}
	if patch.IsEmpty() {
		return r.findOne(ctx, listID, oid)
	}

	set := bson.M{}
	if patch.Text != nil {
		set["text"] = *patch.Text
	}
	if patch.Date != nil {
		set["date"] = *patch.Date
	}
	if patch.Checked != nil {
		set["checked"] = *patch.Checked
	}
	if patch.Priority != nil {
		set["priority"] = *patch.Priority
	}

	var mt mongoTask
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "list_id": listID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mt)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	return mt.toDomain(), nil
}

// Toggle flips the checked flag with an aggregation-pipeline update, so the
// read and the write are one atomic operation.
func (r *TaskRepository) Toggle(ctx context.Context, listID, taskID string) (*domain.Task, error) {
	oid, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return nil, domain.ErrTaskNotFound
	}

	pipeline := bson.A{
		bson.M{"$set": bson.M{"checked": bson.M{"$not": "$checked"}}},
	}

	var mt mongoTask
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "list_id": listID},
		pipeline,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mt)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("toggle task: %w", err)
	}
	return mt.toDomain(), nil
}

func (r *TaskRepository) Delete(ctx context.Context, listID, taskID string) error {
	oid, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return domain.ErrTaskNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid, "list_id": listID})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// EnsureIndexes creates the list scoping index.
func (r *TaskRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "list_id", Value: 1}, {Key: "created_at", Value: 1}},
	})
	return err
}

func (r *TaskRepository) findOne(ctx context.Context, listID string, oid primitive.ObjectID) (*domain.Task, error) {
	var mt mongoTask
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid, "list_id": listID}).Decode(&mt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return mt.toDomain(), nil
}
