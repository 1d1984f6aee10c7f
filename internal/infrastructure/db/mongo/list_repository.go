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
)

const listsCollection = "lists"

// ListRepository implements ports.ListRepository on MongoDB. It holds the
// database rather than a single collection because deleting a list cascades
// into the tasks collection.
type ListRepository struct {
	db *mongo.Database
}

func NewListRepository(db *mongo.Database) *ListRepository {
	return &ListRepository{db: db}
}

type mongoList struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	OwnerID   string             `bson:"owner_id"`
	MemberIDs []string           `bson:"member_ids"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (ml *mongoList) toDomain() *domain.List {
	members := ml.MemberIDs
	if members == nil {
		members = []string{}
	}
	return &domain.List{
		ID:        ml.ID.Hex(),
		Name:      ml.Name,
		OwnerID:   ml.OwnerID,
		MemberIDs: members,
		CreatedAt: ml.CreatedAt,
	}
}

func (r *ListRepository) lists() *mongo.Collection {
	return r.db.Collection(listsCollection)
}

func (r *ListRepository) Create(ctx context.Context, list *domain.List) (*domain.List, error) {
	doc := mongoList{
		Name:      list.Name,
		OwnerID:   list.OwnerID,
		MemberIDs: list.MemberIDs,
		CreatedAt: list.CreatedAt.UTC(),
	}
	if doc.MemberIDs == nil {
		doc.MemberIDs = []string{}
	}

	res, err := r.lists().InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert list: %w", err)
	}

	created := *list
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *ListRepository) FindByID(ctx context.Context, id string) (*domain.List, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrListNotFound
	}

	var ml mongoList
	if err := r.lists().FindOne(ctx, bson.M{"_id": oid}).Decode(&ml); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListNotFound
		}
		return nil, fmt.Errorf("find list: %w", err)
	}
	return ml.toDomain(), nil
}

func (r *ListRepository) FindForUser(ctx context.Context, userID string) ([]*domain.List, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"owner_id": userID},
		bson.M{"member_ids": userID},
	}}
	cur, err := r.lists().Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find lists: %w", err)
	}
	defer cur.Close(ctx)

	out := []*domain.List{}
	for cur.Next(ctx) {
		var ml mongoList
		if err := cur.Decode(&ml); err != nil {
			return nil, err
		}
		out = append(out, ml.toDomain())
	}
	return out, cur.Err()
}

// Rename sets the name. The owner id rides in the filter so ownership is
// re-verified by the same write that mutates the document.
func (r *ListRepository) Rename(ctx context.Context, id, ownerID, name string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrListNotFound
	}

	res, err := r.lists().UpdateOne(ctx,
		bson.M{"_id": oid, "owner_id": ownerID},
		bson.M{"$set": bson.M{"name": name}})
	if err != nil {
		return fmt.Errorf("rename list: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrListNotFound
	}
	return nil
}

// Delete removes the list and then every task it owns. Tasks never outlive
// their list.
func (r *ListRepository) Delete(ctx context.Context, id, ownerID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrListNotFound
	}

	res, err := r.lists().DeleteOne(ctx, bson.M{"_id": oid, "owner_id": ownerID})
	if err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrListNotFound
	}

	if _, err := r.db.Collection(tasksCollection).DeleteMany(ctx, bson.M{"list_id": id}); err != nil {
		return fmt.Errorf("cascade delete tasks: %w", err)
	}
	return nil
}

// AddMember appends via $addToSet so concurrent adds of the same user cannot
// produce duplicates and concurrent adds of different users cannot lose each
// other. ModifiedCount distinguishes "already present" from a real insert.
func (r *ListRepository) AddMember(ctx context.Context, id, ownerID, memberID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrListNotFound
	}

	res, err := r.lists().UpdateOne(ctx,
		bson.M{"_id": oid, "owner_id": ownerID},
		bson.M{"$addToSet": bson.M{"member_ids": memberID}})
	if err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrListNotFound
	}
	if res.ModifiedCount == 0 {
		return domain.ErrAlreadyMember
	}
	return nil
}

// RemoveMember drops via $pull; removing an id that is not in the set is
// reported, not swallowed.
func (r *ListRepository) RemoveMember(ctx context.Context, id, ownerID, memberID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrListNotFound
	}

	res, err := r.lists().UpdateOne(ctx,
		bson.M{"_id": oid, "owner_id": ownerID},
		bson.M{"$pull": bson.M{"member_ids": memberID}})
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrListNotFound
	}
	if res.ModifiedCount == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func (r *ListRepository) RemoveUserEverywhere(ctx context.Context, userID string) error {
	_, err := r.lists().UpdateMany(ctx,
		bson.M{"member_ids": userID},
		bson.M{"$pull": bson.M{"member_ids": userID}})
	if err != nil {
		return fmt.Errorf("remove user from member sets: %w", err)
	}
	return nil
}

// DeleteOwnedBy removes every list the user owns, cascading each one's tasks.
func (r *ListRepository) DeleteOwnedBy(ctx context.Context, ownerID string) error {
	cur, err := r.lists().Find(ctx, bson.M{"owner_id": ownerID},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return fmt.Errorf("find owned lists: %w", err)
	}
	defer cur.Close(ctx)

	var listIDs []string
	for cur.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return err
		}
		listIDs = append(listIDs, doc.ID.Hex())
	}
	if err := cur.Err(); err != nil {
		return err
	}
	if len(listIDs) == 0 {
		return nil
	}

	if _, err := r.db.Collection(tasksCollection).DeleteMany(ctx, bson.M{"list_id": bson.M{"$in": listIDs}}); err != nil {
		return fmt.Errorf("cascade delete tasks: %w", err)
	}
	if _, err := r.lists().DeleteMany(ctx, bson.M{"owner_id": ownerID}); err != nil {
		return fmt.Errorf("delete owned lists: %w", err)
	}
	return nil
}

// EnsureIndexes creates the lookup indexes used by FindForUser.
func (r *ListRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.lists().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		{Keys: bson.D{{Key: "member_ids", Value: 1}}},
	})
	return err
}
