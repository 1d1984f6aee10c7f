package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskhive/todo-system/internal/core/domain"
)

const (
	questionsCollection = "security_questions"
	answersCollection   = "security_answers"
)

// SecurityRepository implements ports.SecurityRepository on MongoDB.
type SecurityRepository struct {
	questions *mongo.Collection
	answers   *mongo.Collection
}

func NewSecurityRepository(db *mongo.Database) *SecurityRepository {
	return &SecurityRepository{
		questions: db.Collection(questionsCollection),
		answers:   db.Collection(answersCollection),
	}
}

type mongoQuestion struct {
	ID   int    `bson:"_id"`
	Text string `bson:"text"`
}

type mongoAnswer struct {
	UserID     string `bson:"user_id"`
	QuestionID int    `bson:"question_id"`
	AnswerHash string `bson:"answer_hash"`
}

// SeedQuestions inserts the catalog on first startup only; an existing
// catalog is left untouched.
func (r *SecurityRepository) SeedQuestions(ctx context.Context, questions []domain.SecurityQuestion) error {
	count, err := r.questions.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("count questions: %w", err)
	}
	if count > 0 {
		return nil
	}

	docs := make([]any, 0, len(questions))
	for _, q := range questions {
		docs = append(docs, mongoQuestion{ID: q.ID, Text: q.Text})
	}
	if _, err := r.questions.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("seed questions: %w", err)
	}
	return nil
}

func (r *SecurityRepository) Questions(ctx context.Context) ([]domain.SecurityQuestion, error) {
	cur, err := r.questions.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find questions: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.SecurityQuestion
	for cur.Next(ctx) {
		var q mongoQuestion
		if err := cur.Decode(&q); err != nil {
			return nil, err
		}
		out = append(out, domain.SecurityQuestion{ID: q.ID, Text: q.Text})
	}
	return out, cur.Err()
}

func (r *SecurityRepository) FindQuestion(ctx context.Context, id int) (*domain.SecurityQuestion, error) {
	var q mongoQuestion
	if err := r.questions.FindOne(ctx, bson.M{"_id": id}).Decode(&q); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("find question: %w", err)
	}
	return &domain.SecurityQuestion{ID: q.ID, Text: q.Text}, nil
}

func (r *SecurityRepository) UpsertAnswer(ctx context.Context, answer *domain.SecurityAnswer) error {
	filter := bson.M{"user_id": answer.UserID, "question_id": answer.QuestionID}
	update := bson.M{"$set": bson.M{"answer_hash": answer.AnswerHash}}
	_, err := r.answers.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert answer: %w", err)
	}
	return nil
}

// AnswersForUser returns answers ordered by question id so that "the first
// stored answer" is a stable notion.
func (r *SecurityRepository) AnswersForUser(ctx context.Context, userID string) ([]domain.SecurityAnswer, error) {
	cur, err := r.answers.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "question_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find answers: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.SecurityAnswer
	for cur.Next(ctx) {
		var a mongoAnswer
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		out = append(out, domain.SecurityAnswer{UserID: a.UserID, QuestionID: a.QuestionID, AnswerHash: a.AnswerHash})
	}
	return out, cur.Err()
}

func (r *SecurityRepository) FindAnswer(ctx context.Context, userID string, questionID int) (*domain.SecurityAnswer, error) {
	var a mongoAnswer
	err := r.answers.FindOne(ctx, bson.M{"user_id": userID, "question_id": questionID}).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("find answer: %w", err)
	}
	return &domain.SecurityAnswer{UserID: a.UserID, QuestionID: a.QuestionID, AnswerHash: a.AnswerHash}, nil
}

func (r *SecurityRepository) DeleteAnswersForUser(ctx context.Context, userID string) error {
	_, err := r.answers.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}

// EnsureIndexes creates the (user, question) uniqueness constraint on answers.
func (r *SecurityRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.answers.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "question_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
