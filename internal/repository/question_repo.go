package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"surveystudio/internal/model"
)

// QuestionRepo handles MongoDB operations for the shared question bank.
type QuestionRepo interface {
	Create(ctx context.Context, question *model.BankQuestion) (string, error)
	GetByID(ctx context.Context, id string) (*model.BankQuestion, error)
	GetByOwnerID(ctx context.Context, ownerID string) ([]*model.BankQuestion, error)
	GetByType(ctx context.Context, t model.ElementType) ([]*model.BankQuestion, error)
	Update(ctx context.Context, question *model.BankQuestion) error
	Delete(ctx context.Context, id string) error
}

type questionRepo struct {
	collection *mongo.Collection
}

// NewQuestionRepo creates a new question bank repository
func NewQuestionRepo(db *mongo.Database) QuestionRepo {
	return &questionRepo{
		collection: db.Collection("questions"),
	}
}

func (r *questionRepo) Create(ctx context.Context, question *model.BankQuestion) (string, error) {
	result, err := r.collection.InsertOne(ctx, question)
	if err != nil {
		return "", err
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", nil
	}
	return oid.Hex(), nil
}

func (r *questionRepo) GetByID(ctx context.Context, id string) (*model.BankQuestion, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var question model.BankQuestion
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&question)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	question.ID = id
	return &question, nil
}

func (r *questionRepo) GetByOwnerID(ctx context.Context, ownerID string) ([]*model.BankQuestion, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"ownerId": ownerID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var questions []*model.BankQuestion
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepo) GetByType(ctx context.Context, t model.ElementType) ([]*model.BankQuestion, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"type": t})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var questions []*model.BankQuestion
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepo) Update(ctx context.Context, question *model.BankQuestion) error {
	oid, err := primitive.ObjectIDFromHex(question.ID)
	if err != nil {
		return err
	}

	_, err = r.collection.ReplaceOne(ctx, bson.M{"_id": oid}, question)
	return err
}

func (r *questionRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
