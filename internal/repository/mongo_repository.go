package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"spareeye/backend/internal/model"
)

const (
	requestsCollection = "requests"
	usersCollection    = "users"
	settingsCollection = "settings"
)

type mongoRepository struct {
	requests *mongo.Collection
	users    *mongo.Collection
	settings *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepository{
		requests: db.Collection(requestsCollection),
		users:    db.Collection(usersCollection),
		settings: db.Collection(settingsCollection),
	}
}

// EnsureMongoIndexes creates the indexes the repository relies on: a unique
// username and an (owner, createdAt) index for listing.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("could not create username index: %w", err)
	}
	_, err = db.Collection(requestsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("could not create requests index: %w", err)
	}
	return nil
}

// --- Requests ---

func (r *mongoRepository) CreateRequest(ctx context.Context, req *model.DiagnosisRequest) error {
	normalizeRequest(req)
	if _, err := r.requests.InsertOne(ctx, req); err != nil {
		return fmt.Errorf("could not insert request: %w", err)
	}
	return nil
}

func (r *mongoRepository) GetRequest(ctx context.Context, id string) (*model.DiagnosisRequest, error) {
	var req model.DiagnosisRequest
	if err := r.requests.FindOne(ctx, bson.M{"_id": id}).Decode(&req); err != nil {
		return nil, mapMongoError(err)
	}
	normalizeRequest(&req)
	return &req, nil
}

func (r *mongoRepository) ListRequests(ctx context.Context, owner string) ([]*model.DiagnosisRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.requests.Find(ctx, bson.M{"owner": owner}, opts)
	if err != nil {
		return nil, err
	}

	requests := make([]*model.DiagnosisRequest, 0)
	if err := cur.All(ctx, &requests); err != nil {
		return nil, err
	}
	for _, req := range requests {
		normalizeRequest(req)
	}
	return requests, nil
}

func (r *mongoRepository) UpdateRequest(ctx context.Context, req *model.DiagnosisRequest) error {
	normalizeRequest(req)
	res, err := r.requests.ReplaceOne(ctx, bson.M{"_id": req.ID}, req)
	if err != nil {
		return fmt.Errorf("could not update request: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoRepository) DeleteRequest(ctx context.Context, id string) error {
	res, err := r.requests.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Users ---

func (r *mongoRepository) CreateUser(ctx context.Context, user *model.User) error {
	if _, err := r.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("could not insert user: %w", err)
	}
	return nil
}

func (r *mongoRepository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return r.findUser(ctx, bson.M{"_id": id})
}

func (r *mongoRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findUser(ctx, bson.M{"username": username})
}

func (r *mongoRepository) findUser(ctx context.Context, filter bson.M) (*model.User, error) {
	var user model.User
	if err := r.users.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, mapMongoError(err)
	}
	return &user, nil
}

func (r *mongoRepository) ListUsers(ctx context.Context) ([]*model.User, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "username", Value: 1}}).
		SetProjection(bson.M{"hashedPassword": 0})
	cur, err := r.users.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	users := make([]*model.User, 0)
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *mongoRepository) UpdatePassword(ctx context.Context, userID, hashedPassword string) error {
	update := bson.M{"$set": bson.M{"hashedPassword": hashedPassword, "updatedAt": time.Now().UTC()}}
	res, err := r.users.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Settings ---

func (r *mongoRepository) GetSettings(ctx context.Context, userID string) (*model.Settings, error) {
	var s model.Settings
	if err := r.settings.FindOne(ctx, bson.M{"_id": userID}).Decode(&s); err != nil {
		return nil, mapMongoError(err)
	}
	return &s, nil
}

func (r *mongoRepository) SaveSettings(ctx context.Context, s *model.Settings) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.settings.ReplaceOne(ctx, bson.M{"_id": s.UserID}, s, opts)
	return err
}

func mapMongoError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
