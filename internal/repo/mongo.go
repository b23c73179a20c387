package repo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/Skotchmaster/diary/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	usersCollection   = "users"
	entriesCollection = "diary_entries"
)

type MongoRepo struct {
	DB *mongo.Database
}

var _ Store = (*MongoRepo)(nil)

func (r *MongoRepo) users() *mongo.Collection { return r.DB.Collection(usersCollection) }
func (r *MongoRepo) entries() *mongo.Collection { return r.DB.Collection(entriesCollection) }

func (r *MongoRepo) Migrate(ctx context.Context) error {
	if _, err := r.users().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}
	_, err := r.entries().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}

func (r *MongoRepo) Ping(ctx context.Context) error {
	return r.DB.Client().Ping(ctx, readpref.Primary())
}

func (r *MongoRepo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.DB.Client().Disconnect(ctx)
}

func (r *MongoRepo) CreateUserIfNotExists(ctx context.Context, u *models.User) error {
	err := r.users().FindOne(ctx, bson.M{"username": u.Username}).Err()
	switch {
	case err == nil:
		return ErrUserAlreadyExist
	case !errors.Is(err, mongo.ErrNoDocuments):
		return err
	}

	if _, err := r.users().InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrUserAlreadyExist
		}
		return err
	}
	return nil
}

func (r *MongoRepo) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.users().FindOne(ctx, bson.M{"username": username}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *MongoRepo) CreateEntry(ctx context.Context, e *models.DiaryEntry) error {
	_, err := r.entries().InsertOne(ctx, e)
	return err
}

func (r *MongoRepo) ListEntries(ctx context.Context, userID string) ([]models.DiaryEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, bson.M{"user_id": userID}, opts)
}

func (r *MongoRepo) GetEntry(ctx context.Context, id, userID string) (*models.DiaryEntry, error) {
	var entry models.DiaryEntry
	if err := r.entries().FindOne(ctx, ownedFilter(id, userID)).Decode(&entry); err != nil {
		return nil, notFound(err)
	}
	return &entry, nil
}

func (r *MongoRepo) UpdateEntry(ctx context.Context, id, userID, title, content string) (*models.DiaryEntry, error) {
	update := bson.M{"$set": bson.M{
		"title":      title,
		"content":    content,
		"updated_at": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var entry models.DiaryEntry
	if err := r.entries().FindOneAndUpdate(ctx, ownedFilter(id, userID), update, opts).Decode(&entry); err != nil {
		return nil, notFound(err)
	}
	return &entry, nil
}

func (r *MongoRepo) DeleteEntry(ctx context.Context, id, userID string) (*models.DiaryEntry, error) {
	var entry models.DiaryEntry
	if err := r.entries().FindOneAndDelete(ctx, ownedFilter(id, userID)).Decode(&entry); err != nil {
		return nil, notFound(err)
	}
	return &entry, nil
}

func (r *MongoRepo) SearchEntries(ctx context.Context, userID, query string, offset, limit int) (int64, []models.DiaryEntry, error) {
	filter := searchFilter(userID, query)

	total, err := r.entries().CountDocuments(ctx, filter)
	if err != nil {
		return 0, nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	items, err := r.find(ctx, filter, opts)
	if err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *MongoRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.DiaryEntry, error) {
	cur, err := r.entries().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	items := make([]models.DiaryEntry, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func ownedFilter(id, userID string) bson.M {
	return bson.M{"_id": id, "user_id": userID}
}

// searchFilter matches query literally, ignoring case, in title or content.
func searchFilter(userID, query string) bson.M {
	re := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	return bson.M{
		"user_id": userID,
		"$or": bson.A{
			bson.M{"title": re},
			bson.M{"content": re},
		},
	}
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
