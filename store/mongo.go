package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"skillshare-api/models"
)

// Collection names
const (
	UsersCollection           = "users"
	ClassesCollection         = "classes"
	TeacherRequestsCollection = "teacherRequest"
	EnrollmentsCollection     = "enrolled"
	PaymentsCollection        = "payments"
	ReviewsCollection         = "reviews"
)

// Connect opens a MongoDB client pinned to Stable API v1 and pings the primary.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(err, "connect to mongodb")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "ping mongodb")
	}
	return client, nil
}

// NewMongo builds a Store over the given databases. Reviews live in their own
// database.
func NewMongo(client *mongo.Client, dbName, reviewsDBName string) *Store {
	db := client.Database(dbName)
	return &Store{
		Users:           &mongoUsers{c: db.Collection(UsersCollection)},
		Classes:         &mongoClasses{c: db.Collection(ClassesCollection)},
		TeacherRequests: &mongoTeacherRequests{c: db.Collection(TeacherRequestsCollection)},
		Enrollments:     &mongoEnrollments{c: db.Collection(EnrollmentsCollection)},
		Payments:        &mongoPayments{c: db.Collection(PaymentsCollection)},
		Reviews:         &mongoReviews{c: client.Database(reviewsDBName).Collection(ReviewsCollection)},
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
		close: client.Disconnect,
	}
}

// EnsureIndexes creates the unique email index backing idempotent signup.
func EnsureIndexes(ctx context.Context, client *mongo.Client, dbName string) error {
	_, err := client.Database(dbName).Collection(UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return errors.Wrap(err, "create users email index")
}

func findAll[T any](ctx context.Context, c *mongo.Collection, filter interface{}) ([]T, error) {
	cursor, err := c.Find(ctx, filter)
	if err != nil {
		return nil, errors.Wrapf(err, "find in %s", c.Name())
	}
	defer cursor.Close(ctx)

	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, errors.Wrapf(err, "decode %s", c.Name())
	}
	return out, nil
}

func insertOne(ctx context.Context, c *mongo.Collection, doc interface{}) (*models.InsertResult, error) {
	res, err := c.InsertOne(ctx, doc)
	if err != nil {
		return nil, errors.Wrapf(err, "insert into %s", c.Name())
	}
	return &models.InsertResult{Acknowledged: true, InsertedID: res.InsertedID}, nil
}

func updateOne(ctx context.Context, c *mongo.Collection, filter, update interface{}) (*models.UpdateResult, error) {
	res, err := c.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, errors.Wrapf(err, "update %s", c.Name())
	}
	return &models.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    res.UpsertedID,
	}, nil
}

func deleteOne(ctx context.Context, c *mongo.Collection, filter interface{}) (*models.DeleteResult, error) {
	res, err := c.DeleteOne(ctx, filter)
	if err != nil {
		return nil, errors.Wrapf(err, "delete from %s", c.Name())
	}
	return &models.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

func decodeOne(res *mongo.SingleResult, v interface{}) error {
	err := res.Decode(v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

type mongoUsers struct {
	c *mongo.Collection
}

func (s *mongoUsers) List(ctx context.Context) ([]models.User, error) {
	return findAll[models.User](ctx, s.c, bson.M{})
}

func (s *mongoUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := decodeOne(s.c.FindOne(ctx, bson.M{"email": email}), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *mongoUsers) InsertIfAbsent(ctx context.Context, user *models.User) (*models.InsertResult, bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"email": user.Email},
		bson.M{"$setOnInsert": user},
		options.Update().SetUpsert(true),
	)
	if mongo.IsDuplicateKeyError(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "upsert user")
	}
	if res.UpsertedCount == 0 {
		return nil, false, nil
	}
	return &models.InsertResult{Acknowledged: true, InsertedID: res.UpsertedID}, true, nil
}

func (s *mongoUsers) SetRole(ctx context.Context, id primitive.ObjectID, role string) (*models.UpdateResult, error) {
	return updateOne(ctx, s.c, bson.M{"_id": id}, bson.M{"$set": bson.M{"role": role}})
}

func (s *mongoUsers) SetRoleByEmail(ctx context.Context, email, role string) (*models.UpdateResult, error) {
	return updateOne(ctx, s.c, bson.M{"email": email}, bson.M{"$set": bson.M{"role": role}})
}

func (s *mongoUsers) Delete(ctx context.Context, id primitive.ObjectID) (*models.DeleteResult, error) {
	return deleteOne(ctx, s.c, bson.M{"_id": id})
}

type mongoClasses struct {
	c *mongo.Collection
}

func (s *mongoClasses) List(ctx context.Context) ([]models.Class, error) {
	return findAll[models.Class](ctx, s.c, bson.M{})
}

func (s *mongoClasses) ListByTeacher(ctx context.Context, email string) ([]models.Class, error) {
	return findAll[models.Class](ctx, s.c, bson.M{"email": email})
}

func (s *mongoClasses) Get(ctx context.Context, id primitive.ObjectID) (*models.Class, error) {
	var class models.Class
	if err := decodeOne(s.c.FindOne(ctx, bson.M{"_id": id}), &class); err != nil {
		return nil, err
	}
	return &class, nil
}

func (s *mongoClasses) Insert(ctx context.Context, class *models.Class) (*models.InsertResult, error) {
	return insertOne(ctx, s.c, class)
}

func (s *mongoClasses) Update(ctx context.Context, id primitive.ObjectID, fields models.ClassUpdate) (*models.UpdateResult, error) {
	return updateOne(ctx, s.c, bson.M{"_id": id}, bson.M{"$set": fields})
}

func (s *mongoClasses) SetStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.UpdateResult, error) {
	return updateOne(ctx, s.c, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
}

func (s *mongoClasses) Delete(ctx context.Context, id primitive.ObjectID) (*models.DeleteResult, error) {
	return deleteOne(ctx, s.c, bson.M{"_id": id})
}

type mongoTeacherRequests struct {
	c *mongo.Collection
}

func (s *mongoTeacherRequests) List(ctx context.Context) ([]models.TeacherRequest, error) {
	return findAll[models.TeacherRequest](ctx, s.c, bson.M{})
}

func (s *mongoTeacherRequests) Insert(ctx context.Context, req *models.TeacherRequest) (*models.InsertResult, error) {
	return insertOne(ctx, s.c, req)
}

func (s *mongoTeacherRequests) Accept(ctx context.Context, id primitive.ObjectID) (*models.UpdateResult, *models.TeacherRequest, error) {
	filter := bson.M{"_id": id, "status": bson.M{"$ne": models.StatusAccepted}}
	res, err := updateOne(ctx, s.c, filter, bson.M{"$set": bson.M{"status": models.StatusAccepted}})
	if err != nil || res.ModifiedCount == 0 {
		return res, nil, err
	}

	var req models.TeacherRequest
	err = decodeOne(s.c.FindOne(ctx, bson.M{"_id": id}), &req)
	if errors.Is(err, ErrNotFound) {
		// rejected in between; nobody to promote
		return res, nil, nil
	}
	if err != nil {
		return nil, nil, errors.Wrap(err, "read accepted teacher request")
	}
	return res, &req, nil
}

func (s *mongoTeacherRequests) Reopen(ctx context.Context, id primitive.ObjectID) (*models.UpdateResult, error) {
	filter := bson.M{"_id": id, "status": models.StatusAccepted}
	return updateOne(ctx, s.c, filter, bson.M{"$set": bson.M{"status": models.StatusPending}})
}

func (s *mongoTeacherRequests) Reject(ctx context.Context, id primitive.ObjectID) (*models.TeacherRequest, error) {
	filter := bson.M{"_id": id, "status": bson.M{"$ne": models.StatusRejected}}

	var req models.TeacherRequest
	if err := decodeOne(s.c.FindOneAndDelete(ctx, filter), &req); err != nil {
		return nil, errors.Wrap(err, "reject teacher request")
	}
	req.Status = models.StatusRejected
	return &req, nil
}

type mongoEnrollments struct {
	c *mongo.Collection
}

func (s *mongoEnrollments) Insert(ctx context.Context, e *models.Enrollment) (*models.InsertResult, error) {
	return insertOne(ctx, s.c, e)
}

func (s *mongoEnrollments) ListByEmail(ctx context.Context, email string) ([]models.Enrollment, error) {
	return findAll[models.Enrollment](ctx, s.c, bson.M{"email": email})
}

type mongoPayments struct {
	c *mongo.Collection
}

func (s *mongoPayments) Insert(ctx context.Context, p *models.Payment) (*models.InsertResult, error) {
	return insertOne(ctx, s.c, p)
}

func (s *mongoPayments) ListByEmail(ctx context.Context, email string) ([]models.Payment, error) {
	return findAll[models.Payment](ctx, s.c, bson.M{"email": email})
}

type mongoReviews struct {
	c *mongo.Collection
}

func (s *mongoReviews) List(ctx context.Context) ([]bson.M, error) {
	return findAll[bson.M](ctx, s.c, bson.M{})
}
