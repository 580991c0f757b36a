// Package store holds the typed accessors over the marketplace collections.
// Two drivers implement them: MongoDB for deployments and an in-memory one for
// local runs and tests.
package store

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"skillshare-api/models"
)

// ErrNotFound is returned when a lookup matches no document.
var ErrNotFound = errors.New("document not found")

// UserStore accesses the users collection.
type UserStore interface {
	List(ctx context.Context) ([]models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// InsertIfAbsent inserts the user unless one with the same email exists.
	// created is false when a user already existed; nothing is written then.
	InsertIfAbsent(ctx context.Context, user *models.User) (result *models.InsertResult, created bool, err error)
	SetRole(ctx context.Context, id primitive.ObjectID, role string) (*models.UpdateResult, error)
	SetRoleByEmail(ctx context.Context, email, role string) (*models.UpdateResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*models.DeleteResult, error)
}

// ClassStore accesses the classes collection.
type ClassStore interface {
	List(ctx context.Context) ([]models.Class, error)
	ListByTeacher(ctx context.Context, email string) ([]models.Class, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Class, error)
	Insert(ctx context.Context, class *models.Class) (*models.InsertResult, error)
	Update(ctx context.Context, id primitive.ObjectID, fields models.ClassUpdate) (*models.UpdateResult, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.UpdateResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*models.DeleteResult, error)
}

// TeacherRequestStore accesses the teacher request collection.
type TeacherRequestStore interface {
	List(ctx context.Context) ([]models.TeacherRequest, error)
	Insert(ctx context.Context, req *models.TeacherRequest) (*models.InsertResult, error)
	// Accept moves a request that is not yet accepted to accepted in a single
	// conditional update. The request is returned only when this call made the
	// transition; otherwise it is nil and the result reports zero matches.
	Accept(ctx context.Context, id primitive.ObjectID) (*models.UpdateResult, *models.TeacherRequest, error)
	// Reopen moves an accepted request back to pending.
	Reopen(ctx context.Context, id primitive.ObjectID) (*models.UpdateResult, error)
	// Reject removes a request that is not already rejected in a single
	// conditional delete. ErrNotFound means nothing matched.
	Reject(ctx context.Context, id primitive.ObjectID) (*models.TeacherRequest, error)
}

// EnrollmentStore accesses the enrolled collection.
type EnrollmentStore interface {
	Insert(ctx context.Context, e *models.Enrollment) (*models.InsertResult, error)
	ListByEmail(ctx context.Context, email string) ([]models.Enrollment, error)
}

// PaymentStore accesses the payments collection.
type PaymentStore interface {
	Insert(ctx context.Context, p *models.Payment) (*models.InsertResult, error)
	ListByEmail(ctx context.Context, email string) ([]models.Payment, error)
}

// ReviewStore reads the free-form reviews collection.
type ReviewStore interface {
	List(ctx context.Context) ([]bson.M, error)
}

// Store bundles the collection accessors handed to controllers.
type Store struct {
	Users           UserStore
	Classes         ClassStore
	TeacherRequests TeacherRequestStore
	Enrollments     EnrollmentStore
	Payments        PaymentStore
	Reviews         ReviewStore

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Ping reports whether the backing database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases the backing connection, if any.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}
