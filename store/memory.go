package store

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"skillshare-api/models"
)

// table keeps documents in insertion order behind a lock.
type table[T any] struct {
	sync.RWMutex
	ids  []primitive.ObjectID
	docs map[primitive.ObjectID]*T
}

func newTable[T any]() *table[T] {
	return &table[T]{docs: make(map[primitive.ObjectID]*T)}
}

// caller holds the lock
func (t *table[T]) query(match func(*T) bool) []T {
	out := []T{}
	for _, id := range t.ids {
		if doc := t.docs[id]; match == nil || match(doc) {
			out = append(out, *doc)
		}
	}
	return out
}

func (t *table[T]) list(match func(*T) bool) []T {
	t.RLock()
	defer t.RUnlock()
	return t.query(match)
}

// caller holds the write lock
func (t *table[T]) insert(id primitive.ObjectID, doc T) *models.InsertResult {
	t.ids = append(t.ids, id)
	t.docs[id] = &doc
	return &models.InsertResult{Acknowledged: true, InsertedID: id}
}

// caller holds the write lock
func (t *table[T]) remove(id primitive.ObjectID) bool {
	if _, ok := t.docs[id]; !ok {
		return false
	}
	delete(t.docs, id)
	for i, v := range t.ids {
		if v == id {
			t.ids = append(t.ids[:i], t.ids[i+1:]...)
			break
		}
	}
	return true
}

// caller holds the write lock; apply reports whether the document changed
func (t *table[T]) update(match func(*T) bool, apply func(*T) bool) *models.UpdateResult {
	res := &models.UpdateResult{Acknowledged: true}
	for _, id := range t.ids {
		doc := t.docs[id]
		if !match(doc) {
			continue
		}
		res.MatchedCount++
		if apply(doc) {
			res.ModifiedCount++
		}
		break
	}
	return res
}

func (t *table[T]) get(id primitive.ObjectID) (*T, bool) {
	t.RLock()
	defer t.RUnlock()
	doc, ok := t.docs[id]
	if !ok {
		return nil, false
	}
	cp := *doc
	return &cp, true
}

// NewMemory returns a Store that keeps every collection in process memory.
func NewMemory() *Store {
	return &Store{
		Users:           &memUsers{t: newTable[models.User]()},
		Classes:         &memClasses{t: newTable[models.Class]()},
		TeacherRequests: &memTeacherRequests{t: newTable[models.TeacherRequest]()},
		Enrollments:     &memEnrollments{t: newTable[models.Enrollment]()},
		Payments:        &memPayments{t: newTable[models.Payment]()},
		Reviews:         &memReviews{t: newTable[bson.M]()},
	}
}

type memUsers struct {
	t *table[models.User]
}

func (s *memUsers) List(_ context.Context) ([]models.User, error) {
	return s.t.list(nil), nil
}

func (s *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	found := s.t.list(func(u *models.User) bool { return u.Email == email })
	if len(found) == 0 {
		return nil, ErrNotFound
	}
	return &found[0], nil
}

func (s *memUsers) InsertIfAbsent(_ context.Context, user *models.User) (*models.InsertResult, bool, error) {
	s.t.Lock()
	defer s.t.Unlock()

	if len(s.t.query(func(u *models.User) bool { return u.Email == user.Email })) > 0 {
		return nil, false, nil
	}
	doc := *user
	doc.ID = primitive.NewObjectID()
	return s.t.insert(doc.ID, doc), true, nil
}

func (s *memUsers) setRole(match func(*models.User) bool, role string) *models.UpdateResult {
	s.t.Lock()
	defer s.t.Unlock()
	return s.t.update(match, func(u *models.User) bool {
		if u.Role == role {
			return false
		}
		u.Role = role
		return true
	})
}

func (s *memUsers) SetRole(_ context.Context, id primitive.ObjectID, role string) (*models.UpdateResult, error) {
	return s.setRole(func(u *models.User) bool { return u.ID == id }, role), nil
}

func (s *memUsers) SetRoleByEmail(_ context.Context, email, role string) (*models.UpdateResult, error) {
	return s.setRole(func(u *models.User) bool { return u.Email == email }, role), nil
}

func (s *memUsers) Delete(_ context.Context, id primitive.ObjectID) (*models.DeleteResult, error) {
	s.t.Lock()
	defer s.t.Unlock()
	res := &models.DeleteResult{Acknowledged: true}
	if s.t.remove(id) {
		res.DeletedCount = 1
	}
	return res, nil
}

type memClasses struct {
	t *table[models.Class]
}

func (s *memClasses) List(_ context.Context) ([]models.Class, error) {
	return s.t.list(nil), nil
}

func (s *memClasses) ListByTeacher(_ context.Context, email string) ([]models.Class, error) {
	return s.t.list(func(c *models.Class) bool { return c.Email == email }), nil
}

func (s *memClasses) Get(_ context.Context, id primitive.ObjectID) (*models.Class, error) {
	class, ok := s.t.get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return class, nil
}

func (s *memClasses) Insert(_ context.Context, class *models.Class) (*models.InsertResult, error) {
	s.t.Lock()
	defer s.t.Unlock()
	doc := *class
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	return s.t.insert(doc.ID, doc), nil
}

func (s *memClasses) Update(_ context.Context, id primitive.ObjectID, fields models.ClassUpdate) (*models.UpdateResult, error) {
	s.t.Lock()
	defer s.t.Unlock()
	return s.t.update(func(c *models.Class) bool { return c.ID == id }, func(c *models.Class) bool {
		changed := c.Title != fields.Title || c.Price != fields.Price ||
			c.Description != fields.Description || c.Image != fields.Image
		c.Title = fields.Title
		c.Price = fields.Price
		c.Description = fields.Description
		c.Image = fields.Image
		return changed
	}), nil
}

func (s *memClasses) SetStatus(_ context.Context, id primitive.ObjectID, status string) (*models.UpdateResult, error) {
	s.t.Lock()
	defer s.t.Unlock()
	return s.t.update(func(c *models.Class) bool { return c.ID == id }, func(c *models.Class) bool {
		if c.Status == status {
			return false
		}
		c.Status = status
		return true
	}), nil
}

func (s *memClasses) Delete(_ context.Context, id primitive.ObjectID) (*models.DeleteResult, error) {
	s.t.Lock()
	defer s.t.Unlock()
	res := &models.DeleteResult{Acknowledged: true}
	if s.t.remove(id) {
		res.DeletedCount = 1
	}
	return res, nil
}

type memTeacherRequests struct {
	t *table[models.TeacherRequest]
}

func (s *memTeacherRequests) List(_ context.Context) ([]models.TeacherRequest, error) {
	return s.t.list(nil), nil
}

func (s *memTeacherRequests) Insert(_ context.Context, req *models.TeacherRequest) (*models.InsertResult, error) {
	s.t.Lock()
	defer s.t.Unlock()
	doc := *req
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	return s.t.insert(doc.ID, doc), nil
}

func (s *memTeacherRequests) setStatus(id primitive.ObjectID, from func(string) bool, to string) (*models.UpdateResult, *models.TeacherRequest) {
	s.t.Lock()
	defer s.t.Unlock()
	res := s.t.update(func(r *models.TeacherRequest) bool {
		return r.ID == id && from(r.Status)
	}, func(r *models.TeacherRequest) bool {
		r.Status = to
		return true
	})
	if res.ModifiedCount == 0 {
		return res, nil
	}
	cp := *s.t.docs[id]
	return res, &cp
}

func (s *memTeacherRequests) Accept(_ context.Context, id primitive.ObjectID) (*models.UpdateResult, *models.TeacherRequest, error) {
	res, req := s.setStatus(id, func(st string) bool { return st != models.StatusAccepted }, models.StatusAccepted)
	return res, req, nil
}

func (s *memTeacherRequests) Reopen(_ context.Context, id primitive.ObjectID) (*models.UpdateResult, error) {
	res, _ := s.setStatus(id, func(st string) bool { return st == models.StatusAccepted }, models.StatusPending)
	return res, nil
}

func (s *memTeacherRequests) Reject(_ context.Context, id primitive.ObjectID) (*models.TeacherRequest, error) {
	s.t.Lock()
	defer s.t.Unlock()
	doc, ok := s.t.docs[id]
	if !ok || doc.Status == models.StatusRejected {
		return nil, ErrNotFound
	}
	cp := *doc
	cp.Status = models.StatusRejected
	s.t.remove(id)
	return &cp, nil
}

type memEnrollments struct {
	t *table[models.Enrollment]
}

func (s *memEnrollments) Insert(_ context.Context, e *models.Enrollment) (*models.InsertResult, error) {
	s.t.Lock()
	defer s.t.Unlock()
	doc := *e
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	return s.t.insert(doc.ID, doc), nil
}

func (s *memEnrollments) ListByEmail(_ context.Context, email string) ([]models.Enrollment, error) {
	return s.t.list(func(e *models.Enrollment) bool { return e.Email == email }), nil
}

type memPayments struct {
	t *table[models.Payment]
}

func (s *memPayments) Insert(_ context.Context, p *models.Payment) (*models.InsertResult, error) {
	s.t.Lock()
	defer s.t.Unlock()
	doc := *p
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	return s.t.insert(doc.ID, doc), nil
}

func (s *memPayments) ListByEmail(_ context.Context, email string) ([]models.Payment, error) {
	return s.t.list(func(p *models.Payment) bool { return p.Email == email }), nil
}

type memReviews struct {
	t *table[bson.M]
}

func (s *memReviews) List(_ context.Context) ([]bson.M, error) {
	return s.t.list(nil), nil
}

// AddReview seeds a review into an in-memory store. It is a no-op for other
// drivers since reviews are read-only through the API.
func AddReview(s *Store, review bson.M) {
	mem, ok := s.Reviews.(*memReviews)
	if !ok {
		return
	}
	mem.t.Lock()
	defer mem.t.Unlock()
	mem.t.insert(primitive.NewObjectID(), review)
}
