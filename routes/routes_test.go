package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"skillshare-api/controllers"
	"skillshare-api/middleware"
	"skillshare-api/models"
	"skillshare-api/store"
	"skillshare-api/utils"
)

type nopSender struct{}

func (nopSender) Send(_, _, _ string) error { return nil }

type stubProvider struct{}

func (stubProvider) CreateCardIntent(_ context.Context, _ int64, _ string) (string, error) {
	return "pi_secret", nil
}

type app struct {
	router http.Handler
	store  *store.Store
	tokens *utils.TokenManager
}

func newApp(t *testing.T) *app {
	t.Helper()
	logger := zap.NewNop()
	s := store.NewMemory()
	tokens := utils.NewTokenManager([]byte("routes-secret"), time.Hour)
	emails := utils.NewEmailService(nopSender{}, logger)
	timeout := time.Second

	router := mux.NewRouter()
	RegisterRoutes(router, middleware.NewGuard(tokens, s.Users, logger, timeout), Controllers{
		Auth:            controllers.NewAuthController(tokens, logger),
		Users:           controllers.NewUserController(s.Users, logger, timeout),
		Reviews:         controllers.NewReviewController(s.Reviews, logger, timeout),
		TeacherRequests: controllers.NewTeacherRequestController(s, emails, logger, timeout),
		Classes:         controllers.NewClassController(s.Classes, logger, timeout),
		Enrollments:     controllers.NewEnrollmentController(s.Enrollments, logger, timeout),
		Payments:        controllers.NewPaymentController(s.Payments, stubProvider{}, "usd", emails, logger, timeout),
		Health:          controllers.NewHealthController(s, logger, timeout),
	})
	return &app{router: Handler(router, logger, []string{"http://localhost:5173"}), store: s, tokens: tokens}
}

func (a *app) do(t *testing.T, method, path, email string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if email != "" {
		tok, err := a.tokens.Issue(map[string]interface{}{"email": email})
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *app) seed(t *testing.T, email, role string) {
	t.Helper()
	_, _, err := a.store.Users.InsertIfAbsent(context.Background(), &models.User{Email: email, Role: role})
	require.NoError(t, err)
}

func TestRoutes_Guards(t *testing.T) {
	a := newApp(t)
	a.seed(t, "admin@x.io", models.RoleAdmin)
	a.seed(t, "student@x.io", models.RoleStudent)

	tests := []struct {
		name   string
		method string
		path   string
		email  string
		want   int
	}{
		{"list users without token", http.MethodGet, "/users", "", http.StatusUnauthorized},
		{"list users as student", http.MethodGet, "/users", "student@x.io", http.StatusForbidden},
		{"list users as admin", http.MethodGet, "/users", "admin@x.io", http.StatusOK},
		{"teacher requests as student", http.MethodGet, "/teachers/teacher-requests", "student@x.io", http.StatusForbidden},
		{"create class as student", http.MethodPost, "/classes", "student@x.io", http.StatusForbidden},
		{"admin check of another user", http.MethodGet, "/users/admin/admin@x.io", "student@x.io", http.StatusForbidden},
		{"teacher check of another user", http.MethodGet, "/users/teacher/admin@x.io", "student@x.io", http.StatusForbidden},
		{"admin check of self", http.MethodGet, "/users/admin/student@x.io", "student@x.io", http.StatusOK},
		{"payments of another user", http.MethodGet, "/payments/admin@x.io", "student@x.io", http.StatusForbidden},
		{"payments of self", http.MethodGet, "/payments/student@x.io", "student@x.io", http.StatusOK},
		{"enrollments without token", http.MethodGet, "/enrolled/student@x.io", "", http.StatusUnauthorized},
		{"public classes", http.MethodGet, "/classes", "", http.StatusOK},
		{"public reviews", http.MethodGet, "/reviews", "", http.StatusOK},
		{"health", http.MethodGet, "/health", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.do(t, tt.method, tt.path, tt.email, nil)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestRoutes_IssueToken(t *testing.T) {
	a := newApp(t)

	rec := a.do(t, http.MethodPost, "/jwt", "", map[string]string{"email": "a@x.io"})
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	claims, err := a.tokens.Verify(body.Token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.io", utils.ClaimEmail(claims))
}

func TestRoutes_TeacherOnboarding(t *testing.T) {
	a := newApp(t)
	a.seed(t, "admin@x.io", models.RoleAdmin)

	rec := a.do(t, http.MethodPost, "/users", "", map[string]string{"email": "s@x.io", "name": "Sam"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodPost, "/teachers/teacher-requests", "s@x.io", map[string]string{
		"email": "s@x.io", "name": "Sam", "title": "Go", "experience": "beginner",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var created struct {
		InsertedID string `json:"insertedId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	// not yet a teacher
	rec = a.do(t, http.MethodPost, "/classes", "s@x.io", map[string]interface{}{"title": "Go basics"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = a.do(t, http.MethodPatch, "/teachers/teacher-requests/"+created.InsertedID+"/approve", "admin@x.io", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodGet, "/users/teacher/s@x.io", "s@x.io", nil)
	assert.JSONEq(t, `{"teacher":true}`, rec.Body.String())

	rec = a.do(t, http.MethodPost, "/classes", "s@x.io", map[string]interface{}{
		"title": "Go basics", "email": "s@x.io", "price": 15, "status": models.StatusPending,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodGet, "/classes", "", nil)
	var classes []models.Class
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &classes))
	require.Len(t, classes, 1)
	assert.Equal(t, "Go basics", classes[0].Title)

	rec = a.do(t, http.MethodGet, "/classes/teacher/s@x.io", "s@x.io", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &classes))
	assert.Len(t, classes, 1)

	rec = a.do(t, http.MethodPatch, "/classes/class-requests/"+classes[0].ID.Hex()+"/approve", "admin@x.io", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodGet, "/classes/"+classes[0].ID.Hex(), "", nil)
	var class models.Class
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &class))
	assert.Equal(t, models.StatusAccepted, class.Status)
}

func TestRoutes_PaymentFlow(t *testing.T) {
	a := newApp(t)

	rec := a.do(t, http.MethodPost, "/create-payment-intent", "", map[string]interface{}{"price": "12.50"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"clientSecret":"pi_secret"}`, rec.Body.String())

	rec = a.do(t, http.MethodPost, "/payments", "", map[string]interface{}{
		"email": "s@x.io", "price": 12.5, "transactionId": "pi_9", "className": "Go",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodGet, "/payments/s@x.io", "s@x.io", nil)
	var payments []models.Payment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payments))
	require.Len(t, payments, 1)
	assert.Equal(t, "pi_9", payments[0].TransactionID)
}

func TestRoutes_UnmatchedRequestsAreTagged(t *testing.T) {
	a := newApp(t)

	rec := a.do(t, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	rec = a.do(t, http.MethodPut, "/classes", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestRoutes_DocumentsKeepUnknownFields(t *testing.T) {
	a := newApp(t)

	rec := a.do(t, http.MethodPost, "/enrolled", "", map[string]interface{}{
		"email": "s@x.io", "classId": "abc", "teacherEmail": "t@x.io", "enrollId": "e1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodGet, "/enrolled/s@x.io", "s@x.io", nil)
	var enrolled []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &enrolled))
	require.Len(t, enrolled, 1)
	assert.Equal(t, "t@x.io", enrolled[0]["teacherEmail"])
	assert.Equal(t, "e1", enrolled[0]["enrollId"])

	rec = a.do(t, http.MethodPost, "/payments", "", map[string]interface{}{
		"email": "s@x.io", "price": "49.99", "date": "2024-05-01", "transactionId": "pi_1", "coupon": "SPRING",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.do(t, http.MethodGet, "/payments/s@x.io", "s@x.io", nil)
	var payments []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payments))
	require.Len(t, payments, 1)
	assert.Equal(t, "2024-05-01", payments[0]["date"])
	assert.Equal(t, "SPRING", payments[0]["coupon"])
	assert.Equal(t, 49.99, payments[0]["price"])
}

func TestRoutes_ClassAcceptsStringPrice(t *testing.T) {
	a := newApp(t)
	a.seed(t, "t@x.io", models.RoleTeacher)

	rec := a.do(t, http.MethodPost, "/classes", "t@x.io", map[string]interface{}{
		"title": "Go", "email": "t@x.io", "price": "49.99", "seats": 20,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.do(t, http.MethodGet, "/classes", "", nil)
	var classes []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &classes))
	require.Len(t, classes, 1)
	assert.Equal(t, 49.99, classes[0]["price"])
	assert.Equal(t, 20.0, classes[0]["seats"])
}
