// routes/routes.go
package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"skillshare-api/controllers"
	"skillshare-api/middleware"
)

// Controllers groups the handlers mounted by RegisterRoutes
type Controllers struct {
	Auth            *controllers.AuthController
	Users           *controllers.UserController
	Reviews         *controllers.ReviewController
	TeacherRequests *controllers.TeacherRequestController
	Classes         *controllers.ClassController
	Enrollments     *controllers.EnrollmentController
	Payments        *controllers.PaymentController
	Health          *controllers.HealthController
}

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, guard *middleware.Guard, c Controllers) {
	auth := func(h http.HandlerFunc) http.Handler {
		return guard.Authenticate(h)
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return guard.Authenticate(guard.RequireAdmin(h))
	}
	teacher := func(h http.HandlerFunc) http.Handler {
		return guard.Authenticate(guard.RequireTeacher(h))
	}
	self := func(h http.HandlerFunc) http.Handler {
		return guard.Authenticate(guard.RequireSelf("email")(h))
	}

	// Public routes
	router.HandleFunc("/", c.Health.Home).Methods("GET")
	router.HandleFunc("/health", c.Health.Health).Methods("GET")
	router.HandleFunc("/jwt", c.Auth.IssueToken).Methods("POST")

	// User routes
	router.Handle("/users", admin(c.Users.ListUsers)).Methods("GET")
	router.HandleFunc("/users", c.Users.CreateUser).Methods("POST")
	router.Handle("/users/profile/{email}", auth(c.Users.GetProfile)).Methods("GET")
	router.Handle("/users/admin/{email}", self(c.Users.CheckAdmin)).Methods("GET")
	router.Handle("/users/teacher/{email}", self(c.Users.CheckTeacher)).Methods("GET")
	router.Handle("/users/admin/{id}", admin(c.Users.MakeAdmin)).Methods("PATCH")
	router.Handle("/users/{id}", admin(c.Users.DeleteUser)).Methods("DELETE")

	// Review routes
	router.HandleFunc("/reviews", c.Reviews.GetReviews).Methods("GET")

	// Teacher request routes
	router.Handle("/teachers/teacher-requests", admin(c.TeacherRequests.ListRequests)).Methods("GET")
	router.Handle("/teachers/teacher-requests", auth(c.TeacherRequests.CreateRequest)).Methods("POST")
	router.Handle("/teachers/teacher-requests/{id}/approve", admin(c.TeacherRequests.ApproveRequest)).Methods("PATCH")
	router.Handle("/teachers/teacher-requests/{id}/reject", admin(c.TeacherRequests.RejectRequest)).Methods("PATCH")

	// Class routes
	router.HandleFunc("/classes", c.Classes.GetClasses).Methods("GET")
	router.Handle("/classes", teacher(c.Classes.CreateClass)).Methods("POST")
	router.Handle("/classes/teacher/{email}", teacher(c.Classes.GetTeacherClasses)).Methods("GET")
	router.Handle("/classes/class-requests/{id}/approve", admin(c.Classes.ApproveClass)).Methods("PATCH")
	router.Handle("/classes/class-requests/{id}/reject", admin(c.Classes.RejectClass)).Methods("PATCH")
	router.HandleFunc("/classes/{id}", c.Classes.GetClassByID).Methods("GET")
	router.HandleFunc("/classes/{id}", c.Classes.UpdateClass).Methods("PATCH")
	router.Handle("/classes/{id}", teacher(c.Classes.DeleteClass)).Methods("DELETE")

	// Enrollment routes
	router.HandleFunc("/enrolled", c.Enrollments.CreateEnrollment).Methods("POST")
	router.Handle("/enrolled/{email}", auth(c.Enrollments.GetEnrollments)).Methods("GET")

	// Payment routes
	router.HandleFunc("/create-payment-intent", c.Payments.CreatePaymentIntent).Methods("POST")
	router.Handle("/payments/{email}", self(c.Payments.GetPayments)).Methods("GET")
	router.HandleFunc("/payments", c.Payments.CreatePayment).Methods("POST")
}

// Handler wraps the whole router, so unmatched routes are logged and tagged
// with a request id as well
func Handler(router *mux.Router, logger *zap.Logger, allowedOrigins []string) http.Handler {
	var h http.Handler = router
	h = middleware.Recoverer(logger)(h)
	h = middleware.RequestLogger(logger)(h)

	return cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(h)
}
