package controllers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"skillshare-api/models"
	"skillshare-api/store"
	"skillshare-api/utils"
)

// EnrollmentController handles student enrollments
type EnrollmentController struct {
	base
	Enrollments store.EnrollmentStore
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollments store.EnrollmentStore, logger *zap.Logger, timeout time.Duration) *EnrollmentController {
	return &EnrollmentController{base: newBase(logger, timeout), Enrollments: enrollments}
}

// CreateEnrollment records a student's enrollment in a class
func (ec *EnrollmentController) CreateEnrollment(w http.ResponseWriter, r *http.Request) {
	var enrollment models.Enrollment
	if !decode(w, r, &enrollment) {
		return
	}

	ctx, cancel := ec.context(r)
	defer cancel()

	result, err := ec.Enrollments.Insert(ctx, &enrollment)
	if err != nil {
		ec.fail(w, r, "Error creating enrollment", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

// GetEnrollments lists the enrollments of the given student email
func (ec *EnrollmentController) GetEnrollments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := ec.context(r)
	defer cancel()

	enrollments, err := ec.Enrollments.ListByEmail(ctx, mux.Vars(r)["email"])
	if err != nil {
		ec.fail(w, r, "Error fetching enrollments", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, enrollments)
}
