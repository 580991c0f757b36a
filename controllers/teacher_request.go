package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"skillshare-api/models"
	"skillshare-api/store"
	"skillshare-api/utils"
)

// TeacherRequestController handles applications to become a teacher
type TeacherRequestController struct {
	base
	Requests     store.TeacherRequestStore
	Users        store.UserStore
	EmailService *utils.EmailService
}

// NewTeacherRequestController creates a new TeacherRequestController
func NewTeacherRequestController(s *store.Store, emailService *utils.EmailService, logger *zap.Logger, timeout time.Duration) *TeacherRequestController {
	return &TeacherRequestController{
		base:         newBase(logger, timeout),
		Requests:     s.TeacherRequests,
		Users:        s.Users,
		EmailService: emailService,
	}
}

// ListRequests returns every teacher request (admin only)
func (tc *TeacherRequestController) ListRequests(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := tc.context(r)
	defer cancel()

	requests, err := tc.Requests.List(ctx)
	if err != nil {
		tc.fail(w, r, "Error fetching teacher requests", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, requests)
}

// CreateRequest stores a new application; status starts as pending
func (tc *TeacherRequestController) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req models.TeacherRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Status == "" {
		req.Status = models.StatusPending
	}

	ctx, cancel := tc.context(r)
	defer cancel()

	result, err := tc.Requests.Insert(ctx, &req)
	if err != nil {
		tc.fail(w, r, "Error creating teacher request", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

// ApproveRequest accepts the request and promotes its applicant to teacher.
// The status change is conditional, so a repeated approval neither matches
// nor promotes again. A failed promotion puts the request back to pending so
// the approval can be retried.
func (tc *TeacherRequestController) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r)
	if !ok {
		return
	}

	ctx, cancel := tc.context(r)
	defer cancel()

	result, req, err := tc.Requests.Accept(ctx, id)
	if err != nil {
		tc.fail(w, r, "Error updating teacher request", err)
		return
	}
	if req == nil {
		utils.WriteJSON(w, http.StatusOK, result)
		return
	}

	if _, err := tc.Users.SetRoleByEmail(ctx, req.Email, models.RoleTeacher); err != nil {
		tc.reopen(id)
		tc.fail(w, r, "Error promoting user", err)
		return
	}
	tc.Logger.Info("teacher request approved",
		zap.String("request_id", id.Hex()),
		zap.String("email", req.Email))
	tc.EmailService.SendTeacherApprovedEmail(*req)

	utils.WriteJSON(w, http.StatusOK, result)
}

// reopen runs on its own deadline since the request context may be spent
func (tc *TeacherRequestController) reopen(id primitive.ObjectID) {
	ctx, cancel := context.WithTimeout(context.Background(), tc.Timeout)
	defer cancel()
	if _, err := tc.Requests.Reopen(ctx, id); err != nil {
		tc.Logger.Error("could not reopen teacher request after failed promotion",
			zap.String("request_id", id.Hex()),
			zap.Error(err))
	}
}

// RejectRequest marks the request rejected and removes it in one conditional
// delete. A request that is missing or already rejected answers 500.
func (tc *TeacherRequestController) RejectRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r)
	if !ok {
		return
	}

	ctx, cancel := tc.context(r)
	defer cancel()

	req, err := tc.Requests.Reject(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		tc.Logger.Warn("teacher request not rejected, nothing matched", zap.String("request_id", id.Hex()))
		utils.WriteMessage(w, http.StatusInternalServerError, "Failed to update the request")
		return
	}
	if err != nil {
		tc.fail(w, r, "Failed to update the request", err)
		return
	}
	tc.EmailService.SendTeacherRejectedEmail(*req)

	utils.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
