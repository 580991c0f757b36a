package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"skillshare-api/models"
	"skillshare-api/store"
	"skillshare-api/utils"
)

// ClassController handles class-related requests
type ClassController struct {
	base
	Classes store.ClassStore
}

// NewClassController creates a new ClassController
func NewClassController(classes store.ClassStore, logger *zap.Logger, timeout time.Duration) *ClassController {
	return &ClassController{base: newBase(logger, timeout), Classes: classes}
}

// GetClasses retrieves all classes
func (cc *ClassController) GetClasses(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := cc.context(r)
	defer cancel()

	classes, err := cc.Classes.List(ctx)
	if err != nil {
		cc.fail(w, r, "Error fetching classes", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, classes)
}

// CreateClass stores a class posted by a teacher
func (cc *ClassController) CreateClass(w http.ResponseWriter, r *http.Request) {
	var class models.Class
	if !decode(w, r, &class) {
		return
	}

	ctx, cancel := cc.context(r)
	defer cancel()

	result, err := cc.Classes.Insert(ctx, &class)
	if err != nil {
		cc.fail(w, r, "Error creating class", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

// GetClassByID retrieves a single class; a missing class encodes as null
func (cc *ClassController) GetClassByID(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r)
	if !ok {
		return
	}

	ctx, cancel := cc.context(r)
	defer cancel()

	class, err := cc.Classes.Get(ctx, id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		cc.fail(w, r, "Error fetching class", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, class)
}

// GetTeacherClasses lists the classes owned by the given teacher email
func (cc *ClassController) GetTeacherClasses(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := cc.context(r)
	defer cancel()

	classes, err := cc.Classes.ListByTeacher(ctx, mux.Vars(r)["email"])
	if err != nil {
		cc.fail(w, r, "Error fetching classes", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, classes)
}

// UpdateClass overwrites title, price, description and image
func (cc *ClassController) UpdateClass(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r)
	if !ok {
		return
	}

	var fields models.ClassUpdate
	if !decode(w, r, &fields) {
		return
	}

	ctx, cancel := cc.context(r)
	defer cancel()

	result, err := cc.Classes.Update(ctx, id, fields)
	if err != nil {
		cc.fail(w, r, "Error updating class", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

// DeleteClass removes a class
func (cc *ClassController) DeleteClass(w http.ResponseWriter, r *http.Request) {
	id, ok := objectID(w, r)
	if !ok {
		return
	}

	ctx, cancel := cc.context(r)
	defer cancel()

	result, err := cc.Classes.Delete(ctx, id)
	if err != nil {
		cc.fail(w, r, "Error deleting class", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

// ApproveClass sets the class status to accepted
func (cc *ClassController) ApproveClass(w http.ResponseWriter, r *http.Request) {
	cc.setStatus(w, r, models.StatusAccepted)
}

// RejectClass sets the class status to rejected
func (cc *ClassController) RejectClass(w http.ResponseWriter, r *http.Request) {
	cc.setStatus(w, r, models.StatusRejected)
}

func (cc *ClassController) setStatus(w http.ResponseWriter, r *http.Request, status string) {
	id, ok := objectID(w, r)
	if !ok {
		return
	}

	ctx, cancel := cc.context(r)
	defer cancel()

	result, err := cc.Classes.SetStatus(ctx, id, status)
	if err != nil {
		cc.fail(w, r, "Error updating class", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}
