package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"skillshare-api/utils"
)

// base carries what every controller needs to talk to the store
type base struct {
	Logger  *zap.Logger
	Timeout time.Duration
}

func newBase(logger *zap.Logger, timeout time.Duration) base {
	return base{Logger: logger, Timeout: timeout}
}

func (b base) context(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), b.Timeout)
}

// fail logs err and answers with a generic 500
func (b base) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	b.Logger.Error(msg,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	utils.WriteMessage(w, http.StatusInternalServerError, msg)
}

// decode reads the JSON body into v, answering 400 on malformed input
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		utils.WriteMessage(w, http.StatusBadRequest, "Invalid input")
		return false
	}
	return true
}

// objectID parses the {id} route variable, answering 400 when it is not hex
func objectID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.WriteMessage(w, http.StatusBadRequest, "invalid id")
		return primitive.NilObjectID, false
	}
	return id, true
}
