package controllers

import (
	"net/http"

	"go.uber.org/zap"

	"skillshare-api/utils"
)

// AuthController issues access tokens
type AuthController struct {
	base
	Tokens *utils.TokenManager
}

// NewAuthController creates a new AuthController
func NewAuthController(tokens *utils.TokenManager, logger *zap.Logger) *AuthController {
	return &AuthController{base: newBase(logger, 0), Tokens: tokens}
}

// IssueToken signs whatever claims the client posts and returns {"token": ...}
func (ac *AuthController) IssueToken(w http.ResponseWriter, r *http.Request) {
	var claims map[string]interface{}
	if !decode(w, r, &claims) {
		return
	}

	token, err := ac.Tokens.Issue(claims)
	if err != nil {
		ac.fail(w, r, "Error generating token", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}
