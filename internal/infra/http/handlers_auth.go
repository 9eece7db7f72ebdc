package http

import (
	"net/http"

	"tdsconnector/internal/domain"
	"tdsconnector/internal/usecase"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	DID         string         `json:"did"`
	DIDDocument map[string]any `json:"did_document,omitempty"`
	Signature   string         `json:"signature"`
	Username    string         `json:"username,omitempty"`
	Email       string         `json:"email,omitempty"`
}

type loginRequest struct {
	DID       string `json:"did"`
	Signature string `json:"signature"`
}

type userResponse struct {
	ID        string `json:"id"`
	DID       string `json:"did"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	CreatedAt string `json:"created_at"`
}

type tokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        userResponse `json:"user"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	user, bearer, err := s.auth.Register(c.Request.Context(), usecase.RegisterInput{
		DID:         req.DID,
		DIDDocument: req.DIDDocument,
		Signature:   req.Signature,
		Username:    req.Username,
		Email:       req.Email,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tokenResponse{
		AccessToken: bearer,
		TokenType:   "bearer",
		User:        buildUserResponse(user),
	})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	user, bearer, err := s.auth.Login(c.Request.Context(), req.DID, req.Signature)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{
		AccessToken: bearer,
		TokenType:   "bearer",
		User:        buildUserResponse(user),
	})
}

func (s *Server) handleVerifyToken(c *gin.Context) {
	principal, ok := s.requireAuth(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":       principal.ID,
		"did":      principal.DID,
		"username": principal.Username,
		"email":    principal.Email,
	})
}

func buildUserResponse(user domain.User) userResponse {
	return userResponse{
		ID:        user.ID,
		DID:       user.DID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: formatTime(user.CreatedAt),
	}
}
