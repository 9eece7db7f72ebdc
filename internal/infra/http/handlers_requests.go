package http

import (
	"net/http"

	"tdsconnector/internal/domain"
	"tdsconnector/internal/usecase"

	"github.com/gin-gonic/gin"
)

type createRequestRequest struct {
	DataOfferingID      string `json:"data_offering_id"`
	ConsumerConnectorID string `json:"consumer_connector_id"`
	Purpose             string `json:"purpose"`
	AccessMode          string `json:"access_mode"`
}

type requestResponse struct {
	ID                  string `json:"id"`
	DataOfferingID      string `json:"data_offering_id"`
	ConsumerConnectorID string `json:"consumer_connector_id"`
	Purpose             string `json:"purpose"`
	AccessMode          string `json:"access_mode"`
	Status              string `json:"status"`
	CreatedAt           string `json:"created_at"`
	UpdatedAt           string `json:"updated_at"`
}

func (s *Server) handleCreateRequest(c *gin.Context) {
	principal, ok := s.requireAuth(c)
	if !ok {
		return
	}
	if !s.enforceRateLimit(c, "data-requests:create", principal) {
		return
	}
	var req createRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	request, err := s.requests.Create(c.Request.Context(), principal.ID, usecase.CreateRequestInput{
		DataOfferingID:      req.DataOfferingID,
		ConsumerConnectorID: req.ConsumerConnectorID,
		Purpose:             req.Purpose,
		AccessMode:          domain.AccessMode(req.AccessMode),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, buildRequestResponse(request))
}

func (s *Server) handleListRequests(c *gin.Context) {
	principal, ok := s.requireAuth(c)
	if !ok {
		return
	}
	requests, err := s.requests.List(c.Request.Context(), principal.ID, usecase.ListRequestsInput{
		ConnectorID: c.Query("connector_id"),
		Role:        domain.Role(c.Query("role")),
		Status:      domain.RequestStatus(c.Query("status")),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]requestResponse, 0, len(requests))
	for _, request := range requests {
		out = append(out, buildRequestResponse(request))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetRequest(c *gin.Context) {
	principal, ok := s.requireAuth(c)
	if !ok {
		return
	}
	request, err := s.requests.Get(c.Request.Context(), principal.ID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildRequestResponse(request))
}

func (s *Server) handleApproveRequest(c *gin.Context) {
	principal, ok := s.requireAuth(c)
	if !ok {
		return
	}
	if !s.enforceRateLimit(c, "data-requests:decide", principal) {
		return
	}
	request, err := s.requests.Approve(c.Request.Context(), principal.ID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildRequestResponse(request))
}

func (s *Server) handleRejectRequest(c *gin.Context) {
	principal, ok := s.requireAuth(c)
	if !ok {
		return
	}
	if !s.enforceRateLimit(c, "data-requests:decide", principal) {
		return
	}
	request, err := s.requests.Reject(c.Request.Context(), principal.ID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildRequestResponse(request))
}

func buildRequestResponse(request domain.DataRequest) requestResponse {
	return requestResponse{
		ID:                  request.ID,
		DataOfferingID:      request.DataOfferingID,
		ConsumerConnectorID: request.ConsumerConnectorID,
		Purpose:             request.Purpose,
		AccessMode:          string(request.AccessMode),
		Status:              string(request.Status),
		CreatedAt:           formatTime(request.CreatedAt),
		UpdatedAt:           formatTime(request.UpdatedAt),
	}
}
