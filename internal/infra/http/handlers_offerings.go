package http

import (
	"net/http"

	"tdsconnector/internal/domain"
	"tdsconnector/internal/usecase"

	"github.com/gin-gonic/gin"
)

type createOfferingRequest struct {
	ConnectorID        string             `json:"connector_id"`
	Title              string             `json:"title"`
	Description        string             `json:"description,omitempty"`
	DataType           string             `json:"data_type"`
	AccessPolicy       string             `json:"access_policy"`
	StorageMeta        domain.StorageMeta `json:"storage_meta"`
	RegistrationStatus string             `json:"registration_status,omitempty"`
}

type offeringResponse struct {
	ID                 string             `json:"id"`
	ConnectorID        string             `json:"connector_id"`
	Title              string             `json:"title"`
	Description        string             `json:"description,omitempty"`
	DataType           string             `json:"data_type"`
	AccessPolicy       string             `json:"access_policy"`
	StorageMeta        domain.StorageMeta `json:"storage_meta"`
	RegistrationStatus string             `json:"registration_status"`
	CreatedAt          string             `json:"created_at"`
}

func (s *Server) handleCreateOffering(c *gin.Context) {
	principal, ok := s.requireAuth(c)
	if !ok {
		return
	}
	if !s.enforceRateLimit(c, "offerings:create", principal) {
		return
	}
	var req createOfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	offering, err := s.offerings.Create(c.Request.Context(), principal.ID, usecase.CreateOfferingInput{
		ConnectorID:        req.ConnectorID,
		Title:              req.Title,
		Description:        req.Description,
		DataType:           domain.DataType(req.DataType),
		AccessPolicy:       domain.AccessPolicy(req.AccessPolicy),
		StorageMeta:        req.StorageMeta,
		RegistrationStatus: req.RegistrationStatus,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, buildOfferingResponse(offering))
}

func (s *Server) handleListOfferings(c *gin.Context) {
	principal, ok := s.requireAuth(c)
	if !ok {
		return
	}
	offerings, err := s.offerings.List(c.Request.Context(), principal.ID, usecase.ListOfferingsInput{
		ConnectorID:  c.Query("connector_id"),
		DataType:     domain.DataType(c.Query("data_type")),
		AccessPolicy: domain.AccessPolicy(c.Query("access_policy")),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildOfferingListResponse(offerings))
}

// handleDiscoverOfferings is the public catalog view across all connectors.
func (s *Server) handleDiscoverOfferings(c *gin.Context) {
	if _, ok := s.requireAuth(c); !ok {
		return
	}
	offerings, err := s.offerings.Discover(c.Request.Context(), usecase.ListOfferingsInput{
		DataType:     domain.DataType(c.Query("data_type")),
		AccessPolicy: domain.AccessPolicy(c.Query("access_policy")),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildOfferingListResponse(offerings))
}

func (s *Server) handleGetOffering(c *gin.Context) {
	if _, ok := s.requireAuth(c); !ok {
		return
	}
	offering, err := s.offerings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildOfferingResponse(offering))
}

func (s *Server) handleDeleteOffering(c *gin.Context) {
	principal, ok := s.requireAuth(c)
	if !ok {
		return
	}
	if !s.enforceRateLimit(c, "offerings:delete", principal) {
		return
	}
	if err := s.offerings.Delete(c.Request.Context(), principal.ID, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func buildOfferingResponse(offering domain.DataOffering) offeringResponse {
	return offeringResponse{
		ID:                 offering.ID,
		ConnectorID:        offering.ConnectorID,
		Title:              offering.Title,
		Description:        offering.Description,
		DataType:           string(offering.DataType),
		AccessPolicy:       string(offering.AccessPolicy),
		StorageMeta:        offering.StorageMeta,
		RegistrationStatus: offering.RegistrationStatus,
		CreatedAt:          formatTime(offering.CreatedAt),
	}
}

func buildOfferingListResponse(offerings []domain.DataOffering) []offeringResponse {
	out := make([]offeringResponse, 0, len(offerings))
	for _, offering := range offerings {
		out = append(out, buildOfferingResponse(offering))
	}
	return out
}
