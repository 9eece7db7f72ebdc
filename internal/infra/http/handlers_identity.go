package http

import (
	"net/http"

	"tdsconnector/internal/domain"
	"tdsconnector/internal/usecase"

	"github.com/gin-gonic/gin"
)

type registerDIDRequest struct {
	DID      string `json:"did"`
	Document string `json:"document"`
}

type registerConnectorRequest struct {
	DID         string `json:"did"`
	DisplayName string `json:"display_name"`
	DataSpaceID string `json:"data_space_id"`
	DIDDocument string `json:"did_document,omitempty"`
}

type createDataSpaceRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type connectorResponse struct {
	ID          string `json:"id"`
	DID         string `json:"did"`
	DisplayName string `json:"display_name"`
	Status      string `json:"status"`
	DataSpaceID string `json:"data_space_id"`
	CreatedAt   string `json:"created_at"`
}

type dataSpaceResponse struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func (s *Server) handleGenerateDID(c *gin.Context) {
	keypair, err := s.identity.GenerateDID()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"did":          keypair.DID,
		"public_key":   keypair.PublicKey,
		"private_key":  keypair.PrivateKey,
		"did_document": keypair.Document,
		"created_at":   formatTime(keypair.CreatedAt),
	})
}

func (s *Server) handleRegisterDID(c *gin.Context) {
	var req registerDIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	if err := s.identity.RegisterDID(c.Request.Context(), req.DID, req.Document); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"did": req.DID, "status": "registered"})
}

func (s *Server) handleGetDID(c *gin.Context) {
	record, err := s.identity.GetDID(c.Request.Context(), c.Param("did"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"did":           record.DID,
		"document":      record.Document,
		"registered_at": formatTime(record.RegisteredAt),
	})
}

func (s *Server) handleListDataSpaces(c *gin.Context) {
	if _, ok := s.requireAuth(c); !ok {
		return
	}
	spaces, err := s.identity.ListDataSpaces(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]dataSpaceResponse, 0, len(spaces))
	for _, space := range spaces {
		out = append(out, buildDataSpaceResponse(space))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetDataSpace(c *gin.Context) {
	if _, ok := s.requireAuth(c); !ok {
		return
	}
	space, err := s.identity.GetDataSpace(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildDataSpaceResponse(space))
}

func (s *Server) handleCreateDataSpace(c *gin.Context) {
	principal, ok := s.requireAuth(c)
	if !ok {
		return
	}
	if !s.enforceRateLimit(c, "data-spaces:create", principal) {
		return
	}
	var req createDataSpaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	space, err := s.identity.CreateDataSpace(c.Request.Context(), req.Code, req.Name, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, buildDataSpaceResponse(space))
}

func (s *Server) handleRegisterConnector(c *gin.Context) {
	principal, ok := s.requireAuth(c)
	if !ok {
		return
	}
	if !s.enforceRateLimit(c, "connectors:create", principal) {
		return
	}
	var req registerConnectorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	connector, err := s.identity.RegisterConnector(c.Request.Context(), principal.ID, usecase.RegisterConnectorInput{
		DID:         req.DID,
		DisplayName: req.DisplayName,
		DataSpaceID: req.DataSpaceID,
		DIDDocument: req.DIDDocument,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, buildConnectorResponse(connector))
}

func (s *Server) handleListConnectors(c *gin.Context) {
	principal, ok := s.requireAuth(c)
	if !ok {
		return
	}
	connectors, err := s.identity.ListConnectors(c.Request.Context(), principal.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]connectorResponse, 0, len(connectors))
	for _, connector := range connectors {
		out = append(out, buildConnectorResponse(connector))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetConnector(c *gin.Context) {
	principal, ok := s.requireAuth(c)
	if !ok {
		return
	}
	connector, err := s.identity.GetConnector(c.Request.Context(), principal.ID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildConnectorResponse(connector))
}

func (s *Server) handleDeleteConnector(c *gin.Context) {
	principal, ok := s.requireAuth(c)
	if !ok {
		return
	}
	if !s.enforceRateLimit(c, "connectors:delete", principal) {
		return
	}
	if err := s.identity.DeleteConnector(c.Request.Context(), principal.ID, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func buildConnectorResponse(connector domain.Connector) connectorResponse {
	return connectorResponse{
		ID:          connector.ID,
		DID:         connector.DID,
		DisplayName: connector.DisplayName,
		Status:      string(connector.Status),
		DataSpaceID: connector.DataSpaceID,
		CreatedAt:   formatTime(connector.CreatedAt),
	}
}

func buildDataSpaceResponse(space domain.DataSpace) dataSpaceResponse {
	return dataSpaceResponse{
		ID:          space.ID,
		Code:        space.Code,
		Name:        space.Name,
		Description: space.Description,
		CreatedAt:   formatTime(space.CreatedAt),
	}
}
