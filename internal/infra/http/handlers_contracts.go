package http

import (
	"net/http"
	"time"

	"tdsconnector/internal/domain"
	"tdsconnector/internal/usecase"

	"github.com/gin-gonic/gin"
)

type createContractRequest struct {
	Name                string `json:"name"`
	ProviderConnectorID string `json:"provider_connector_id"`
	ConsumerConnectorID string `json:"consumer_connector_id"`
	ContractTemplateID  string `json:"contract_template_id"`
	DataOfferingID      string `json:"data_offering_id"`
	DataRequestID       string `json:"data_request_id,omitempty"`
	ExpiresAt           string `json:"expires_at,omitempty"`
}

type confirmContractRequest struct {
	Action string `json:"action"`
}

type contractResponse struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Status              string `json:"status"`
	ProviderConnectorID string `json:"provider_connector_id"`
	ConsumerConnectorID string `json:"consumer_connector_id"`
	ContractTemplateID  string `json:"contract_template_id"`
	DataOfferingID      string `json:"data_offering_id"`
	DataRequestID       string `json:"data_request_id,omitempty"`
	ContractAddress     string `json:"contract_address,omitempty"`
	BlockchainTxID      string `json:"blockchain_tx_id,omitempty"`
	BlockchainNetwork   string `json:"blockchain_network"`
	ExpiresAt           string `json:"expires_at,omitempty"`
	CreatedAt           string `json:"created_at"`
	UpdatedAt           string `json:"updated_at"`
}

func (s *Server) handleCreateContract(c *gin.Context) {
	principal, ok := s.requireAuth(c)
	if !ok {
		return
	}
	if !s.enforceRateLimit(c, "contracts:create", principal) {
		return
	}
	var req createContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	var expiresAt *time.Time
	if req.ExpiresAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			writeErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", "invalid expires_at")
			return
		}
		parsed = parsed.UTC()
		expiresAt = &parsed
	}
	contract, err := s.contracts.Create(c.Request.Context(), principal.ID, usecase.CreateContractInput{
		Name:                req.Name,
		ProviderConnectorID: req.ProviderConnectorID,
		ConsumerConnectorID: req.ConsumerConnectorID,
		ContractTemplateID:  req.ContractTemplateID,
		DataOfferingID:      req.DataOfferingID,
		DataRequestID:       req.DataRequestID,
		ExpiresAt:           expiresAt,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, buildContractResponse(contract))
}

func (s *Server) handleListContracts(c *gin.Context) {
	principal, ok := s.requireAuth(c)
	if !ok {
		return
	}
	contracts, err := s.contracts.List(c.Request.Context(), principal.ID, usecase.ListContractsInput{
		ConnectorID: c.Query("connector_id"),
		Role:        domain.Role(c.Query("role")),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]contractResponse, 0, len(contracts))
	for _, contract := range contracts {
		out = append(out, buildContractResponse(contract))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetContract(c *gin.Context) {
	principal, ok := s.requireAuth(c)
	if !ok {
		return
	}
	contract, err := s.contracts.Get(c.Request.Context(), principal.ID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildContractResponse(contract))
}

func (s *Server) handleConfirmContract(c *gin.Context) {
	principal, ok := s.requireAuth(c)
	if !ok {
		return
	}
	if !s.enforceRateLimit(c, "contracts:confirm", principal) {
		return
	}
	var req confirmContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	contract, err := s.contracts.Confirm(c.Request.Context(), principal.ID, c.Param("id"), req.Action)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildContractResponse(contract))
}

func (s *Server) handleDeployContract(c *gin.Context) {
	principal, ok := s.requireAuth(c)
	if !ok {
		return
	}
	if !s.enforceRateLimit(c, "contracts:deploy", principal) {
		return
	}
	contract, err := s.contracts.Deploy(c.Request.Context(), principal.ID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildContractResponse(contract))
}

func buildContractResponse(contract domain.Contract) contractResponse {
	return contractResponse{
		ID:                  contract.ID,
		Name:                contract.Name,
		Status:              string(contract.Status),
		ProviderConnectorID: contract.ProviderConnectorID,
		ConsumerConnectorID: contract.ConsumerConnectorID,
		ContractTemplateID:  contract.ContractTemplateID,
		DataOfferingID:      contract.DataOfferingID,
		DataRequestID:       contract.DataRequestID,
		ContractAddress:     contract.ContractAddress,
		BlockchainTxID:      contract.BlockchainTxID,
		BlockchainNetwork:   contract.BlockchainNetwork,
		ExpiresAt:           formatTimePtr(contract.ExpiresAt),
		CreatedAt:           formatTime(contract.CreatedAt),
		UpdatedAt:           formatTime(contract.UpdatedAt),
	}
}
