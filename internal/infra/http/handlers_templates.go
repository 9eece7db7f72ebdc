package http

import (
	"net/http"

	"tdsconnector/internal/domain"
	"tdsconnector/internal/usecase"

	"github.com/gin-gonic/gin"
)

type policyRuleInput struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Value       string `json:"value,omitempty"`
	Unit        string `json:"unit,omitempty"`
	IsActive    bool   `json:"is_active"`
}

type policyTemplateRequest struct {
	ConnectorID     string            `json:"connector_id"`
	Name            string            `json:"name"`
	Description     string            `json:"description,omitempty"`
	Category        string            `json:"category,omitempty"`
	Severity        string            `json:"severity"`
	EnforcementType string            `json:"enforcement_type"`
	Rules           []policyRuleInput `json:"rules,omitempty"`
}

type policyRuleResponse struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Value       string `json:"value,omitempty"`
	Unit        string `json:"unit,omitempty"`
	IsActive    bool   `json:"is_active"`
}

type policyTemplateResponse struct {
	ID              string               `json:"id"`
	ConnectorID     string               `json:"connector_id"`
	Name            string               `json:"name"`
	Description     string               `json:"description,omitempty"`
	Category        string               `json:"category,omitempty"`
	Severity        string               `json:"severity"`
	EnforcementType string               `json:"enforcement_type"`
	Rules           []policyRuleResponse `json:"rules"`
	CreatedAt       string               `json:"created_at"`
	UpdatedAt       string               `json:"updated_at"`
}

type contractTemplateRequest struct {
	ConnectorID       string   `json:"connector_id"`
	Name              string   `json:"name"`
	Description       string   `json:"description,omitempty"`
	ContractType      string   `json:"contract_type"`
	Status            string   `json:"status"`
	PolicyTemplateIDs []string `json:"policy_template_ids"`
}

type contractTemplateResponse struct {
	ID                string   `json:"id"`
	ConnectorID       string   `json:"connector_id"`
	Name              string   `json:"name"`
	Description       string   `json:"description,omitempty"`
	ContractType      string   `json:"contract_type"`
	Status            string   `json:"status"`
	UsageCount        int64    `json:"usage_count"`
	PolicyTemplateIDs []string `json:"policy_template_ids"`
	CreatedAt         string   `json:"created_at"`
	UpdatedAt         string   `json:"updated_at"`
}

func (s *Server) handleCreatePolicyTemplate(c *gin.Context) {
	principal, ok := s.requireAuth(c)
	if !ok {
		return
	}
	if !s.enforceRateLimit(c, "policy-templates:create", principal) {
		return
	}
	var req policyTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	template, err := s.templates.CreatePolicyTemplate(c.Request.Context(), principal.ID, policyTemplateInputFromRequest(req))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, buildPolicyTemplateResponse(template))
}

func (s *Server) handleListPolicyTemplates(c *gin.Context) {
	principal, ok := s.requireAuth(c)
	if !ok {
		return
	}
	templates, err := s.templates.ListPolicyTemplates(c.Request.Context(), principal.ID, c.Query("connector_id"), c.Query("category"))
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]policyTemplateResponse, 0, len(templates))
	for _, template := range templates {
		out = append(out, buildPolicyTemplateResponse(template))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetPolicyTemplate(c *gin.Context) {
	principal, ok := s.requireAuth(c)
	if !ok {
		return
	}
	template, err := s.templates.GetPolicyTemplate(c.Request.Context(), principal.ID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildPolicyTemplateResponse(template))
}

func (s *Server) handleUpdatePolicyTemplate(c *gin.Context) {
	principal, ok := s.requireAuth(c)
	if !ok {
		return
	}
	if !s.enforceRateLimit(c, "policy-templates:update", principal) {
		return
	}
	var req policyTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	template, err := s.templates.UpdatePolicyTemplate(c.Request.Context(), principal.ID, c.Param("id"), policyTemplateInputFromRequest(req))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildPolicyTemplateResponse(template))
}

func (s *Server) handleDeletePolicyTemplate(c *gin.Context) {
	principal, ok := s.requireAuth(c)
	if !ok {
		return
	}
	if !s.enforceRateLimit(c, "policy-templates:delete", principal) {
		return
	}
	if err := s.templates.DeletePolicyTemplate(c.Request.Context(), principal.ID, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) handleCreateContractTemplate(c *gin.Context) {
	principal, ok := s.requireAuth(c)
	if !ok {
		return
	}
	if !s.enforceRateLimit(c, "contract-templates:create", principal) {
		return
	}
	var req contractTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	template, err := s.templates.CreateContractTemplate(c.Request.Context(), principal.ID, contractTemplateInputFromRequest(req))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, buildContractTemplateResponse(template))
}

func (s *Server) handleListContractTemplates(c *gin.Context) {
	principal, ok := s.requireAuth(c)
	if !ok {
		return
	}
	templates, err := s.templates.ListContractTemplates(
		c.Request.Context(),
		principal.ID,
		c.Query("connector_id"),
		domain.ContractType(c.Query("contract_type")),
		domain.TemplateStatus(c.Query("status")),
	)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]contractTemplateResponse, 0, len(templates))
	for _, template := range templates {
		out = append(out, buildContractTemplateResponse(template))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetContractTemplate(c *gin.Context) {
	principal, ok := s.requireAuth(c)
	if !ok {
		return
	}
	template, err := s.templates.GetContractTemplate(c.Request.Context(), principal.ID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildContractTemplateResponse(template))
}

func (s *Server) handleUpdateContractTemplate(c *gin.Context) {
	principal, ok := s.requireAuth(c)
	if !ok {
		return
	}
	if !s.enforceRateLimit(c, "contract-templates:update", principal) {
		return
	}
	var req contractTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_JSON", "invalid json")
		return
	}
	template, err := s.templates.UpdateContractTemplate(c.Request.Context(), principal.ID, c.Param("id"), contractTemplateInputFromRequest(req))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildContractTemplateResponse(template))
}

func (s *Server) handleDeleteContractTemplate(c *gin.Context) {
	principal, ok := s.requireAuth(c)
	if !ok {
		return
	}
	if !s.enforceRateLimit(c, "contract-templates:delete", principal) {
		return
	}
	if err := s.templates.DeleteContractTemplate(c.Request.Context(), principal.ID, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func policyTemplateInputFromRequest(req policyTemplateRequest) usecase.PolicyTemplateInput {
	rules := make([]usecase.PolicyRuleInput, 0, len(req.Rules))
	for _, rule := range req.Rules {
		rules = append(rules, usecase.PolicyRuleInput{
			Type:        domain.RuleType(rule.Type),
			Name:        rule.Name,
			Description: rule.Description,
			Value:       rule.Value,
			Unit:        rule.Unit,
			IsActive:    rule.IsActive,
		})
	}
	return usecase.PolicyTemplateInput{
		ConnectorID:     req.ConnectorID,
		Name:            req.Name,
		Description:     req.Description,
		Category:        req.Category,
		Severity:        domain.Severity(req.Severity),
		EnforcementType: domain.EnforcementType(req.EnforcementType),
		Rules:           rules,
	}
}

func contractTemplateInputFromRequest(req contractTemplateRequest) usecase.ContractTemplateInput {
	return usecase.ContractTemplateInput{
		ConnectorID:       req.ConnectorID,
		Name:              req.Name,
		Description:       req.Description,
		ContractType:      domain.ContractType(req.ContractType),
		Status:            domain.TemplateStatus(req.Status),
		PolicyTemplateIDs: req.PolicyTemplateIDs,
	}
}

func buildPolicyTemplateResponse(template domain.PolicyTemplate) policyTemplateResponse {
	rules := make([]policyRuleResponse, 0, len(template.Rules))
	for _, rule := range template.Rules {
		rules = append(rules, policyRuleResponse{
			ID:          rule.ID,
			Type:        string(rule.Type),
			Name:        rule.Name,
			Description: rule.Description,
			Value:       rule.Value,
			Unit:        rule.Unit,
			IsActive:    rule.IsActive,
		})
	}
	return policyTemplateResponse{
		ID:              template.ID,
		ConnectorID:     template.ConnectorID,
		Name:            template.Name,
		Description:     template.Description,
		Category:        template.Category,
		Severity:        string(template.Severity),
		EnforcementType: string(template.EnforcementType),
		Rules:           rules,
		CreatedAt:       formatTime(template.CreatedAt),
		UpdatedAt:       formatTime(template.UpdatedAt),
	}
}

func buildContractTemplateResponse(template domain.ContractTemplate) contractTemplateResponse {
	policyIDs := template.PolicyTemplateIDs
	if policyIDs == nil {
		policyIDs = []string{}
	}
	return contractTemplateResponse{
		ID:                template.ID,
		ConnectorID:       template.ConnectorID,
		Name:              template.Name,
		Description:       template.Description,
		ContractType:      string(template.ContractType),
		Status:            string(template.Status),
		UsageCount:        template.UsageCount,
		PolicyTemplateIDs: policyIDs,
		CreatedAt:         formatTime(template.CreatedAt),
		UpdatedAt:         formatTime(template.UpdatedAt),
	}
}
