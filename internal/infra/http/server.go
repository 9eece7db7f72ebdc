// Package http exposes the registry over a gin HTTP API.
package http

import (
	"net/http"
	"time"

	"tdsconnector/internal/config"
	"tdsconnector/internal/domain"
	"tdsconnector/internal/infra/db"
	"tdsconnector/internal/infra/did"
	"tdsconnector/internal/infra/ledger"
	"tdsconnector/internal/infra/ratelimit"
	"tdsconnector/internal/infra/token"
	"tdsconnector/internal/usecase"

	"github.com/gin-gonic/gin"
)

type Server struct {
	cfg   config.Config
	store *db.Store
	r     *gin.Engine

	auth      *usecase.AuthService
	identity  *usecase.IdentityService
	offerings *usecase.OfferingService
	templates *usecase.TemplateService
	requests  *usecase.RequestService
	contracts *usecase.ContractService

	authenticator domain.Authenticator

	rateLimiter         domain.RateLimiter
	rateLimitRequests   int
	rateLimitWindow     time.Duration
	rateLimitFailClosed bool
}

func NewServer(cfg config.Config, store *db.Store) *Server {
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{cfg: cfg, store: store, r: r}
	s.initDeps()
	s.routes()
	return s
}

// ServerDeps lets tests inject fakes for every collaborator.
type ServerDeps struct {
	Auth          *usecase.AuthService
	Identity      *usecase.IdentityService
	Offerings     *usecase.OfferingService
	Templates     *usecase.TemplateService
	Requests      *usecase.RequestService
	Contracts     *usecase.ContractService
	Authenticator domain.Authenticator
	RateLimiter   domain.RateLimiter
}

func NewServerWithDeps(cfg config.Config, deps ServerDeps) *Server {
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{
		cfg:           cfg,
		r:             r,
		auth:          deps.Auth,
		identity:      deps.Identity,
		offerings:     deps.Offerings,
		templates:     deps.Templates,
		requests:      deps.Requests,
		contracts:     deps.Contracts,
		authenticator: deps.Authenticator,
	}
	if s.authenticator == nil && s.auth != nil {
		s.authenticator = s.auth
	}
	s.initRateLimit(deps.RateLimiter)
	s.routes()
	return s
}

func (s *Server) initDeps() {
	var (
		users             *db.UserRepository
		dids              *db.DIDRepository
		spaces            *db.DataSpaceRepository
		connectors        *db.ConnectorRepository
		offerings         *db.OfferingRepository
		policyTemplates   *db.PolicyTemplateRepository
		contractTemplates *db.ContractTemplateRepository
		dataRequests      *db.RequestRepository
		contracts         *db.ContractRepository
	)
	if s.store != nil {
		users = db.NewUserRepository(s.store.DB)
		dids = db.NewDIDRepository(s.store.DB)
		spaces = db.NewDataSpaceRepository(s.store.DB)
		connectors = db.NewConnectorRepository(s.store.DB)
		offerings = db.NewOfferingRepository(s.store.DB)
		policyTemplates = db.NewPolicyTemplateRepository(s.store.DB)
		contractTemplates = db.NewContractTemplateRepository(s.store.DB)
		dataRequests = db.NewRequestRepository(s.store.DB)
		contracts = db.NewContractRepository(s.store.DB)
	}

	issuer := token.NewIssuer(s.cfg.JWTSecret, time.Duration(s.cfg.TokenTTLMinutes)*time.Minute)
	generator := did.NewGenerator()
	verifier := did.StubVerifier{}
	chain := ledger.NewHashLedger()
	authz := usecase.NewAuthz(connectors)

	s.auth = usecase.NewAuthService(users, issuer, verifier)
	s.identity = usecase.NewIdentityService(dids, spaces, connectors, generator)
	s.offerings = usecase.NewOfferingService(offerings, authz)
	s.templates = usecase.NewTemplateService(policyTemplates, contractTemplates, authz)
	s.requests = usecase.NewRequestService(dataRequests, offerings, authz)
	s.contracts = usecase.NewContractService(contracts, dataRequests, offerings, contractTemplates, authz, chain)
	s.authenticator = s.auth

	s.initRateLimit(nil)
}

func (s *Server) initRateLimit(override domain.RateLimiter) {
	if override != nil {
		s.rateLimiter = override
	}
	if s.rateLimiter == nil && s.cfg.RateLimitRequests > 0 {
		if s.cfg.RedisAddr != "" {
			if limiter, err := ratelimit.NewRedisLimiter(s.cfg.RedisAddr, s.cfg.RedisPassword, s.cfg.RedisDB, nil); err == nil {
				s.rateLimiter = limiter
			}
		}
		if s.rateLimiter == nil {
			s.rateLimiter = ratelimit.NewMemoryLimiter(ratelimit.MemoryLimiterConfig{
				MaxKeys: s.cfg.RateLimitMaxKeys,
			})
		}
	}
	s.rateLimitRequests = s.cfg.RateLimitRequests
	if s.cfg.RateLimitWindowSeconds > 0 {
		s.rateLimitWindow = time.Duration(s.cfg.RateLimitWindowSeconds) * time.Second
	}
	s.rateLimitFailClosed = s.cfg.RateLimitFailClosed
}

func (s *Server) routes() {
	s.r.GET("/healthz", func(c *gin.Context) {
		dbMode := "no-db"
		if s.store != nil && s.store.DB != nil {
			dbMode = "db"
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "mode": dbMode})
	})

	auth := s.r.Group("/auth")
	{
		auth.POST("/register", s.handleRegister)
		auth.POST("/login", s.handleLogin)
		auth.GET("/verify", s.handleVerifyToken)
	}

	identity := s.r.Group("/identity")
	{
		identity.POST("/did/generate", s.handleGenerateDID)
		identity.POST("/did/register", s.handleRegisterDID)
		identity.GET("/did/:did", s.handleGetDID)
	}

	v1 := s.r.Group("/api/v1")
	{
		v1.GET("/data-spaces", s.handleListDataSpaces)
		v1.GET("/data-spaces/:id", s.handleGetDataSpace)
		v1.POST("/data-spaces", s.handleCreateDataSpace)

		v1.POST("/connectors", s.handleRegisterConnector)
		v1.GET("/connectors", s.handleListConnectors)
		v1.GET("/connectors/:id", s.handleGetConnector)
		v1.DELETE("/connectors/:id", s.handleDeleteConnector)

		v1.POST("/offerings", s.handleCreateOffering)
		v1.GET("/offerings", s.handleListOfferings)
		v1.GET("/offerings/discover", s.handleDiscoverOfferings)
		v1.GET("/offerings/:id", s.handleGetOffering)
		v1.DELETE("/offerings/:id", s.handleDeleteOffering)

		v1.POST("/policy-templates", s.handleCreatePolicyTemplate)
		v1.GET("/policy-templates", s.handleListPolicyTemplates)
		v1.GET("/policy-templates/:id", s.handleGetPolicyTemplate)
		v1.PUT("/policy-templates/:id", s.handleUpdatePolicyTemplate)
		v1.DELETE("/policy-templates/:id", s.handleDeletePolicyTemplate)

		v1.POST("/contract-templates", s.handleCreateContractTemplate)
		v1.GET("/contract-templates", s.handleListContractTemplates)
		v1.GET("/contract-templates/:id", s.handleGetContractTemplate)
		v1.PUT("/contract-templates/:id", s.handleUpdateContractTemplate)
		v1.DELETE("/contract-templates/:id", s.handleDeleteContractTemplate)

		v1.POST("/data-requests", s.handleCreateRequest)
		v1.GET("/data-requests", s.handleListRequests)
		v1.GET("/data-requests/:id", s.handleGetRequest)
		v1.POST("/data-requests/:id/approve", s.handleApproveRequest)
		v1.POST("/data-requests/:id/reject", s.handleRejectRequest)

		v1.POST("/contracts", s.handleCreateContract)
		v1.GET("/contracts", s.handleListContracts)
		v1.GET("/contracts/:id", s.handleGetContract)
		v1.POST("/contracts/:id/confirm", s.handleConfirmContract)
		v1.POST("/contracts/:id/deploy", s.handleDeployContract)
	}
}

func (s *Server) Run() error {
	return s.r.Run(s.cfg.HTTPAddr)
}

// Handler exposes the router for httptest servers.
func (s *Server) Handler() http.Handler {
	return s.r
}
