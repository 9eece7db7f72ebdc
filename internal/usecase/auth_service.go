package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"tdsconnector/internal/domain"
)

// AuthService registers and authenticates users by DID-signed challenge and
// issues bearer tokens for them.
type AuthService struct {
	Users    UserRepository
	Tokens   TokenIssuer
	Verifier domain.SignatureVerifier
	Clock    func() time.Time
}

func NewAuthService(users UserRepository, tokens TokenIssuer, verifier domain.SignatureVerifier) *AuthService {
	return &AuthService{Users: users, Tokens: tokens, Verifier: verifier, Clock: time.Now}
}

type RegisterInput struct {
	DID         string
	DIDDocument map[string]any
	Signature   string
	Username    string
	Email       string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (domain.User, string, error) {
	did := strings.TrimSpace(input.DID)
	if did == "" {
		return domain.User{}, "", domain.ErrInvalidArgument
	}
	if !s.Verifier.Verify(did, input.Signature, "Register:"+did) {
		return domain.User{}, "", domain.ErrUnauthorized
	}
	if _, err := s.Users.GetByDID(ctx, did); err == nil {
		return domain.User{}, "", domain.ErrConflict
	} else if err != domain.ErrNotFound {
		return domain.User{}, "", err
	}
	user, err := s.Users.Create(ctx, domain.User{
		DID:         did,
		Username:    strings.TrimSpace(input.Username),
		Email:       strings.TrimSpace(input.Email),
		DIDDocument: encodeDocument(input.DIDDocument),
		CreatedAt:   s.now(),
	})
	if err != nil {
		return domain.User{}, "", err
	}
	token, err := s.Tokens.Issue(user.ID)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, did, signature string) (domain.User, string, error) {
	did = strings.TrimSpace(did)
	user, err := s.Users.GetByDID(ctx, did)
	if err != nil {
		return domain.User{}, "", err
	}
	if !s.Verifier.Verify(did, signature, "Login:"+did) {
		return domain.User{}, "", domain.ErrUnauthorized
	}
	token, err := s.Tokens.Issue(user.ID)
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

// Authenticate resolves a bearer token to a principal. It is consulted at the
// start of every protected operation.
func (s *AuthService) Authenticate(ctx context.Context, bearerToken string) (domain.Principal, error) {
	subject, err := s.Tokens.Verify(bearerToken)
	if err != nil {
		return domain.Principal{}, domain.ErrUnauthorized
	}
	user, err := s.Users.GetByID(ctx, subject)
	if err != nil {
		return domain.Principal{}, domain.ErrUnauthorized
	}
	return domain.Principal{ID: user.ID, DID: user.DID, Username: user.Username, Email: user.Email}, nil
}

func (s *AuthService) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

func encodeDocument(document map[string]any) string {
	if len(document) == 0 {
		return ""
	}
	raw, err := json.Marshal(document)
	if err != nil {
		return ""
	}
	return string(raw)
}
