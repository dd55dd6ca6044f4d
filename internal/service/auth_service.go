package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/hack-neuron/frontend/internal/utils"
	"github.com/hack-neuron/frontend/pkg/metadata"
)

// AuthService implements the revocation-aware authentication protocol. A
// token is accepted only when it is cryptographically valid AND equals the
// token currently on file for its application, so issuing a new token
// revokes every earlier one without any gateway-local state.
type AuthService struct {
	tokens   *TokenService
	metadata *metadata.Client
}

// NewAuthService constructs a new AuthService.
func NewAuthService(tokens *TokenService, metadataClient *metadata.Client) *AuthService {
	return &AuthService{tokens: tokens, metadata: metadataClient}
}

// Authenticate validates a bearer token and returns the application name it
// belongs to. Failures map to the error taxonomy:
//   - utils.ErrInvalidToken: signature/structure failure
//   - *metadata.StatusError: the metadata service rejected the lookup
//     (relayed verbatim by callers)
//   - utils.ErrTokenExpired: well-formed but superseded by a newer issuance
//
// Read-only; no side effects.
func (s *AuthService) Authenticate(ctx context.Context, token string) (string, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return "", err
	}

	app, err := s.metadata.GetApplication(ctx, claims.Name)
	if err != nil {
		return "", err
	}

	if app.Token != token {
		log.Debug().Str("name", claims.Name).Msg("token superseded by a newer issuance")
		return "", utils.ErrTokenExpired
	}

	return claims.Name, nil
}

// AuthorizeCredentials verifies a name/password pair against the stored
// hash. Every failure collapses to utils.ErrPermissionDenied — including an
// unknown name — so callers cannot probe which applications exist.
func (s *AuthService) AuthorizeCredentials(ctx context.Context, name, password string) error {
	app, err := s.metadata.GetApplication(ctx, name)
	if err != nil {
		log.Debug().Err(err).Str("name", name).Msg("credential check lookup failed")
		return utils.ErrPermissionDenied
	}

	if !utils.CheckPassword(password, app.HashedPassword) {
		log.Debug().Str("name", name).Msg("password mismatch")
		return utils.ErrPermissionDenied
	}

	return nil
}
