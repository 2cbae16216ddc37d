package identity

import (
	"context"
	"errors"
	"time"

	"github.com/invoicedash/backend/internal/domain/identity"
	"github.com/invoicedash/backend/internal/domain/shared"
	"github.com/invoicedash/backend/internal/infrastructure/auth"
	"github.com/invoicedash/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Login failure messages shown on the sign-in form
const (
	InvalidCredentialsMessage = "Invalid credentials."
	LoginFailedMessage        = "Something went wrong."
)

var (
	// ErrInvalidCredentials is returned for an unknown email or a wrong password
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", InvalidCredentialsMessage)
	// ErrLoginFailed is returned when authentication could not be completed
	ErrLoginFailed = shared.NewDomainError("LOGIN_FAILED", LoginFailedMessage)
	// ErrSessionInvalid is returned for missing, expired or revoked sessions
	ErrSessionInvalid = shared.NewDomainError("UNAUTHORIZED", "Session is invalid or has expired")
)

// AuthService signs users in and out
type AuthService struct {
	users       identity.UserRepository
	jwtService  *auth.JWTService
	revocations auth.SessionRevocations
	logger      *zap.Logger
	now         func() time.Time
}

// NewAuthService creates a new authentication service. revocations may be nil,
// in which case logout only clears the client cookie.
func NewAuthService(
	users identity.UserRepository,
	jwtService *auth.JWTService,
	revocations auth.SessionRevocations,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:       users,
		jwtService:  jwtService,
		revocations: revocations,
		logger:      logger,
		now:         time.Now,
	}
}

// Authenticate checks the credentials and issues a session token
func (s *AuthService) Authenticate(ctx context.Context, input LoginInput) (*LoginResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "authenticate")
	defer span.End()

	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login attempt for unknown email")
			return nil, ErrInvalidCredentials
		}
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to fetch user", zap.Error(err))
		return nil, ErrLoginFailed
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	session, err := s.jwtService.Issue(auth.SessionUser{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	})
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to issue session token", zap.Error(err))
		return nil, ErrLoginFailed
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrUserID, user.ID.String())
	s.logger.Info("User logged in", zap.String("user_id", user.ID.String()))

	return &LoginResult{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      UserInfo{ID: user.ID, Name: user.Name, Email: user.Email},
	}, nil
}

// ValidateSession parses the token and rejects revoked sessions
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*SessionInfo, error) {
	if token == "" {
		return nil, ErrSessionInvalid
	}
	claims, err := s.jwtService.Validate(token)
	if err != nil {
		s.logger.Debug("Session token rejected", zap.Error(err))
		return nil, ErrSessionInvalid
	}
	userID, err := claims.UserUUID()
	if err != nil {
		return nil, ErrSessionInvalid
	}

	if s.revocations != nil && claims.ID != "" {
		revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			// An unreachable store must not lock everyone out
			s.logger.Warn("Failed to check session revocation", zap.Error(err))
		} else if revoked {
			return nil, ErrSessionInvalid
		}
	}

	info := &SessionInfo{
		User:    UserInfo{ID: userID, Name: claims.Name, Email: claims.Email},
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}

// Logout revokes the session for the remainder of its lifetime
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" || s.revocations == nil {
		return nil
	}
	claims, err := s.jwtService.Validate(token)
	if err != nil {
		// Already unusable
		return nil
	}
	if claims.ID == "" {
		return nil
	}

	ttl := claims.RemainingTTL(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.revocations.Revoke(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("Failed to revoke session", zap.Error(err))
		return ErrLoginFailed
	}
	s.logger.Info("User logged out", zap.String("user_id", claims.UserID))
	return nil
}
