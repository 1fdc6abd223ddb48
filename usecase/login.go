package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/villagenews/video-service/domain"
)

type LoginOutput struct {
	Token     string
	IsNewUser bool
	User      *domain.User
}

// LoginUseCase verifies an identity-provider token, creates or refreshes
// the matching account, records the login, and issues an access token.
type LoginUseCase struct {
	users    domain.UserRepository
	verifier domain.TokenVerifier
	issuer   domain.TokenIssuer
	log      *slog.Logger
}

func NewLoginUseCase(users domain.UserRepository, verifier domain.TokenVerifier, issuer domain.TokenIssuer, log *slog.Logger) *LoginUseCase {
	return &LoginUseCase{users: users, verifier: verifier, issuer: issuer, log: log}
}

func (uc *LoginUseCase) Execute(ctx context.Context, idToken, ipAddress string) (*LoginOutput, error) {
	claims, err := uc.verifier.Verify(ctx, idToken)
	if err != nil {
		return nil, err
	}

	user, err := uc.users.FindByEmail(ctx, claims.Email)
	isNew := false
	switch {
	case errors.Is(err, domain.ErrNotFound):
		isNew = true
		user = &domain.User{
			Username:     claims.Name,
			Email:        claims.Email,
			ProfileImage: claims.ProfileImage,
		}
		if err := uc.users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		uc.log.Info("new user created", "user_id", user.ID, "email", user.Email)
	case err != nil:
		return nil, err
	default:
		// Keep the display name and picture fresh on every login.
		if err := uc.users.UpdateProfile(ctx, user.ID, claims.Name, claims.ProfileImage); err != nil {
			return nil, err
		}
		user.Username = claims.Name
		user.ProfileImage = claims.ProfileImage
	}

	if err := uc.users.RecordLogin(ctx, user.ID, ipAddress); err != nil {
		uc.log.Warn("failed to record login", "user_id", user.ID, "error", err)
	}

	token, err := uc.issuer.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	uc.log.Info("user logged in", "user_id", user.ID, "ip", ipAddress)
	return &LoginOutput{Token: token, IsNewUser: isNew, User: user}, nil
}

// History returns the caller's login events, newest first.
func (uc *LoginUseCase) History(ctx context.Context, userID int64) ([]domain.LoginEvent, error) {
	return uc.users.LoginHistory(ctx, userID)
}
