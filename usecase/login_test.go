package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/villagenews/video-service/domain"
)

type fakeUserRepo struct {
	byEmail map[string]*domain.User
	nextID  int64
	logins  []string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*domain.User{}, nextID: 1}
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = r.nextID
	r.nextID++
	cp := *user
	r.byEmail[user.Email] = &cp
	return nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id int64, username, profileImage string) error {
	for _, u := range r.byEmail {
		if u.ID == id {
			u.Username = username
			u.ProfileImage = profileImage
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeUserRepo) RecordLogin(_ context.Context, userID int64, ip string) error {
	r.logins = append(r.logins, fmt.Sprintf("%d@%s", userID, ip))
	return nil
}

func (r *fakeUserRepo) LoginHistory(_ context.Context, userID int64) ([]domain.LoginEvent, error) {
	return nil, nil
}

type fakeVerifier struct {
	claims *domain.IdentityClaims
	err    error
}

func (v *fakeVerifier) Verify(context.Context, string) (*domain.IdentityClaims, error) {
	return v.claims, v.err
}

type fakeIssuer struct{}

func (fakeIssuer) Issue(user *domain.User) (string, error) {
	return fmt.Sprintf("token-for-%d", user.ID), nil
}

func TestLogin_NewUser(t *testing.T) {
	users := newFakeUserRepo()
	verifier := &fakeVerifier{claims: &domain.IdentityClaims{
		Email: "alice@example.com", Name: "Alice", ProfileImage: "pic.png",
	}}
	uc := NewLoginUseCase(users, verifier, fakeIssuer{}, testLogger(t))

	out, err := uc.Execute(context.Background(), "some-token", "10.0.0.1")
	require.NoError(t, err)

	assert.True(t, out.IsNewUser)
	assert.Equal(t, "token-for-1", out.Token)
	assert.Equal(t, "Alice", out.User.Username)
	assert.Len(t, users.logins, 1)
}

func TestLogin_ExistingUserProfileRefreshed(t *testing.T) {
	users := newFakeUserRepo()
	require.NoError(t, users.Create(context.Background(), &domain.User{
		Username: "Old Name", Email: "alice@example.com",
	}))
	verifier := &fakeVerifier{claims: &domain.IdentityClaims{
		Email: "alice@example.com", Name: "New Name", ProfileImage: "new.png",
	}}
	uc := NewLoginUseCase(users, verifier, fakeIssuer{}, testLogger(t))

	out, err := uc.Execute(context.Background(), "some-token", "10.0.0.1")
	require.NoError(t, err)

	assert.False(t, out.IsNewUser)
	assert.Equal(t, "New Name", out.User.Username)
	assert.Equal(t, "New Name", users.byEmail["alice@example.com"].Username)
}

func TestLogin_InvalidToken(t *testing.T) {
	uc := NewLoginUseCase(newFakeUserRepo(), &fakeVerifier{err: domain.ErrInvalidToken}, fakeIssuer{}, testLogger(t))

	_, err := uc.Execute(context.Background(), "bad-token", "10.0.0.1")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
