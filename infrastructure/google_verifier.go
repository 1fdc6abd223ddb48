package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/villagenews/video-service/domain"
)

const tokenInfoEndpoint = "https://oauth2.googleapis.com/tokeninfo"

// GoogleTokenVerifier validates Google ID tokens via the tokeninfo endpoint
// and checks the audience against our OAuth client ID.
type GoogleTokenVerifier struct {
	clientID string
	endpoint string
	client   *http.Client
}

func NewGoogleTokenVerifier(clientID string) *GoogleTokenVerifier {
	return &GoogleTokenVerifier{
		clientID: clientID,
		endpoint: tokenInfoEndpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (v *GoogleTokenVerifier) Verify(ctx context.Context, idToken string) (*domain.IdentityClaims, error) {
	if idToken == "" {
		return nil, domain.ErrInvalidToken
	}

	reqURL := v.endpoint + "?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build tokeninfo request: %w", err)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call tokeninfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.ErrInvalidToken
	}

	var info struct {
		Aud     string `json:"aud"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode tokeninfo response: %w", err)
	}
	if info.Aud != v.clientID || info.Email == "" {
		return nil, domain.ErrInvalidToken
	}

	name := info.Name
	if name == "" {
		name = info.Email
	}
	return &domain.IdentityClaims{
		Email:        info.Email,
		Name:         name,
		ProfileImage: info.Picture,
	}, nil
}

var _ domain.TokenVerifier = (*GoogleTokenVerifier)(nil)
