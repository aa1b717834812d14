package user

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/talitamaia0609-debug/siter/pkg/config"
	"github.com/talitamaia0609-debug/siter/pkg/model"
	"golang.org/x/oauth2"
)

// Endpoint of the Discord OAuth2 provider
var Endpoint = oauth2.Endpoint{
	AuthURL:   "https://discord.com/oauth2/authorize",
	TokenURL:  "https://discord.com/api/oauth2/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

const profileURL = "https://discord.com/api/users/@me"

// NewDiscordProvider returns a provider signing users in with the identify and email scopes.
func NewDiscordProvider(cfg config.Discord) *DiscordProvider {
	return &DiscordProvider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Endpoint:     Endpoint,
			Scopes:       []string{"identify", "email"},
		},
		profileURL: profileURL,
	}
}

type DiscordProvider struct {
	oauth      *oauth2.Config
	profileURL string
}

// WithEndpoint points the provider at another authorization server.
func (p *DiscordProvider) WithEndpoint(endpoint oauth2.Endpoint, profileURL string) *DiscordProvider {
	p.oauth.Endpoint = endpoint
	p.profileURL = profileURL
	return p
}

func (p *DiscordProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

type discordProfile struct {
	ID            string  `json:"id"`
	Username      string  `json:"username"`
	Discriminator *string `json:"discriminator"`
	Email         *string `json:"email"`
	Avatar        *string `json:"avatar"`
}

// Exchange trades the authorization code for tokens and returns the profile of the user they
// belong to.
func (p *DiscordProvider) Exchange(ctx context.Context, code string) (*model.User, error) {
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.profileURL, nil)
	if err != nil {
		return nil, err
	}
	res, err := p.oauth.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Discord profile: %v", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return nil, fmt.Errorf("failed to fetch Discord profile: %s: %s", res.Status, body)
	}

	var profile discordProfile
	if err := json.NewDecoder(res.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode Discord profile: %v", err)
	}
	if profile.ID == "" {
		return nil, fmt.Errorf("discord profile without id")
	}

	user := &model.User{
		DiscordID:     profile.ID,
		Username:      profile.Username,
		Discriminator: profile.Discriminator,
		Email:         profile.Email,
		Avatar:        profile.Avatar,
		AccessToken:   &token.AccessToken,
	}
	if token.RefreshToken != "" {
		user.RefreshToken = &token.RefreshToken
	}
	return user, nil
}
