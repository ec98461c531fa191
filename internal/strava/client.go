// Package strava implements the provider-facing client: the OAuth2
// authorization-code flow, the refresh-token exchange, and the paginated
// athlete-activities listing.
package strava

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/dmitrijs2005/stravastats/internal/server/models"
)

const (
	apiBase  = "https://www.strava.com/api/v3"
	authURL  = "https://www.strava.com/oauth/authorize"
	tokenURL = "https://www.strava.com/oauth/token"

	// Scope required to read all of the athlete's activities.
	scope = "read,activity:read_all"

	requestTimeout = 30 * time.Second
)

// Config carries the application credentials registered with Strava.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Client talks to the Strava API. It is safe for concurrent use.
type Client struct {
	oauth    *oauth2.Config
	apiBase  string
	tokenURL string
	http     *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{scope},
			Endpoint: oauth2.Endpoint{
				AuthURL:  authURL,
				TokenURL: tokenURL,
			},
		},
		apiBase:  apiBase,
		tokenURL: tokenURL,
		http:     &http.Client{Timeout: requestTimeout},
	}
}

// AuthCodeURL builds the browser consent URL for the authorization-code flow.
// approval_prompt=force makes Strava re-issue a code even for already
// authorized users.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("approval_prompt", "force"))
}

// ExchangeCode swaps an authorization code for the token triple. Strava
// embeds the owning athlete in the token response; its id becomes the local
// user id of the credential.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*models.Credential, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)

	tok, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange: %w", err)
	}

	athlete, ok := tok.Extra("athlete").(map[string]any)
	if !ok {
		return nil, errors.New("token response has no athlete")
	}
	id, ok := athlete["id"].(float64)
	if !ok {
		return nil, errors.New("token response has no athlete id")
	}

	return &models.Credential{
		UserID:       int64(id),
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    tok.Expiry,
	}, nil
}

// Refresh exchanges a refresh token for a new triple. It performs the form
// POST itself rather than going through oauth2.TokenSource, because the
// caller decides whether and when the result is persisted.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	form := url.Values{}
	form.Set("client_id", c.oauth.ClientID)
	form.Set("client_secret", c.oauth.ClientSecret)
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token refresh: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("token refresh failed with status %d: %s", resp.StatusCode, body)
	}

	tokens := &Tokens{}
	if err := json.NewDecoder(resp.Body).Decode(tokens); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	return tokens, nil
}

// ListActivities fetches one page of the authenticated athlete's activities,
// newest first (provider convention, passed through). A non-2xx response is
// an error; an empty page is returned as an empty slice.
func (c *Client) ListActivities(ctx context.Context, accessToken string, page, perPage int) ([]models.Activity, error) {
	u := fmt.Sprintf("%s/athlete/activities?page=%d&per_page=%d", c.apiBase, page, perPage)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("activity list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("activity list failed with status %d: %s", resp.StatusCode, body)
	}

	// Decode each record twice: once into the typed summary and once kept
	// raw, so unknown provider fields survive the round trip to storage.
	var raws []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raws); err != nil {
		return nil, fmt.Errorf("decode activity list: %w", err)
	}

	result := make([]models.Activity, 0, len(raws))
	for _, raw := range raws {
		var a apiActivity
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("decode activity: %w", err)
		}
		result = append(result, models.Activity{
			ExternalID:         a.ID,
			Name:               a.Name,
			Type:               a.Type,
			StartDate:          a.StartDate,
			DistanceMeters:     a.Distance,
			MovingTimeSeconds:  a.MovingTime,
			ElapsedTimeSeconds: a.ElapsedTime,
			Payload:            raw,
		})
	}
	return result, nil
}
