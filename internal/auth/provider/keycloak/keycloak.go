package keycloak

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/taahs-backlog/dodgegame-web-portal/internal/auth"
)

// Provider implements the identity provider contract against Keycloak using
// the direct-access (password) grant. Account creation and user lookup go
// through the admin REST API with a client-credentials token.
type Provider struct {
	issuer       string
	adminBaseURL string
	oauthConfig  *oauth2.Config
	verifier     *oidc.IDTokenVerifier
	adminClient  *http.Client
	httpClient   *http.Client
}

// New initializes the provider using OIDC discovery. issuer must be the
// realm issuer URL, e.g. http://localhost:8081/realms/dodgegame
func New(
	ctx context.Context,
	issuer string,
	clientID string,
	clientSecret string,
) (*Provider, error) {

	if issuer == "" || clientID == "" || clientSecret == "" {
		return nil, errors.New("keycloak config missing required fields")
	}

	oidcProvider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to init keycloak oidc provider: %w", err)
	}

	verifier := oidcProvider.Verifier(&oidc.Config{
		ClientID: clientID,
	})

	endpoint := oidcProvider.Endpoint()

	oauthCfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     endpoint,
		Scopes: []string{
			oidc.ScopeOpenID,
			"email",
			"profile",
		},
	}

	adminCfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     endpoint.TokenURL,
	}

	return &Provider{
		issuer: issuer,
		// /realms/{realm} and /admin/realms/{realm} share the same base URL
		adminBaseURL: strings.Replace(issuer, "/realms/", "/admin/realms/", 1),
		oauthConfig:  oauthCfg,
		verifier:     verifier,
		adminClient:  adminCfg.Client(ctx),
		httpClient:   http.DefaultClient,
	}, nil
}

type idClaims struct {
	Subject           string `json:"sub"`
	Email             string `json:"email"`
	PreferredUsername string `json:"preferred_username"`
}

// SignIn runs the password grant and verifies the returned ID token before
// trusting any of its claims.
func (p *Provider) SignIn(
	ctx context.Context,
	email string,
	password string,
) (*auth.Grant, error) {

	token, err := p.oauthConfig.PasswordCredentialsToken(ctx, email, password)
	if err != nil {
		return nil, providerError(err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, errors.New("keycloak did not return id_token")
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("keycloak id_token verification failed: %w", err)
	}

	var claims idClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("keycloak id_token claims parse failed: %w", err)
	}

	if claims.Subject == "" || claims.Email == "" {
		return nil, errors.New("keycloak id_token missing required claims")
	}

	return &auth.Grant{
		Identity: auth.Identity{
			UserID:   claims.Subject,
			Email:    claims.Email,
			Username: claims.PreferredUsername,
		},
		Artifact:  token.RefreshToken,
		ExpiresAt: token.Expiry,
	}, nil
}

type adminUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// SignUp creates the account through the admin API. The chosen username
// lands both as the Keycloak username and in the user attributes, mirroring
// what the client sent.
func (p *Provider) SignUp(
	ctx context.Context,
	email string,
	password string,
	attrs map[string]string,
) (*auth.Identity, error) {

	username := attrs["username"]

	attributes := make(map[string][]string, len(attrs))
	for k, v := range attrs {
		attributes[k] = []string{v}
	}

	body, err := json.Marshal(map[string]any{
		"username":      username,
		"email":         email,
		"enabled":       true,
		"emailVerified": false,
		"attributes":    attributes,
		"credentials": []map[string]any{{
			"type":      "password",
			"value":     password,
			"temporary": false,
		}},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		p.adminBaseURL+"/users",
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.adminClient.Do(req)
	if err != nil {
		return nil, providerError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, errors.New(adminErrorMessage(resp))
	}

	// Keycloak returns the new user's URL in the Location header.
	loc, err := resp.Location()
	if err != nil {
		return nil, errors.New("keycloak did not return new user location")
	}

	return &auth.Identity{
		UserID:   path.Base(loc.Path),
		Email:    email,
		Username: username,
	}, nil
}

func (p *Provider) UserByID(ctx context.Context, id string) (*auth.Identity, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		p.adminBaseURL+"/users/"+url.PathEscape(id),
		nil,
	)
	if err != nil {
		return nil, err
	}

	resp, err := p.adminClient.Do(req)
	if err != nil {
		return nil, providerError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(adminErrorMessage(resp))
	}

	var u adminUser
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, fmt.Errorf("keycloak user decode failed: %w", err)
	}

	return &auth.Identity{
		UserID:   u.ID,
		Email:    u.Email,
		Username: u.Username,
	}, nil
}

// SignOut revokes the refresh-token artifact, ending the provider session.
func (p *Provider) SignOut(ctx context.Context, artifact string) error {
	if artifact == "" {
		return nil
	}

	form := url.Values{
		"client_id":     {p.oauthConfig.ClientID},
		"client_secret": {p.oauthConfig.ClientSecret},
		"refresh_token": {artifact},
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		p.issuer+"/protocol/openid-connect/logout",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return providerError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return errors.New(adminErrorMessage(resp))
	}

	return nil
}

// providerError unwraps oauth2 retrieve errors so callers see the
// provider's own message ("Invalid user credentials") instead of a URL and
// status dump.
func providerError(err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		if re.ErrorDescription != "" {
			return errors.New(re.ErrorDescription)
		}
		if re.ErrorCode != "" {
			return errors.New(re.ErrorCode)
		}
	}
	return err
}

// adminErrorMessage extracts Keycloak's errorMessage field when present,
// falling back to the raw body or the HTTP status.
func adminErrorMessage(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var ke struct {
		ErrorMessage string `json:"errorMessage"`
		Error        string `json:"error"`
	}
	if err := json.Unmarshal(body, &ke); err == nil {
		if ke.ErrorMessage != "" {
			return ke.ErrorMessage
		}
		if ke.Error != "" {
			return ke.Error
		}
	}

	if len(body) > 0 {
		return string(body)
	}
	return resp.Status
}
