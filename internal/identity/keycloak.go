package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const adminCLIClientID = "admin-cli"

// KeycloakClient provisions realms through the Keycloak admin REST API. It
// authenticates with the password grant against the master realm, the same
// way admin-cli does.
type KeycloakClient struct {
	baseURL       string
	adminUser     string
	adminPassword string
	httpClient    *http.Client
}

func NewKeycloakClient(baseURL, adminUser, adminPassword string) *KeycloakClient {
	return &KeycloakClient{
		baseURL:       strings.TrimRight(baseURL, "/"),
		adminUser:     adminUser,
		adminPassword: adminPassword,
		httpClient:    &http.Client{},
	}
}

type keycloakTokenResponse struct {
	AccessToken string `json:"access_token"`
}

func (c *KeycloakClient) adminToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("client_id", adminCLIClientID)
	form.Set("username", c.adminUser)
	form.Set("password", c.adminPassword)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/realms/master/protocol/openid-connect/token",
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create keycloak token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("keycloak token request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("keycloak token request returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var tok keycloakTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("decode keycloak token response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("keycloak token response had no access_token")
	}
	return tok.AccessToken, nil
}

type keycloakRealmRepresentation struct {
	Realm       string `json:"realm"`
	DisplayName string `json:"displayName"`
	Enabled     bool   `json:"enabled"`
}

func (c *KeycloakClient) CreateRealm(ctx context.Context, realmID, displayName string) error {
	token, err := c.adminToken(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(keycloakRealmRepresentation{
		Realm:       realmID,
		DisplayName: displayName,
		Enabled:     true,
	})
	if err != nil {
		return fmt.Errorf("marshal realm representation: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/admin/realms", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create realm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("keycloak realm request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusCreated:
		return nil
	case http.StatusConflict:
		return ErrRealmExists
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("keycloak realm creation returned %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
}
