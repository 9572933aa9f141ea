// Package wompi реализует клиент платежного шлюза Wompi: получение
// access-токена по client credentials grant и создание платежных ссылок.
//
// Токен не кешируется — на каждую операцию запрашивается новый.
package wompi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client клиент API Wompi.
type Client struct {
	appID      string
	apiSecret  string
	authURL    string
	linkURL    string
	httpClient *http.Client
}

// NewClient создаёт новый клиент Wompi.
func NewClient(appID, apiSecret, authURL, linkURL string) *Client {
	return &Client{
		appID:      appID,
		apiSecret:  apiSecret,
		authURL:    authURL,
		linkURL:    linkURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// GetToken запрашивает access-токен по client credentials grant.
func (c *Client) GetToken(ctx context.Context) (string, error) {
	const op = "wompi.GetToken"

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("audience", "wompi_api")
	form.Set("client_id", c.appID)
	form.Set("client_secret", c.apiSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%s: unexpected status %s: %s", op, resp.Status, string(body))
	}

	var tokenResp tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if tokenResp.AccessToken == "" || tokenResp.ExpiresIn == 0 {
		return "", fmt.Errorf("%s: invalid response from token endpoint", op)
	}
	return tokenResp.AccessToken, nil
}

// CreatePaymentLink получает свежий токен и создает платежную ссылку.
func (c *Client) CreatePaymentLink(ctx context.Context, reqParams CreatePaymentLinkRequest) (*CreatePaymentLinkResponse, error) {
	const op = "wompi.CreatePaymentLink"

	token, err := c.GetToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(reqParams); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.linkURL, &buf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%s: unexpected status %s: %s", op, resp.Status, string(body))
	}

	var linkResp CreatePaymentLinkResponse
	if err := json.NewDecoder(resp.Body).Decode(&linkResp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !linkResp.Success || linkResp.Data.URLPago == "" {
		return nil, fmt.Errorf("%s: gateway refused to create payment link", op)
	}
	return &linkResp, nil
}
