package wompi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenServer(t *testing.T, token string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.Form.Get("grant_type"))
		assert.Equal(t, "wompi_api", r.Form.Get("audience"))
		assert.Equal(t, "app-id", r.Form.Get("client_id"))
		assert.Equal(t, "app-secret", r.Form.Get("client_secret"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": token,
			"expires_in":   3600,
		})
	}))
}

func TestGetToken(t *testing.T) {
	authServer := newTokenServer(t, "test-token")
	defer authServer.Close()

	client := NewClient("app-id", "app-secret", authServer.URL, "http://unused")

	token, err := client.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test-token", token)
}

func TestGetToken_BadStatus(t *testing.T) {
	authServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "invalid client", http.StatusUnauthorized)
	}))
	defer authServer.Close()

	client := NewClient("app-id", "app-secret", authServer.URL, "http://unused")

	_, err := client.GetToken(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid client")
}

func TestGetToken_EmptyToken(t *testing.T) {
	authServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token": "", "expires_in": 0}`))
	}))
	defer authServer.Close()

	client := NewClient("app-id", "app-secret", authServer.URL, "http://unused")

	_, err := client.GetToken(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid response")
}

func TestCreatePaymentLink(t *testing.T) {
	authServer := newTokenServer(t, "test-token")
	defer authServer.Close()

	linkServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req CreatePaymentLinkRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "app-id", req.IDAplicativo)
		assert.Equal(t, "chefhub-2-u1-abc", req.IdentificadorEnlaceComercio)
		assert.Equal(t, 4.99, req.Monto)
		assert.Equal(t, 1, req.LimitesDeUso.CantidadMaximaPagosExitosos)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success": true, "data": {"urlPago": "https://pay.example.com/link/abc"}}`))
	}))
	defer linkServer.Close()

	client := NewClient("app-id", "app-secret", authServer.URL, linkServer.URL)

	resp, err := client.CreatePaymentLink(context.Background(), CreatePaymentLinkRequest{
		IDAplicativo:                "app-id",
		IdentificadorEnlaceComercio: "chefhub-2-u1-abc",
		Monto:                       4.99,
		NombreProducto:              "Suscripción ChefHub Chef",
		LimitesDeUso: LimitesDeUso{
			CantidadMaximaPagosExitosos: 1,
			CantidadMaximaPagosFallidos: 3,
		},
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "https://pay.example.com/link/abc", resp.Data.URLPago)
}

func TestCreatePaymentLink_GatewayRefusal(t *testing.T) {
	authServer := newTokenServer(t, "test-token")
	defer authServer.Close()

	linkServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success": false, "data": {"urlPago": ""}}`))
	}))
	defer linkServer.Close()

	client := NewClient("app-id", "app-secret", authServer.URL, linkServer.URL)

	_, err := client.CreatePaymentLink(context.Background(), CreatePaymentLinkRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refused")
}

func TestCreatePaymentLink_TokenFailure(t *testing.T) {
	authServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer authServer.Close()

	linkCalled := false
	linkServer := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		linkCalled = true
	}))
	defer linkServer.Close()

	client := NewClient("app-id", "app-secret", authServer.URL, linkServer.URL)

	_, err := client.CreatePaymentLink(context.Background(), CreatePaymentLinkRequest{})
	require.Error(t, err)
	// Без токена запрос на создание ссылки не отправляется
	assert.False(t, linkCalled)
}
