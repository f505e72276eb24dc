package hub

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ficap/dhwebapi/config"
	"github.com/ficap/dhwebapi/internal/testutil/hubstub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createConfig(baseURL string) config.Config {
	return config.NewClientConfig().WithBaseURL(baseURL)
}

func TestClient_NewClientLogsIn(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/users/login/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"token":"abc123"}`))
	}))
	defer server.Close()

	client, err := NewClient(context.Background(), createConfig(server.URL), "alice", "secret", "")
	require.NoError(t, err)
	assert.True(t, client.IsLoggedIn())
	assert.Equal(t, "abc123", client.Token())
	assert.Equal(t, "alice", client.Username())
}

func TestClient_NewClientWithoutCredentials(t *testing.T) {
	client, err := NewClient(context.Background(), createConfig("http://127.0.0.1:0"), "", "", "")
	require.NoError(t, err)
	assert.False(t, client.IsLoggedIn())

	client.SetToken("injected")
	assert.True(t, client.IsLoggedIn())
	assert.Equal(t, "injected", client.Token())
}

func TestClient_NewClientWithTokenSkipsLogin(t *testing.T) {
	stub := hubstub.New()
	defer stub.Close()

	client, err := NewClient(context.Background(), createConfig(stub.URL), "alice", "secret", "given")
	require.NoError(t, err)
	assert.Equal(t, "given", client.Token())
	assert.Empty(t, stub.Requests())
}

func TestClient_LoginNonOKStatus(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusTooManyRequests, http.StatusBadGateway} {
		stub := hubstub.New().AddUser("alice", "secret").WithLoginStatus(status)

		_, err := NewClient(context.Background(), createConfig(stub.URL), "alice", "secret", "")
		var authErr *AuthenticationError
		require.True(t, errors.As(err, &authErr), "status %d", status)
		assert.Equal(t, status, authErr.StatusCode())

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, status, apiErr.StatusCode)
		assert.Equal(t, stub.URL+"/v2/users/login/", apiErr.URL)
		stub.Close()
	}
}

func TestClient_LoginWithoutToken(t *testing.T) {
	stub := hubstub.New().AddUser("alice", "secret").WithoutToken()
	defer stub.Close()

	_, err := NewClient(context.Background(), createConfig(stub.URL), "alice", "secret", "")
	var authErr *AuthenticationError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, http.StatusOK, authErr.StatusCode())
	assert.Contains(t, err.Error(), "no token")
}

func TestClient_LoginMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer server.Close()

	client, err := NewClient(context.Background(), createConfig(server.URL), "", "", "")
	require.NoError(t, err)

	err = client.Login(context.Background(), "alice", "secret")
	var authErr *AuthenticationError
	require.True(t, errors.As(err, &authErr))
	assert.False(t, client.IsLoggedIn())
}

func TestClient_LoginValidation(t *testing.T) {
	stub := hubstub.New()
	defer stub.Close()

	client, err := NewClient(context.Background(), createConfig(stub.URL), "alice", "", "")
	require.NoError(t, err)

	err = client.Login(context.Background(), "", "")
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "password is required", err.Error())
	assert.Empty(t, stub.Requests())
}

func TestClient_LoginNeverSendsAuthorization(t *testing.T) {
	stub := hubstub.New().AddUser("alice", "secret").AddUser("bob", "hunter2")
	defer stub.Close()

	client, err := NewClient(context.Background(), createConfig(stub.URL), "alice", "secret", "")
	require.NoError(t, err)
	aliceToken := client.Token()

	// Identity swap with a token already present
	require.NoError(t, client.Login(context.Background(), "bob", "hunter2"))
	assert.Equal(t, "bob", client.Username())
	assert.NotEqual(t, aliceToken, client.Token())

	requests := stub.Requests()
	require.Len(t, requests, 2)
	for _, req := range requests {
		assert.Equal(t, "/v2/users/login/", req.Path)
		assert.Empty(t, req.Authorization)
	}
	assert.Equal(t, "bob", requests[1].Body["username"])
	assert.Equal(t, "hunter2", requests[1].Body["password"])
}

func TestClient_LoginKeepsCredentialsWhenPartial(t *testing.T) {
	stub := hubstub.New().AddUser("alice", "secret")
	defer stub.Close()

	client, err := NewClient(context.Background(), createConfig(stub.URL), "alice", "secret", "")
	require.NoError(t, err)

	require.NoError(t, client.Login(context.Background(), "bob", ""))
	assert.Equal(t, "alice", client.Username())
	assert.Equal(t, "alice", stub.LastRequest().Body["username"])
}

func TestClient_AuthorizationHeader(t *testing.T) {
	var authorization []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authorization = append(authorization, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"name":"nginx"}`))
	}))
	defer server.Close()

	client, err := NewClient(context.Background(), createConfig(server.URL), "", "", "")
	require.NoError(t, err)

	_, err = client.GetRepositoryInfo(context.Background(), "library", "nginx")
	require.NoError(t, err)

	client.SetToken("abc123")
	_, err = client.GetRepositoryInfo(context.Background(), "library", "nginx")
	require.NoError(t, err)

	assert.Equal(t, []string{"", "JWT abc123"}, authorization)
}

func TestClient_RequestURL(t *testing.T) {
	client := &Client{baseURL: "https://hub.docker.com", apiVersion: "v2"}
	assert.Equal(t, "https://hub.docker.com/v2/users/login/", client.requestURL("users/login"))
	assert.Equal(t, "https://hub.docker.com/v2/repositories/library/nginx/", client.requestURL("repositories/library/nginx/"))

	client = &Client{baseURL: "http://127.0.0.1:8080/", apiVersion: "/v2/"}
	assert.Equal(t, "http://127.0.0.1:8080/v2/users/login/", client.requestURL("/users/login"))

	assert.True(t, isLoginPath("users/login"))
	assert.True(t, isLoginPath("/users/login/"))
	assert.False(t, isLoginPath("users/login/extra"))
}
