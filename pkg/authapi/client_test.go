package authapi_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailquest/trailquest-go/pkg/authapi"
	"github.com/trailquest/trailquest-go/pkg/authtest"
	"github.com/trailquest/trailquest-go/pkg/httputil"
)

func TestClient_Login(t *testing.T) {
	srv := authtest.NewServer()
	defer srv.Close()
	profile := srv.Seed("alice", "alice@example.com", "s3cret")

	client := authapi.NewClient(srv.URL(), nil)
	resp, err := client.Login(context.Background(), authapi.LoginRequest{
		Identifier: "alice",
		Secret:     "s3cret",
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, profile.ID, resp.User.ID)
	assert.Equal(t, profile.RenewalKey, resp.User.RenewalKey)
	assert.NotEmpty(t, resp.AccessCredential)
	assert.NotEmpty(t, resp.RefreshCredential)

	// by email works too
	_, err = client.Login(context.Background(), authapi.LoginRequest{
		Identifier: "alice@example.com",
		Secret:     "s3cret",
	})
	require.NoError(t, err)
}

func TestClient_Login_BadSecret(t *testing.T) {
	srv := authtest.NewServer()
	defer srv.Close()
	srv.Seed("alice", "alice@example.com", "s3cret")

	client := authapi.NewClient(srv.URL(), nil)
	_, err := client.Login(context.Background(), authapi.LoginRequest{
		Identifier: "alice",
		Secret:     "wrong",
	})

	// the server's message must survive for the UI
	var apiErr *httputil.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.StatusCode)
	assert.Equal(t, "invalid credentials", apiErr.Message)
}

func TestClient_Register(t *testing.T) {
	srv := authtest.NewServer()
	defer srv.Close()

	client := authapi.NewClient(srv.URL(), nil)
	acct, err := client.Register(context.Background(), authapi.RegisterRequest{
		Email:    "bob@example.com",
		Username: "bob",
		Secret:   "hunter2",
	})
	require.NoError(t, err)
	assert.Equal(t, "bob", acct.Username)
	assert.NotEmpty(t, acct.ID)

	// duplicate registration propagates the server's message
	_, err = client.Register(context.Background(), authapi.RegisterRequest{
		Email:    "bob@example.com",
		Username: "bob",
		Secret:   "hunter2",
	})
	var apiErr *httputil.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 409, apiErr.StatusCode)
}

func TestClient_Refresh(t *testing.T) {
	srv := authtest.NewServer()
	defer srv.Close()
	profile := srv.Seed("alice", "alice@example.com", "s3cret")
	refresh := srv.IssueRefresh(profile.ID, time.Hour)

	client := authapi.NewClient(srv.URL(), nil)
	resp, err := client.Refresh(context.Background(), authapi.RefreshRequest{
		RenewalKey:        profile.RenewalKey,
		RefreshCredential: refresh,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessCredential)
	assert.Empty(t, resp.RefreshCredential, "no rotation unless the server asks for it")
}

func TestClient_Refresh_Rotation(t *testing.T) {
	srv := authtest.NewServer(authtest.WithRotation())
	defer srv.Close()
	profile := srv.Seed("alice", "alice@example.com", "s3cret")
	refresh := srv.IssueRefresh(profile.ID, time.Hour)

	client := authapi.NewClient(srv.URL(), nil)
	resp, err := client.Refresh(context.Background(), authapi.RefreshRequest{
		RenewalKey:        profile.RenewalKey,
		RefreshCredential: refresh,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.RefreshCredential)
	assert.NotEqual(t, refresh, resp.RefreshCredential)

	// the old refresh credential is dead after rotation
	_, err = client.Refresh(context.Background(), authapi.RefreshRequest{
		RenewalKey:        profile.RenewalKey,
		RefreshCredential: refresh,
	})
	assert.ErrorIs(t, err, authapi.ErrCredentialRejected)
}

func TestClient_Refresh_Rejected(t *testing.T) {
	srv := authtest.NewServer()
	defer srv.Close()
	profile := srv.Seed("alice", "alice@example.com", "s3cret")

	client := authapi.NewClient(srv.URL(), nil)
	_, err := client.Refresh(context.Background(), authapi.RefreshRequest{
		RenewalKey:        profile.RenewalKey,
		RefreshCredential: "never-issued",
	})
	assert.ErrorIs(t, err, authapi.ErrCredentialRejected)

	// wrong renewal key is just as terminal
	refresh := srv.IssueRefresh(profile.ID, time.Hour)
	_, err = client.Refresh(context.Background(), authapi.RefreshRequest{
		RenewalKey:        "wrong-key",
		RefreshCredential: refresh,
	})
	assert.ErrorIs(t, err, authapi.ErrCredentialRejected)
}

func TestClient_Refresh_ServerErrorIsNotTerminal(t *testing.T) {
	srv := authtest.NewServer()
	defer srv.Close()
	srv.FailRefresh(503)

	client := authapi.NewClient(srv.URL(), nil)
	_, err := client.Refresh(context.Background(), authapi.RefreshRequest{
		RenewalKey:        "rk",
		RefreshCredential: "tok",
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, authapi.ErrCredentialRejected)
}

func TestClient_Logout(t *testing.T) {
	srv := authtest.NewServer()
	defer srv.Close()
	profile := srv.Seed("alice", "alice@example.com", "s3cret")
	access := srv.IssueAccess(profile.ID, time.Hour)

	client := authapi.NewClient(srv.URL(), nil)
	require.NoError(t, client.Logout(context.Background(), access))
	assert.Equal(t, 1, srv.LogoutCalls())

	err := client.Logout(context.Background(), "garbage")
	require.Error(t, err)
}
