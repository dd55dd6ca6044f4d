package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetApplication(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/get_application", r.URL.Path)
		assert.Equal(t, "app1", r.URL.Query().Get("name"))

		json.NewEncoder(w).Encode(Application{
			Name:           "app1",
			HashedPassword: "$2b$12$hash",
			AdminEmail:     "a@x.com",
			Token:          "tok-1",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	app, err := client.GetApplication(context.Background(), "app1")
	require.NoError(t, err)
	assert.Equal(t, "app1", app.Name)
	assert.Equal(t, "$2b$12$hash", app.HashedPassword)
	assert.Equal(t, "tok-1", app.Token)
}

func TestGetApplicationNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail": "Application not found!"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	_, err := client.GetApplication(context.Background(), "ghost")

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.Status)
	assert.Equal(t, "Application not found!", statusErr.Detail)
	assert.JSONEq(t, `{"detail": "Application not found!"}`, string(statusErr.Body))
}

func TestCreateApplication(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/create_application", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"name": "app1",
			"hashed_password": "$2b$12$hash",
			"admin_email": "a@x.com",
			"token": "tok-1"
		}`, string(body))

		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	err := client.CreateApplication(context.Background(), CreateApplicationRequest{
		Name:           "app1",
		HashedPassword: "$2b$12$hash",
		AdminEmail:     "a@x.com",
		Token:          "tok-1",
	})
	assert.NoError(t, err)
}

func TestCreateApplicationConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"detail": "Application already exists!"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	err := client.CreateApplication(context.Background(), CreateApplicationRequest{Name: "app1"})

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusConflict, statusErr.Status)
	assert.Equal(t, "Application already exists!", statusErr.Detail)
}

func TestDeleteApplication(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/delete_application", r.URL.Path)
		assert.Equal(t, "app1", r.URL.Query().Get("name"))
		w.Write([]byte(`{"detail": "Application deleted!"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	body, err := client.DeleteApplication(context.Background(), "app1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"detail": "Application deleted!"}`, string(body))
}

func TestUpdateToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/update_token", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"name": "app1", "token": "tok-2"}`, string(body))

		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	assert.NoError(t, client.UpdateToken(context.Background(), "app1", "tok-2"))
}

func TestClientTransportFailure(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 500*time.Millisecond)

	_, err := client.GetApplication(context.Background(), "app1")
	require.Error(t, err)

	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr), "transport failures carry no upstream status")
}
