package notifications

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahrarshah/foodiehaven-backend/pkg/config"
)

func TestWebhookMailerSend(t *testing.T) {
	var got mailPayload
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	mailer := NewWebhookMailer(config.MailConfig{
		WebhookURL: server.URL,
		APIKey:     "secret",
		FromName:   "Foodie Haven",
		Timeout:    time.Second,
	})
	require.NotNil(t, mailer)

	err := mailer.Send(context.Background(), "grill@example.com", "New order", "You have a new order.")
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, "grill@example.com", got.To)
	assert.Equal(t, "New order", got.Subject)
	assert.Equal(t, "Foodie Haven", got.FromName)
}

func TestWebhookMailerNon2xxIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	mailer := NewWebhookMailer(config.MailConfig{WebhookURL: server.URL})
	require.NotNil(t, mailer)

	err := mailer.Send(context.Background(), "grill@example.com", "x", "y")
	require.Error(t, err)
}

func TestWebhookMailerDisabledWithoutURL(t *testing.T) {
	assert.Nil(t, NewWebhookMailer(config.MailConfig{}))
}
