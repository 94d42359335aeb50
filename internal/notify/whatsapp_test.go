package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certidao-digital/atendimento/internal/config"
	"github.com/certidao-digital/atendimento/internal/domain"
)

func TestGatewaySenderPostsPayload(t *testing.T) {
	var received gatewayPayload
	var authHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sender := NewGatewayMessageSender(config.NotificationConfig{
		WhatsAppGatewayURL:   server.URL,
		WhatsAppGatewayToken: "gw-token",
	})
	require.NotNil(t, sender)

	ticket := completedTicket(domain.PrioridadePremium)
	err := sender.Send(context.Background(), Message{
		Ticket:   ticket,
		Mensagem: "sua certidão está pronta",
		Anexo:    &Attachment{Nome: "certidao.pdf", DownloadURL: "https://example.com/baixar"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer gw-token", authHeader)
	assert.Equal(t, ticket.Telefone, received.Telefone)
	assert.Equal(t, ticket.Codigo, received.Codigo)
	assert.Contains(t, received.Mensagem, ticket.Codigo)
	assert.Equal(t, "https://example.com/baixar", received.Link)
}

func TestGatewaySenderRejectsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	sender := NewGatewayMessageSender(config.NotificationConfig{WhatsAppGatewayURL: server.URL})
	err := sender.Send(context.Background(), Message{Ticket: completedTicket(domain.PrioridadePremium)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestGatewaySenderUnconfiguredIsNil(t *testing.T) {
	assert.Nil(t, NewGatewayMessageSender(config.NotificationConfig{}))
}
