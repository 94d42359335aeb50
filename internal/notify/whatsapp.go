package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/certidao-digital/atendimento/internal/config"
)

// GatewayMessageSender posts completion messages to a WhatsApp gateway.
type GatewayMessageSender struct {
	url    string
	token  string
	client *http.Client
}

// NewGatewayMessageSender returns nil when no gateway is configured, which
// the notifier reports as a skipped channel.
func NewGatewayMessageSender(cfg config.NotificationConfig) *GatewayMessageSender {
	if cfg.WhatsAppGatewayURL == "" {
		return nil
	}
	return &GatewayMessageSender{
		url:    cfg.WhatsAppGatewayURL,
		token:  cfg.WhatsAppGatewayToken,
		client: &http.Client{},
	}
}

type gatewayPayload struct {
	Telefone string `json:"telefone"`
	Mensagem string `json:"mensagem"`
	Codigo   string `json:"codigo"`
	Link     string `json:"link,omitempty"`
}

// Send posts the message to the gateway. The context carries the channel
// timeout.
func (g *GatewayMessageSender) Send(ctx context.Context, msg Message) error {
	payload := gatewayPayload{
		Telefone: msg.Ticket.Telefone,
		Mensagem: fmt.Sprintf("Seu pedido de certidão %s foi concluído. %s", msg.Ticket.Codigo, msg.Mensagem),
		Codigo:   msg.Ticket.Codigo,
	}
	if msg.Anexo != nil {
		payload.Link = msg.Anexo.DownloadURL
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode gateway payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("gateway call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}
	return nil
}
