package events

import (
	"time"

	"github.com/certidao-digital/atendimento/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventCompletionNotified  EventType = "ticket_completion_notified"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Codigo    string      `json:"codigo"`
	Autor     string      `json:"autor,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TipoCertidao string            `json:"tipoCertidao"`
	TipoPessoa   domain.TipoPessoa `json:"tipoPessoa"`
	Prioridade   domain.Prioridade `json:"prioridade"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	StatusAnterior domain.Status `json:"statusAnterior"`
	NovoStatus     domain.Status `json:"novoStatus"`
	Mensagem       string        `json:"mensagem,omitempty"`
}

// CompletionNotifiedPayload payload.
type CompletionNotifiedPayload struct {
	EmailEnviado    bool   `json:"emailEnviado"`
	WhatsAppEnviado bool   `json:"whatsappEnviado"`
	WhatsAppPulado  bool   `json:"whatsappPulado"`
	Erro            string `json:"erro,omitempty"`
}
