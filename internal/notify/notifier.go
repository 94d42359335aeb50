package notify

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/certidao-digital/atendimento/internal/domain"
)

// Attachment is the decoded document delivered with the completion message.
type Attachment struct {
	Nome        string
	Tipo        string
	Conteudo    []byte
	DownloadURL string
}

// Message is the per-channel delivery input.
type Message struct {
	Ticket   domain.Ticket
	Mensagem string
	Anexo    *Attachment
}

// Outcome reports one channel's result. Skipped is distinguished from a
// failure so audit logs can tell "chose not to" from "tried and lost".
type Outcome struct {
	Success bool   `json:"success"`
	Skipped bool   `json:"skipped,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Result aggregates per-channel outcomes. Success tracks the email channel,
// which is the primary delivery path.
type Result struct {
	Success  bool    `json:"success"`
	Email    Outcome `json:"email"`
	WhatsApp Outcome `json:"whatsapp"`
}

// EmailSender delivers the completion email.
type EmailSender interface {
	Send(ctx context.Context, msg Message) error
}

// MessageSender delivers the messaging-channel notification.
type MessageSender interface {
	Send(ctx context.Context, msg Message) error
}

// CompletionNotifier fans the completion message out to the configured
// channels. Channels are independent: a failure on one never rolls back or
// blocks the other, and the aggregate is always returned.
type CompletionNotifier struct {
	email    EmailSender
	whatsapp MessageSender
	timeout  time.Duration
	logger   *zap.Logger
}

// NewCompletionNotifier constructs the notifier.
func NewCompletionNotifier(email EmailSender, whatsapp MessageSender, timeout time.Duration, logger *zap.Logger) *CompletionNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CompletionNotifier{email: email, whatsapp: whatsapp, timeout: timeout, logger: logger}
}

// NotifyCompletion sends the completion message over email and, for
// non-standard priorities, WhatsApp. At-most-once per invocation; no retries.
func (n *CompletionNotifier) NotifyCompletion(ctx context.Context, ticket domain.Ticket, mensagem string, anexo *Attachment) Result {
	msg := Message{Ticket: ticket, Mensagem: mensagem, Anexo: anexo}

	var result Result
	result.Email = n.attempt(ctx, n.email, msg)
	if !result.Email.Success {
		n.logger.Warn("email channel failed",
			zap.String("ticket_id", ticket.ID),
			zap.String("codigo", ticket.Codigo),
			zap.String("error", result.Email.Error))
	}

	switch {
	case ticket.Prioridade == domain.PrioridadePadrao:
		result.WhatsApp = Outcome{Skipped: true}
	case n.whatsapp == nil:
		result.WhatsApp = Outcome{Skipped: true}
	default:
		result.WhatsApp = n.attempt(ctx, n.whatsapp, msg)
		if !result.WhatsApp.Success {
			n.logger.Warn("whatsapp channel failed",
				zap.String("ticket_id", ticket.ID),
				zap.String("codigo", ticket.Codigo),
				zap.String("error", result.WhatsApp.Error))
		}
	}

	result.Success = result.Email.Success
	return result
}

type sender interface {
	Send(ctx context.Context, msg Message) error
}

func (n *CompletionNotifier) attempt(ctx context.Context, ch sender, msg Message) Outcome {
	if ch == nil {
		return Outcome{Error: "channel not configured"}
	}
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	err := ch.Send(ctx, msg)
	if err == nil {
		return Outcome{Success: true}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Outcome{Error: "channel call timed out after " + n.timeout.String()}
	}
	return Outcome{Error: err.Error()}
}
