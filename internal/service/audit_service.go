package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/certidao-digital/atendimento/internal/events"
)

// AuditService mirrors every domain event into the structured log so the
// lifecycle of a ticket can be reconstructed from the log stream alone.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to every event type.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventTicketCreated, a.handle)
	a.dispatcher.Subscribe(events.EventTicketStatusChanged, a.handle)
	a.dispatcher.Subscribe(events.EventCompletionNotified, a.handle)
}

func (a *AuditService) handle(ctx context.Context, event events.Event) error {
	a.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("ticket_id", event.TicketID),
		zap.String("codigo", event.Codigo),
		zap.String("autor", event.Autor),
		zap.Any("payload", event.Payload),
	)
	return nil
}
