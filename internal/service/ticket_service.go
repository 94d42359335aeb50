package service

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/certidao-digital/atendimento/internal/auth"
	"github.com/certidao-digital/atendimento/internal/codegen"
	"github.com/certidao-digital/atendimento/internal/domain"
	"github.com/certidao-digital/atendimento/internal/events"
	"github.com/certidao-digital/atendimento/internal/notify"
	"github.com/certidao-digital/atendimento/internal/repository"
	"github.com/certidao-digital/atendimento/pkg/util"
)

// maxCodeAttempts bounds regeneration on code collision. The code space is
// 26*26*10000 so exhaustion is unreachable in practice, but it is still an
// error, not a hang.
const maxCodeAttempts = 10

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets        repository.TicketRepository
	codes          codegen.Generator
	notifier       *notify.CompletionNotifier
	tokens         *auth.DownloadTokenManager
	dispatcher     events.Dispatcher
	logger         *zap.Logger
	attachmentsDir string
	publicBaseURL  string
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	CodeGenerator  codegen.Generator
	Notifier       *notify.CompletionNotifier
	Tokens         *auth.DownloadTokenManager
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
	AttachmentsDir string
	PublicBaseURL  string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:        deps.TicketRepo,
		codes:          deps.CodeGenerator,
		notifier:       deps.Notifier,
		tokens:         deps.Tokens,
		dispatcher:     deps.Dispatcher,
		logger:         deps.Logger,
		attachmentsDir: deps.AttachmentsDir,
		publicBaseURL:  strings.TrimRight(deps.PublicBaseURL, "/"),
	}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Codigo         string
	TipoPessoa     domain.TipoPessoa
	TipoCertidao   string
	Prioridade     domain.Prioridade
	NomeCompleto   string
	Documento      string
	Email          string
	Telefone       string
	Estado         string
	Cidade         string
	DataNascimento string
	Observacoes    string
}

// TicketUpdateInput describes a partial update; Status triggers a state
// machine transition, the other fields apply directly.
type TicketUpdateInput struct {
	Status     *domain.Status
	Operador   *string
	Prioridade *domain.Prioridade
	Mensagem   string
	Autor      string
}

// AnexoInput is a decoded attachment from the completion request.
type AnexoInput struct {
	Nome     string
	Tipo     string
	Conteudo []byte
}

// GenerateCode produces a code unique against the stored collection.
func (s *TicketService) GenerateCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := s.codes.Generate()
		if err != nil {
			return "", util.NewInternalError(err)
		}
		exists, err := s.tickets.ExistsByCodigo(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", util.NewGenerationExhausted(maxCodeAttempts)
}

// CreateTicket registers a new certificate request in the initial state.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	codigo := strings.ToUpper(strings.TrimSpace(input.Codigo))
	if codigo == "" {
		generated, err := s.GenerateCode(ctx)
		if err != nil {
			return nil, err
		}
		codigo = generated
	}

	prioridade := input.Prioridade
	if prioridade == "" {
		prioridade = domain.PrioridadePadrao
	}

	ticket := &domain.Ticket{
		Codigo:         codigo,
		TipoPessoa:     input.TipoPessoa,
		TipoCertidao:   input.TipoCertidao,
		Prioridade:     prioridade,
		NomeCompleto:   strings.TrimSpace(input.NomeCompleto),
		Documento:      strings.TrimSpace(input.Documento),
		Email:          strings.TrimSpace(input.Email),
		Telefone:       strings.TrimSpace(input.Telefone),
		Estado:         input.Estado,
		Cidade:         input.Cidade,
		DataNascimento: input.DataNascimento,
		Observacoes:    input.Observacoes,
		Status:         domain.StatusGeral,
	}

	created, err := s.tickets.Create(ctx, ticket)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: created.ID,
		Codigo:   created.Codigo,
		Payload: events.TicketCreatedPayload{
			TipoCertidao: created.TipoCertidao,
			TipoPessoa:   created.TipoPessoa,
			Prioridade:   created.Prioridade,
		},
	})
	return created, nil
}

// GetTicket fetches one ticket.
func (s *TicketService) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	return s.tickets.GetByID(ctx, id)
}

// ListTickets returns the collection ordered by dataCadastro ascending,
// optionally filtered by status.
func (s *TicketService) ListTickets(ctx context.Context, status *domain.Status) ([]domain.Ticket, error) {
	return s.tickets.List(ctx, repository.TicketFilter{Status: status})
}

// UpdateTicket applies a partial update under the ticket's exclusive lock.
func (s *TicketService) UpdateTicket(ctx context.Context, id string, input TicketUpdateInput) (*domain.Ticket, error) {
	if input.Status == nil && input.Operador == nil && input.Prioridade == nil {
		return nil, util.NewValidationError("no updatable fields in payload", nil)
	}

	var previous domain.Status
	updated, err := s.tickets.Update(ctx, id, func(ticket *domain.Ticket) error {
		previous = ticket.Status
		if input.Prioridade != nil {
			ticket.Prioridade = *input.Prioridade
		}
		if input.Status != nil {
			_, err := applyTransition(ticket, TransitionInput{
				Target:   *input.Status,
				Autor:    input.Autor,
				Mensagem: input.Mensagem,
				Operador: input.Operador,
			}, time.Now())
			return err
		}
		// reassignment without a status change; dataAtribuicao untouched
		if input.Operador != nil && *input.Operador != "" {
			if ticket.Status == domain.StatusConcluido {
				return util.NewInvalidTransition("cannot reassign a completed ticket", nil)
			}
			ticket.Operador = input.Operador
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if input.Status != nil {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: updated.ID,
			Codigo:   updated.Codigo,
			Autor:    input.Autor,
			Payload: events.TicketStatusChangedPayload{
				StatusAnterior: previous,
				NovoStatus:     updated.Status,
				Mensagem:       input.Mensagem,
			},
		})
	}
	return updated, nil
}

// SendCompletion dispatches the completion notification for an already
// completed ticket and records the interaction in the history. The
// per-channel result is always returned; channel failures are not request
// failures because the completion transition has already stood.
func (s *TicketService) SendCompletion(ctx context.Context, id, mensagem string, anexoInput *AnexoInput) (*notify.Result, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ticket.Status != domain.StatusConcluido {
		return nil, util.NewInvalidTransition("completion notification requires a completed ticket", map[string]any{
			"status": ticket.Status,
		})
	}

	var (
		anexo      *notify.Attachment
		descriptor *domain.Anexo
	)
	if anexoInput != nil {
		stored, link, err := s.storeAttachment(ticket, anexoInput)
		if err != nil {
			return nil, err
		}
		descriptor = stored
		anexo = &notify.Attachment{
			Nome:        anexoInput.Nome,
			Tipo:        anexoInput.Tipo,
			Conteudo:    anexoInput.Conteudo,
			DownloadURL: link,
		}
	}

	result := s.notifier.NotifyCompletion(ctx, *ticket, mensagem, anexo)

	autor := "sistema"
	if ticket.Operador != nil {
		autor = *ticket.Operador
	}
	if _, err := s.tickets.Update(ctx, id, func(t *domain.Ticket) error {
		t.Historico = append(t.Historico, domain.HistoryEntry{
			ID:                 uuid.NewString(),
			Data:               time.Now(),
			Autor:              autor,
			StatusAnterior:     domain.StatusConcluido,
			NovoStatus:         domain.StatusConcluido,
			Mensagem:           mensagem,
			NotificacaoEnviada: result.Email.Success || result.WhatsApp.Success,
			Anexo:              descriptor,
		})
		return nil
	}); err != nil {
		// the channels already fired; the interaction record is best effort
		s.logger.Error("failed to record completion dispatch", zap.String("ticket_id", id), zap.Error(err))
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventCompletionNotified,
		TicketID: ticket.ID,
		Codigo:   ticket.Codigo,
		Autor:    autor,
		Payload: events.CompletionNotifiedPayload{
			EmailEnviado:    result.Email.Success,
			WhatsAppEnviado: result.WhatsApp.Success,
			WhatsAppPulado:  result.WhatsApp.Skipped,
			Erro:            firstError(result),
		},
	})
	return &result, nil
}

// ResolveAttachment maps a download request back to the stored file through
// the ticket's history.
func (s *TicketService) ResolveAttachment(ctx context.Context, ticketID, arquivo string) (string, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return "", err
	}
	for i := len(ticket.Historico) - 1; i >= 0; i-- {
		anexo := ticket.Historico[i].Anexo
		if anexo != nil && anexo.Nome == arquivo {
			return anexo.Caminho, nil
		}
	}
	return "", util.NewNotFound("anexo")
}

func (s *TicketService) storeAttachment(ticket *domain.Ticket, input *AnexoInput) (*domain.Anexo, string, error) {
	nome := filepath.Base(input.Nome)
	if err := os.MkdirAll(s.attachmentsDir, 0o755); err != nil {
		return nil, "", util.NewInternalError(err)
	}
	caminho := filepath.Join(s.attachmentsDir, ticket.ID+"_"+nome)
	if err := os.WriteFile(caminho, input.Conteudo, 0o644); err != nil {
		return nil, "", util.NewInternalError(err)
	}

	token, _, err := s.tokens.GenerateToken(ticket.ID, nome)
	if err != nil {
		return nil, "", util.NewInternalError(err)
	}
	link := fmt.Sprintf("%s/tickets/%s/certificado?token=%s", s.publicBaseURL, ticket.ID, url.QueryEscape(token))

	return &domain.Anexo{Nome: nome, Caminho: caminho, Tipo: input.Tipo}, link, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func firstError(result notify.Result) string {
	if result.Email.Error != "" {
		return result.Email.Error
	}
	return result.WhatsApp.Error
}
