package handlers

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/certidao-digital/atendimento/internal/api/dto"
	"github.com/certidao-digital/atendimento/internal/auth"
	"github.com/certidao-digital/atendimento/internal/domain"
	"github.com/certidao-digital/atendimento/internal/service"
	apperrors "github.com/certidao-digital/atendimento/pkg/util"
)

// TicketsHandler manages the ticket endpoints.
type TicketsHandler struct {
	service  *service.TicketService
	tokens   *auth.DownloadTokenManager
	validate *validator.Validate
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, tokens *auth.DownloadTokenManager) *TicketsHandler {
	return &TicketsHandler{
		service:  ticketService,
		tokens:   tokens,
		validate: validator.New(),
	}
}

// GenerateCode GET /tickets/generate-code.
func (h *TicketsHandler) GenerateCode(c *fiber.Ctx) error {
	code, err := h.service.GenerateCode(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.GenerateCodeResponse{Codigo: code})
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.validate.Struct(req); err != nil {
		return apperrors.NewValidationError("invalid payload", validationDetails(err))
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), service.TicketCreateInput{
		Codigo:         req.Codigo,
		TipoPessoa:     req.TipoPessoa,
		TipoCertidao:   req.TipoCertidao,
		Prioridade:     req.Prioridade,
		NomeCompleto:   req.NomeCompleto,
		Documento:      req.Documento,
		Email:          req.Email,
		Telefone:       req.Telefone,
		Estado:         req.Estado,
		Cidade:         req.Cidade,
		DataNascimento: req.DataNascimento,
		Observacoes:    req.Observacoes,
	})
	if err != nil {
		return err
	}
	return c.JSON(ticket)
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	var status *domain.Status
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		candidate := domain.Status(raw)
		if !candidate.Valid() {
			return apperrors.NewValidationError("unknown status filter", map[string]any{"status": raw})
		}
		status = &candidate
	}

	tickets, err := h.service.ListTickets(c.UserContext(), status)
	if err != nil {
		return err
	}
	return c.JSON(tickets)
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(ticket)
}

// UpdateTicket PUT /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.validate.Struct(req); err != nil {
		return apperrors.NewValidationError("invalid payload", validationDetails(err))
	}

	ticket, err := h.service.UpdateTicket(c.UserContext(), c.Params("id"), service.TicketUpdateInput{
		Status:     req.Status,
		Operador:   req.Operador,
		Prioridade: req.Prioridade,
		Mensagem:   req.Mensagem,
		Autor:      req.Autor,
	})
	if err != nil {
		return err
	}
	return c.JSON(ticket)
}

// SendCompletion POST /tickets/:id/send-completion.
func (h *TicketsHandler) SendCompletion(c *fiber.Ctx) error {
	var req dto.SendCompletionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.validate.Struct(req); err != nil {
		return apperrors.NewValidationError("invalid payload", validationDetails(err))
	}

	var anexo *service.AnexoInput
	if req.Anexo != nil {
		conteudo, err := base64.StdEncoding.DecodeString(req.Anexo.Base64)
		if err != nil {
			return apperrors.NewValidationError("anexo is not valid base64", nil)
		}
		anexo = &service.AnexoInput{
			Nome:     req.Anexo.Nome,
			Tipo:     req.Anexo.Tipo,
			Conteudo: conteudo,
		}
	}

	result, err := h.service.SendCompletion(c.UserContext(), c.Params("id"), req.MensagemInteracao, anexo)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// DownloadCertificado GET /tickets/:id/certificado serves the stored
// attachment when the signed token from the completion email is valid.
func (h *TicketsHandler) DownloadCertificado(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return apperrors.NewUnauthorized("missing download token")
	}
	claims, err := h.tokens.ParseToken(token)
	if err != nil {
		return apperrors.NewUnauthorized("invalid download token")
	}
	if claims.TicketID != c.Params("id") {
		return apperrors.NewUnauthorized("token does not match ticket")
	}

	caminho, err := h.service.ResolveAttachment(c.UserContext(), claims.TicketID, claims.Arquivo)
	if err != nil {
		return err
	}
	return c.SendFile(caminho)
}

func validationDetails(err error) map[string]any {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil
	}
	details := make(map[string]any, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = fe.Tag()
	}
	return details
}
