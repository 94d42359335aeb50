package dto

import (
	"github.com/certidao-digital/atendimento/internal/domain"
)

// CreateTicketRequest payload. Codigo is optional; when absent the service
// generates one.
type CreateTicketRequest struct {
	Codigo         string            `json:"codigo" validate:"omitempty,len=6"`
	TipoPessoa     domain.TipoPessoa `json:"tipoPessoa" validate:"required,oneof=fisica juridica"`
	TipoCertidao   string            `json:"tipoCertidao" validate:"required"`
	Prioridade     domain.Prioridade `json:"prioridade" validate:"omitempty,oneof=padrao prioridade premium"`
	NomeCompleto   string            `json:"nomeCompleto" validate:"required"`
	Documento      string            `json:"documento" validate:"required"`
	Email          string            `json:"email" validate:"required,email"`
	Telefone       string            `json:"telefone" validate:"required"`
	Estado         string            `json:"estado"`
	Cidade         string            `json:"cidade"`
	DataNascimento string            `json:"dataNascimento"`
	Observacoes    string            `json:"observacoes"`
}

// UpdateTicketRequest carries a partial update; status triggers a
// state-machine transition.
type UpdateTicketRequest struct {
	Status     *domain.Status     `json:"status" validate:"omitempty,oneof=GERAL EM_OPERACAO EM_ATENDIMENTO AGUARDANDO_INFO FINANCEIRO CONCLUIDO"`
	Operador   *string            `json:"operador"`
	Prioridade *domain.Prioridade `json:"prioridade" validate:"omitempty,oneof=padrao prioridade premium"`
	Mensagem   string             `json:"mensagem"`
	Autor      string             `json:"autor"`
}

// AnexoRequest is a base64 encoded attachment.
type AnexoRequest struct {
	Nome   string `json:"nome" validate:"required"`
	Tipo   string `json:"tipo" validate:"required"`
	Base64 string `json:"base64" validate:"required"`
}

// SendCompletionRequest triggers the completion notification fan-out.
type SendCompletionRequest struct {
	MensagemInteracao string        `json:"mensagemInteracao" validate:"required"`
	Anexo             *AnexoRequest `json:"anexo" validate:"omitempty"`
}

// GenerateCodeResponse wraps a freshly generated ticket code.
type GenerateCodeResponse struct {
	Codigo string `json:"codigo"`
}
