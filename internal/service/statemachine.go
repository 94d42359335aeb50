package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/certidao-digital/atendimento/internal/domain"
	"github.com/certidao-digital/atendimento/pkg/util"
)

// allowedTransitions encodes the workflow graph. GERAL only leads into
// assignment; the four active states are mutually reachable and each may
// complete. CONCLUIDO is terminal.
var allowedTransitions = map[domain.Status][]domain.Status{
	domain.StatusGeral:          {domain.StatusEmOperacao},
	domain.StatusEmOperacao:     {domain.StatusEmAtendimento, domain.StatusAguardandoInfo, domain.StatusFinanceiro, domain.StatusConcluido},
	domain.StatusEmAtendimento:  {domain.StatusEmOperacao, domain.StatusAguardandoInfo, domain.StatusFinanceiro, domain.StatusConcluido},
	domain.StatusAguardandoInfo: {domain.StatusEmOperacao, domain.StatusEmAtendimento, domain.StatusFinanceiro, domain.StatusConcluido},
	domain.StatusFinanceiro:     {domain.StatusEmOperacao, domain.StatusEmAtendimento, domain.StatusAguardandoInfo, domain.StatusConcluido},
	domain.StatusConcluido:      {},
}

func isValidTransition(current, next domain.Status) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// TransitionInput carries everything a status transition may need.
type TransitionInput struct {
	Target   domain.Status
	Autor    string
	Mensagem string
	Operador *string
	Anexo    *domain.Anexo
}

// applyTransition validates the transition and applies it to the ticket in
// place, deriving side effects (operador assignment, timestamps) and exactly
// one history entry. It records intent only; notification dispatch happens
// elsewhere.
func applyTransition(ticket *domain.Ticket, in TransitionInput, now time.Time) (*domain.HistoryEntry, error) {
	if !in.Target.Valid() {
		return nil, util.NewValidationError("unknown status", map[string]any{"status": in.Target})
	}
	if in.Target == ticket.Status {
		if ticket.Status == domain.StatusConcluido {
			return nil, util.NewAlreadyCompleted()
		}
		return nil, util.NewNoStatusChange()
	}
	if !isValidTransition(ticket.Status, in.Target) {
		return nil, util.NewInvalidTransition("status transition not allowed", map[string]any{
			"de":   ticket.Status,
			"para": in.Target,
		})
	}

	previous := ticket.Status

	switch in.Target {
	case domain.StatusEmOperacao:
		if in.Operador != nil && *in.Operador != "" {
			ticket.Operador = in.Operador
		}
		if ticket.Operador == nil {
			return nil, util.NewInvalidTransition("assignment requires an operador", nil)
		}
		if ticket.DataAtribuicao == nil {
			atribuicao := now
			ticket.DataAtribuicao = &atribuicao
		}
	case domain.StatusConcluido:
		if in.Operador != nil && *in.Operador != "" {
			ticket.Operador = in.Operador
		}
		if ticket.Operador == nil {
			return nil, util.NewInvalidTransition("an unassigned ticket cannot be completed", nil)
		}
		conclusao := now
		ticket.DataConclusao = &conclusao
	default:
		// reassignment mid-workflow is allowed and never touches dataAtribuicao
		if in.Operador != nil && *in.Operador != "" {
			ticket.Operador = in.Operador
		}
	}

	ticket.Status = in.Target

	entry := domain.HistoryEntry{
		ID:             uuid.NewString(),
		Data:           now,
		Autor:          transitionAutor(in, ticket),
		StatusAnterior: previous,
		NovoStatus:     in.Target,
		Mensagem:       in.Mensagem,
		Anexo:          in.Anexo,
	}
	ticket.Historico = append(ticket.Historico, entry)
	return &entry, nil
}

func transitionAutor(in TransitionInput, ticket *domain.Ticket) string {
	if in.Autor != "" {
		return in.Autor
	}
	if ticket.Operador != nil {
		return *ticket.Operador
	}
	return "sistema"
}
