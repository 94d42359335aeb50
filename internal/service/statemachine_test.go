package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certidao-digital/atendimento/internal/domain"
	"github.com/certidao-digital/atendimento/pkg/util"
)

func strptr(s string) *string { return &s }

func newTicket(status domain.Status, operador *string) *domain.Ticket {
	return &domain.Ticket{
		ID:           "tk-1",
		Codigo:       "AB1234",
		Status:       status,
		Operador:     operador,
		DataCadastro: time.Now(),
		Historico:    []domain.HistoryEntry{},
	}
}

func TestApplyTransitionGraph(t *testing.T) {
	tests := []struct {
		name     string
		from     domain.Status
		to       domain.Status
		operador *string
		wantCode string
	}{
		{name: "geral para em operacao", from: domain.StatusGeral, to: domain.StatusEmOperacao, operador: strptr("Ana")},
		{name: "em operacao para atendimento", from: domain.StatusEmOperacao, to: domain.StatusEmAtendimento, operador: strptr("Ana")},
		{name: "atendimento para financeiro", from: domain.StatusEmAtendimento, to: domain.StatusFinanceiro, operador: strptr("Ana")},
		{name: "financeiro de volta para operacao", from: domain.StatusFinanceiro, to: domain.StatusEmOperacao, operador: strptr("Ana")},
		{name: "aguardando info conclui", from: domain.StatusAguardandoInfo, to: domain.StatusConcluido, operador: strptr("Ana")},
		{name: "geral nao pula para atendimento", from: domain.StatusGeral, to: domain.StatusEmAtendimento, operador: strptr("Ana"), wantCode: util.CodeInvalidTransition},
		{name: "concluido e terminal", from: domain.StatusConcluido, to: domain.StatusEmOperacao, operador: strptr("Ana"), wantCode: util.CodeInvalidTransition},
		{name: "mesmo status", from: domain.StatusEmOperacao, to: domain.StatusEmOperacao, operador: strptr("Ana"), wantCode: util.CodeNoStatusChange},
		{name: "concluir duas vezes", from: domain.StatusConcluido, to: domain.StatusConcluido, operador: strptr("Ana"), wantCode: util.CodeAlreadyCompleted},
		{name: "status desconhecido", from: domain.StatusGeral, to: domain.Status("INVALIDO"), wantCode: util.CodeValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var operador *string
			if tt.from != domain.StatusGeral {
				operador = strptr("Ana")
			}
			ticket := newTicket(tt.from, operador)
			entry, err := applyTransition(ticket, TransitionInput{Target: tt.to, Operador: tt.operador, Autor: "Ana"}, time.Now())

			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, util.CodeOf(err))
				assert.Equal(t, tt.from, ticket.Status, "failed transition must leave status unchanged")
				assert.Empty(t, ticket.Historico)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, ticket.Status)
			require.Len(t, ticket.Historico, 1)
			assert.Equal(t, tt.from, entry.StatusAnterior)
			assert.Equal(t, tt.to, entry.NovoStatus)
			assert.Equal(t, "Ana", entry.Autor)
		})
	}
}

func TestAssignmentSetsOperadorAndDataAtribuicao(t *testing.T) {
	ticket := newTicket(domain.StatusGeral, nil)
	now := time.Now()

	_, err := applyTransition(ticket, TransitionInput{Target: domain.StatusEmOperacao, Operador: strptr("Ana"), Autor: "Ana"}, now)
	require.NoError(t, err)

	require.NotNil(t, ticket.Operador)
	assert.Equal(t, "Ana", *ticket.Operador)
	require.NotNil(t, ticket.DataAtribuicao)
	assert.Equal(t, now, *ticket.DataAtribuicao)
}

func TestAssignmentWithoutOperadorRejected(t *testing.T) {
	ticket := newTicket(domain.StatusGeral, nil)

	_, err := applyTransition(ticket, TransitionInput{Target: domain.StatusEmOperacao}, time.Now())
	require.Error(t, err)
	assert.Equal(t, util.CodeInvalidTransition, util.CodeOf(err))
	assert.Equal(t, domain.StatusGeral, ticket.Status)
	assert.Nil(t, ticket.Operador)
	assert.Nil(t, ticket.DataAtribuicao)
}

func TestReassignmentKeepsDataAtribuicao(t *testing.T) {
	ticket := newTicket(domain.StatusEmOperacao, strptr("Ana"))
	original := time.Now().Add(-time.Hour)
	ticket.DataAtribuicao = &original

	_, err := applyTransition(ticket, TransitionInput{Target: domain.StatusEmAtendimento, Operador: strptr("Bruno"), Autor: "Bruno"}, time.Now())
	require.NoError(t, err)

	require.NotNil(t, ticket.Operador)
	assert.Equal(t, "Bruno", *ticket.Operador)
	require.NotNil(t, ticket.DataAtribuicao)
	assert.Equal(t, original, *ticket.DataAtribuicao)
}

func TestCompletionRequiresOperador(t *testing.T) {
	ticket := newTicket(domain.StatusEmOperacao, nil)

	_, err := applyTransition(ticket, TransitionInput{Target: domain.StatusConcluido}, time.Now())
	require.Error(t, err)
	assert.Equal(t, util.CodeInvalidTransition, util.CodeOf(err))
	assert.Equal(t, domain.StatusEmOperacao, ticket.Status)
	assert.Nil(t, ticket.DataConclusao)
	assert.Empty(t, ticket.Historico)
}

func TestCompletionSetsDataConclusaoExactlyOnce(t *testing.T) {
	ticket := newTicket(domain.StatusEmOperacao, strptr("Ana"))
	now := time.Now()

	_, err := applyTransition(ticket, TransitionInput{Target: domain.StatusConcluido, Autor: "Ana"}, now)
	require.NoError(t, err)
	require.NotNil(t, ticket.DataConclusao)
	assert.Equal(t, now, *ticket.DataConclusao)

	_, err = applyTransition(ticket, TransitionInput{Target: domain.StatusConcluido, Autor: "Ana"}, time.Now())
	require.Error(t, err)
	assert.Equal(t, util.CodeAlreadyCompleted, util.CodeOf(err))
	assert.Equal(t, now, *ticket.DataConclusao)
	assert.Len(t, ticket.Historico, 1)
}

func TestDataConclusaoMatchesStatusInvariant(t *testing.T) {
	operador := strptr("Ana")
	ticket := newTicket(domain.StatusGeral, nil)

	steps := []domain.Status{
		domain.StatusEmOperacao,
		domain.StatusAguardandoInfo,
		domain.StatusEmAtendimento,
		domain.StatusConcluido,
	}
	for _, target := range steps {
		_, err := applyTransition(ticket, TransitionInput{Target: target, Operador: operador, Autor: "Ana"}, time.Now())
		require.NoError(t, err)
		if ticket.Status == domain.StatusConcluido {
			assert.NotNil(t, ticket.DataConclusao)
		} else {
			assert.Nil(t, ticket.DataConclusao)
		}
	}
	assert.Len(t, ticket.Historico, len(steps))
	for i, entry := range ticket.Historico {
		assert.Equal(t, steps[i], entry.NovoStatus)
	}
}
