package domain

import "time"

// Status enumerates lifecycle states for tickets.
type Status string

const (
	StatusGeral          Status = "GERAL"
	StatusEmOperacao     Status = "EM_OPERACAO"
	StatusEmAtendimento  Status = "EM_ATENDIMENTO"
	StatusAguardandoInfo Status = "AGUARDANDO_INFO"
	StatusFinanceiro     Status = "FINANCEIRO"
	StatusConcluido      Status = "CONCLUIDO"
)

// AllStatuses lists every valid status in workflow order.
var AllStatuses = []Status{
	StatusGeral,
	StatusEmOperacao,
	StatusEmAtendimento,
	StatusAguardandoInfo,
	StatusFinanceiro,
	StatusConcluido,
}

// Valid reports whether the status is one of the enumerated values.
func (s Status) Valid() bool {
	for _, candidate := range AllStatuses {
		if s == candidate {
			return true
		}
	}
	return false
}

// TipoPessoa distinguishes individual from entity requests.
type TipoPessoa string

const (
	PessoaFisica   TipoPessoa = "fisica"
	PessoaJuridica TipoPessoa = "juridica"
)

// Prioridade controls which notification channels fire on completion.
type Prioridade string

const (
	PrioridadePadrao     Prioridade = "padrao"
	PrioridadePrioridade Prioridade = "prioridade"
	PrioridadePremium    Prioridade = "premium"
)

// Ticket is the aggregate for certificate requests.
type Ticket struct {
	ID           string     `json:"id"`
	Codigo       string     `json:"codigo"`
	TipoPessoa   TipoPessoa `json:"tipoPessoa"`
	TipoCertidao string     `json:"tipoCertidao"`
	Prioridade   Prioridade `json:"prioridade"`

	NomeCompleto   string `json:"nomeCompleto"`
	Documento      string `json:"documento"`
	Email          string `json:"email"`
	Telefone       string `json:"telefone"`
	Estado         string `json:"estado,omitempty"`
	Cidade         string `json:"cidade,omitempty"`
	DataNascimento string `json:"dataNascimento,omitempty"`
	Observacoes    string `json:"observacoes,omitempty"`

	Status         Status         `json:"status"`
	Operador       *string        `json:"operador"`
	DataCadastro   time.Time      `json:"dataCadastro"`
	DataAtribuicao *time.Time     `json:"dataAtribuicao"`
	DataConclusao  *time.Time     `json:"dataConclusao"`
	Historico      []HistoryEntry `json:"historico"`
}

// Clone returns a deep copy so callers never share mutable state with the store.
func (t *Ticket) Clone() *Ticket {
	if t == nil {
		return nil
	}
	copied := *t
	if t.Operador != nil {
		operador := *t.Operador
		copied.Operador = &operador
	}
	if t.DataAtribuicao != nil {
		atribuicao := *t.DataAtribuicao
		copied.DataAtribuicao = &atribuicao
	}
	if t.DataConclusao != nil {
		conclusao := *t.DataConclusao
		copied.DataConclusao = &conclusao
	}
	if t.Historico != nil {
		copied.Historico = make([]HistoryEntry, len(t.Historico))
		for i := range t.Historico {
			copied.Historico[i] = *t.Historico[i].Clone()
		}
	}
	return &copied
}
