package domain

import "time"

// Anexo describes an attachment referenced by a history entry.
type Anexo struct {
	Nome    string `json:"nome"`
	Caminho string `json:"caminho"`
	Tipo    string `json:"tipo"`
}

// HistoryEntry is an immutable audit record of one status change or
// completion interaction. Entries are appended in chronological order and
// never mutated or reordered afterwards.
type HistoryEntry struct {
	ID                 string    `json:"id"`
	Data               time.Time `json:"data"`
	Autor              string    `json:"autor"`
	StatusAnterior     Status    `json:"statusAnterior"`
	NovoStatus         Status    `json:"novoStatus"`
	Mensagem           string    `json:"mensagem,omitempty"`
	NotificacaoEnviada bool      `json:"notificacaoEnviada"`
	Anexo              *Anexo    `json:"anexo,omitempty"`
}

// Clone returns a deep copy of the entry.
func (h *HistoryEntry) Clone() *HistoryEntry {
	if h == nil {
		return nil
	}
	copied := *h
	if h.Anexo != nil {
		anexo := *h.Anexo
		copied.Anexo = &anexo
	}
	return &copied
}
