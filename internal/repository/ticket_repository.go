package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/certidao-digital/atendimento/internal/domain"
	"github.com/certidao-digital/atendimento/internal/persistence"
	"github.com/certidao-digital/atendimento/pkg/util"
)

// TicketFilter captures listing parameters for the operator dashboard.
type TicketFilter struct {
	Status *domain.Status
}

// TicketRepository encapsulates ticket persistence. Update is the only
// sanctioned way to mutate a stored ticket.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error)
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ExistsByCodigo(ctx context.Context, codigo string) (bool, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	Update(ctx context.Context, id string, mutate func(*domain.Ticket) error) (*domain.Ticket, error)
}

// fileTicketRepository keeps the canonical collection in memory and flushes
// an atomic snapshot on every successful create/update. Writers to the same
// ticket are serialized by a per-ticket mutex; writers to different tickets
// only contend on the short map swap and the snapshot flush.
type fileTicketRepository struct {
	snapshot *persistence.SnapshotFile

	mu      sync.RWMutex
	tickets map[string]*domain.Ticket
	codigos map[string]string
	order   []string

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex

	persistMu sync.Mutex
}

// NewTicketRepository loads the snapshot and indexes the collection.
func NewTicketRepository(snapshot *persistence.SnapshotFile) (TicketRepository, error) {
	loaded, err := snapshot.Load()
	if err != nil {
		return nil, util.NewPersistenceError(err)
	}
	sort.SliceStable(loaded, func(i, j int) bool {
		return loaded[i].DataCadastro.Before(loaded[j].DataCadastro)
	})

	repo := &fileTicketRepository{
		snapshot: snapshot,
		tickets:  make(map[string]*domain.Ticket, len(loaded)),
		codigos:  make(map[string]string, len(loaded)),
		order:    make([]string, 0, len(loaded)),
		locks:    make(map[string]*sync.Mutex),
	}
	for i := range loaded {
		ticket := loaded[i].Clone()
		repo.tickets[ticket.ID] = ticket
		repo.codigos[ticket.Codigo] = ticket.ID
		repo.order = append(repo.order, ticket.ID)
	}
	return repo, nil
}

func (r *fileTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stored := ticket.Clone()
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.Status == "" {
		stored.Status = domain.StatusGeral
	}
	if stored.DataCadastro.IsZero() {
		stored.DataCadastro = time.Now()
	}
	if stored.Historico == nil {
		stored.Historico = []domain.HistoryEntry{}
	}

	r.mu.Lock()
	if _, exists := r.codigos[stored.Codigo]; exists {
		r.mu.Unlock()
		return nil, util.NewDuplicateCode(stored.Codigo)
	}
	r.tickets[stored.ID] = stored
	r.codigos[stored.Codigo] = stored.ID
	r.order = append(r.order, stored.ID)
	r.mu.Unlock()

	if err := r.persist(); err != nil {
		// concurrent creates may have appended after this one; remove this
		// create's id by value, not the tail
		r.mu.Lock()
		delete(r.tickets, stored.ID)
		delete(r.codigos, stored.Codigo)
		for i, id := range r.order {
			if id == stored.ID {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
		r.mu.Unlock()
		return nil, util.NewPersistenceError(err)
	}
	return stored.Clone(), nil
}

func (r *fileTicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	ticket, ok := r.tickets[id]
	r.mu.RUnlock()
	if !ok {
		return nil, util.NewNotFound("ticket")
	}
	return ticket.Clone(), nil
}

func (r *fileTicketRepository) ExistsByCodigo(ctx context.Context, codigo string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	_, ok := r.codigos[codigo]
	r.mu.RUnlock()
	return ok, nil
}

func (r *fileTicketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Ticket, 0, len(r.order))
	for _, id := range r.order {
		ticket := r.tickets[id]
		if filter.Status != nil && ticket.Status != *filter.Status {
			continue
		}
		result = append(result, *ticket.Clone())
	}
	return result, nil
}

// Update applies mutate to a working copy under the ticket's exclusive lock
// and flushes the snapshot before reporting success. On a flush failure the
// in-memory collection is rolled back so memory never diverges from disk in
// the success direction.
func (r *fileTicketRepository) Update(ctx context.Context, id string, mutate func(*domain.Ticket) error) (*domain.Ticket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lock := r.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	r.mu.RLock()
	current, ok := r.tickets[id]
	r.mu.RUnlock()
	if !ok {
		return nil, util.NewNotFound("ticket")
	}

	working := current.Clone()
	if err := mutate(working); err != nil {
		return nil, err
	}

	// identity and creation time are immutable regardless of the mutator
	working.ID = current.ID
	working.Codigo = current.Codigo
	working.DataCadastro = current.DataCadastro

	r.mu.Lock()
	r.tickets[id] = working
	r.mu.Unlock()

	if err := r.persist(); err != nil {
		r.mu.Lock()
		r.tickets[id] = current
		r.mu.Unlock()
		return nil, util.NewPersistenceError(err)
	}
	return working.Clone(), nil
}

func (r *fileTicketRepository) lockFor(id string) *sync.Mutex {
	r.lockMu.Lock()
	defer r.lockMu.Unlock()
	lock, ok := r.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[id] = lock
	}
	return lock
}

func (r *fileTicketRepository) persist() error {
	r.persistMu.Lock()
	defer r.persistMu.Unlock()
	return r.snapshot.Write(r.collect())
}

func (r *fileTicketRepository) collect() []domain.Ticket {
	r.mu.RLock()
	defer r.mu.RUnlock()

	collection := make([]domain.Ticket, 0, len(r.order))
	for _, id := range r.order {
		collection = append(collection, *r.tickets[id].Clone())
	}
	return collection
}
