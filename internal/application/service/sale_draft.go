package service

import (
	"context"
	"sync"
	"time"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/billing"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/enum"
	"github.com/frogshopping/PharmaCare-POS-sub000/pkg/apperror"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SaleDraft is an open POS session: the cart and its reconciled payment
// state. Stock and Costs are snapshots taken when a medicine first enters
// the cart.
type SaleDraft struct {
	ID            uuid.UUID            `json:"id"`
	Lines         []billing.CartLine   `json:"lines"`
	State         billing.PaymentState `json:"state"`
	LastChanged   billing.FieldChange  `json:"last_changed"`
	CustomerName  string               `json:"customer_name"`
	CustomerPhone string               `json:"customer_phone"`
	PaymentType   enum.PaymentType     `json:"payment_type"`
	Notes         *string              `json:"notes,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
	ExpiresAt     time.Time            `json:"expires_at"`

	Stock map[uuid.UUID]int   `json:"-"`
	Costs map[uuid.UUID]int64 `json:"-"`
}

// LineIndex returns the position of the line for itemID, or -1.
func (d *SaleDraft) LineIndex(itemID uuid.UUID) int {
	for i, line := range d.Lines {
		if line.ItemID == itemID {
			return i
		}
	}
	return -1
}

// Recompute brings the payment state in line with the cart.
func (d *SaleDraft) Recompute(changed billing.FieldChange) {
	d.State = billing.Recompute(d.Lines, d.State, changed)
	d.LastChanged = changed
}

// Apply sets one operator-entered payment field and recomputes.
func (d *SaleDraft) Apply(changed billing.FieldChange, value decimal.Decimal) {
	d.State = billing.Apply(d.Lines, d.State, changed, value)
	d.LastChanged = changed
}

func (d *SaleDraft) clone() SaleDraft {
	c := *d
	c.Lines = append([]billing.CartLine(nil), d.Lines...)
	c.Stock = make(map[uuid.UUID]int, len(d.Stock))
	for k, v := range d.Stock {
		c.Stock[k] = v
	}
	c.Costs = make(map[uuid.UUID]int64, len(d.Costs))
	for k, v := range d.Costs {
		c.Costs[k] = v
	}
	return c
}

type draftEntry struct {
	mu    sync.Mutex
	draft *SaleDraft
	gone  bool
}

// SaleDraftStore keeps open sale sessions in memory. The map lock only
// guards membership; each session has its own lock so edits to different
// carts never wait on each other.
type SaleDraftStore struct {
	mu     sync.Mutex
	drafts map[uuid.UUID]*draftEntry
	ttl    time.Duration
	now    func() time.Time
}

// NewSaleDraftStore creates a store whose sessions expire ttl after their
// last change.
func NewSaleDraftStore(ttl time.Duration) *SaleDraftStore {
	return &SaleDraftStore{
		drafts: make(map[uuid.UUID]*draftEntry),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Create opens a new session around d and returns a copy of it.
func (s *SaleDraftStore) Create(d *SaleDraft) SaleDraft {
	now := s.now()
	d.ID = uuid.New()
	d.CreatedAt = now
	d.UpdatedAt = now
	d.ExpiresAt = now.Add(s.ttl)
	if d.Stock == nil {
		d.Stock = make(map[uuid.UUID]int)
	}
	if d.Costs == nil {
		d.Costs = make(map[uuid.UUID]int64)
	}

	s.mu.Lock()
	s.drafts[d.ID] = &draftEntry{draft: d}
	s.mu.Unlock()
	return d.clone()
}

func (s *SaleDraftStore) entry(id uuid.UUID) (*draftEntry, error) {
	s.mu.Lock()
	e, ok := s.drafts[id]
	s.mu.Unlock()
	if !ok {
		return nil, apperror.NewNotFoundError("Sale session")
	}
	return e, nil
}

// lock returns the entry locked, or an error when it is gone or expired.
func (s *SaleDraftStore) lock(id uuid.UUID) (*draftEntry, error) {
	e, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	if e.gone {
		e.mu.Unlock()
		return nil, apperror.NewNotFoundError("Sale session")
	}
	if !s.now().Before(e.draft.ExpiresAt) {
		e.mu.Unlock()
		s.remove(id)
		return nil, apperror.ErrSessionExpired
	}
	return e, nil
}

// Get returns a copy of the session.
func (s *SaleDraftStore) Get(id uuid.UUID) (SaleDraft, error) {
	e, err := s.lock(id)
	if err != nil {
		return SaleDraft{}, err
	}
	defer e.mu.Unlock()
	return e.draft.clone(), nil
}

// Update runs fn on the session under its lock. A failing fn leaves the
// session exactly as it was.
func (s *SaleDraftStore) Update(id uuid.UUID, fn func(d *SaleDraft) error) (SaleDraft, error) {
	e, err := s.lock(id)
	if err != nil {
		return SaleDraft{}, err
	}
	defer e.mu.Unlock()

	work := e.draft.clone()
	if err := fn(&work); err != nil {
		return SaleDraft{}, err
	}
	now := s.now()
	work.UpdatedAt = now
	work.ExpiresAt = now.Add(s.ttl)
	e.draft = &work
	return work.clone(), nil
}

// Consume runs fn on the session under its lock and closes the session
// when fn succeeds. A concurrent caller waiting on the same session sees it
// as gone.
func (s *SaleDraftStore) Consume(id uuid.UUID, fn func(d SaleDraft) error) error {
	e, err := s.lock(id)
	if err != nil {
		return err
	}
	defer e.mu.Unlock()

	if err := fn(e.draft.clone()); err != nil {
		return err
	}
	e.gone = true
	s.remove(id)
	return nil
}

// Delete abandons the session.
func (s *SaleDraftStore) Delete(id uuid.UUID) error {
	e, err := s.lock(id)
	if err != nil {
		return err
	}
	e.gone = true
	e.mu.Unlock()
	s.remove(id)
	return nil
}

func (s *SaleDraftStore) remove(id uuid.UUID) {
	s.mu.Lock()
	delete(s.drafts, id)
	s.mu.Unlock()
}

// Len is the number of sessions held, expired ones included.
func (s *SaleDraftStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.drafts)
}

// Cleanup drops expired sessions and returns how many it removed.
func (s *SaleDraftStore) Cleanup() int {
	now := s.now()

	s.mu.Lock()
	entries := make(map[uuid.UUID]*draftEntry, len(s.drafts))
	for id, e := range s.drafts {
		entries[id] = e
	}
	s.mu.Unlock()

	removed := 0
	for id, e := range entries {
		e.mu.Lock()
		if !e.gone && !now.Before(e.draft.ExpiresAt) {
			e.gone = true
			s.remove(id)
			removed++
		}
		e.mu.Unlock()
	}
	return removed
}

// Run calls Cleanup every interval until ctx is done.
func (s *SaleDraftStore) Run(ctx context.Context, interval time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Cleanup(); n > 0 {
				log.Debug("expired sale sessions removed", zap.Int("count", n))
			}
		}
	}
}
