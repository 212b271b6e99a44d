// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/your-org/gurukul-storefront/internal/infrastructure/storage"
)

// Manager is the cart surface the UI layer drives. Store and RemoteCart both
// implement it.
type Manager interface {
	Snapshot(ctx context.Context) (Snapshot, error)
	AddItem(ctx context.Context, in ItemInput, quantity int) error
	UpdateQuantity(ctx context.Context, id string, quantity int) error
	RemoveItem(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

// Store is the local cart. The in-memory list is authoritative; every
// mutation writes the whole list back to storage.
type Store struct {
	mu      sync.Mutex
	items   []Item
	storage storage.Storage
	logger  *logrus.Logger
}

// NewStore creates a cart seeded from storage
func NewStore(ctx context.Context, store storage.Storage, logger *logrus.Logger) *Store {
	s := &Store{storage: store, logger: logger}
	s.items = s.load(ctx)
	return s
}

// AddItem adds quantity units of the item, merging with an existing line of
// the same ID.
func (s *Store) AddItem(ctx context.Context, in ItemInput, quantity int) error {
	if !in.valid() {
		return ErrInvalidItem
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(in.ID); i >= 0 {
		s.items[i].Quantity += quantity
	} else {
		s.items = append(s.items, Item{
			ID:       in.ID,
			Name:     in.Name,
			Price:    in.Price,
			Image:    in.Image,
			Quantity: quantity,
		})
	}
	s.persist(ctx)
	return nil
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less
// removes it. Unknown ids are ignored.
func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	if quantity <= 0 {
		s.removeAt(i)
	} else {
		s.items[i].Quantity = quantity
	}
	s.persist(ctx)
	return nil
}

// RemoveItem drops a line; unknown ids are ignored.
func (s *Store) RemoveItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		s.removeAt(i)
		s.persist(ctx)
	}
	return nil
}

// Clear empties the cart
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = []Item{}
	s.persist(ctx)
	return nil
}

// Items returns a copy of the current lines in insertion order
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyItems()
}

// TotalQuantity returns the sum of all line quantities
func (s *Store) TotalQuantity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalQuantity(s.items)
}

// Subtotal returns the sum of price times quantity
func (s *Store) Subtotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return subtotal(s.items)
}

// Snapshot returns the lines with their totals
func (s *Store) Snapshot(_ context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return NewSnapshot(s.copyItems()), nil
}

// Reload replaces the in-memory list with what storage holds now. Used when
// another process changed the stored cart.
func (s *Store) Reload(ctx context.Context) {
	s.mu.Lock()
	items := s.load(ctx)
	s.items = items
	s.mu.Unlock()

	s.logger.WithField("items", len(items)).Debug("Cart reloaded from storage")
}

func (s *Store) load(ctx context.Context) []Item {
	raw, err := s.storage.Get(ctx, storage.KeyCart)
	if errors.Is(err, storage.ErrNotFound) {
		return []Item{}
	}
	if err != nil {
		s.logger.WithError(err).Warn("Failed to read stored cart, starting empty")
		return []Item{}
	}
	items, err := decode([]byte(raw))
	if err != nil {
		s.logger.WithError(err).Warn("Discarding unreadable stored cart")
		return []Item{}
	}
	return items
}

// persist must be called with mu held. Failures are logged only. The write
// outlives the caller's cancellation: the in-memory change already happened.
func (s *Store) persist(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)

	data, err := Encode(s.items)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to encode cart")
		return
	}
	if err := s.storage.Set(ctx, storage.KeyCart, string(data)); err != nil {
		s.logger.WithError(err).Warn("Failed to persist cart")
	}
}

func (s *Store) indexOf(id string) int {
	for i, it := range s.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) removeAt(i int) {
	s.items = append(s.items[:i:i], s.items[i+1:]...)
}

func (s *Store) copyItems() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}
