package deck

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/huyle/flashdeck/internal/logger"
	"github.com/huyle/flashdeck/internal/models"
	"github.com/huyle/flashdeck/internal/storage"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Store owns the ordered card collection and is its sole mutator. Every
// mutation builds a fresh slice, so a snapshot handed out earlier never
// changes under the caller, and consumers can detect change by comparing
// snapshot identity.
//
// Unknown ids are silent no-ops throughout: stale references from the
// presentation layer (a double-fired delete, a toggle on a removed card)
// must never surface as errors.
type Store struct {
	adapter *storage.Adapter
	log     *logger.Logger
	now     func() time.Time

	cards  []models.Card
	lastID int64
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the id-assignment clock.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates a card store backed by the adapter and loads any
// previously persisted collection.
func NewStore(ctx context.Context, adapter *storage.Adapter, opts ...Option) *Store {
	s := &Store{
		adapter: adapter,
		log:     logger.FromContext(ctx).WithPrefix("deck"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) {
	var cards []models.Card
	if s.adapter.GetItem(ctx, storage.KeyFlashCards, &cards) {
		s.cards = cards
		for _, c := range cards {
			if c.ID > s.lastID {
				s.lastID = c.ID
			}
		}
		s.log.Debug("loaded %d cards", len(cards))
	}
}

// Reload re-reads the persisted collection, discarding the in-memory
// snapshot. Used as the best-effort refresh hook for external changes
// observed through Adapter.Watch.
func (s *Store) Reload(ctx context.Context) {
	s.cards = nil
	s.lastID = 0
	s.load(ctx)
}

// Add creates a card from the three text fields. All fields are trimmed and
// must be non-empty; otherwise nothing is created and nil is returned. The
// new card starts unlearned and is appended at the end of the collection.
func (s *Store) Add(ctx context.Context, front, back, category string) *models.Card {
	input := models.CardInput{
		Front:    strings.TrimSpace(front),
		Back:     strings.TrimSpace(back),
		Category: strings.TrimSpace(category),
	}
	if err := validate.Struct(input); err != nil {
		s.log.Debug("rejected card: %v", err)
		return nil
	}

	card := models.Card{
		ID:       s.nextID(),
		Front:    input.Front,
		Back:     input.Back,
		Category: input.Category,
		Learned:  false,
	}

	next := make([]models.Card, len(s.cards), len(s.cards)+1)
	copy(next, s.cards)
	s.cards = append(next, card)
	s.save(ctx)

	s.log.Debug("card added: id=%d, category=%s", card.ID, card.Category)
	return &card
}

// Update replaces the three text fields of the card with the given id,
// leaving id and learned untouched. No-op when the id is unknown.
func (s *Store) Update(ctx context.Context, id int64, front, back, category string) {
	idx := s.indexOf(id)
	if idx < 0 {
		s.log.Debug("update: card not found: id=%d", id)
		return
	}

	next := s.copyCards()
	next[idx].Front = front
	next[idx].Back = back
	next[idx].Category = category
	s.cards = next
	s.save(ctx)
}

// Delete removes the card with the given id. No-op when the id is unknown.
// History entries referencing the id are left alone.
func (s *Store) Delete(ctx context.Context, id int64) {
	idx := s.indexOf(id)
	if idx < 0 {
		s.log.Debug("delete: card not found: id=%d", id)
		return
	}

	next := make([]models.Card, 0, len(s.cards)-1)
	next = append(next, s.cards[:idx]...)
	next = append(next, s.cards[idx+1:]...)
	s.cards = next
	s.save(ctx)

	s.log.Debug("card deleted: id=%d", id)
}

// ToggleLearned flips the learned flag. No-op when the id is unknown.
func (s *Store) ToggleLearned(ctx context.Context, id int64) {
	idx := s.indexOf(id)
	if idx < 0 {
		s.log.Debug("toggle: card not found: id=%d", id)
		return
	}

	next := s.copyCards()
	next[idx].Learned = !next[idx].Learned
	s.cards = next
	s.save(ctx)
}

// Cards returns the current snapshot of the collection. The slice is shared
// with the store's internal state but is never mutated in place, so callers
// may hold onto it.
func (s *Store) Cards() []models.Card {
	return s.cards
}

// Get returns a copy of the card with the given id, or nil.
func (s *Store) Get(id int64) *models.Card {
	idx := s.indexOf(id)
	if idx < 0 {
		return nil
	}
	card := s.cards[idx]
	return &card
}

// Len returns the number of cards in the collection.
func (s *Store) Len() int {
	return len(s.cards)
}

// nextID derives a fresh id from the clock, bumping past the last assigned
// id when the clock has not advanced so ids stay unique and monotonic.
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *Store) indexOf(id int64) int {
	for i, c := range s.cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) copyCards() []models.Card {
	next := make([]models.Card, len(s.cards))
	copy(next, s.cards)
	return next
}

func (s *Store) save(ctx context.Context) {
	if !s.adapter.SetItem(ctx, storage.KeyFlashCards, s.cards) {
		// Keep the in-memory mutation; persistence is best-effort.
		s.log.Warn("failed to persist card collection")
	}
}
