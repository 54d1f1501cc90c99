package practice_session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lexikon/lexikon-api/internal/domain"
	"github.com/lexikon/lexikon-api/internal/store"
)

// In-memory store fakes shared by the service tests. They implement the
// same read-after-write semantics the postgres stores provide.

type fakeDeckStore struct {
	mu    sync.Mutex
	decks map[uuid.UUID]*domain.Deck
}

func newFakeDeckStore() *fakeDeckStore {
	return &fakeDeckStore{decks: make(map[uuid.UUID]*domain.Deck)}
}

func (f *fakeDeckStore) Create(_ context.Context, deck *domain.Deck) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.decks[deck.ID]; exists {
		return store.ErrDuplicate
	}
	f.decks[deck.ID] = deck
	return nil
}

func (f *fakeDeckStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Deck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	deck, ok := f.decks[id]
	if !ok {
		return nil, store.ErrDeckNotFound
	}
	return deck, nil
}

func (f *fakeDeckStore) Update(_ context.Context, deck *domain.Deck) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.decks[deck.ID]; !ok {
		return store.ErrDeckNotFound
	}
	f.decks[deck.ID] = deck
	return nil
}

func (f *fakeDeckStore) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.decks[id]; !ok {
		return store.ErrDeckNotFound
	}
	delete(f.decks, id)
	return nil
}

type fakeCardStore struct {
	mu         sync.Mutex
	cards      []*domain.Flashcard
	known      *fakeKnownCardStore
	countCalls int
}

func newFakeCardStore(known *fakeKnownCardStore) *fakeCardStore {
	return &fakeCardStore{known: known}
}

func (f *fakeCardStore) add(card *domain.Flashcard) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cards = append(f.cards, card)
}

func (f *fakeCardStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Flashcard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, card := range f.cards {
		if card.ID == id {
			return card, nil
		}
	}
	return nil, store.ErrCardNotFound
}

func (f *fakeCardStore) FindNotKnown(
	ctx context.Context,
	deckID uuid.UUID,
) ([]*domain.Flashcard, error) {
	knownIDs, err := f.known.ListKnownIDs(ctx, deckID)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Flashcard
	for _, card := range f.cards {
		if card.DeckID != deckID {
			continue
		}
		if _, isKnown := knownIDs[card.ID]; isKnown {
			continue
		}
		out = append(out, card)
	}
	return out, nil
}

func (f *fakeCardStore) CountWithFilter(
	ctx context.Context,
	deckID uuid.UUID,
	searchText string,
	filter domain.CardFilter,
) (int, error) {
	knownIDs, err := f.known.ListKnownIDs(ctx, deckID)
	if err != nil {
		return 0, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.countCalls++

	needle := strings.ToLower(strings.TrimSpace(searchText))
	count := 0
	for _, card := range f.cards {
		if card.DeckID != deckID {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(card.Front), needle) &&
			!strings.Contains(strings.ToLower(card.Back), needle) {
			continue
		}
		_, isKnown := knownIDs[card.ID]
		switch filter {
		case domain.CardFilterKnownOnly:
			if !isKnown {
				continue
			}
		case domain.CardFilterUnknownOnly:
			if isKnown {
				continue
			}
		}
		count++
	}
	return count, nil
}

func (f *fakeCardStore) counts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.countCalls
}

type fakeKnownCardStore struct {
	mu      sync.Mutex
	known   map[uuid.UUID]map[uuid.UUID]struct{}
	markErr error
}

func newFakeKnownCardStore() *fakeKnownCardStore {
	return &fakeKnownCardStore{known: make(map[uuid.UUID]map[uuid.UUID]struct{})}
}

func (f *fakeKnownCardStore) MarkKnown(_ context.Context, deckID, cardID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return f.markErr
	}
	if f.known[deckID] == nil {
		f.known[deckID] = make(map[uuid.UUID]struct{})
	}
	f.known[deckID][cardID] = struct{}{}
	return nil
}

func (f *fakeKnownCardStore) ClearDeck(_ context.Context, deckID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.known, deckID)
	return nil
}

func (f *fakeKnownCardStore) ListKnownIDs(
	_ context.Context,
	deckID uuid.UUID,
) (map[uuid.UUID]struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[uuid.UUID]struct{}, len(f.known[deckID]))
	for id := range f.known[deckID] {
		out[id] = struct{}{}
	}
	return out, nil
}

type statsKey struct {
	deckID uuid.UUID
	day    time.Time
}

type fakeStatsStore struct {
	mu    sync.Mutex
	stats map[statsKey]*domain.DailyStats
}

func newFakeStatsStore() *fakeStatsStore {
	return &fakeStatsStore{stats: make(map[statsKey]*domain.DailyStats)}
}

func (f *fakeStatsStore) Upsert(
	_ context.Context,
	deckID uuid.UUID,
	day time.Time,
	delta domain.DailyStatsDelta,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := statsKey{deckID: deckID, day: domain.StatsDay(day)}
	row, ok := f.stats[key]
	if !ok {
		row = &domain.DailyStats{DeckID: deckID, Day: key.day}
		f.stats[key] = row
	}
	row.Sessions += delta.Sessions
	row.Viewed += delta.Viewed
	row.Correct += delta.Correct
	row.Hard += delta.Hard
	row.DurationMs += delta.DurationMs
	row.AnswerDelayMs += delta.AnswerDelayMs
	return nil
}

func (f *fakeStatsStore) Get(
	_ context.Context,
	deckID uuid.UUID,
	day time.Time,
) (*domain.DailyStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	row, ok := f.stats[statsKey{deckID: deckID, day: domain.StatsDay(day)}]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *row
	return &copied, nil
}

type fakeSettingsStore struct {
	mu       sync.Mutex
	settings map[uuid.UUID]*domain.PracticeSettings
}

func newFakeSettingsStore() *fakeSettingsStore {
	return &fakeSettingsStore{settings: make(map[uuid.UUID]*domain.PracticeSettings)}
}

func (f *fakeSettingsStore) Get(
	_ context.Context,
	userID uuid.UUID,
) (*domain.PracticeSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	settings, ok := f.settings[userID]
	if !ok {
		return nil, store.ErrSettingsNotFound
	}
	return settings, nil
}

func (f *fakeSettingsStore) Put(_ context.Context, settings *domain.PracticeSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settings[settings.UserID] = settings
	return nil
}
