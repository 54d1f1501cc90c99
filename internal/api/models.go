package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/lexikon/lexikon-api/internal/domain"
	"github.com/lexikon/lexikon-api/internal/domain/practice"
)

// Common request/response structures

// StartSessionRequest defines the payload for starting a practice session.
// Zero values fall back to the user's stored practice defaults.
type StartSessionRequest struct {
	Count     int    `json:"count"     validate:"omitempty,gte=0,lte=500"`
	Random    *bool  `json:"random"`
	Direction string `json:"direction" validate:"omitempty,oneof=front_to_back back_to_front"`
}

// AnswerRequest defines the payload for recording the current card's outcome.
type AnswerRequest struct {
	Outcome string `json:"outcome" validate:"required,oneof=know hard"`
}

// DeckRequest defines the payload for creating or updating a deck.
type DeckRequest struct {
	Name        string `json:"name"        validate:"required,max=120"`
	Description string `json:"description" validate:"max=2000"`
}

// CardResponse is the presentation of the session's current card. The
// question side follows the session's direction; the answer side is only
// populated once the card has been revealed.
type CardResponse struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer,omitempty"`
	Example  string `json:"example,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// ProgressResponse mirrors practice.Progress for the API.
type ProgressResponse struct {
	Viewed  int `json:"viewed"`
	Total   int `json:"total"`
	Correct int `json:"correct"`
	Hard    int `json:"hard"`
}

// SessionResponse is the API view of a practice session's current state.
type SessionResponse struct {
	SessionID   string           `json:"session_id"`
	DeckID      string           `json:"deck_id"`
	Direction   string           `json:"direction"`
	Order       string           `json:"order"`
	Complete    bool             `json:"complete"`
	Revealed    bool             `json:"revealed"`
	Progress    ProgressResponse `json:"progress"`
	CurrentCard *CardResponse    `json:"current_card,omitempty"`
}

// CountResponse carries a (possibly cached) card count for a deck.
type CountResponse struct {
	DeckID     string `json:"deck_id"`
	SearchText string `json:"search_text,omitempty"`
	Filter     string `json:"filter"`
	Count      int    `json:"count"`
}

// KnownCardsResponse lists the IDs of a deck's known cards.
type KnownCardsResponse struct {
	DeckID  string   `json:"deck_id"`
	CardIDs []string `json:"card_ids"`
}

// DeckResponse is the API view of a deck.
type DeckResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// deckToResponse transforms a domain deck into its API view.
func deckToResponse(deck *domain.Deck) DeckResponse {
	return DeckResponse{
		ID:          deck.ID.String(),
		UserID:      deck.UserID.String(),
		Name:        deck.Name,
		Description: deck.Description,
		CreatedAt:   deck.CreatedAt,
		UpdatedAt:   deck.UpdatedAt,
	}
}

// cardToResponse orients a flashcard along the session's direction and
// withholds the answer until the card has been revealed.
func cardToResponse(card *domain.Flashcard, direction domain.Direction, revealed bool) *CardResponse {
	question, answer := card.Front, card.Back
	if direction == domain.DirectionBackToFront {
		question, answer = card.Back, card.Front
	}

	resp := &CardResponse{
		ID:       card.ID.String(),
		Question: question,
		Example:  card.Example,
		ImageURL: card.ImageURL,
	}
	if revealed {
		resp.Answer = answer
	}
	return resp
}

// progressToResponse transforms a progress snapshot into its API view.
func progressToResponse(p practice.Progress) ProgressResponse {
	return ProgressResponse{
		Viewed:  p.Viewed,
		Total:   p.Total,
		Correct: p.Correct,
		Hard:    p.Hard,
	}
}

// parseUUIDParam parses a UUID path parameter, rejecting the nil UUID.
func parseUUIDParam(raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
