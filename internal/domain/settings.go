package domain

import "github.com/google/uuid"

// Direction controls which side of a card is shown as the question.
type Direction string

// Possible practice directions
const (
	DirectionFrontToBack Direction = "front_to_back"
	DirectionBackToFront Direction = "back_to_front"
)

// IsValid reports whether the direction is one of the supported values.
func (d Direction) IsValid() bool {
	return d == DirectionFrontToBack || d == DirectionBackToFront
}

// CardFilter selects which cards a count or listing query applies to.
type CardFilter string

// Possible card filter options
const (
	CardFilterAll         CardFilter = "all"
	CardFilterKnownOnly   CardFilter = "known_only"
	CardFilterUnknownOnly CardFilter = "unknown_only"
)

// IsValid reports whether the filter is one of the supported values.
func (f CardFilter) IsValid() bool {
	switch f {
	case CardFilterAll, CardFilterKnownOnly, CardFilterUnknownOnly:
		return true
	default:
		return false
	}
}

// Default practice settings applied when a user has no stored preferences.
const (
	DefaultSessionCount = 20
	DefaultRandomOrder  = true
)

// PracticeSettings holds a user's default practice session configuration.
// Missing settings fall back to the package defaults via DefaultPracticeSettings.
type PracticeSettings struct {
	UserID      uuid.UUID `json:"user_id"`
	Count       int       `json:"count"`
	RandomOrder bool      `json:"random_order"`
	Direction   Direction `json:"direction"`
}

// DefaultPracticeSettings returns the settings used for users who have
// never saved preferences.
func DefaultPracticeSettings(userID uuid.UUID) *PracticeSettings {
	return &PracticeSettings{
		UserID:      userID,
		Count:       DefaultSessionCount,
		RandomOrder: DefaultRandomOrder,
		Direction:   DirectionFrontToBack,
	}
}

// Validate checks if the PracticeSettings has valid data.
func (s *PracticeSettings) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrInvalidID
	}

	if s.Count <= 0 {
		return ErrInvalidCount
	}

	if !s.Direction.IsValid() {
		return ErrInvalidDirection
	}

	return nil
}
