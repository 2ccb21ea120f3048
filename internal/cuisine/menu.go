package cuisine

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownCard = errors.New("unknown cuisine card")
	ErrUnknownDish = errors.New("dish is not a suggestion for this cuisine")
	ErrCardClosed  = errors.New("cuisine card is not open")
)

const (
	IndicatorClosed = "▼"
	IndicatorOpen   = "▲"
)

// State is the menu's mutable part. At most one card is open; empty means none.
type State struct {
	OpenCard string `json:"open_card"`
}

// Card is the rendered view of one cuisine card
type Card struct {
	Cuisine     string   `json:"cuisine"`
	Open        bool     `json:"open"`
	Indicator   string   `json:"indicator"`
	Suggestions []string `json:"suggestions,omitempty"`
	EmptyText   string   `json:"empty_text,omitempty"`
}

// Menu applies card interactions to a State
type Menu struct {
	catalog *Catalog
}

// NewMenu creates a menu over the given catalog
func NewMenu(catalog *Catalog) *Menu {
	return &Menu{catalog: catalog}
}

// Catalog returns the underlying catalog
func (m *Menu) Catalog() *Catalog {
	return m.catalog
}

// Toggle handles a click on a card. Any other open card is closed first; the
// clicked card then flips between open and closed.
func (m *Menu) Toggle(s *State, card string) error {
	if !m.catalog.Has(card) {
		return fmt.Errorf("%w: %q", ErrUnknownCard, card)
	}
	if s.OpenCard == card {
		s.OpenCard = ""
		return nil
	}
	s.OpenCard = card
	return nil
}

// Select picks a suggestion from the open card. It returns the dish to use as
// the recipe topic and closes the menu.
func (m *Menu) Select(s *State, card, dish string) (string, error) {
	if !m.catalog.Has(card) {
		return "", fmt.Errorf("%w: %q", ErrUnknownCard, card)
	}
	if s.OpenCard != card {
		return "", fmt.Errorf("%w: %q", ErrCardClosed, card)
	}
	for _, d := range m.catalog.dishes[card] {
		if d == dish {
			s.OpenCard = ""
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDish, dish)
}

// CloseAll handles a click outside every card and menu
func (m *Menu) CloseAll(s *State) {
	s.OpenCard = ""
}

// View renders every card for the given state. A stale OpenCard that is not in
// the catalog renders as all closed.
func (m *Menu) View(s State) []Card {
	cards := make([]Card, 0, len(m.catalog.order))
	for _, name := range m.catalog.order {
		card := Card{Cuisine: name, Indicator: IndicatorClosed}
		if name == s.OpenCard {
			card.Open = true
			card.Indicator = IndicatorOpen
			card.Suggestions = m.catalog.Dishes(name)
			if len(card.Suggestions) == 0 {
				card.EmptyText = fmt.Sprintf("No suggestions for %s yet.", name)
			}
		}
		cards = append(cards, card)
	}
	return cards
}
