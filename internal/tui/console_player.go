package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/natelac/euchrego/internal/deck"
	"github.com/natelac/euchrego/internal/game"
)

// ConsolePlayer is the human seat. Decision methods block on the
// Model's input channel, so they may only be called off the Bubble Tea
// goroutine; the engine runs the table on its own goroutine.
type ConsolePlayer struct {
	name   string
	model  *Model
	logger *log.Logger

	hand  []deck.Card
	trump deck.Suit
}

// NewConsolePlayer creates a console player bound to a TUI model
func NewConsolePlayer(name string, model *Model, logger *log.Logger) *ConsolePlayer {
	return &ConsolePlayer{
		name:   name,
		model:  model,
		logger: logger.WithPrefix("console"),
	}
}

// Name returns the player's table name
func (p *ConsolePlayer) Name() string { return p.name }

// UpdateHand receives a freshly dealt hand
func (p *ConsolePlayer) UpdateHand(cards []deck.Card) {
	p.hand = append([]deck.Card{}, cards...)
	p.model.SetHand(p.hand)
	p.model.AddLogEntry(fmt.Sprintf("You were dealt %s", formatCards(p.hand)))
}

// OrderUp asks whether to order the top card up to the dealer
func (p *ConsolePlayer) OrderUp() bool {
	return p.askYesNo("Order it up?")
}

// DiscardCard picks up the top card and asks which card to bury
func (p *ConsolePlayer) DiscardCard(top deck.Card) deck.Card {
	p.hand = append(p.hand, top)
	p.model.SetHand(p.hand)
	p.model.AddLogEntry(fmt.Sprintf("You pick up the %s", top.Name()))

	card := p.askCard("Which card do you bury?", func(deck.Card) bool { return true })
	p.removeCard(card)
	return card
}

// OrderTrump asks whether to call trump after everyone passed
func (p *ConsolePlayer) OrderTrump() bool {
	return p.askYesNo("Call trump?")
}

// CallTrump asks for a trump suit other than the turned-down one
func (p *ConsolePlayer) CallTrump(turnedDown deck.Suit) deck.Suit {
	prompt := fmt.Sprintf("Name trump (not %s)", turnedDown.Name())
	p.model.SetPrompt(prompt, "[c]lubs [s]pades [h]earts [d]iamonds")
	defer p.model.SetPrompt("", "")

	for {
		input := p.model.WaitForInput()
		if input == "quit" {
			p.model.SendQuitSignal()
			return turnedDown.Color()
		}

		suit, err := deck.ParseSuit(strings.ToUpper(firstLetter(input)))
		if err != nil {
			p.model.AddLogEntry(ErrorStyle.Render(fmt.Sprintf("Not a suit: %q", input)))
			continue
		}
		if suit == turnedDown {
			p.model.AddLogEntry(ErrorStyle.Render(fmt.Sprintf("%s was turned down", suit.Name())))
			continue
		}
		return suit
	}
}

// GoAlone asks the maker whether to play without their partner
func (p *ConsolePlayer) GoAlone() bool {
	return p.askYesNo("Go alone?")
}

// PlayCard shows the trick so far and asks for a legal card
func (p *ConsolePlayer) PlayCard(view game.TrickView) deck.Card {
	prompt := "Your lead."
	legal := func(deck.Card) bool { return true }

	if led, ok := view.LedSuit(); ok {
		ledCard, _ := view.LedCard()
		prompt = fmt.Sprintf("%s led the %s.", view.Leader, ledCard.Name())
		if p.holdsSuit(led, view.Trump) {
			legal = func(c deck.Card) bool { return c.EffectiveSuit(view.Trump) == led }
		}
	}

	card := p.askCard(prompt+" Which card do you play?", legal)
	p.removeCard(card)
	return card
}

// Notify renders broadcast events into the game log
func (p *ConsolePlayer) Notify(event game.Event) {
	switch e := event.(type) {
	case game.PointsEvent:
		p.model.SetScores([]game.TeamScore{e.Team1, e.Team2})
		p.model.SetTrump(nil)
		p.model.SetTrick(0)
		p.model.AddLogEntry("")
		p.model.AddLogEntry(HeaderStyle.Render(fmt.Sprintf(" Team %s %d — Team %s %d ",
			e.Team1.Name, e.Team1.Points, e.Team2.Name, e.Team2.Points)))

	case game.DealerEvent:
		p.model.SetDealer(e.Dealer)
		p.model.AddLogEntry(fmt.Sprintf("%s deals", p.displayName(e.Dealer)))

	case game.TopCardEvent:
		p.model.AddLogEntry(fmt.Sprintf("Turned up: %s", formatCard(e.Card)))

	case game.OrderedUpEvent:
		p.model.AddLogEntry(SuccessStyle.Render(
			fmt.Sprintf("%s orders up the %s", p.displayName(e.Player), e.Card.Name())))

	case game.DeniedUpEvent:
		p.model.AddLogEntry(fmt.Sprintf("%s passes", p.displayName(e.Player)))

	case game.OrderedTrumpEvent:
		p.model.AddLogEntry(SuccessStyle.Render(
			fmt.Sprintf("%s calls %s", p.displayName(e.Player), e.Suit.Name())))

	case game.DeniedTrumpEvent:
		p.model.AddLogEntry(fmt.Sprintf("%s passes", p.displayName(e.Player)))

	case game.InvalidSuitEvent:
		if e.Player != p.name {
			p.model.AddLogEntry(fmt.Sprintf("%s named an invalid suit", e.Player))
		}

	case game.NewTrumpEvent:
		p.trump = e.Suit
		trump := e.Suit
		p.model.SetTrump(&trump)
		p.model.AddLogEntry(WarningStyle.Render(
			fmt.Sprintf("Trump is %s %s", e.Suit.Symbol(), e.Suit.Name())))

	case game.MisdealEvent:
		p.model.AddLogEntry("Everyone passed twice; the deal moves on")

	case game.LeaderEvent:
		p.model.AddLogEntry(fmt.Sprintf("%s leads the first trick", p.displayName(e.Leader)))

	case game.TrickStartEvent:
		p.model.SetTrick(e.Trick + 1)
		p.model.AddLogEntry("")
		p.model.AddLogEntry(InfoStyle.Render(fmt.Sprintf("— Trick %d —", e.Trick+1)))

	case game.CardPlayedEvent:
		p.model.AddLogEntry(fmt.Sprintf("%s plays %s", p.displayName(e.Player), formatCard(e.Card)))

	case game.NewTakerEvent:
		p.model.AddLogEntry(fmt.Sprintf("%s takes the trick", p.displayName(e.Taker)))

	case game.RoundResultsEvent:
		p.model.AddLogEntry(SuccessStyle.Render(
			fmt.Sprintf("Team %s scores %d (%d tricks)", e.Team, e.Points, e.Tricks)))

	case game.PenaltyEvent:
		p.model.AddLogEntry(ErrorStyle.Render(
			fmt.Sprintf("%s reneged with the %s", p.displayName(e.Player), e.Card.Name())))

	case game.GameResultsEvent:
		p.model.AddLogEntry("")
		p.model.AddLogEntry(HeaderStyle.Render(
			fmt.Sprintf(" Team %s wins with %d points ", e.Winner.Name, e.Winner.Points)))
	}
}

// askYesNo prompts until the user answers yes or no
func (p *ConsolePlayer) askYesNo(prompt string) bool {
	p.model.SetPrompt(prompt, "[y]es [n]o")
	defer p.model.SetPrompt("", "")

	for {
		switch strings.ToLower(p.model.WaitForInput()) {
		case "y", "yes":
			return true
		case "n", "no", "p", "pass", "":
			return false
		case "quit":
			p.model.SendQuitSignal()
			return false
		default:
			p.model.AddLogEntry(ErrorStyle.Render("Answer y or n"))
		}
	}
}

// askCard prompts until the user picks a held card satisfying legal.
// Cards are chosen by hand position or by shorthand like "jh".
func (p *ConsolePlayer) askCard(prompt string, legal func(deck.Card) bool) deck.Card {
	p.model.SetPrompt(prompt, "number or card like 'jh'")
	defer p.model.SetPrompt("", "")

	for {
		input := p.model.WaitForInput()
		if input == "quit" {
			p.model.SendQuitSignal()
			return p.hand[0]
		}

		card, err := p.pickCard(input)
		if err != nil {
			p.model.AddLogEntry(ErrorStyle.Render(err.Error()))
			continue
		}
		if !legal(card) {
			p.model.AddLogEntry(ErrorStyle.Render(
				fmt.Sprintf("The %s doesn't follow suit", card.Name())))
			continue
		}
		return card
	}
}

// pickCard resolves user input to a card in hand
func (p *ConsolePlayer) pickCard(input string) (deck.Card, error) {
	if n, err := strconv.Atoi(input); err == nil {
		if n < 1 || n > len(p.hand) {
			return deck.Card{}, fmt.Errorf("no card number %d", n)
		}
		return p.hand[n-1], nil
	}

	card, err := deck.ParseCard(strings.ToUpper(input))
	if err != nil {
		return deck.Card{}, fmt.Errorf("not a card: %q", input)
	}
	for _, h := range p.hand {
		if h == card {
			return card, nil
		}
	}
	return deck.Card{}, fmt.Errorf("you don't hold the %s", card.Name())
}

func (p *ConsolePlayer) holdsSuit(suit deck.Suit, trump deck.Suit) bool {
	for _, c := range p.hand {
		if c.EffectiveSuit(trump) == suit {
			return true
		}
	}
	return false
}

func (p *ConsolePlayer) removeCard(card deck.Card) {
	for i, h := range p.hand {
		if h == card {
			p.hand = append(p.hand[:i], p.hand[i+1:]...)
			break
		}
	}
	p.model.SetHand(p.hand)
}

func (p *ConsolePlayer) displayName(name string) string {
	if name == p.name {
		return "You"
	}
	return name
}

// formatCard colors a card shorthand by suit
func formatCard(card deck.Card) string {
	if card.Suit.IsRed() {
		return RedCardStyle.Render(card.String())
	}
	return BlackCardStyle.Render(card.String())
}

// formatCards renders a hand as colored shorthand
func formatCards(cards []deck.Card) string {
	if len(cards) == 0 {
		return ""
	}
	var formatted []string
	for _, card := range cards {
		formatted = append(formatted, formatCard(card))
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

// firstLetter returns the first rune of a word like "hearts", so suit
// answers can be spelled out or abbreviated
func firstLetter(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	return input[:1]
}
