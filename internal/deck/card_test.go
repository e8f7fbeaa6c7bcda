package deck

import "testing"

func TestShorthandRoundTrip(t *testing.T) {
	rng := testRNG(1)
	for _, card := range New(rng).Cards() {
		got, err := ParseCard(card.String())
		if err != nil {
			t.Fatalf("ParseCard(%q) error: %v", card.String(), err)
		}
		if got != card {
			t.Errorf("ParseCard(%q) = %v, want %v", card.String(), got, card)
		}
	}
}

func TestParseCard(t *testing.T) {
	tests := []struct {
		input    string
		expected Card
		wantErr  bool
	}{
		{input: "AC", expected: Card{Rank: Ace, Suit: Clubs}},
		{input: "1S", expected: Card{Rank: Ten, Suit: Spades}},
		{input: "TS", expected: Card{Rank: Ten, Suit: Spades}},
		{input: "jd", expected: Card{Rank: Jack, Suit: Diamonds}},
		{input: "9H", expected: Card{Rank: Nine, Suit: Hearts}},
		{input: "XC", wantErr: true},
		{input: "AX", wantErr: true},
		{input: "A", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCard(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCard(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.expected {
				t.Errorf("ParseCard(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestBowersAreUnique(t *testing.T) {
	rng := testRNG(1)
	cards := New(rng).Cards()

	for _, trump := range Suits {
		var rights, lefts int
		for _, card := range cards {
			if card.IsRightBower(trump) {
				rights++
				if card != NewCard(Jack, trump) {
					t.Errorf("trump %v: wrong right bower %v", trump, card)
				}
			}
			if card.IsLeftBower(trump) {
				lefts++
				if card != NewCard(Jack, trump.Color()) {
					t.Errorf("trump %v: wrong left bower %v", trump, card)
				}
			}
		}
		if rights != 1 || lefts != 1 {
			t.Errorf("trump %v: got %d right bowers and %d left bowers", trump, rights, lefts)
		}
	}
}

func TestEffectiveSuit(t *testing.T) {
	tests := []struct {
		card     string
		trump    Suit
		expected Suit
	}{
		{card: "JS", trump: Clubs, expected: Clubs},    // left bower
		{card: "JC", trump: Clubs, expected: Clubs},    // right bower keeps its suit
		{card: "JD", trump: Hearts, expected: Hearts},  // left bower, red
		{card: "JD", trump: Clubs, expected: Diamonds}, // plain jack
		{card: "AS", trump: Clubs, expected: Spades},
	}

	for _, tt := range tests {
		if got := MustParseCard(tt.card).EffectiveSuit(tt.trump); got != tt.expected {
			t.Errorf("%s.EffectiveSuit(%v) = %v, want %v", tt.card, tt.trump, got, tt.expected)
		}
	}
}

// The trick ordering must hold strictly at every tier: right bower, left
// bower, trump face cards, led-suit cards, then everything else at zero.
func TestValueOrdering(t *testing.T) {
	led, trump := Spades, Clubs

	right := MustParseCard("JC").Value(led, trump)
	left := MustParseCard("JS").Value(led, trump)
	trumpAce := MustParseCard("AC").Value(led, trump)
	trumpNine := MustParseCard("9C").Value(led, trump)
	ledAce := MustParseCard("AS").Value(led, trump)
	ledNine := MustParseCard("9S").Value(led, trump)

	if !(right > left) {
		t.Errorf("right bower %d must outrank left bower %d", right, left)
	}
	if !(left > trumpAce) {
		t.Errorf("left bower %d must outrank trump ace %d", left, trumpAce)
	}
	if !(trumpNine > ledAce) {
		t.Errorf("lowest trump %d must outrank led ace %d", trumpNine, ledAce)
	}
	if !(ledAce > ledNine) {
		t.Errorf("led ace %d must outrank led nine %d", ledAce, ledNine)
	}

	// Off-suit cards that did not follow can never win
	for _, s := range []string{"AH", "KD", "9H", "QD"} {
		if v := MustParseCard(s).Value(led, trump); v != 0 {
			t.Errorf("%s.Value = %d, want 0", s, v)
		}
	}
}

func TestValueDistinctWithinTrick(t *testing.T) {
	rng := testRNG(1)
	cards := New(rng).Cards()

	// Any pair of distinct cards that are both able to win must have
	// distinct values, so a trick maximum is always unique.
	for _, led := range Suits {
		for _, trump := range Suits {
			seen := make(map[int]Card)
			for _, card := range cards {
				v := card.Value(led, trump)
				if v == 0 {
					continue
				}
				if prev, ok := seen[v]; ok {
					t.Errorf("led %v trump %v: %v and %v share value %d", led, trump, prev, card, v)
				}
				seen[v] = card
			}
		}
	}
}
