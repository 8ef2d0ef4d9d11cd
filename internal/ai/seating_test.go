package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guesthub/hub/internal/models"
)

func testGuests(n int) []models.SeatingGuest {
	guests := make([]models.SeatingGuest, 0, n)
	for i := 0; i < n; i++ {
		guests = append(guests, models.SeatingGuest{
			ContactID: uuid.Must(uuid.NewV7()),
			FullName:  "Guest " + string(rune('A'+i)),
		})
	}
	return guests
}

func TestParseSeatingValidAssignments(t *testing.T) {
	guests := testGuests(3)
	text := `{"assignments": [
		{"guest_index": 0, "table_number": 1, "rationale": "host table", "confidence": 0.9},
		{"guest_index": 2, "table_number": 2, "rationale": "industry cluster", "confidence": 0.7}
	]}`

	placements, ok := parseSeating(text, guests)

	require.True(t, ok)
	require.Len(t, placements, 2)
	assert.Equal(t, guests[0].ContactID, placements[0].Guest.ContactID)
	assert.Equal(t, 1, placements[0].TableNumber)
	assert.Equal(t, 0.9, placements[0].Confidence)
	assert.Equal(t, guests[2].ContactID, placements[1].Guest.ContactID)
}

func TestParseSeatingDropsOutOfRangeIndices(t *testing.T) {
	guests := testGuests(2)
	text := `{"assignments": [
		{"guest_index": 5, "table_number": 1, "confidence": 0.9},
		{"guest_index": -1, "table_number": 1, "confidence": 0.9},
		{"guest_index": 1, "table_number": 2, "confidence": 0.9}
	]}`

	placements, ok := parseSeating(text, guests)

	require.True(t, ok)
	require.Len(t, placements, 1)
	assert.Equal(t, guests[1].ContactID, placements[0].Guest.ContactID)
}

func TestParseSeatingCoercesTableAndConfidence(t *testing.T) {
	guests := testGuests(1)
	text := `{"assignments": [
		{"guest_index": 0, "table_number": 0, "confidence": 1.8}
	]}`

	placements, ok := parseSeating(text, guests)

	require.True(t, ok)
	require.Len(t, placements, 1)
	assert.Equal(t, 1, placements[0].TableNumber, "table numbers are coerced to >= 1")
	assert.Equal(t, 1.0, placements[0].Confidence, "confidence is clamped to [0,1]")
}

func TestParseSeatingUnusableReplies(t *testing.T) {
	guests := testGuests(2)

	for _, text := range []string{"not json", "", `{"assignments": []}`, `{"something_else": true}`} {
		_, ok := parseSeating(text, guests)
		assert.False(t, ok, "reply %q should signal fallback", text)
	}
}

func TestFallbackSeatingPlanFillsTablesInOrder(t *testing.T) {
	guests := testGuests(5)
	tables := []models.Table{{Number: 1, Seats: 2}, {Number: 2, Seats: 3}}

	placements := FallbackSeatingPlan(guests, tables)

	require.Len(t, placements, 5, "every guest is placed")

	perTable := map[int]int{}
	for _, p := range placements {
		perTable[p.TableNumber]++
	}
	assert.Equal(t, 2, perTable[1])
	assert.Equal(t, 3, perTable[2])
}

func TestFallbackSeatingPlanNeverExceedsCapacity(t *testing.T) {
	guests := testGuests(7)
	tables := []models.Table{{Number: 3, Seats: 4}, {Number: 8, Seats: 4}}

	placements := FallbackSeatingPlan(guests, tables)

	require.Len(t, placements, 7)
	perTable := map[int]int{}
	for _, p := range placements {
		perTable[p.TableNumber]++
	}
	for _, tbl := range tables {
		assert.LessOrEqual(t, perTable[tbl.Number], tbl.Seats)
	}
}

func TestFallbackSeatingPlanPreservesGuestOrder(t *testing.T) {
	guests := testGuests(3)
	tables := []models.Table{{Number: 1, Seats: 10}}

	placements := FallbackSeatingPlan(guests, tables)

	require.Len(t, placements, 3)
	for i, p := range placements {
		assert.Equal(t, guests[i].ContactID, p.Guest.ContactID)
	}
}

func TestFallbackSeatingPlanEmptyInputs(t *testing.T) {
	assert.Nil(t, FallbackSeatingPlan(nil, []models.Table{{Number: 1, Seats: 2}}))
	assert.Nil(t, FallbackSeatingPlan(testGuests(2), nil))
}

func TestLLMSeatingProviderUnparseableReplyIsFailure(t *testing.T) {
	completer := &fakeCompleter{text: "I could not decide on a plan.", cost: 0.001}
	provider := NewLLMSeatingProvider(completer)

	result := provider.SuggestSeating(context.Background(), SeatingInput{
		Guests: testGuests(2),
		Tables: []models.Table{{Number: 1, Seats: 4}},
	})

	assert.False(t, result.Success)
	assert.Contains(t, result.Err, "could not be parsed")
	assert.Equal(t, 0.001, result.CostUSD, "cost is still attributed on parse failure")
}

func TestLLMSeatingProviderTransportError(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("timeout")}
	provider := NewLLMSeatingProvider(completer)

	result := provider.SuggestSeating(context.Background(), SeatingInput{Guests: testGuests(1)})

	assert.False(t, result.Success)
	assert.Contains(t, result.Err, "timeout")
}

func TestBuildSeatingPromptStrategyChangesFramingOnly(t *testing.T) {
	input := SeatingInput{Guests: testGuests(1), Tables: []models.Table{{Number: 1, Seats: 2}}}

	input.Strategy = models.StrategyMixedInterests
	mixed := buildSeatingPrompt(input)
	input.Strategy = models.StrategyScoreBalanced
	balanced := buildSeatingPrompt(input)

	assert.NotEqual(t, mixed, balanced)
	assert.Contains(t, mixed, "Mix guests")
	assert.Contains(t, balanced, "Balance each table")
	assert.Contains(t, mixed, "Table 1: 2 seats")
}
