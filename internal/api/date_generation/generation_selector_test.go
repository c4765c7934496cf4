package dateGeneration

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-date-ideas/internal/types"
)

func TestRequiredActivities(t *testing.T) {
	tests := []struct {
		duration types.Duration
		min, max int
	}{
		{types.DurationQuick, 1, 1},
		{types.DurationEvening, 2, 2},
		{types.DurationHalfDay, 3, 3},
		{types.DurationFullDay, 4, 5},
		{types.Duration("other"), 2, 2},
	}
	for _, tt := range tests {
		minCount, maxCount := RequiredActivities(tt.duration)
		assert.Equal(t, tt.min, minCount, string(tt.duration))
		assert.Equal(t, tt.max, maxCount, string(tt.duration))
	}
}

func TestDesiredIdeaCount(t *testing.T) {
	assert.Equal(t, 0, DesiredIdeaCount(0, 2))
	assert.Equal(t, 1, DesiredIdeaCount(1, 2))
	assert.Equal(t, 3, DesiredIdeaCount(6, 2))
	assert.Equal(t, 4, DesiredIdeaCount(20, 2))
	assert.Equal(t, 4, DesiredIdeaCount(4, 1))
}

func TestResolveSelection_DiscardsOutOfRangeIdea(t *testing.T) {
	raw := `{"dateIdeas":[{"venueIndices":[0,1],"theme":"A"},{"venueIndices":[2,99],"theme":"B"}]}`

	got, source, err := ResolveSelection(raw, nil, 5, types.DurationEvening)

	require.NoError(t, err)
	assert.Equal(t, SelectionFromModel, source)
	require.Len(t, got, 1)
	assert.Equal(t, []int{0, 1}, got[0].VenueIndices)
	assert.Equal(t, "A", got[0].Theme)
}

func TestResolveSelection_FencedResponse(t *testing.T) {
	raw := "```json\n{\"dateIdeas\":[{\"venueIndices\":[3,1],\"theme\":\"Night out\"}]}\n```"

	got, source, err := ResolveSelection(raw, nil, 4, types.DurationEvening)

	require.NoError(t, err)
	assert.Equal(t, SelectionFromModel, source)
	require.Len(t, got, 1)
	assert.Equal(t, []int{3, 1}, got[0].VenueIndices)
}

func TestValidateSelection(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		venueCount int
		duration   types.Duration
		want       [][]int
	}{
		{
			name:       "duplicate index inside one idea",
			raw:        `{"dateIdeas":[{"venueIndices":[1,1]},{"venueIndices":[2,3]}]}`,
			venueCount: 4,
			duration:   types.DurationEvening,
			want:       [][]int{{2, 3}},
		},
		{
			name:       "venue reused across ideas keeps the earlier one",
			raw:        `{"dateIdeas":[{"venueIndices":[0,1]},{"venueIndices":[1,2]},{"venueIndices":[2,3]}]}`,
			venueCount: 4,
			duration:   types.DurationEvening,
			want:       [][]int{{0, 1}, {2, 3}},
		},
		{
			name:       "indices not an array",
			raw:        `{"dateIdeas":[{"venueIndices":"0,1"},{"venueIndices":3},{"venueIndices":[0,1]}]}`,
			venueCount: 4,
			duration:   types.DurationEvening,
			want:       [][]int{{0, 1}},
		},
		{
			name:       "empty and missing indices",
			raw:        `{"dateIdeas":[{"venueIndices":[]},{"theme":"none"}]}`,
			venueCount: 4,
			duration:   types.DurationEvening,
			want:       nil,
		},
		{
			name:       "wrong count for duration",
			raw:        `{"dateIdeas":[{"venueIndices":[0]},{"venueIndices":[1,2,3]},{"venueIndices":[4,5]}]}`,
			venueCount: 6,
			duration:   types.DurationEvening,
			want:       [][]int{{4, 5}},
		},
		{
			name:       "negative index",
			raw:        `{"dateIdeas":[{"venueIndices":[-1,0]}]}`,
			venueCount: 4,
			duration:   types.DurationEvening,
			want:       nil,
		},
		{
			name:       "full day accepts four or five",
			raw:        `{"dateIdeas":[{"venueIndices":[0,1,2,3]},{"venueIndices":[4,5,6,7,8]},{"venueIndices":[9,10,11]}]}`,
			venueCount: 12,
			duration:   types.DurationFullDay,
			want:       [][]int{{0, 1, 2, 3}, {4, 5, 6, 7, 8}},
		},
		{
			name:       "quick accepts exactly one",
			raw:        `{"dateIdeas":[{"venueIndices":[0]},{"venueIndices":[1,2]},{"venueIndices":[3]},{"venueIndices":[]}]}`,
			venueCount: 4,
			duration:   types.DurationQuick,
			want:       [][]int{{0}, {3}},
		},
		{
			name:       "half day accepts exactly three",
			raw:        `{"dateIdeas":[{"venueIndices":[0,1]},{"venueIndices":[2,3,4]},{"venueIndices":[5,6,7,8]},{"venueIndices":[0,1,5]}]}`,
			venueCount: 9,
			duration:   types.DurationHalfDay,
			want:       [][]int{{2, 3, 4}, {0, 1, 5}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ideas, err := ParseSelection(tt.raw, nil)
			require.NoError(t, err)

			got := ValidateSelection(ideas, tt.venueCount, tt.duration, 0)

			var indices [][]int
			for _, sel := range got {
				indices = append(indices, sel.VenueIndices)
			}
			assert.Equal(t, tt.want, indices)

			minCount, maxCount := RequiredActivities(tt.duration)
			used := map[int]bool{}
			for _, sel := range got {
				assert.GreaterOrEqual(t, len(sel.VenueIndices), minCount)
				assert.LessOrEqual(t, len(sel.VenueIndices), maxCount)
				for _, idx := range sel.VenueIndices {
					assert.False(t, used[idx], "index %d reused", idx)
					used[idx] = true
				}
			}
		})
	}
}

func TestValidateSelection_Limit(t *testing.T) {
	ideas, err := ParseSelection(`{"dateIdeas":[{"venueIndices":[0]},{"venueIndices":[1]},{"venueIndices":[2]}]}`, nil)
	require.NoError(t, err)

	got := ValidateSelection(ideas, 3, types.DurationQuick, 2)

	assert.Len(t, got, 2)
}

func TestResolveSelection_Fallback(t *testing.T) {
	t.Run("call error", func(t *testing.T) {
		callErr := errors.New("model unavailable")
		got, source, err := ResolveSelection("", callErr, 6, types.DurationEvening)

		assert.ErrorIs(t, err, callErr)
		assert.Equal(t, SelectionFromFallback, source)
		require.Len(t, got, 2)
		assert.Equal(t, []int{0, 1}, got[0].VenueIndices)
		assert.Equal(t, []int{2, 3}, got[1].VenueIndices)
	})

	t.Run("unparseable body", func(t *testing.T) {
		got, source, err := ResolveSelection("I cannot help with that", nil, 6, types.DurationEvening)

		assert.ErrorIs(t, err, ErrUnparseableSelection)
		assert.Equal(t, SelectionFromFallback, source)
		assert.Len(t, got, 2)
	})
}

func TestFallbackSelection_ClampsToVenues(t *testing.T) {
	assert.Empty(t, FallbackSelection(0))

	one := FallbackSelection(1)
	require.Len(t, one, 1)
	assert.Equal(t, []int{0}, one[0].VenueIndices)

	three := FallbackSelection(3)
	require.Len(t, three, 2)
	assert.Equal(t, []int{2}, three[1].VenueIndices)
}
