package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func rawClues(n int) []RawClue {
	raw := make([]RawClue, n)
	for i := range raw {
		raw[i] = RawClue{
			Question: fmt.Sprintf("q%d", i),
			Answer:   fmt.Sprintf("a%d", i),
		}
	}
	return raw
}

func TestSelectCluesArithmetic(t *testing.T) {
	raw := []RawClue{
		{Question: "2+2", Answer: "4"},
		{Question: "1+1", Answer: "2"},
		{Question: "3+3", Answer: "6"},
		{Question: "4+4", Answer: "8"},
		{Question: "5+5", Answer: "10"},
	}

	clues, err := selectClues(raw, 5, testRand())
	require.NoError(t, err)

	expected := []Clue{
		{Question: "2+2", Answer: "4", State: Hidden},
		{Question: "1+1", Answer: "2", State: Hidden},
		{Question: "3+3", Answer: "6", State: Hidden},
		{Question: "4+4", Answer: "8", State: Hidden},
		{Question: "5+5", Answer: "10", State: Hidden},
	}
	assert.Equal(t, expected, clues)
}

func TestSelectCluesTakesLeadingClues(t *testing.T) {
	for _, n := range []int{5, 6, 17, 49, 50} {
		t.Run(fmt.Sprintf("pool_%d", n), func(t *testing.T) {
			raw := rawClues(n)

			clues, err := selectClues(raw, 5, testRand())
			require.NoError(t, err)
			require.Len(t, clues, 5)

			for i, clue := range clues {
				assert.Equal(t, raw[i].Question, clue.Question)
				assert.Equal(t, raw[i].Answer, clue.Answer)
				assert.Equal(t, Hidden, clue.State)
			}
		})
	}
}

func TestSelectCluesInsufficient(t *testing.T) {
	for _, n := range []int{0, 1, 3, 4} {
		t.Run(fmt.Sprintf("pool_%d", n), func(t *testing.T) {
			clues, err := selectClues(rawClues(n), 5, testRand())
			require.Error(t, err)
			assert.Nil(t, clues)
			assert.True(t, errors.Is(err, ErrInsufficientClues))

			var ice *InsufficientCluesError
			require.ErrorAs(t, err, &ice)
			assert.Equal(t, n, ice.Have)
			assert.Equal(t, 5, ice.Want)
		})
	}
}

func TestSelectCluesLargePoolSamplesMembers(t *testing.T) {
	for _, n := range []int{51, 100, 1000} {
		t.Run(fmt.Sprintf("pool_%d", n), func(t *testing.T) {
			raw := rawClues(n)

			clues, err := selectClues(raw, 5, testRand())
			require.NoError(t, err)
			require.Len(t, clues, 5)

			for _, clue := range clues {
				assert.Contains(t, raw, RawClue{Question: clue.Question, Answer: clue.Answer})
				assert.Equal(t, Hidden, clue.State)
			}
		})
	}
}

// Large pools are sampled with replacement, so a category may repeat a clue.
func TestSelectCluesLargePoolAllowsDuplicates(t *testing.T) {
	raw := rawClues(51)
	rng := testRand()

	sawDuplicate := false
	for range 500 {
		clues, err := selectClues(raw, 5, rng)
		require.NoError(t, err)

		seen := make(map[string]bool)
		for _, clue := range clues {
			if seen[clue.Question] {
				sawDuplicate = true
			}
			seen[clue.Question] = true
		}
		if sawDuplicate {
			break
		}
	}

	assert.True(t, sawDuplicate, "expected at least one repeated clue across 500 deals")
}

func TestSelectCluesLargePoolIsDeterministicForSeed(t *testing.T) {
	raw := rawClues(200)

	first, err := selectClues(raw, 5, rand.New(rand.NewPCG(7, 7)))
	require.NoError(t, err)
	second, err := selectClues(raw, 5, rand.New(rand.NewPCG(7, 7)))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
