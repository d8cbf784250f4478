/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"math/rand/v2"
)

// Categories with more raw clues than this are sampled at random instead of
// taking the leading clues in order.
const largePoolThreshold = 50

// RawClue is a question/answer pair as delivered by the clue source.
type RawClue struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

// Clue is one cell of the board.
type Clue struct {
	Question string      `json:"question" yaml:"question"`
	Answer   string      `json:"answer" yaml:"answer"`
	State    RevealState `json:"state" yaml:"state"`
}

// selectClues derives exactly count clues from raw.
//
// Pools larger than largePoolThreshold are sampled with replacement, so the
// same clue can appear more than once. Smaller pools yield their first count
// clues in order. A pool shorter than count is an error and no clues are
// returned.
func selectClues(raw []RawClue, count int, rng *rand.Rand) ([]Clue, error) {
	if len(raw) < count {
		return nil, &InsufficientCluesError{Have: len(raw), Want: count}
	}

	clues := make([]Clue, 0, count)

	for i := range count {
		var rc RawClue
		if len(raw) > largePoolThreshold {
			rc = raw[rng.IntN(len(raw))]
		} else {
			rc = raw[i]
		}

		clues = append(clues, Clue{
			Question: rc.Question,
			Answer:   rc.Answer,
			State:    Hidden,
		})
	}

	return clues, nil
}
