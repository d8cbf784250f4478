/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
)

// placeholder is shown in every cell that has not been revealed.
const placeholder = "?"

// RawCategory is a category as delivered by the clue source.
type RawCategory struct {
	ID    int       `json:"id"`
	Title string    `json:"title"`
	Clues []RawClue `json:"clues"`
}

// Category is one column of the board.
type Category struct {
	ID    int    `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Clues []Clue `json:"clues" yaml:"clues"`
}

// Board is the full set of categories for one game. It is never built
// partially: every category holds the same number of clues.
type Board struct {
	ID         string     `json:"id" yaml:"id"`
	Categories []Category `json:"categories" yaml:"categories"`
}

// clue returns the clue at the given position, or nil when out of range.
func (b *Board) clue(category, index int) *Clue {
	if b == nil || category < 0 || category >= len(b.Categories) {
		return nil
	}

	clues := b.Categories[category].Clues
	if index < 0 || index >= len(clues) {
		return nil
	}

	return &clues[index]
}

// CategoryFetcher loads a single category by id.
type CategoryFetcher func(ctx context.Context, id int) (RawCategory, error)

// buildBoard fetches each category in turn and selects count clues from it.
// Categories appear in the order of ids. The first failure aborts the whole
// build.
func buildBoard(ctx context.Context, ids []int, fetch CategoryFetcher, count int, rng *rand.Rand) (*Board, error) {
	board := &Board{
		ID:         uuid.NewString(),
		Categories: make([]Category, 0, len(ids)),
	}

	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := fetch(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("fetch category %d (id %d): %w", i+1, id, err)
		}

		clues, err := selectClues(raw.Clues, count, rng)
		if err != nil {
			var ice *InsufficientCluesError
			if errors.As(err, &ice) {
				ice.Ordinal = i + 1
				ice.CategoryID = id
				ice.Title = raw.Title
			}
			return nil, err
		}

		board.Categories = append(board.Categories, Category{
			ID:    id,
			Title: raw.Title,
			Clues: clues,
		})
	}

	return board, nil
}

// dealBoard asks the source for category ids and builds a board from them.
func dealBoard(ctx context.Context, source ClueSource, categories, clues int, rng *rand.Rand) (*Board, error) {
	ids, err := source.RandomCategoryIDs(ctx, categories)
	if err != nil {
		return nil, fmt.Errorf("fetch category ids: %w", err)
	}

	return buildBoard(ctx, ids, source.Category, clues, rng)
}
