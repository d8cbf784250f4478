/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// boardFormats are the output formats accepted by the board command.
var boardFormats = []string{"text", "json", "yaml"}

func newBoardCmd(cfg *Config) *cobra.Command {
	var (
		format string
		seed   uint64
	)

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Build a single board from the clue api and print it.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(boardFormats, format) {
				return fmt.Errorf("invalid format %q: must be one of %v", format, boardFormats)
			}
			if err := cfg.validateSource(); err != nil {
				return err
			}

			source, err := newJService(cfg.apiURL, cfg.apiTimeout)
			if err != nil {
				return err
			}

			if seed == 0 {
				seed = rand.Uint64()
			}
			logf(cfg, "BUILD: Dealing %dx%d board from %s (seed %d)", cfg.categories, cfg.clues, cfg.apiURL, seed)

			board, err := dealBoard(cmd.Context(), source, cfg.categories, cfg.clues, rand.New(rand.NewPCG(seed, seed)))
			if err != nil {
				return err
			}

			return writeBoard(cmd.OutOrStdout(), board, format)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&format, "format", "f", "text", "output format (text|json|yaml)")
	fs.Uint64Var(&seed, "seed", 0, "seed for sampling large categories, 0 picks one at random")

	return cmd
}

// writeBoard prints every category with all of its clue text.
func writeBoard(w io.Writer, b *Board, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(b)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(b); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		return writeBoardText(w, b)
	default:
		return fmt.Errorf("invalid format %q: must be one of %v", format, boardFormats)
	}
}

func writeBoardText(w io.Writer, b *Board) error {
	var out strings.Builder

	fmt.Fprintf(&out, "board %s\n", b.ID)

	for i, cat := range b.Categories {
		fmt.Fprintf(&out, "\n%d. %s\n", i+1, cat.Title)
		for j, clue := range cat.Clues {
			fmt.Fprintf(&out, "   %d. Q: %s\n", j+1, clue.Question)
			fmt.Fprintf(&out, "      A: %s\n", clue.Answer)
		}
	}

	_, err := io.WriteString(w, out.String())
	return err
}
