/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

// ErrInsufficientClues is matched by every *InsufficientCluesError.
var ErrInsufficientClues = errors.New("insufficient clues")

// InsufficientCluesError reports a category that yielded fewer raw clues
// than a board needs. Ordinal, CategoryID and Title are filled in by
// buildBoard; selectClues only knows Have and Want.
type InsufficientCluesError struct {
	Ordinal    int
	CategoryID int
	Title      string
	Have       int
	Want       int
}

func (e *InsufficientCluesError) Error() string {
	if e.Ordinal == 0 {
		return fmt.Sprintf("insufficient clues: have %d, need %d", e.Have, e.Want)
	}

	return fmt.Sprintf("insufficient clues in category %d (id %d, %q): have %d, need %d",
		e.Ordinal, e.CategoryID, e.Title, e.Have, e.Want)
}

func (e *InsufficientCluesError) Is(target error) bool {
	return target == ErrInsufficientClues
}

// userMessage is the text shown to players when a build fails.
func userMessage(err error) string {
	var ice *InsufficientCluesError
	if errors.As(err, &ice) {
		if ice.Title != "" {
			return fmt.Sprintf("Category %d (%q) has fewer than %d clues. Try again.", ice.Ordinal, ice.Title, ice.Want)
		}
		return fmt.Sprintf("Category %d has fewer than %d clues. Try again.", ice.Ordinal, ice.Want)
	}

	return "Unable to load the board. Try again."
}

func logf(cfg *Config, format string, args ...any) {
	if !cfg.verbose {
		return
	}

	log.Printf("%s | "+format, append([]any{time.Now().Format(logDate)}, args...)...)
}

func newPage(title, body string) string {
	var htmlBody strings.Builder

	htmlBody.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
	htmlBody.WriteString(getFavicon())
	htmlBody.WriteString(`<style>`)
	htmlBody.WriteString(`html,body,a{display:block;height:100%;width:100%;text-decoration:none;color:inherit;cursor:auto;}</style>`)
	htmlBody.WriteString(fmt.Sprintf("<title>%s</title></head>", title))
	htmlBody.WriteString(fmt.Sprintf("<body><a href=\"/\">%s</a></body></html>", body))

	return htmlBody.String()
}
