/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import "fmt"

// RevealState tracks what a clue cell currently displays.
type RevealState int

const (
	Hidden   RevealState = iota // placeholder glyph
	Question                    // question text
	Answer                      // answer text, terminal
)

func (s RevealState) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Question:
		return "question"
	case Answer:
		return "answer"
	default:
		return fmt.Sprintf("RevealState(%d)", int(s))
	}
}

func (s RevealState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *RevealState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "hidden":
		*s = Hidden
	case "question":
		*s = Question
	case "answer":
		*s = Answer
	default:
		return fmt.Errorf("unknown reveal state %q", text)
	}

	return nil
}

// advance moves the clue one step along Hidden -> Question -> Answer and
// returns the new state with the text to display. Once the answer is
// showing, ok is false and nothing changes.
func (c *Clue) advance() (state RevealState, text string, ok bool) {
	switch c.State {
	case Hidden:
		c.State = Question
		return c.State, c.Question, true
	case Question:
		c.State = Answer
		return c.State, c.Answer, true
	default:
		return c.State, "", false
	}
}

// display is the text a cell shows in its current state.
func (c *Clue) display() string {
	switch c.State {
	case Question:
		return c.Question
	case Answer:
		return c.Answer
	default:
		return placeholder
	}
}
