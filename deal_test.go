package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleBoard() *Board {
	return &Board{
		ID: "3f1c2a9e-0000-4000-8000-000000000001",
		Categories: []Category{
			{
				ID:    21,
				Title: "Math",
				Clues: []Clue{
					{Question: "2+2", Answer: "4"},
					{Question: "1+1", Answer: "2"},
				},
			},
			{
				ID:    42,
				Title: "Literature",
				Clues: []Clue{
					{Question: "Hamlet Author", Answer: "Shakespeare"},
					{Question: "Bell Jar Author", Answer: "Plath", State: Answer},
				},
			},
		},
	}
}

func TestWriteBoardText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeBoard(&buf, sampleBoard(), "text"))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "board_text", buf.Bytes())
}

func TestWriteBoardJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeBoard(&buf, sampleBoard(), "json"))

	var decoded Board
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, *sampleBoard(), decoded)
	assert.Contains(t, buf.String(), `"state": "answer"`)
}

func TestWriteBoardYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeBoard(&buf, sampleBoard(), "yaml"))

	var decoded Board
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, *sampleBoard(), decoded)
	assert.Contains(t, buf.String(), "title: Literature")
	assert.Contains(t, buf.String(), "state: hidden")
}

func TestWriteBoardUnknownFormat(t *testing.T) {
	err := writeBoard(&bytes.Buffer{}, sampleBoard(), "toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "toml"`)
}

func TestBoardCommand(t *testing.T) {
	srv := newTestAPI(t)

	var out bytes.Buffer
	cmd := newCmd(&Config{})
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"board", "--api-url", srv.URL, "--categories", "1", "--clues", "2", "--seed", "9"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "1. potent potables")
	assert.Contains(t, out.String(), "   1. Q: Café au lait")
	assert.Contains(t, out.String(), "      A: martini")
}

func TestBoardCommandSurfacesShortCategory(t *testing.T) {
	srv := newTestAPI(t)

	cmd := newCmd(&Config{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"board", "--api-url", srv.URL, "--categories", "1", "--clues", "5"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientClues)
}

func TestBoardCommandRejectsFormat(t *testing.T) {
	cmd := newCmd(&Config{})
	cmd.SetArgs([]string{"board", "--format", "xml"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}
