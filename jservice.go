/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// ClueSource supplies category ids and category contents.
type ClueSource interface {
	RandomCategoryIDs(ctx context.Context, n int) ([]int, error)
	Category(ctx context.Context, id int) (RawCategory, error)
}

// JService talks to a jservice-compatible HTTP API.
type JService struct {
	base   *url.URL
	client *http.Client
}

func newJService(apiURL string, timeout time.Duration) (*JService, error) {
	base, err := url.Parse(strings.TrimSuffix(apiURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}

	return &JService{
		base:   base,
		client: &http.Client{Timeout: timeout},
	}, nil
}

func (j *JService) endpoint(path string, query url.Values) string {
	u := *j.base
	u.Path = u.Path + path
	u.RawQuery = query.Encode()

	return u.String()
}

func (j *JService) getJSON(ctx context.Context, target string, into any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "jeopardy/"+releaseVersion)

	resp, err := j.client.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("get %s: unexpected status %s", target, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return fmt.Errorf("decode %s: %w", target, err)
	}

	return nil
}

// RandomCategoryIDs returns the categories of n random clues. The API may
// return the same category more than once.
func (j *JService) RandomCategoryIDs(ctx context.Context, n int) ([]int, error) {
	var clues []struct {
		CategoryID int `json:"category_id"`
	}

	target := j.endpoint("/api/random", url.Values{"count": {strconv.Itoa(n)}})
	if err := j.getJSON(ctx, target, &clues); err != nil {
		return nil, err
	}

	if len(clues) < n {
		return nil, fmt.Errorf("get %s: wanted %d categories, got %d", target, n, len(clues))
	}

	ids := make([]int, 0, n)
	for _, c := range clues[:n] {
		ids = append(ids, c.CategoryID)
	}

	return ids, nil
}

func (j *JService) Category(ctx context.Context, id int) (RawCategory, error) {
	var cat RawCategory

	target := j.endpoint("/api/category", url.Values{"id": {strconv.Itoa(id)}})
	if err := j.getJSON(ctx, target, &cat); err != nil {
		return RawCategory{}, err
	}

	cat.ID = id
	cat.Title = cleanText(cat.Title)
	for i := range cat.Clues {
		cat.Clues[i].Question = cleanText(cat.Clues[i].Question)
		cat.Clues[i].Answer = cleanText(cat.Clues[i].Answer)
	}

	return cat, nil
}

// cleanText collapses runs of whitespace and normalises to NFC.
func cleanText(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}
