// Package hevysync pulls workouts from the Hevy API and records sync runs in
// a local SQLite database.
package hevysync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/meltforce/liftlog/internal/models"
)

// DefaultURL is the Hevy workouts endpoint.
const DefaultURL = "https://api.hevyapp.com/v1/workouts"

// Source is written to RawRow.Source for synced sets.
const Source = "hevy_api"

const maxAttempts = 3

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// Fetcher returns the workouts recorded after a timestamp (all when empty).
type Fetcher interface {
	FetchWorkouts(ctx context.Context, after string) ([]models.WorkoutEntry, error)
}

// Client fetches workouts over HTTP.
type Client struct {
	url        string
	token      string
	httpClient *http.Client
	backoff    time.Duration
	log        *slog.Logger
}

var _ Fetcher = (*Client)(nil)

// NewClient creates a client for the workouts endpoint at url (DefaultURL
// when empty). A zero timeout means 30 seconds.
func NewClient(url, token string, timeout time.Duration, log *slog.Logger) *Client {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Client{
		url:        url,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		backoff:    time.Second,
		log:        log,
	}
}

// FetchWorkouts requests the workouts endpoint and flattens the response
// into one entry per set with both weight and reps. Transport errors and
// 5xx responses are retried up to 3 attempts with exponential backoff;
// 401 and 403 fail immediately with ErrUnauthorized or ErrForbidden.
func (c *Client) FetchWorkouts(ctx context.Context, after string) ([]models.WorkoutEntry, error) {
	u, err := url.Parse(c.url)
	if err != nil {
		return nil, fmt.Errorf("parsing sync url: %w", err)
	}
	if after != "" {
		q := u.Query()
		q.Set("after", after)
		u.RawQuery = q.Encode()
	}

	var lastErr error
	for attempt := range maxAttempts {
		if attempt > 0 {
			wait := c.backoff << uint(attempt-1)
			c.log.Warn("retrying workout fetch", "attempt", attempt+1, "wait", wait, "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		body, retry, err := c.get(ctx, u.String())
		if err == nil {
			return decodeWorkouts(body)
		}
		if !retry {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("after %d attempts: %w", maxAttempts, lastErr)
}

// get performs one request and reports whether a failure may be retried.
func (c *Client) get(ctx context.Context, u string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, fmt.Errorf("fetching workouts: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("reading response: %w", err)
	}
	c.log.Debug("workouts response", "status", resp.StatusCode, "bytes", len(body), "duration", time.Since(start))

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, false, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, false, fmt.Errorf("%w: %s", ErrUnauthorized, body)
	case resp.StatusCode == http.StatusForbidden:
		return nil, false, fmt.Errorf("%w: %s", ErrForbidden, body)
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("workouts request failed (status %d): %s", resp.StatusCode, body)
	}
	return nil, false, fmt.Errorf("workouts request failed (status %d): %s", resp.StatusCode, body)
}

type apiWorkout struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	StartTime   string        `json:"start_time"`
	EndTime     string        `json:"end_time"`
	Exercises   []apiExercise `json:"exercises"`
}

type apiExercise struct {
	Name       string          `json:"name"`
	Title      string          `json:"title"`
	Notes      string          `json:"notes"`
	SupersetID json.RawMessage `json:"superset_id"`
	Sets       []apiSet        `json:"sets"`
}

type apiSet struct {
	Index    *int     `json:"index"`
	Type     string   `json:"type"`
	Weight   *float64 `json:"weight"`
	WeightKg *float64 `json:"weight_kg"`
	WeightLb *float64 `json:"weight_lb"`
	Reps     *float64 `json:"reps"`
	Distance *float64 `json:"distance_meters"`
	Duration *float64 `json:"duration_seconds"`
	RPE      *float64 `json:"rpe"`
}

// weightKg picks weight, weight_kg or weight_lb in that order and converts
// pounds to kilograms.
func (s apiSet) weightKg() *float64 {
	switch {
	case s.Weight != nil:
		return models.Float(*s.Weight)
	case s.WeightKg != nil:
		return models.Float(*s.WeightKg)
	case s.WeightLb != nil:
		return models.Float(*s.WeightLb * models.KgPerLb)
	}
	return nil
}

// distanceMiles converts the API's meters to the miles RawRow carries.
func (s apiSet) distanceMiles() *float64 {
	if s.Distance == nil {
		return nil
	}
	return models.Float(*s.Distance / models.MetersPerMile)
}

func (s apiSet) reps() *int {
	if s.Reps == nil || *s.Reps < 0 || *s.Reps != float64(int(*s.Reps)) {
		return nil
	}
	return models.Int(int(*s.Reps))
}

// decodeWorkouts accepts a bare array of workouts or the paged
// {"workouts": [...]} envelope.
func decodeWorkouts(body []byte) ([]models.WorkoutEntry, error) {
	var workouts []apiWorkout
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var page struct {
			Workouts []apiWorkout `json:"workouts"`
		}
		if err := json.Unmarshal(trimmed, &page); err != nil {
			return nil, fmt.Errorf("decoding workouts: %w", err)
		}
		workouts = page.Workouts
	} else if err := json.Unmarshal(trimmed, &workouts); err != nil {
		return nil, fmt.Errorf("decoding workouts: %w", err)
	}

	var entries []models.WorkoutEntry
	for _, w := range workouts {
		date, _, _ := strings.Cut(w.StartTime, "T")
		for _, ex := range w.Exercises {
			name := ex.Name
			if name == "" {
				name = ex.Title
			}
			if name == "" {
				name = "Unknown"
			}
			for _, s := range ex.Sets {
				weight, reps := s.weightKg(), s.reps()
				if weight == nil || reps == nil {
					continue
				}
				entries = append(entries, models.WorkoutEntry{
					Date:     date,
					Exercise: name,
					Weight:   weight,
					Reps:     reps,
					Raw: models.RawRow{
						Source:        Source,
						Title:         w.Title,
						StartTime:     w.StartTime,
						EndTime:       w.EndTime,
						Description:   w.Description,
						SupersetID:    supersetID(ex.SupersetID),
						ExerciseNotes: ex.Notes,
						SetIndex:      s.Index,
						SetType:       s.Type,
						WeightKg:      weight,
						Distance:      s.distanceMiles(),
						Duration:      s.Duration,
						RPE:           s.RPE,
					},
				})
			}
		}
	}
	return entries, nil
}

// supersetID renders a numeric or string superset id; null yields "".
func supersetID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return string(raw)
}
