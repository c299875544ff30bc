// Package scraper looks platforms and games up on TheGamesDB.
package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/user-none/yaffe/ui/storage"
)

const (
	// DefaultBaseURL is the public TheGamesDB API.
	DefaultBaseURL = "https://api.thegamesdb.net"

	defaultTimeout = 10 * time.Second

	// TheGamesDB meters keys per month; stay well under any burst limit.
	defaultRateLimit = rate.Limit(2)
	defaultBurstSize = 4

	maxResponse = 8 << 20
)

// ErrNoAPIKey is returned when a search is made without an API key.
var ErrNoAPIKey = errors.New("scraper: no TheGamesDB API key configured")

// PlatformMatch is one platform returned by a platform search.
type PlatformMatch struct {
	ID   int64
	Name string
}

func (m PlatformMatch) DisplayString() string { return m.Name }

// GameMatch is one game returned by a game search.
type GameMatch struct {
	ID       int64
	Name     string
	Overview string
	Players  int64
	Rating   storage.Rating
	Released string
	// Boxart is the front cover URL, empty when the game has none.
	Boxart string
}

func (m GameMatch) DisplayString() string {
	if m.Released == "" {
		return m.Name
	}
	if len(m.Released) >= 4 {
		return m.Name + " (" + m.Released[:4] + ")"
	}
	return m.Name
}

// Client is a TheGamesDB API client. Requests are paced by a token bucket;
// failed requests are returned to the caller and never retried.
type Client struct {
	BaseURL string

	mu     sync.Mutex
	apiKey string

	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

// NewClient creates a client for the public API.
func NewClient(apiKey string) *Client {
	return NewClientWithBaseURL(apiKey, DefaultBaseURL)
}

// NewClientWithBaseURL creates a client against baseURL.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	return &Client{
		BaseURL:     baseURL,
		apiKey:      apiKey,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		rateLimiter: rate.NewLimiter(defaultRateLimit, defaultBurstSize),
	}
}

// SetRateLimit replaces the request pacing.
func (c *Client) SetRateLimit(limit rate.Limit, burst int) {
	c.rateLimiter = rate.NewLimiter(limit, burst)
}

// SetAPIKey replaces the key used for subsequent requests.
func (c *Client) SetAPIKey(key string) {
	c.mu.Lock()
	c.apiKey = key
	c.mu.Unlock()
}

func (c *Client) key() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apiKey
}

type platformsResponse struct {
	Data struct {
		Count     int `json:"count"`
		Platforms []struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"platforms"`
	} `json:"data"`
}

// SearchPlatforms returns the platforms whose name matches name.
func (c *Client) SearchPlatforms(ctx context.Context, name string) ([]PlatformMatch, error) {
	q := url.Values{}
	q.Set("name", name)

	var resp platformsResponse
	if err := c.get(ctx, "/v1/Platforms/ByPlatformName", q, &resp); err != nil {
		return nil, fmt.Errorf("failed to search platforms: %w", err)
	}

	out := make([]PlatformMatch, 0, len(resp.Data.Platforms))
	for _, p := range resp.Data.Platforms {
		out = append(out, PlatformMatch{ID: p.ID, Name: p.Name})
	}
	return out, nil
}

type gamesResponse struct {
	Data struct {
		Count int `json:"count"`
		Games []struct {
			ID          int64  `json:"id"`
			Title       string `json:"game_title"`
			ReleaseDate string `json:"release_date"`
			Players     int64  `json:"players"`
			Overview    string `json:"overview"`
			Rating      string `json:"rating"`
		} `json:"games"`
	} `json:"data"`
	Include struct {
		Boxart struct {
			BaseURL struct {
				Original string `json:"original"`
			} `json:"base_url"`
			Data map[string][]struct {
				Type     string `json:"type"`
				Side     string `json:"side"`
				Filename string `json:"filename"`
			} `json:"data"`
		} `json:"boxart"`
	} `json:"include"`
}

// SearchGames returns the games on platform whose name matches name.
// A platform of 0 searches every platform.
func (c *Client) SearchGames(ctx context.Context, name string, platform int64) ([]GameMatch, error) {
	q := url.Values{}
	q.Set("name", name)
	q.Set("fields", "players,overview,rating")
	q.Set("include", "boxart")
	if platform != 0 {
		q.Set("filter[platform]", strconv.FormatInt(platform, 10))
	}

	var resp gamesResponse
	if err := c.get(ctx, "/v1.1/Games/ByGameName", q, &resp); err != nil {
		return nil, fmt.Errorf("failed to search games: %w", err)
	}

	base := resp.Include.Boxart.BaseURL.Original
	out := make([]GameMatch, 0, len(resp.Data.Games))
	for _, g := range resp.Data.Games {
		m := GameMatch{
			ID:       g.ID,
			Name:     g.Title,
			Overview: g.Overview,
			Players:  g.Players,
			Rating:   storage.ParseRating(g.Rating),
			Released: g.ReleaseDate,
		}
		for _, art := range resp.Include.Boxart.Data[strconv.FormatInt(g.ID, 10)] {
			if art.Type == "boxart" && art.Side == "front" {
				m.Boxart = base + art.Filename
				break
			}
		}
		out = append(out, m)
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	key := c.key()
	if key == "" {
		return ErrNoAPIKey
	}
	q.Set("apikey", key)

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponse))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
