// Package steamapi is a minimal client for the two Steam Web API calls the
// roster needs: player summaries (nicknames) and player bans.
//
// Requests are split into batches of at most MaxIDsPerRequest ids, fetched
// concurrently and retried with exponential backoff on transport failures,
// 429 and 5xx responses.
package steamapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/steamkeeper/internal/client/models"
	"github.com/dmitrijs2005/steamkeeper/internal/common"
	"github.com/dmitrijs2005/steamkeeper/internal/netx"
)

const (
	DefaultBaseURL   = "https://api.steampowered.com"
	MaxIDsPerRequest = 100

	summariesPath = "/ISteamUser/GetPlayerSummaries/v2/"
	bansPath      = "/ISteamUser/GetPlayerBans/v1/"
)

// Client talks to the Steam Web API. It is safe for concurrent use.
type Client struct {
	baseURL     string
	http        *http.Client
	retries     uint64
	backoff     time.Duration
	concurrency int
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRetries sets how many times a failed batch is retried.
func WithRetries(n uint64, backoff time.Duration) Option {
	return func(c *Client) {
		c.retries = n
		c.backoff = backoff
	}
}

// WithConcurrency bounds the number of batches in flight.
func WithConcurrency(n int) Option {
	return func(c *Client) { c.concurrency = n }
}

// NewClient returns a client with a 15s timeout and two retries.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:     DefaultBaseURL,
		http:        &http.Client{Timeout: 15 * time.Second},
		retries:     2,
		backoff:     500 * time.Millisecond,
		concurrency: 4,
	}
	for _, o := range opts {
		o(c)
	}
	if c.concurrency < 1 {
		c.concurrency = 1
	}
	if c.backoff <= 0 {
		c.backoff = time.Millisecond
	}
	return c
}

type summariesResponse struct {
	Response struct {
		Players []struct {
			SteamID     string `json:"steamid"`
			PersonaName string `json:"personaname"`
		} `json:"players"`
	} `json:"response"`
}

type bansResponse struct {
	Players []models.BanInfo `json:"players"`
}

// FetchNicknames maps each known SteamID64 to its current persona name.
// Ids the API does not return are absent from the map.
func (c *Client) FetchNicknames(ctx context.Context, ids []string, apiKey string) (map[string]string, error) {
	out := make(map[string]string)
	var mu sync.Mutex

	err := c.eachBatch(ctx, ids, func(ctx context.Context, batch []string) error {
		var resp summariesResponse
		if err := c.get(ctx, summariesPath, batch, apiKey, &resp); err != nil {
			return err
		}
		mu.Lock()
		defer mu.Unlock()
		for _, p := range resp.Response.Players {
			out[p.SteamID] = p.PersonaName
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FetchBanInfo maps each known SteamID64 to its ban report.
func (c *Client) FetchBanInfo(ctx context.Context, ids []string, apiKey string) (map[string]models.BanInfo, error) {
	out := make(map[string]models.BanInfo)
	var mu sync.Mutex

	err := c.eachBatch(ctx, ids, func(ctx context.Context, batch []string) error {
		var resp bansResponse
		if err := c.get(ctx, bansPath, batch, apiKey, &resp); err != nil {
			return err
		}
		mu.Lock()
		defer mu.Unlock()
		for _, p := range resp.Players {
			out[p.SteamId] = p
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) eachBatch(ctx context.Context, ids []string, fn func(context.Context, []string) error) error {
	batches := Chunk(UniqueIDs(ids), MaxIDsPerRequest)
	if len(batches) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for _, b := range batches {
		b := b
		g.Go(func() error { return fn(gctx, b) })
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrRemoteFetch, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, ids []string, apiKey string, v any) error {
	q := url.Values{}
	q.Set("key", apiKey)
	q.Set("steamids", strings.Join(ids, ","))
	u := c.baseURL + path + "?" + q.Encode()

	b := retry.WithMaxRetries(c.retries, retry.NewExponential(c.backoff))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := netx.GetJSON(ctx, c.http, u, v)
		if err == nil {
			return nil
		}
		var se *netx.StatusError
		if errors.As(err, &se) && !se.Temporary() {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
		return retry.RetryableError(err)
	})
}

// UniqueIDs drops blank ids and duplicates, keeping first-seen order.
func UniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Chunk splits ids into consecutive slices of at most size elements.
func Chunk(ids []string, size int) [][]string {
	var out [][]string
	for len(ids) > 0 {
		n := min(size, len(ids))
		out = append(out, ids[:n])
		ids = ids[n:]
	}
	return out
}
