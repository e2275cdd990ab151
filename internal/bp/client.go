package bp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cdl-tracker/internal/config"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

// Client fetches and parses match data embedded in breakingpoint.gg pages.
type Client struct {
	baseURL string
	client  *fasthttp.Client
	logger  zerolog.Logger
}

func NewClient(cfg *config.Config, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: cfg.SourceBaseURL,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		logger: logger,
	}
}

// FetchMatches returns every match summary the matches page carries. A
// payload that does not match the expected shape yields an empty result and
// a logged diagnostic, not an error; network failures are returned as errors
// for the caller to degrade on.
func (c *Client) FetchMatches(ctx context.Context) ([]MatchSummary, error) {
	body, err := c.get(ctx, c.baseURL+"/matches")
	if err != nil {
		return nil, err
	}

	for _, payload := range jsonPayloads(body) {
		var env pageEnvelope
		if err := json.Unmarshal(payload, &env); err != nil {
			continue
		}
		if env.Props == nil || env.Props.PageProps == nil {
			continue
		}
		if env.Props.PageProps.AllMatches == nil {
			continue
		}
		return env.Props.PageProps.AllMatches, nil
	}

	c.logger.Warn().Str("url", c.baseURL+"/matches").Msg("no payload with allMatches found, source page shape may have changed")
	return nil, nil
}

// FetchMatchDetail returns the per-game data for one match. Same degradation
// contract as FetchMatches.
func (c *Client) FetchMatchDetail(ctx context.Context, matchID int64) ([]Game, error) {
	url := fmt.Sprintf("%s/match/%d", c.baseURL, matchID)
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	for _, payload := range jsonPayloads(body) {
		var env pageEnvelope
		if err := json.Unmarshal(payload, &env); err != nil {
			continue
		}
		if env.Props == nil || env.Props.PageProps == nil {
			continue
		}
		state := env.Props.PageProps.InitialMatchState
		if state == nil || len(state.Games) == 0 {
			continue
		}
		return state.Games, nil
	}

	c.logger.Warn().Int64("match_id", matchID).Msg("no payload with game data found, source page shape may have changed")
	return nil, nil
}

// FetchUpcomingMatches returns scheduled (not yet complete) matches from the
// matches page.
func (c *Client) FetchUpcomingMatches(ctx context.Context) ([]MatchSummary, error) {
	matches, err := c.FetchMatches(ctx)
	if err != nil {
		return nil, err
	}

	var upcoming []MatchSummary
	for _, m := range matches {
		if m.Status != "complete" {
			upcoming = append(upcoming, m)
		}
	}
	return upcoming, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetUserAgent(userAgent)

	deadline, ok := ctx.Deadline()
	if ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}
	} else {
		if err := c.client.Do(req, resp); err != nil {
			return nil, err
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("source returned status %d for %s", resp.StatusCode(), url)
	}

	// resp is pooled, the body must be copied out.
	return append([]byte(nil), resp.Body()...), nil
}
