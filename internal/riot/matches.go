package riot

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/cockroachdb/errors"
)

// DefaultPageSize is how many match ids one listing page returns.
const DefaultPageSize = 10

// ListMatchIDs returns one page of match ids for a puuid, most recent
// first. Transport failures come back wrapped in ErrListingFailed; the
// orchestrator treats those as "no matches for this player".
func (c *Client) ListMatchIDs(ctx context.Context, puuid string, start, count int) ([]string, error) {
	path := fmt.Sprintf("/lol/match/v5/matches/by-puuid/%s/ids", url.PathEscape(puuid))
	query := url.Values{
		"start": []string{strconv.Itoa(start)},
		"count": []string{strconv.Itoa(count)},
	}

	var ids []string
	if err := c.get(ctx, path, query, &ids); err != nil {
		if errors.Is(err, ErrRetryExhausted) || errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, errors.Mark(errors.Wrapf(err, "list matches for %.16s", puuid), ErrListingFailed)
	}
	return ids, nil
}

// ListAllMatchIDs pages through the full match history, stopping at the
// first short page.
func (c *Client) ListAllMatchIDs(ctx context.Context, puuid string, pageSize int) ([]string, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var all []string
	for start := 0; ; start += pageSize {
		page, err := c.ListMatchIDs(ctx, puuid, start, pageSize)
		if err != nil {
			return all, err
		}
		all = append(all, page...)
		if len(page) < pageSize {
			return all, nil
		}
	}
}

// GetMatch fetches one match detail payload. Rate limits are retried up to
// the configured attempt cap, honoring Retry-After when present.
func (c *Client) GetMatch(ctx context.Context, matchID string) (*MatchResponse, error) {
	path := "/lol/match/v5/matches/" + url.PathEscape(matchID)

	var match MatchResponse
	if err := c.get(ctx, path, nil, &match); err != nil {
		return nil, errors.Wrapf(err, "get match %s", matchID)
	}
	return &match, nil
}
