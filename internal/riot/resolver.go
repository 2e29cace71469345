package riot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/cockroachdb/errors"
)

// Handle is the human-facing name#tag identifier. It is mutable: players
// rename, so it is never used as a storage key.
type Handle struct {
	GameName string
	TagLine  string
}

// ParseHandle splits a "GameName#TagLine" nickname.
func ParseHandle(nickname string) (Handle, error) {
	for i := 0; i < len(nickname); i++ {
		if nickname[i] == '#' {
			if i == 0 || i == len(nickname)-1 {
				break
			}
			return Handle{GameName: nickname[:i], TagLine: nickname[i+1:]}, nil
		}
	}
	return Handle{}, errors.Newf("invalid handle %q, expected 'GameName#TagLine'", nickname)
}

func (h Handle) String() string {
	return h.GameName + "#" + h.TagLine
}

// ResolveHandle maps a handle to its puuid via the account-by-riot-id
// endpoint. A 429 is answered with one long backoff and exactly one retry.
// A handle that no longer resolves (rename) returns ErrNotFound so the
// caller can continue with the rest of the roster.
func (c *Client) ResolveHandle(ctx context.Context, h Handle) (string, error) {
	path := fmt.Sprintf("/riot/account/v1/accounts/by-riot-id/%s/%s",
		url.PathEscape(h.GameName), url.PathEscape(h.TagLine))

	resp, err := c.doOnce(ctx, path, nil)
	if err != nil {
		return "", errors.Wrapf(err, "resolve %s", h)
	}
	if resp.status == http.StatusTooManyRequests {
		c.log.Warnw("rate limited on identity lookup, long backoff",
			"handle", h.String(), "wait", c.resolveBackoff)
		if err := sleepCtx(ctx, c.resolveBackoff); err != nil {
			return "", err
		}
		resp, err = c.doOnce(ctx, path, nil)
		if err != nil {
			return "", errors.Wrapf(err, "resolve %s", h)
		}
	}

	switch resp.status {
	case http.StatusOK:
		var account AccountResponse
		if err := json.Unmarshal(resp.body, &account); err != nil {
			return "", errors.Wrapf(err, "resolve %s: decode", h)
		}
		if account.PUUID == "" {
			return "", errors.Wrapf(ErrNotFound, "resolve %s: no puuid in response", h)
		}
		return account.PUUID, nil
	case http.StatusNotFound:
		return "", errors.Wrapf(ErrNotFound, "resolve %s", h)
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", errors.Wrapf(ErrUnauthorized, "resolve %s: status %d", h, resp.status)
	default:
		return "", errors.Newf("resolve %s: unexpected status %d", h, resp.status)
	}
}

// ResolveSummonerID maps a legacy numeric summoner id to a puuid. The id is
// already stable, so this path has no rename handling.
func (c *Client) ResolveSummonerID(ctx context.Context, summonerID string) (string, error) {
	path := "/lol/summoner/v4/summoners/" + url.PathEscape(summonerID)

	var summoner SummonerResponse
	if err := c.get(ctx, path, nil, &summoner); err != nil {
		return "", errors.Wrapf(err, "resolve summoner %s", summonerID)
	}
	if summoner.PUUID == "" {
		return "", errors.Wrapf(ErrNotFound, "resolve summoner %s: no puuid in response", summonerID)
	}
	return summoner.PUUID, nil
}
