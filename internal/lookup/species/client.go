// Package species resolves species names against the CITES species list.
package species

import (
	"context"
	"net/url"
	"strings"

	"golang.org/x/sync/singleflight"

	"cites/internal/lookup"
	"cites/internal/submission/models"
)

// Species is the reference record for a listed species.
type Species struct {
	ScientificName string         `json:"scientificName"`
	Kingdom        models.Kingdom `json:"kingdom"`
	Annex          string         `json:"annex,omitempty"`
}

type Client struct {
	baseURL string
	getter  *lookup.Getter
	group   singleflight.Group
}

func NewClient(baseURL string, getter *lookup.Getter) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), getter: getter}
}

// Lookup returns the listed species named name, or nil when it is not listed.
// Concurrent lookups of the same name share one upstream call.
func (c *Client) Lookup(ctx context.Context, name string) (*Species, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	key := strings.ToLower(name)
	v, err, _ := c.group.Do(key, func() (any, error) {
		var sp Species
		found, err := c.getter.Get(ctx, c.baseURL+"/species/"+url.PathEscape(name), &sp)
		if err != nil || !found {
			return (*Species)(nil), err
		}
		return &sp, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Species), nil
}
