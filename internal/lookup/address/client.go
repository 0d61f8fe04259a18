// Package address searches postal addresses by postcode.
package address

import (
	"context"
	"net/url"
	"strings"

	"cites/internal/lookup"
	"cites/internal/submission/models"
)

type Client struct {
	baseURL string
	getter  *lookup.Getter
}

func NewClient(baseURL string, getter *lookup.Getter) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), getter: getter}
}

type searchResponse struct {
	Results []models.Address `json:"results"`
}

// Search returns the addresses at postcode, narrowed to property (house name
// or number) when one is given. An unknown postcode yields no results.
func (c *Client) Search(ctx context.Context, postcode, property string) ([]models.Address, error) {
	q := url.Values{}
	q.Set("postcode", normalisePostcode(postcode))
	if p := strings.TrimSpace(property); p != "" {
		q.Set("property", p)
	}
	var resp searchResponse
	if _, err := c.getter.Get(ctx, c.baseURL+"/addresses?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func normalisePostcode(p string) string {
	return strings.ToUpper(strings.Join(strings.Fields(p), ""))
}
