package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// PageRecord is what gets stored for one converted page.
type PageRecord struct {
	Title       string          `json:"title"`
	Redirect    string          `json:"redirect,omitempty"`
	ContentHash string          `json:"content_hash,omitempty"`
	Sections    int             `json:"sections"`
	Links       int             `json:"links"`
	StoredAt    string          `json:"stored_at"`
	Page        json.RawMessage `json:"page"`
}

// PutPage stores rec under the page's key.
func (c *Client) PutPage(ctx context.Context, rec PageRecord) error {
	return c.PutNode(ctx, PageKey(rec.Title)+"/json", NodeRequest{
		Value:  rec,
		Source: "wikitree",
	})
}

// GetPage loads a stored page. A missing page returns nil, nil.
func (c *Client) GetPage(ctx context.Context, title string) (*PageRecord, error) {
	node, err := c.GetNode(ctx, PageKey(title)+"/json")
	if err != nil || node == nil {
		return nil, err
	}
	var rec PageRecord
	if err := json.Unmarshal(node.Value, &rec); err != nil {
		return nil, fmt.Errorf("decode page %s: %w", title, err)
	}
	return &rec, nil
}

// DeletePage removes a stored page and everything under its key.
func (c *Client) DeletePage(ctx context.Context, title string) error {
	return c.DeleteNode(ctx, PageKey(title), true)
}

// LinkPages records an internal-link edge from one page to another.
func (c *Client) LinkPages(ctx context.Context, from, to string) error {
	return c.PutLink(ctx, LinkRequest{
		From:    PageKey(from),
		To:      PageKey(to),
		Weight:  1,
		Summary: "internal_link",
	})
}

// PutHash indexes title under its content hash.
func (c *Client) PutHash(ctx context.Context, hash, title string) error {
	return c.PutNode(ctx, HashesPrefix+"/"+hash+"/"+Slug(title), NodeRequest{
		Value:  map[string]any{"title": title},
		Source: "wikitree",
	})
}

// FindByHash returns the slug of a page already stored with hash, if any.
func (c *Client) FindByHash(ctx context.Context, hash string) (string, bool, error) {
	entries, err := c.ListChildren(ctx, HashesPrefix+"/"+hash, 1)
	if err != nil {
		return "", false, err
	}
	if len(entries) == 0 {
		return "", false, nil
	}
	key := entries[0].Key
	if i := strings.LastIndexAny(key, "/."); i >= 0 {
		key = key[i+1:]
	}
	return key, true, nil
}

// DeleteHash removes title's entry from the hash index.
func (c *Client) DeleteHash(ctx context.Context, hash, title string) error {
	return c.DeleteNode(ctx, HashesPrefix+"/"+hash+"/"+Slug(title), false)
}

// PageSummary is a stored page without its body.
type PageSummary struct {
	Key      string `json:"key"`
	Title    string `json:"title"`
	Redirect string `json:"redirect,omitempty"`
	Sections int    `json:"sections"`
	Links    int    `json:"links"`
	StoredAt string `json:"stored_at"`
}

// ListPages returns up to limit stored pages.
func (c *Client) ListPages(ctx context.Context, limit int) ([]PageSummary, error) {
	entries, err := c.ListChildren(ctx, PagesPrefix, limit)
	if err != nil {
		return nil, err
	}
	pages := make([]PageSummary, 0, len(entries))
	for _, e := range entries {
		var s PageSummary
		if err := json.Unmarshal(e.Value, &s); err != nil || s.Title == "" {
			continue
		}
		s.Key = e.Key
		pages = append(pages, s)
	}
	return pages, nil
}
