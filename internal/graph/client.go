package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"ads-activity-tracker/internal/model"
)

// API lists the Graph operations the sync pipeline depends on.
type API interface {
	ListCampaigns(ctx context.Context, accountID string) ([]model.Campaign, error)
	ListAdSets(ctx context.Context, accountID string) ([]model.AdSetRef, error)
	ListAds(ctx context.Context, accountID string) ([]model.AdRef, error)
	ListActivities(ctx context.Context, accountID string, since, until time.Time) ([]model.ActivityEvent, error)
}

// RemoteError is a non-2xx Graph response. It is never retried; the enclosing
// account sync aborts.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("graph api error %d: %s", e.StatusCode, e.Body)
}

// Page is one page of a Graph list response.
type Page struct {
	Data   []json.RawMessage `json:"data"`
	Paging struct {
		Next string `json:"next"`
	} `json:"paging"`
}

type client struct {
	httpClient    *http.Client
	baseURL       string
	version       string
	token         string
	pageLimit     int
	activityLimit int
}

// NewClient builds a Graph API client. baseURL is configurable so tests can
// point at a local server.
func NewClient(httpClient *http.Client, baseURL, version, token string, pageLimit, activityLimit int) API {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &client{
		httpClient:    httpClient,
		baseURL:       baseURL,
		version:       version,
		token:         token,
		pageLimit:     pageLimit,
		activityLimit: activityLimit,
	}
}

// FetchPage performs one GET and decodes a {data, paging.next} envelope.
func (c *client) FetchPage(ctx context.Context, pageURL string) (Page, error) {
	var page Page

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return page, fmt.Errorf("build graph request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return page, fmt.Errorf("graph request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return page, fmt.Errorf("read graph response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return page, &RemoteError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, &page); err != nil {
		return page, fmt.Errorf("decode graph response: %w", err)
	}

	return page, nil
}

// fetchAll drains pagination starting from first, invoking fn per record.
func (c *client) fetchAll(ctx context.Context, first string, fn func(json.RawMessage) error) error {
	next := first
	for next != "" {
		page, err := c.FetchPage(ctx, next)
		if err != nil {
			return err
		}
		for _, raw := range page.Data {
			if err := fn(raw); err != nil {
				return err
			}
		}
		next = page.Paging.Next
	}
	return nil
}

func (c *client) edgeURL(accountID, edge, fields string, limit int, extra url.Values) string {
	q := url.Values{}
	q.Set("fields", fields)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("access_token", c.token)
	for k, vs := range extra {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	return fmt.Sprintf("%s/%s/%s/%s?%s", c.baseURL, c.version, accountID, edge, q.Encode())
}

func (c *client) ListCampaigns(ctx context.Context, accountID string) ([]model.Campaign, error) {
	var out []model.Campaign
	first := c.edgeURL(accountID, "campaigns", "id,name", c.pageLimit, nil)
	err := c.fetchAll(ctx, first, func(raw json.RawMessage) error {
		var camp model.Campaign
		if err := json.Unmarshal(raw, &camp); err != nil {
			return fmt.Errorf("decode campaign: %w", err)
		}
		out = append(out, camp)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *client) ListAdSets(ctx context.Context, accountID string) ([]model.AdSetRef, error) {
	var out []model.AdSetRef
	first := c.edgeURL(accountID, "adsets", "id,name,campaign_id", c.pageLimit, nil)
	err := c.fetchAll(ctx, first, func(raw json.RawMessage) error {
		var adset model.AdSetRef
		if err := json.Unmarshal(raw, &adset); err != nil {
			return fmt.Errorf("decode adset: %w", err)
		}
		out = append(out, adset)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *client) ListAds(ctx context.Context, accountID string) ([]model.AdRef, error) {
	var out []model.AdRef
	first := c.edgeURL(accountID, "ads", "id,name,adset_id,campaign_id", c.pageLimit, nil)
	err := c.fetchAll(ctx, first, func(raw json.RawMessage) error {
		var ad model.AdRef
		if err := json.Unmarshal(raw, &ad); err != nil {
			return fmt.Errorf("decode ad: %w", err)
		}
		out = append(out, ad)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

const activityFields = "event_time,event_type,translated_event_type,actor_name,actor_id,object_type,object_id,object_name,extra_data"

func (c *client) ListActivities(ctx context.Context, accountID string, since, until time.Time) ([]model.ActivityEvent, error) {
	var out []model.ActivityEvent
	extra := url.Values{}
	extra.Set("since", strconv.FormatInt(since.Unix(), 10))
	extra.Set("until", strconv.FormatInt(until.Unix(), 10))
	first := c.edgeURL(accountID, "activities", activityFields, c.activityLimit, extra)
	err := c.fetchAll(ctx, first, func(raw json.RawMessage) error {
		var act model.ActivityEvent
		if err := json.Unmarshal(raw, &act); err != nil {
			return fmt.Errorf("decode activity: %w", err)
		}
		out = append(out, act)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
