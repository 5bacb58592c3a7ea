package hubspot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"meeting-scheduler/pkg/metrics"
)

const (
	listPath         = "/scheduler/v3/meetings/meeting-links"
	bookPath         = "/scheduler/v3/meetings/meeting-links/book"
	availabilityPath = "/scheduler/v3/meetings/meeting-links/book/availability-page"
)

// Client talks to the provider's meeting-link scheduler API with a static
// bearer credential.
type Client struct {
	http *http.Client
	base *url.URL
	log  *logrus.Entry
}

func NewClient(log *logrus.Logger, apiDomain, token string) (*Client, error) {
	base, err := url.Parse(apiDomain)
	if err != nil {
		return nil, fmt.Errorf("parse api domain: %w", err)
	}
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &Client{
		http: oauth2.NewClient(context.Background(), src),
		base: base,
		log:  log.WithField("component", "hubspot"),
	}, nil
}

// ListParams filters the meeting-link listing.
type ListParams struct {
	Name        string
	OrganizerID string
	Type        string
}

func (c *Client) ListMeetingLinks(ctx context.Context, p ListParams) ([]MeetingLink, error) {
	q := url.Values{}
	q.Set("name", p.Name)
	q.Set("organizerId", p.OrganizerID)
	q.Set("type", p.Type)

	var envelope struct {
		Total   int           `json:"total"`
		Results []MeetingLink `json:"results"`
	}
	if err := c.get(ctx, "list", listPath, q, &envelope); err != nil {
		return nil, err
	}
	return envelope.Results, nil
}

func (c *Client) GetMeetingLink(ctx context.Context, slug, timezone string) (*MeetingLinkDetail, error) {
	q := url.Values{}
	q.Set("timezone", timezone)

	var detail MeetingLinkDetail
	if err := c.get(ctx, "detail", bookPath+"/"+url.PathEscape(slug), q, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (c *Client) GetAvailabilityPage(ctx context.Context, slug, timezone string) (*AvailabilityPage, error) {
	q := url.Values{}
	q.Set("timezone", timezone)

	var page AvailabilityPage
	if err := c.get(ctx, "availability", availabilityPath+"/"+url.PathEscape(slug), q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) BookMeeting(ctx context.Context, booking BookingRequest) (*BookingConfirmation, error) {
	body, err := json.Marshal(booking)
	if err != nil {
		return nil, fmt.Errorf("marshal booking: %w", err)
	}
	u := c.endpoint(bookPath, nil)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build booking request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var confirmation BookingConfirmation
	if err := c.do(req, "book", &confirmation); err != nil {
		return nil, err
	}
	return &confirmation, nil
}

func (c *Client) get(ctx context.Context, endpoint, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, q), nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	return c.do(req, endpoint, out)
}

func (c *Client) do(req *http.Request, endpoint string, out any) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.UpstreamDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamErrCount.WithLabelValues(endpoint).Inc()
		return fmt.Errorf("hubspot %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		metrics.UpstreamErrCount.WithLabelValues(endpoint).Inc()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Warnf("upstream %s returned %d: %s", endpoint, resp.StatusCode, snippet)
		return fmt.Errorf("hubspot %s: unexpected status %d", endpoint, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

// endpoint joins an already-escaped path onto the API domain. Escaped
// separators inside a slug segment survive the join.
func (c *Client) endpoint(path string, q url.Values) string {
	u := c.base.JoinPath(path)
	if q != nil {
		u.RawQuery = q.Encode()
	}
	return u.String()
}
