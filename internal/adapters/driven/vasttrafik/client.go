package vasttrafik

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/tramtid/internal/core/domain"
	"github.com/custodia-labs/tramtid/internal/core/ports/driven"
	"github.com/custodia-labs/tramtid/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.TransitClient = (*Client)(nil)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// maxErrorBody bounds how much of an error response is kept in APIError.Message.
	maxErrorBody = 512
)

// Client talks to the Västtrafik API.
type Client struct {
	baseURL   string
	timeout   time.Duration
	base      *http.Client
	transport driven.Transport
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds every request. Zero disables the timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.timeout = timeout }
}

// WithHTTPClient sets the client whose transport carries authorised requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) { c.base = client }
}

// WithTransport sends every request through t. The Authorization header is set
// on the request before t sees it.
func WithTransport(t driven.Transport) Option {
	return func(c *Client) { c.transport = t }
}

// NewClient creates a client for the data API rooted at baseURL
// (scheme, host and version prefix, e.g. https://ext-api.vasttrafik.se/pr/v4).
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// transportFor returns the transport authorised with token.
func (c *Client) transportFor(ctx context.Context, token *domain.AccessToken) driven.Transport {
	if c.transport != nil {
		return c.transport
	}

	if c.base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.base)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token.Value,
		TokenType:   token.TokenType,
	})
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = c.timeout
	return tc
}

// get issues a GET for path with query and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, token *domain.AccessToken, path string, query url.Values, out any) error {
	if token == nil || token.Value == "" {
		return fmt.Errorf("%w: no access token", domain.ErrAuthorization)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	transport := c.transportFor(ctx, token)
	if c.transport != nil {
		req.Header.Set("Authorization", "Bearer "+token.Value)
	}

	logger.Debug("request", "component", "vasttrafik", "url", endpoint)

	resp, err := transport.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %w", domain.ErrTransport, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		message := strings.TrimSpace(string(body))
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: message, URL: endpoint}
		if IsUnauthorized(apiErr) {
			return fmt.Errorf("%w: access token rejected: %w", domain.ErrAuthorization, apiErr)
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %w", domain.ErrTransport, path, err)
	}

	logger.Debug("response", "component", "vasttrafik", "url", endpoint, "status", resp.StatusCode)
	return nil
}

// ResolveStop returns the highest-ranked stop area matching name.
func (c *Client) ResolveStop(ctx context.Context, name string, token *domain.AccessToken) (domain.StopArea, error) {
	query := url.Values{}
	query.Set("q", name)
	query.Set("limit", "1")
	query.Set("offset", "0")
	query.Set("types", "stoparea")

	var resp locationsResponse
	if err := c.get(ctx, token, "/locations/by-text", query, &resp); err != nil {
		return domain.StopArea{}, err
	}

	if len(resp.Results) == 0 {
		return domain.StopArea{}, fmt.Errorf("stop %q: %w", name, domain.ErrNotFound)
	}
	top := resp.Results[0]
	if top.GID == "" {
		return domain.StopArea{}, fmt.Errorf("%w: location result for %q has no gid", domain.ErrMalformedResponse, name)
	}

	return domain.StopArea{GID: top.GID, Name: top.Name}, nil
}

// FetchDepartures returns the next departures from the stop area, in upstream order.
func (c *Client) FetchDepartures(
	ctx context.Context, gid string, token *domain.AccessToken, platform string,
) ([]domain.Departure, error) {
	query := url.Values{}
	query.Set("limit", fmt.Sprint(domain.DepartureLimit))
	if platform != "" {
		query.Set("platforms", platform)
	}

	var resp departuresResponse
	path := "/stop-areas/" + url.PathEscape(gid) + "/departures"
	if err := c.get(ctx, token, path, query, &resp); err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("stop area %s: %w: %w", gid, domain.ErrNotFound, err)
		}
		return nil, err
	}

	departures := make([]domain.Departure, 0, len(resp.Results))
	for i, d := range resp.Results {
		if d.EstimatedOtherwisePlannedTime == "" {
			return nil, fmt.Errorf("%w: departure %d has no estimatedOtherwisePlannedTime", domain.ErrMalformedResponse, i)
		}
		if d.ServiceJourney.Line.ShortName == "" {
			return nil, fmt.Errorf("%w: departure %d has no line short name", domain.ErrMalformedResponse, i)
		}
		departures = append(departures, domain.Departure{
			Line:          d.ServiceJourney.Line.ShortName,
			Direction:     d.ServiceJourney.Direction,
			Platform:      d.StopPoint.Platform,
			EstimatedTime: d.EstimatedOtherwisePlannedTime,
		})
	}
	return departures, nil
}

// FetchJourneys returns itineraries from origin to destination.
func (c *Client) FetchJourneys(
	ctx context.Context, originGID, destinationGID string, token *domain.AccessToken,
) ([]domain.Journey, error) {
	query := url.Values{}
	query.Set("originGid", originGID)
	query.Set("destinationGid", destinationGID)
	query.Set("limit", fmt.Sprint(domain.JourneyLimit))

	var resp journeysResponse
	if err := c.get(ctx, token, "/journeys", query, &resp); err != nil {
		return nil, err
	}

	journeys := make([]domain.Journey, 0, len(resp.Results))
	for i, j := range resp.Results {
		if len(j.TripLegs) == 0 {
			return nil, fmt.Errorf("%w: journey %d has no trip legs", domain.ErrMalformedResponse, i)
		}
		legs := make([]domain.JourneyLeg, 0, len(j.TripLegs))
		for _, leg := range j.TripLegs {
			departs := firstNonEmpty(leg.EstimatedDepartureTime, leg.PlannedDepartureTime,
				leg.Origin.EstimatedTime, leg.Origin.PlannedTime)
			arrives := firstNonEmpty(leg.EstimatedArrivalTime, leg.PlannedArrivalTime,
				leg.Destination.EstimatedTime, leg.Destination.PlannedTime)
			legs = append(legs, domain.JourneyLeg{
				Line:          leg.ServiceJourney.Line.ShortName,
				Direction:     leg.ServiceJourney.Direction,
				Origin:        leg.Origin.StopPoint.Name,
				Destination:   leg.Destination.StopPoint.Name,
				DepartureTime: departs,
				ArrivalTime:   arrives,
			})
		}
		journeys = append(journeys, domain.Journey{Legs: legs})
	}
	return journeys, nil
}
