// Package jira implements the ticket source port against the Jira Cloud
// REST API (v2 search endpoint).
package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/lorrc/soc-metrics-backend/internal/core/domain"
	"github.com/lorrc/soc-metrics-backend/internal/core/ports"
)

const (
	searchPath = "/rest/api/2/search"

	// Jira caps a single search page regardless of what we ask for.
	maxPageSize = 100

	searchFields = "summary,priority,created,resolution,resolutiondate"

	jqlTimeLayout = "2006-01-02 15:04"
)

// jiraTimestamp is the timestamp format Jira uses in issue fields and
// changelog entries.
const jiraTimestamp = "2006-01-02T15:04:05.000-0700"

// Config holds the connection settings for the Jira client.
type Config struct {
	BaseURL           string
	Username          string
	APIToken          string
	ProjectKey        string
	FirstActionStatus string
	PageSize          int
	RequestsPerSecond float64
	Timeout           time.Duration
}

// Client fetches tickets from Jira. It implements ports.TicketSource.
// Search responses are cached page-by-page so repeated analyses over the
// same window do not hammer the upstream API.
type Client struct {
	baseURL           string
	username          string
	apiToken          string
	projectKey        string
	firstActionStatus string
	pageSize          int

	httpClient *http.Client
	limiter    *rate.Limiter
	cache      ports.ResponseCache
	cacheTTL   time.Duration
	logger     *slog.Logger
}

// NewClient creates a Jira ticket source. The cache may be nil, in which
// case every fetch goes to the upstream API.
func NewClient(cfg Config, cache ports.ResponseCache, cacheTTL time.Duration, logger *slog.Logger) *Client {
	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 4
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:           strings.TrimRight(cfg.BaseURL, "/"),
		username:          cfg.Username,
		apiToken:          cfg.APIToken,
		projectKey:        cfg.ProjectKey,
		firstActionStatus: cfg.FirstActionStatus,
		pageSize:          pageSize,
		httpClient:        &http.Client{Timeout: timeout},
		limiter:           rate.NewLimiter(rate.Limit(rps), 1),
		cache:             cache,
		cacheTTL:          cacheTTL,
		logger:            logger.With("component", "jira_client"),
	}
}

// FetchTickets retrieves every ticket created inside the window, paging
// through the search endpoint until the result set is exhausted or
// MaxResults is reached.
func (c *Client) FetchTickets(ctx context.Context, params ports.FetchParams) ([]domain.TicketRecord, error) {
	jql := c.buildJQL(params.From, params.To)

	var tickets []domain.TicketRecord
	startAt := 0

	for {
		pageSize := c.pageSize
		if params.MaxResults > 0 {
			remaining := params.MaxResults - len(tickets)
			if remaining <= 0 {
				break
			}
			if remaining < pageSize {
				pageSize = remaining
			}
		}

		page, err := c.searchPage(ctx, jql, startAt, pageSize)
		if err != nil {
			return nil, err
		}

		for _, issue := range page.Issues {
			record, err := c.toRecord(issue)
			if err != nil {
				c.logger.Warn("skipping malformed issue", "key", issue.Key, "error", err)
				continue
			}
			tickets = append(tickets, record)
		}

		startAt += len(page.Issues)
		if len(page.Issues) == 0 || startAt >= page.Total {
			break
		}
	}

	c.logger.Info("tickets fetched",
		"project", c.projectKey,
		"from", params.From,
		"to", params.To,
		"count", len(tickets),
	)

	return tickets, nil
}

func (c *Client) buildJQL(from, to time.Time) string {
	return fmt.Sprintf(
		`project = %q AND created >= %q AND created <= %q ORDER BY created ASC`,
		c.projectKey,
		from.UTC().Format(jqlTimeLayout),
		to.UTC().Format(jqlTimeLayout),
	)
}

func (c *Client) searchPage(ctx context.Context, jql string, startAt, pageSize int) (*searchResponse, error) {
	query := url.Values{
		"jql":        {jql},
		"startAt":    {strconv.Itoa(startAt)},
		"maxResults": {strconv.Itoa(pageSize)},
		"expand":     {"changelog"},
		"fields":     {searchFields},
	}
	requestURL := c.baseURL + searchPath + "?" + query.Encode()

	if body, ok := c.cacheGet(ctx, requestURL); ok {
		var page searchResponse
		if err := json.Unmarshal(body, &page); err == nil {
			return &page, nil
		}
		// Poisoned entry, fall through to the live request.
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building search request: %w", err)
	}
	req.SetBasicAuth(c.username, c.apiToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("searching issues: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading search response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		// fallthrough to decode
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("jira rejected credentials (status %d)", resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("jira rate limit exceeded (status %d)", resp.StatusCode)
	default:
		return nil, fmt.Errorf("jira search failed (status %d): %s", resp.StatusCode, truncate(body, 200))
	}

	var page searchResponse
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	c.cacheSet(ctx, requestURL, body)

	return &page, nil
}

func (c *Client) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	body, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache lookup failed", "error", err)
		return nil, false
	}
	return body, ok
}

func (c *Client) cacheSet(ctx context.Context, key string, body []byte) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(ctx, key, body, c.cacheTTL); err != nil {
		c.logger.Warn("cache store failed", "error", err)
	}
}

// toRecord converts one Jira issue into a ticket record. The detection
// timestamp is the first changelog transition into the configured
// first-action status; tickets never picked up have no detection timestamp.
func (c *Client) toRecord(issue searchIssue) (domain.TicketRecord, error) {
	created, err := time.Parse(jiraTimestamp, issue.Fields.Created)
	if err != nil {
		return domain.TicketRecord{}, fmt.Errorf("parsing created timestamp %q: %w", issue.Fields.Created, err)
	}

	record := domain.TicketRecord{
		Key:      issue.Key,
		Summary:  issue.Fields.Summary,
		Priority: mapPriority(issue.Fields.Priority.Name),
		Created:  created,
	}

	if issue.Fields.ResolutionDate != "" {
		resolved, err := time.Parse(jiraTimestamp, issue.Fields.ResolutionDate)
		if err != nil {
			return domain.TicketRecord{}, fmt.Errorf("parsing resolution timestamp %q: %w", issue.Fields.ResolutionDate, err)
		}
		record.Resolved = &resolved
		record.Resolution = mapResolution(issue.Fields.Resolution.Name)
	}

	if detected := c.firstActionTime(issue.Changelog); detected != nil {
		record.Detected = detected
	}

	return record, nil
}

func (c *Client) firstActionTime(changelog issueChangelog) *time.Time {
	for _, history := range changelog.Histories {
		for _, item := range history.Items {
			if item.Field != "status" || !strings.EqualFold(item.ToString, c.firstActionStatus) {
				continue
			}
			at, err := time.Parse(jiraTimestamp, history.Created)
			if err != nil {
				c.logger.Warn("unparseable changelog timestamp", "value", history.Created, "error", err)
				return nil
			}
			return &at
		}
	}
	return nil
}

// mapPriority normalizes Jira priority names. Unknown names land on Medium,
// matching how the tracker treats unprioritized work.
func mapPriority(name string) domain.TicketPriority {
	switch strings.ToLower(name) {
	case "highest", "critical", "blocker":
		return domain.PriorityCritical
	case "high", "major":
		return domain.PriorityHigh
	case "low", "lowest", "minor", "trivial":
		return domain.PriorityLow
	default:
		return domain.PriorityMedium
	}
}

func mapResolution(name string) domain.ResolutionCategory {
	switch strings.ToLower(name) {
	case "done", "fixed", "resolved":
		return domain.ResolutionDone
	case "false positive":
		return domain.ResolutionFalsePositive
	case "true positive":
		return domain.ResolutionTruePositive
	case "duplicate":
		return domain.ResolutionDuplicate
	case "testing":
		return domain.ResolutionTesting
	case "expected activity":
		return domain.ResolutionExpectedActivity
	default:
		return domain.ResolutionOther
	}
}

func truncate(body []byte, limit int) string {
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit]) + "..."
}

// Wire types for the v2 search endpoint.

type searchResponse struct {
	StartAt    int           `json:"startAt"`
	MaxResults int           `json:"maxResults"`
	Total      int           `json:"total"`
	Issues     []searchIssue `json:"issues"`
}

type searchIssue struct {
	Key       string         `json:"key"`
	Fields    issueFields    `json:"fields"`
	Changelog issueChangelog `json:"changelog"`
}

type issueFields struct {
	Summary        string     `json:"summary"`
	Priority       namedField `json:"priority"`
	Created        string     `json:"created"`
	Resolution     namedField `json:"resolution"`
	ResolutionDate string     `json:"resolutiondate"`
}

type namedField struct {
	Name string `json:"name"`
}

type issueChangelog struct {
	Histories []changeHistory `json:"histories"`
}

type changeHistory struct {
	Created string       `json:"created"`
	Items   []changeItem `json:"items"`
}

type changeItem struct {
	Field    string `json:"field"`
	ToString string `json:"toString"`
}
