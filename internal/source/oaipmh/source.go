package oaipmh

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"harvester/internal/domain"
)

const (
	SourceName = "oai-pmh"

	errNoRecordsMatch = "noRecordsMatch"
)

// Config holds OAI-PMH source configuration.
type Config struct {
	Repositories      []Repository
	Timeout           time.Duration
	RequestsPerSecond float64
	UserAgent         string
	MaxAttempts       int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	// Filter drops records for which it returns false before they reach the harvester.
	Filter func(*Record) bool
}

// UnavailableError is returned when the repository answers 503 with a Retry-After header.
type UnavailableError struct {
	RetryAfter time.Duration
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("service unavailable, retry after %s", e.RetryAfter)
}

// Source harvests ListRecords pages from one or more OAI-PMH repositories,
// one page per batch.
type Source struct {
	httpClient     *http.Client
	limiter        *rate.Limiter
	repositories   []Repository
	userAgent      string
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	filter         func(*Record) bool
	logger         *slog.Logger
}

// New creates a new OAI-PMH source.
func New(cfg Config, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Source{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:        rate.NewLimiter(limit, 1),
		repositories:   cfg.Repositories,
		userAgent:      cfg.UserAgent,
		maxAttempts:    maxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		filter:         cfg.Filter,
		logger:         logger.With("source", SourceName),
	}
}

func (s *Source) Name() string {
	return SourceName
}

// FetchBatch fetches the page the cursor points at. An empty cursor starts
// with the first page of the first repository.
func (s *Source) FetchBatch(ctx context.Context, cursor domain.Cursor) (*domain.Batch, error) {
	var pos position
	if !cursor.IsEmpty() {
		if err := json.Unmarshal(cursor, &pos); err != nil {
			return nil, fmt.Errorf("decode cursor: %w", err)
		}
	}
	if len(pos.RepositoriesRemaining) == 0 {
		pos = position{RepositoriesRemaining: append([]Repository(nil), s.repositories...)}
	}
	if len(pos.RepositoriesRemaining) == 0 {
		s.logger.Warn("no repositories configured")
		return &domain.Batch{Done: true}, nil
	}

	repo := pos.RepositoriesRemaining[0]
	resp, err := s.fetchPage(ctx, requestURL(repo, pos.ResumptionToken))
	if err != nil {
		var unavailable *UnavailableError
		if errors.As(err, &unavailable) {
			s.logger.Info("repository asked to back off",
				"baseurl", repo.BaseURL,
				"retry_after", unavailable.RetryAfter,
			)
			return &domain.Batch{NextCursor: cursor, PauseRequested: true}, nil
		}
		return nil, fmt.Errorf("fetch %s: %w", repo.BaseURL, err)
	}

	var items []OAIRecord
	var token ResumptionToken
	switch {
	case resp.Error != nil && resp.Error.Code == errNoRecordsMatch:
	case resp.Error != nil:
		return nil, fmt.Errorf("oai-pmh error %s: %s", resp.Error.Code, resp.Error.Message)
	case resp.ListRecords != nil:
		items = resp.ListRecords.Records
		if resp.ListRecords.ResumptionToken != nil {
			token = *resp.ListRecords.ResumptionToken
		}
	}

	batch := &domain.Batch{Records: make([]domain.Record, 0, len(items))}
	filtered := 0
	for _, item := range items {
		record := &Record{Repository: repo, item: item}
		if s.filter != nil && !s.filter(record) {
			filtered++
			continue
		}
		batch.Records = append(batch.Records, record)
	}

	next := position{ResumptionToken: token.Value, RepositoriesRemaining: pos.RepositoriesRemaining}
	if token.Value == "" {
		next.RepositoriesRemaining = next.RepositoriesRemaining[1:]
		batch.Done = len(next.RepositoriesRemaining) == 0
	}
	if !batch.Done {
		raw, err := json.Marshal(next)
		if err != nil {
			return nil, fmt.Errorf("encode cursor: %w", err)
		}
		batch.NextCursor = raw
	}

	s.logger.Info("fetched page",
		"baseurl", repo.BaseURL,
		"repository_id", repo.RepositoryID,
		"results", len(items),
		"filtered", filtered,
		"list_cursor", token.Cursor,
		"complete_list_size", token.CompleteListSize,
		"next_resumption_token", token.Value,
		"done", batch.Done,
	)

	return batch, nil
}

func requestURL(repo Repository, token string) string {
	q := url.Values{}
	q.Set("verb", "ListRecords")
	if token != "" {
		q.Set("resumptionToken", token)
	} else {
		q.Set("metadataPrefix", repo.MetadataPrefix)
		if repo.Set != "" {
			q.Set("set", repo.Set)
		}
	}
	return repo.BaseURL + "?" + q.Encode()
}

func (s *Source) fetchPage(ctx context.Context, url string) (*Response, error) {
	var resp *Response
	var err error

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		resp, err = s.doRequest(ctx, url)
		if err == nil {
			return resp, nil
		}

		var unavailable *UnavailableError
		if errors.As(err, &unavailable) || attempt == s.maxAttempts {
			break
		}

		backoff := s.calculateBackoff(attempt)
		s.logger.Warn("request failed, retrying",
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return nil, fmt.Errorf("after %d attempts: %w", s.maxAttempts, err)
}

func (s *Source) doRequest(ctx context.Context, url string) (*Response, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "text/xml")
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusServiceUnavailable {
		if delay, ok := parseRetryAfter(resp.Header.Get("Retry-After")); ok {
			return nil, &UnavailableError{RetryAfter: delay}
		}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var oaiResp Response
	if err := xml.NewDecoder(resp.Body).Decode(&oaiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &oaiResp, nil
}

// parseRetryAfter accepts both delta-seconds and HTTP-date values.
func parseRetryAfter(value string) (time.Duration, bool) {
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second, true
	}
	if at, err := http.ParseTime(value); err == nil {
		return max(time.Until(at), 0), true
	}
	return 0, false
}

func (s *Source) calculateBackoff(attempt int) time.Duration {
	backoff := s.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if backoff > s.maxBackoff {
		backoff = s.maxBackoff
	}
	return backoff
}
