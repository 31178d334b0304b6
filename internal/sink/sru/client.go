package sru

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	ActionReplace = "info:srw/action/1/replace"
	ActionDelete  = "info:srw/action/1/delete"

	statusSuccess = "success"
)

// Config holds SRU update client configuration.
type Config struct {
	BaseURL      string
	UserAgent    string
	Timeout      time.Duration
	RecordSchema string
}

// Client sends records to an SRU record update endpoint. A client without a
// base URL only logs what it would have sent.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	userAgent    string
	recordSchema string
	logger       *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	schema := cfg.RecordSchema
	if schema == "" {
		schema = "rdf"
	}
	c := &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:      cfg.BaseURL,
		userAgent:    cfg.UserAgent,
		recordSchema: schema,
		logger:       logger.With("sink", "sru"),
	}
	c.logger.Info("uploading to", "base_url", cfg.BaseURL)
	return c
}

// Upload adds or replaces the record stored under identifier.
func (c *Client) Upload(ctx context.Context, identifier string, payload []byte) error {
	if err := c.send(ctx, ActionReplace, identifier, payload); err != nil {
		return fmt.Errorf("upload %s: %w", identifier, err)
	}
	c.logger.Debug("uploaded", "identifier", identifier)
	return nil
}

func (c *Client) Delete(ctx context.Context, identifier string) error {
	if err := c.send(ctx, ActionDelete, identifier, nil); err != nil {
		return fmt.Errorf("delete %s: %w", identifier, err)
	}
	c.logger.Debug("deleted", "identifier", identifier)
	return nil
}

func (c *Client) send(ctx context.Context, action, identifier string, payload []byte) error {
	if c.baseURL == "" {
		return nil
	}

	body, err := updateRequest(action, identifier, c.recordSchema, payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var update updateResponse
	if err := xml.Unmarshal(respBody, &update); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(update.Diagnostics) > 0 {
		return &update.Diagnostics[0]
	}
	if update.OperationStatus != "" && update.OperationStatus != statusSuccess {
		return fmt.Errorf("operation status %q", update.OperationStatus)
	}
	return nil
}

func updateRequest(action, identifier, schema string, payload []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`<ucp:updateRequest xmlns:srw="http://www.loc.gov/zing/srw/" xmlns:ucp="info:lc/xmlns/update-v1">`)
	buf.WriteString(`<srw:version>1.0</srw:version>`)
	buf.WriteString(`<ucp:action>` + action + `</ucp:action>`)
	buf.WriteString(`<ucp:recordIdentifier>`)
	if err := xml.EscapeText(&buf, []byte(identifier)); err != nil {
		return nil, err
	}
	buf.WriteString(`</ucp:recordIdentifier>`)
	if payload != nil {
		buf.WriteString(`<srw:record><srw:recordPacking>xml</srw:recordPacking><srw:recordSchema>`)
		if err := xml.EscapeText(&buf, []byte(schema)); err != nil {
			return nil, err
		}
		buf.WriteString(`</srw:recordSchema><srw:recordData>`)
		buf.Write(payload)
		buf.WriteString(`</srw:recordData></srw:record>`)
	}
	buf.WriteString(`</ucp:updateRequest>`)
	return buf.Bytes(), nil
}

type updateResponse struct {
	OperationStatus string       `xml:"operationStatus"`
	Diagnostics     []Diagnostic `xml:"diagnostics>diagnostic"`
}

// Diagnostic is an SRU diagnostic returned by the update endpoint.
type Diagnostic struct {
	URI     string `xml:"uri"`
	Details string `xml:"details"`
	Message string `xml:"message"`
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("sru diagnostic %s: %s %s", d.URI, d.Message, d.Details)
}
