// Package client talks to the grantflow backend: persisting form documents,
// fetching tenant schemas, and submitting answer sets tied to disbursement
// records.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/grantflow/formkit/pkg/model"
	"github.com/grantflow/formkit/pkg/schema"
)

// SchemaType distinguishes the two tenant-customisable request schemas.
type SchemaType string

const (
	// SchemaTypeBudgetRequest is the schema behind budget-request forms.
	SchemaTypeBudgetRequest SchemaType = "RFQ"
	// SchemaTypeMilestoneRelease is the schema behind milestone-release forms.
	SchemaTypeMilestoneRelease SchemaType = "RFP"
)

// Option configures the client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithToken sets the bearer token attached to every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// WithOrganization sets the organization header attached to every request.
func WithOrganization(id string) Option {
	return func(c *Client) {
		c.organizationID = strings.TrimSpace(id)
	}
}

// WithTimeout bounds each request with a per-call deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// Client is a thin JSON client over the backend REST surface. Safe for
// concurrent use.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	token          string
	organizationID string
	timeout        time.Duration
}

// New constructs a Client rooted at baseURL (e.g. "https://api.example.com").
func New(baseURL string, options ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("client: base URL is required")
	}
	if _, err := url.ParseRequestURI(trimmed); err != nil {
		return nil, fmt.Errorf("client: invalid base URL: %w", err)
	}

	c := &Client{
		baseURL:    trimmed,
		httpClient: http.DefaultClient,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// SaveForm persists a builder document. The published flag is forced on by
// Builder.Document before this is called; the payload travels as-is.
func (c *Client) SaveForm(ctx context.Context, doc model.FormDocument) error {
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("client: %w", err)
	}
	_, err := c.do(ctx, http.MethodPost, "/api/forms", nil, doc)
	return err
}

// FetchForm retrieves a form document by id. The body is parsed tolerantly,
// accepting double-encoded payloads.
func (c *Client) FetchForm(ctx context.Context, id string) (model.FormDocument, error) {
	if strings.TrimSpace(id) == "" {
		return model.FormDocument{}, errors.New("client: form id is required")
	}
	body, err := c.do(ctx, http.MethodGet, "/api/forms/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return model.FormDocument{}, err
	}
	doc, err := model.ParseFormDocument(body)
	if err != nil {
		return model.FormDocument{}, fmt.Errorf("client: %w", err)
	}
	return doc, nil
}

// templatePayload is the persisted shape of a tenant request schema.
type templatePayload struct {
	TenantID   string     `json:"tenantId"`
	Type       SchemaType `json:"type"`
	SchemaJSON string     `json:"schemaJson"`
}

// SaveTemplate persists a form document as the tenant's request schema for
// the given type. The document is serialized into the schemaJson string the
// backend stores verbatim.
func (c *Client) SaveTemplate(ctx context.Context, tenantID string, schemaType SchemaType, doc model.FormDocument) error {
	if strings.TrimSpace(tenantID) == "" {
		return errors.New("client: tenant id is required")
	}
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("client: %w", err)
	}

	encoded, err := model.EncodeFormDocument(doc)
	if err != nil {
		return fmt.Errorf("client: %w", err)
	}

	_, err = c.do(ctx, http.MethodPost, "/api/schemas", nil, templatePayload{
		TenantID:   tenantID,
		Type:       schemaType,
		SchemaJSON: string(encoded),
	})
	return err
}

// FetchSchemaDocument retrieves the tenant's request schema for the given
// type, wrapped with its endpoint of origin. The stored schemaJson is often a
// string containing JSON; descriptor decoding tolerates that double encoding.
func (c *Client) FetchSchemaDocument(ctx context.Context, tenantID string, schemaType SchemaType) (schema.Document, error) {
	if strings.TrimSpace(tenantID) == "" {
		return schema.Document{}, errors.New("client: tenant id is required")
	}

	query := url.Values{}
	query.Set("tenantId", tenantID)
	query.Set("type", string(schemaType))

	body, err := c.do(ctx, http.MethodGet, "/api/schemas", query, nil)
	if err != nil {
		return schema.Document{}, err
	}

	var payload templatePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return schema.Document{}, fmt.Errorf("client: decode schema response: %w", err)
	}
	if strings.TrimSpace(payload.SchemaJSON) == "" {
		return schema.Document{}, nil
	}

	src := schema.SourceFromURL(c.baseURL + "/api/schemas?" + query.Encode())
	doc, err := schema.NewDocument(src, []byte(payload.SchemaJSON))
	if err != nil {
		return schema.Document{}, fmt.Errorf("client: %w", err)
	}
	return doc, nil
}

// FetchSchema retrieves the tenant's request schema and decodes it into
// top-level descriptors. An absent schema yields a nil slice.
func (c *Client) FetchSchema(ctx context.Context, tenantID string, schemaType SchemaType) ([]schema.Descriptor, error) {
	doc, err := c.FetchSchemaDocument(ctx, tenantID, schemaType)
	if err != nil {
		return nil, err
	}
	if len(doc.Raw()) == 0 {
		return nil, nil
	}
	descriptors, err := doc.Descriptors()
	if err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}
	return descriptors, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	reqCtx := ctx
	var cancel context.CancelFunc
	if c.timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("client: encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(reqCtx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.organizationID != "" {
		req.Header.Set("X-ORGANIZATION-ID", c.organizationID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("client: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("client: %s %s: unexpected status %s", method, path, resp.Status)
	}
	return data, nil
}
