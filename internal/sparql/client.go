// Package sparql talks to a SPARQL 1.1 query/update endpoint over HTTP.
package sparql

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"evalgo.org/dumppublisher/internal/domain"
)

const (
	contentTypeResults = "application/sparql-results+json"
	sudoHeader         = "mu-auth-sudo"
	maxErrorBody       = 512
)

// Executor runs read and write requests against a triplestore.
type Executor interface {
	Query(ctx context.Context, query string) (*Results, error)
	Update(ctx context.Context, update string) error
}

// Config configures a Client.
type Config struct {
	QueryEndpoint  string        // Endpoint receiving SELECT queries
	UpdateEndpoint string        // Endpoint receiving updates, defaults to QueryEndpoint
	Sudo           bool          // Send the mu-auth-sudo header
	Retries        int           // Retries for read queries on transport or 5xx errors
	Timeout        time.Duration // Per request timeout, zero means none
}

// Client is a SPARQL protocol client. Reads are retried, writes are not.
type Client struct {
	cfg    Config
	reader *resty.Client
	writer *resty.Client
	log    *logrus.Entry
}

// NewClient creates a client on top of httpClient. A nil httpClient uses a
// default client.
func NewClient(cfg Config, httpClient *http.Client, log *logrus.Entry) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if cfg.UpdateEndpoint == "" {
		cfg.UpdateEndpoint = cfg.QueryEndpoint
	}

	reader := resty.NewWithClient(httpClient).
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || (r != nil && r.StatusCode() >= http.StatusInternalServerError)
		})
	writer := resty.NewWithClient(httpClient)

	for _, rc := range []*resty.Client{reader, writer} {
		if cfg.Timeout > 0 {
			rc.SetTimeout(cfg.Timeout)
		}
		if cfg.Sudo {
			rc.SetHeader(sudoHeader, "true")
		}
	}

	return &Client{
		cfg:    cfg,
		reader: reader,
		writer: writer,
		log:    log,
	}
}

// Endpoint returns the query endpoint of the client.
func (c *Client) Endpoint() string {
	return c.cfg.QueryEndpoint
}

// Query executes a SELECT query and decodes the JSON results.
func (c *Client) Query(ctx context.Context, query string) (*Results, error) {
	c.log.WithField("endpoint", c.cfg.QueryEndpoint).Debugf("executing query:\n%s", query)

	resp, err := c.reader.R().
		SetContext(ctx).
		SetHeader("Accept", contentTypeResults).
		SetFormData(map[string]string{"query": query}).
		Post(c.cfg.QueryEndpoint)
	if err != nil {
		return nil, domain.NewOperationError("sparql-query", "request to "+c.cfg.QueryEndpoint+" failed", err)
	}
	if resp.IsError() {
		return nil, domain.NewOperationError("sparql-query", statusMessage(resp), nil)
	}

	var results Results
	if err := json.Unmarshal(resp.Body(), &results); err != nil {
		return nil, domain.NewOperationError("sparql-query", "malformed results document", err)
	}
	return &results, nil
}

// Update executes an update request.
func (c *Client) Update(ctx context.Context, update string) error {
	c.log.WithField("endpoint", c.cfg.UpdateEndpoint).Debugf("executing update:\n%s", update)

	resp, err := c.writer.R().
		SetContext(ctx).
		SetHeader("Accept", contentTypeResults).
		SetFormData(map[string]string{"update": update}).
		Post(c.cfg.UpdateEndpoint)
	if err != nil {
		return domain.NewOperationError("sparql-update", "request to "+c.cfg.UpdateEndpoint+" failed", err)
	}
	if resp.IsError() {
		return domain.NewOperationError("sparql-update", statusMessage(resp), nil)
	}
	return nil
}

func statusMessage(resp *resty.Response) string {
	body := resp.String()
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody] + "..."
	}
	return fmt.Sprintf("endpoint returned %s: %s", resp.Status(), body)
}
