package records

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ofte-auth/ponto/internal/model"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// A client for the lab's records REST API (a php-crud-api deployment).
// Every call goes to the network: nothing is cached and pages are not
// followed, which is fine for the handful of users a lab kiosk serves.

// Error kinds, test with errors.Cause.
var (
	ErrRemoteUnavailable = errors.New("records api unavailable")
	ErrRemoteFormat      = errors.New("unexpected records api payload")
)

// Config defines records API client configuration.
type Config struct {
	BaseURL          string
	AllocationsView  string
	AccessCollection string
	Timeout          time.Duration
	HTTPClient       *http.Client
}

// Client defines the operations against the records API.
type Client interface {
	// Allocations lists every valid row of the allocations view. Invalid rows
	// are logged and left out.
	Allocations(ctx context.Context) ([]*model.Allocation, error)
	// UserAllocations lists a user's rows along with their distinct projects.
	// Any invalid row fails the call.
	UserAllocations(ctx context.Context, userID string) ([]string, []*model.Allocation, error)
	// RegisterAccess writes an access row for an allocation. It is not retried.
	RegisterAccess(ctx context.Context, allocationID int64) (*model.AccessEvent, error)
	// Ping checks that the allocations view answers.
	Ping(ctx context.Context) error
}

type client struct {
	base             string
	allocationsView  string
	accessCollection string
	http             *http.Client
}

// NewClient creates a records API client.
func NewClient(config Config) (Client, error) {
	if config.BaseURL == "" {
		return nil, errors.New("no records api base url supplied")
	}
	if _, err := url.Parse(config.BaseURL); err != nil {
		return nil, errors.Wrapf(err, "parsing records api base url %s", config.BaseURL)
	}
	c := &client{
		base:             strings.TrimRight(config.BaseURL, "/"),
		allocationsView:  config.AllocationsView,
		accessCollection: config.AccessCollection,
		http:             config.HTTPClient,
	}
	if c.allocationsView == "" {
		c.allocationsView = "vwAlocacoes"
	}
	if c.accessCollection == "" {
		c.accessCollection = "acessos"
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: config.Timeout}
	}
	return c, nil
}

func (c *client) Allocations(ctx context.Context) ([]*model.Allocation, error) {
	records, err := c.list(ctx, c.allocationsView, nil)
	if err != nil {
		return nil, err
	}
	// A bad row belongs to one user and must not fail every card lookup.
	allocations, err := model.DecodeAllocations(records)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"view":    c.allocationsView,
			"skipped": len(records) - len(allocations),
		}).Warning("Skipping invalid allocation rows")
	}
	return allocations, nil
}

func (c *client) UserAllocations(ctx context.Context, userID string) ([]string, []*model.Allocation, error) {
	query := url.Values{}
	query.Set("filter", fmt.Sprintf("%s,eq,%s", model.FieldUserID, userID))
	records, err := c.list(ctx, c.allocationsView, query)
	if err != nil {
		return nil, nil, err
	}
	allocations, err := parseAllocations(records)
	if err != nil {
		return nil, nil, err
	}
	return model.Projects(allocations), allocations, nil
}

func (c *client) RegisterAccess(ctx context.Context, allocationID int64) (*model.AccessEvent, error) {
	payload, err := json.Marshal(map[string]int64{model.FieldAccessAllocation: allocationID})
	if err != nil {
		return nil, errors.Wrap(err, "marshalling access payload")
	}
	body, err := c.do(ctx, http.MethodPost, c.url(c.accessCollection, nil), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	var created interface{}
	d := json.NewDecoder(bytes.NewReader(body))
	d.UseNumber()
	if err = d.Decode(&created); err != nil {
		return nil, errors.Wrapf(ErrRemoteFormat, "decoding access confirmation: %v", err)
	}
	event := &model.AccessEvent{
		AllocationID: allocationID,
		RegisteredAt: time.Now().UTC(),
	}
	switch v := created.(type) {
	case json.Number:
		event.RemoteID = v.String()
	case string:
		event.RemoteID = v
	}
	return event, nil
}

func (c *client) Ping(ctx context.Context) error {
	query := url.Values{}
	query.Set("size", "1")
	_, err := c.do(ctx, http.MethodGet, c.url(c.allocationsView, query), nil)
	return err
}

func (c *client) url(collection string, query url.Values) string {
	u := fmt.Sprintf("%s/%s", c.base, collection)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// list reads the `records` member of a collection listing.
func (c *client) list(ctx context.Context, collection string, query url.Values) ([]model.Record, error) {
	body, err := c.do(ctx, http.MethodGet, c.url(collection, query), nil)
	if err != nil {
		return nil, err
	}
	var envelope map[string]json.RawMessage
	if err = json.Unmarshal(body, &envelope); err != nil {
		return nil, errors.Wrapf(ErrRemoteFormat, "decoding %s listing: %v", collection, err)
	}
	raw, ok := envelope["records"]
	if !ok {
		return nil, errors.Wrapf(ErrRemoteFormat, "%s listing has no records field", collection)
	}
	var records []model.Record
	d := json.NewDecoder(bytes.NewReader(raw))
	d.UseNumber()
	if err = d.Decode(&records); err != nil {
		return nil, errors.Wrapf(ErrRemoteFormat, "decoding %s records: %v", collection, err)
	}
	return records, nil
}

func (c *client) do(ctx context.Context, method, u string, payload io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, payload)
	if err != nil {
		return nil, errors.Wrapf(err, "creating %s request", method)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		log.WithError(err).WithField("url", u).Warning("Error querying records api")
		return nil, errors.Wrapf(ErrRemoteUnavailable, "%s %s: %v", method, u, err)
	}
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(ErrRemoteUnavailable, "reading response of %s %s: %v", method, u, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.WithField("url", u).WithField("status", resp.StatusCode).Warning("Non 2xx result from records api")
		return nil, errors.Wrapf(ErrRemoteUnavailable, "%s %s: status %d", method, u, resp.StatusCode)
	}
	return body, nil
}

func parseAllocations(records []model.Record) ([]*model.Allocation, error) {
	allocations, err := model.NewAllocations(records)
	if err != nil {
		return nil, errors.Wrapf(ErrRemoteFormat, "%v", err)
	}
	return allocations, nil
}
