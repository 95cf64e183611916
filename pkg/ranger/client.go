// Copyright 2025 The MinIO-Ranger Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package ranger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/stratastor/logger"
	"github.com/ovsyannikovas/minio-ranger-gateway/internal/constants"
	"github.com/ovsyannikovas/minio-ranger-gateway/pkg/errors"
	"github.com/ovsyannikovas/minio-ranger-gateway/pkg/httpclient"
)

// Client talks to the Ranger REST API with basic auth. It performs no
// retries of its own; the refresher cadence and the decision path's
// graceful degradation cover transient failures.
type Client struct {
	http   *httpclient.Client
	logger logger.Logger
}

// ClientOptions carries the connection settings for the Ranger admin API.
type ClientOptions struct {
	BaseURL  string
	Username string
	Password string
	Timeout  time.Duration
}

// NewClient creates a Ranger API client.
func NewClient(opts ClientOptions, l logger.Logger) *Client {
	cc := httpclient.NewClientConfig()
	cc.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	cc.BasicAuth.Username = opts.Username
	cc.BasicAuth.Password = opts.Password
	if opts.Timeout > 0 {
		cc.Timeout = opts.Timeout
	}

	return &Client{
		http:   httpclient.NewClient(cc),
		logger: l,
	}
}

// GetPolicies fetches all policies for a service. An empty list means
// "no policies available"; transport and HTTP failures return an error.
func (c *Client) GetPolicies(ctx context.Context, serviceName string) ([]Policy, error) {
	path := fmt.Sprintf(constants.RangerPolicyPathFmt, serviceName)

	resp, err := c.http.R().SetContext(ctx).Get(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.RangerRequestFailed).
			WithMetadata("service", serviceName)
	}
	if resp.IsError() {
		return nil, errors.New(errors.RangerRequestFailed,
			fmt.Sprintf("GET %s returned %s", path, resp.Status())).
			WithMetadata("service", serviceName)
	}

	policies, err := ParsePolicies(resp.Body())
	if err != nil {
		return nil, errors.Wrap(err, errors.RangerUnexpectedResponse).
			WithMetadata("service", serviceName)
	}

	c.logger.Debug("Fetched policies from Ranger",
		"service", serviceName, "count", len(policies))
	return policies, nil
}

// GetServiceDefID resolves a service-definition name to its numeric id.
// Returns (nil, nil) when the definition does not exist.
func (c *Client) GetServiceDefID(ctx context.Context, serviceDefName string) (*int, error) {
	path := fmt.Sprintf(constants.RangerServiceDefPathFmt, serviceDefName)

	resp, err := c.http.R().SetContext(ctx).Get(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.RangerRequestFailed).
			WithMetadata("servicedef", serviceDefName)
	}
	if resp.StatusCode() == http.StatusNotFound {
		c.logger.Warn("Service definition not found in Ranger", "servicedef", serviceDefName)
		return nil, nil
	}
	if resp.IsError() {
		return nil, errors.New(errors.RangerRequestFailed,
			fmt.Sprintf("GET %s returned %s", path, resp.Status())).
			WithMetadata("servicedef", serviceDefName)
	}

	var body struct {
		ID *int `json:"id"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, errors.Wrap(err, errors.RangerUnexpectedResponse).
			WithMetadata("servicedef", serviceDefName)
	}
	if body.ID == nil {
		c.logger.Warn("Service definition response carries no id", "servicedef", serviceDefName)
		return nil, nil
	}

	return body.ID, nil
}

// GetUser fetches a user record with its groups and roles.
// Returns (nil, nil) when the user is unknown to Ranger.
func (c *Client) GetUser(ctx context.Context, username string) (*UserInfo, error) {
	path := fmt.Sprintf(constants.RangerUserPathFmt, username)

	resp, err := c.http.R().SetContext(ctx).Get(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.RangerRequestFailed).
			WithMetadata("user", username)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if resp.IsError() {
		return nil, errors.New(errors.RangerRequestFailed,
			fmt.Sprintf("GET %s returned %s", path, resp.Status())).
			WithMetadata("user", username)
	}

	var user UserInfo
	if err := json.Unmarshal(resp.Body(), &user); err != nil {
		return nil, errors.Wrap(err, errors.RangerUnexpectedResponse).
			WithMetadata("user", username)
	}

	return &user, nil
}
