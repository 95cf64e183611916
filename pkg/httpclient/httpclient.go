// Copyright 2025 The MinIO-Ranger Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package httpclient

import (
	"crypto/tls"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/ovsyannikovas/minio-ranger-gateway/internal/constants"
)

const (
	defaultTimeout         = 10 * time.Second
	defaultMaxIdleConns    = 100
	defaultIdleConnTimeout = 90 * time.Second
	defaultUserAgent       = "MinIO-Ranger-Gateway"
)

// Client wraps resty.Client with additional functionality
type Client struct {
	*resty.Client
	config ClientConfig
}

// ClientConfig holds configuration values for the HTTP client
type ClientConfig struct {
	BaseURL          string
	Timeout          time.Duration
	RetryCount       int
	RetryWaitTime    time.Duration
	RetryMaxWaitTime time.Duration
	UserAgent        string
	Headers          map[string]string

	// Transport settings
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
	AllowInsecure       bool

	// Authentication
	BasicAuth struct {
		Username string
		Password string
	}

	// Debug settings
	Debug bool
}

// NewClientConfig returns a ClientConfig with sensible defaults.
// Retries are disabled by default: the policy refresher's cadence and the
// audit queue provide the retry semantics where they are wanted.
func NewClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:         defaultTimeout,
		RetryCount:      0,
		Headers:         make(map[string]string),
		MaxIdleConns:    defaultMaxIdleConns,
		IdleConnTimeout: defaultIdleConnTimeout,
		UserAgent:       defaultUserAgent + "/" + constants.GatewayVersion,
	}
}

// NewClient creates a new Resty client with provided configuration
func NewClient(config ClientConfig) *Client {
	client := &Client{
		Client: resty.New(),
		config: config,
	}

	client.applyConfig()

	return client
}

func (c *Client) applyConfig() {
	if c.config.Timeout > 0 {
		c.Client.SetTimeout(c.config.Timeout)
	}
	if c.config.RetryCount > 0 {
		c.Client.SetRetryCount(c.config.RetryCount)
	}
	if c.config.RetryWaitTime > 0 {
		c.Client.SetRetryWaitTime(c.config.RetryWaitTime)
	}
	if c.config.RetryMaxWaitTime > 0 {
		c.Client.SetRetryMaxWaitTime(c.config.RetryMaxWaitTime)
	}
	if c.config.UserAgent != "" {
		c.Client.SetHeader("User-Agent", c.config.UserAgent)
	}
	if c.config.BaseURL != "" {
		c.Client.SetBaseURL(c.config.BaseURL)
	}
	if c.config.Headers != nil {
		c.Client.SetHeaders(c.config.Headers)
	}
	if c.config.BasicAuth.Username != "" && c.config.BasicAuth.Password != "" {
		c.Client.SetBasicAuth(c.config.BasicAuth.Username, c.config.BasicAuth.Password)
	}
	if c.config.Debug {
		c.Client.SetDebug(true)
	} else {
		c.Client.SetDebug(false)
		// Suppress Resty logs by setting a no-op logger
		c.Client.SetLogger(NoOpLogger{})
	}

	transport := &http.Transport{
		MaxIdleConns:        c.config.MaxIdleConns,
		MaxIdleConnsPerHost: c.config.MaxIdleConnsPerHost,
		IdleConnTimeout:     c.config.IdleConnTimeout,
	}
	if c.config.AllowInsecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	c.Client.SetTransport(transport)
}

// NoOpLogger suppresses all logs
type NoOpLogger struct{}

func (l NoOpLogger) Printf(format string, v ...interface{}) {}

func (l NoOpLogger) Debugf(format string, v ...interface{}) {}

func (l NoOpLogger) Warnf(format string, v ...interface{}) {}

func (l NoOpLogger) Errorf(format string, v ...interface{}) {}
