// Copyright 2025 The MinIO-Ranger Gateway Authors
// SPDX-License-Identifier: Apache-2.0

// Package api is the HTTP façade of the gateway: the /check decision
// endpoint plus the health and cache-stats utility routes.
package api

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stratastor/logger"

	"github.com/ovsyannikovas/minio-ranger-gateway/internal/constants"
	"github.com/ovsyannikovas/minio-ranger-gateway/pkg/audit"
	"github.com/ovsyannikovas/minio-ranger-gateway/pkg/authz"
	"github.com/ovsyannikovas/minio-ranger-gateway/pkg/errors"
)

// checkRequest is the normalized decision request posted by the ingress.
// The username arrives as a list for historical reasons; the first
// non-empty entry is the subject.
type checkRequest struct {
	Input struct {
		Bucket     string  `json:"bucket"`
		Object     *string `json:"object"`
		Path       string  `json:"path"`
		Action     string  `json:"action"`
		Conditions struct {
			Username []string `json:"username"`
		} `json:"conditions"`
	} `json:"input" binding:"required"`
}

// Handler handles HTTP requests for authorization decisions
type Handler struct {
	engine  *authz.Engine
	emitter *audit.Emitter
	logger  logger.Logger
}

// NewHandler creates a new decision handler. emitter may be nil when audit
// delivery is disabled.
func NewHandler(engine *authz.Engine, emitter *audit.Emitter, l logger.Logger) *Handler {
	return &Handler{
		engine:  engine,
		emitter: emitter,
		logger:  l,
	}
}

// RegisterRoutes registers HTTP routes for the decision endpoint and the
// utility surface.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST(constants.APICheck, h.check)

	utils := router.Group("/utils")
	{
		utils.GET("/health-check/", h.healthCheck)
		utils.GET("/cache-stats/", h.cacheStats)
	}
}

// check runs the decision pipeline for one request
func (h *Handler) check(c *gin.Context) {
	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.New(errors.ServerRequestValidation, err.Error()))
		return
	}

	bucket := req.Input.Bucket
	object := req.Input.Object
	if bucket == "" && req.Input.Path != "" {
		b, o := SplitBucketObject(req.Input.Path)
		bucket = b
		if o != "" {
			object = &o
		}
	}

	in := authz.CheckInput{
		User:      firstNonEmpty(req.Input.Conditions.Username),
		Bucket:    bucket,
		Object:    object,
		Action:    req.Input.Action,
		SessionID: c.GetHeader("X-Session-Id"),
		ClientIP:  clientIP(c),
	}

	result, err := h.engine.Check(c.Request.Context(), in)
	if err != nil {
		if errors.IsGatewayError(err, errors.AuthzMissingUser) {
			c.JSON(http.StatusBadRequest, err)
			return
		}
		c.JSON(errors.GetHTTPStatus(err), errors.Wrap(err, errors.ServerInternalError))
		return
	}

	if !result.Allowed {
		c.JSON(http.StatusForbidden, gin.H{
			"error":     "Access denied",
			"user":      in.User,
			"resource":  resourcePath(bucket, object),
			"action":    string(result.AccessType),
			"policy_id": result.PolicyID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":     true,
		"timings_ms": result.Timings,
	})
}

func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// cacheStats reports snapshot store, subject cache, decision cache and
// audit delivery counters
func (h *Handler) cacheStats(c *gin.Context) {
	stats := gin.H{"engine": h.engine.Stats()}
	if h.emitter != nil {
		stats["audit"] = h.emitter.Stats()
	}
	c.JSON(http.StatusOK, stats)
}

// firstNonEmpty returns the first non-empty string of the list, or "".
func firstNonEmpty(values []string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// SplitBucketObject splits a joined resource path like "/bucket/a/b" into
// its bucket and object parts. The object part is empty for bucket-level
// paths.
func SplitBucketObject(path string) (bucket, object string) {
	trimmed := strings.TrimPrefix(path, "/")
	bucket, object, _ = strings.Cut(trimmed, "/")
	return bucket, object
}

func resourcePath(bucket string, object *string) string {
	if object != nil && *object != "" {
		return "/" + bucket + "/" + *object
	}
	return "/" + bucket
}

// clientIP prefers the first entry of X-Forwarded-For, then the transport
// peer address.
func clientIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		for _, part := range strings.Split(xff, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if host, _, err := net.SplitHostPort(c.Request.RemoteAddr); err == nil && host != "" {
		return host
	}
	return "0.0.0.0"
}
