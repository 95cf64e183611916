// Copyright 2025 The MinIO-Ranger Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stratastor/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovsyannikovas/minio-ranger-gateway/pkg/authz"
	"github.com/ovsyannikovas/minio-ranger-gateway/pkg/ranger"
)

func testLogger(t *testing.T) logger.Logger {
	t.Helper()
	l, err := logger.NewTag(logger.Config{LogLevel: "debug"}, "test.api")
	require.NoError(t, err)
	return l
}

// newTestRouter builds a router whose engine evaluates the given policies.
// User lookups against the stub Ranger return 404, so subjects resolve to
// empty attributes.
func newTestRouter(t *testing.T, policies []ranger.Policy) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	l := testLogger(t)
	client := ranger.NewClient(ranger.ClientOptions{BaseURL: srv.URL}, l)
	store := ranger.NewStore()
	if policies != nil {
		store.PutPolicies("minio", policies, nil)
	}

	engine := authz.NewEngine(
		store,
		ranger.NewSubjectResolver(client, 10, time.Minute, l),
		authz.NewDecisionCache(10, time.Minute),
		nil,
		"minio",
		l,
	)

	router := gin.New()
	NewHandler(engine, nil, l).RegisterRoutes(router.Group("/"))
	return router
}

func readPolicy(id int, bucket, user string) ranger.Policy {
	return ranger.Policy{
		ID: id,
		Resources: map[string]ranger.ResourceSpec{
			ranger.ResourceBucket: {Values: []string{bucket}},
		},
		PolicyItems: []ranger.PolicyItem{{
			Users:    []string{user},
			Accesses: []ranger.Access{{Type: "read", IsAllowed: true}},
		}},
	}
}

func postCheck(router *gin.Engine, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/check", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCheckAllowed(t *testing.T) {
	router := newTestRouter(t, []ranger.Policy{readPolicy(10, "analytics", "alice")})

	w := postCheck(router, `{
		"input": {
			"bucket": "analytics",
			"object": "file.txt",
			"action": "s3:GetObject",
			"conditions": {"username": ["alice"]}
		}
	}`, nil)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["result"])
	assert.Contains(t, body, "timings_ms")
}

func TestCheckDenied(t *testing.T) {
	router := newTestRouter(t, []ranger.Policy{readPolicy(10, "analytics", "alice")})

	w := postCheck(router, `{
		"input": {
			"bucket": "analytics",
			"object": "file.txt",
			"action": "s3:GetObject",
			"conditions": {"username": ["mallory"]}
		}
	}`, nil)

	require.Equal(t, http.StatusForbidden, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Access denied", body["error"])
	assert.Equal(t, "mallory", body["user"])
	assert.Equal(t, "/analytics/file.txt", body["resource"])
	assert.Equal(t, "read", body["action"])
	assert.Contains(t, body, "policy_id")
}

func TestCheckMissingUsername(t *testing.T) {
	router := newTestRouter(t, nil)

	for _, body := range []string{
		`{"input": {"bucket": "b", "action": "s3:GetObject", "conditions": {"username": []}}}`,
		`{"input": {"bucket": "b", "action": "s3:GetObject", "conditions": {"username": ["", ""]}}}`,
	} {
		w := postCheck(router, body, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestCheckMalformedBody(t *testing.T) {
	router := newTestRouter(t, nil)

	w := postCheck(router, `{not json`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckJoinedPath(t *testing.T) {
	router := newTestRouter(t, []ranger.Policy{readPolicy(10, "analytics", "alice")})

	w := postCheck(router, `{
		"input": {
			"path": "/analytics/file.txt",
			"action": "s3:GetObject",
			"conditions": {"username": ["alice"]}
		}
	}`, nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthCheckRoute(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/utils/health-check/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())
}

func TestCacheStatsRoute(t *testing.T) {
	router := newTestRouter(t, []ranger.Policy{readPolicy(1, "b", "u")})

	req := httptest.NewRequest(http.MethodGet, "/utils/cache-stats/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body, "engine")
}

func TestSplitBucketObject(t *testing.T) {
	testCases := []struct {
		path   string
		bucket string
		object string
	}{
		{"/analytics/file.txt", "analytics", "file.txt"},
		{"analytics/dir/file.txt", "analytics", "dir/file.txt"},
		{"/analytics", "analytics", ""},
		{"", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			bucket, object := SplitBucketObject(tc.path)
			assert.Equal(t, tc.bucket, bucket)
			assert.Equal(t, tc.object, object)
		})
	}
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "a", firstNonEmpty([]string{"", "a", "b"}))
	assert.Equal(t, "", firstNonEmpty(nil))
	assert.Equal(t, "", firstNonEmpty([]string{"", ""}))
}

func TestIPWhitelist(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l := testLogger(t)

	router := gin.New()
	router.Use(IPWhitelist([]string{"10.0.0.0/8", "192.168.1.5", "garbage"}, l))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	testCases := []struct {
		name     string
		ip       string
		expected int
	}{
		{"CIDRMatch", "10.1.2.3", http.StatusOK},
		{"ExactMatch", "192.168.1.5", http.StatusOK},
		{"Rejected", "172.16.0.1", http.StatusForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			req.Header.Set("X-Forwarded-For", tc.ip)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tc.expected, w.Code)
		})
	}
}

func TestIPWhitelistDisabledWhenEmpty(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(IPWhitelist(nil, testLogger(t)))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
