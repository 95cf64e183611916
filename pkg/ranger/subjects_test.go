// Copyright 2025 The MinIO-Ranger Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package ranger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveCachesAttributes(t *testing.T) {
	var calls atomic.Int32

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"name": "u", "groupNameList": ["dev", "ops"], "userRoleList": []}`))
	}))
	resolver := NewSubjectResolver(client, 10, time.Minute, testLogger(t))

	attrs := resolver.Resolve(context.Background(), "u")
	assert.Equal(t, []string{"dev", "ops"}, attrs.Groups)
	assert.Empty(t, attrs.Roles)

	resolver.Resolve(context.Background(), "u")
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, resolver.Stats().Size)
}

func TestResolveUnknownUserCachedEmpty(t *testing.T) {
	var calls atomic.Int32

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	resolver := NewSubjectResolver(client, 10, time.Minute, testLogger(t))

	attrs := resolver.Resolve(context.Background(), "ghost")
	assert.Empty(t, attrs.Groups)
	assert.Empty(t, attrs.Roles)

	// The negative result is cached too.
	resolver.Resolve(context.Background(), "ghost")
	assert.Equal(t, int32(1), calls.Load())
}

func TestResolveDegradesOnTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connections now fail

	client := NewClient(ClientOptions{BaseURL: srv.URL}, testLogger(t))
	resolver := NewSubjectResolver(client, 10, time.Minute, testLogger(t))

	attrs := resolver.Resolve(context.Background(), "u")
	assert.Empty(t, attrs.Groups)
	assert.Empty(t, attrs.Roles)
}
