// Copyright 2025 The MinIO-Ranger Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package ranger

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rangerStub(t *testing.T, policiesStatus, defStatus int) (*Client, *Store) {
	t.Helper()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "/servicedef/"):
			if defStatus != http.StatusOK {
				w.WriteHeader(defStatus)
				return
			}
			w.Write([]byte(`{"id": 5, "name": "s3"}`))
		default:
			if policiesStatus != http.StatusOK {
				w.WriteHeader(policiesStatus)
				return
			}
			w.Write([]byte(`[{"id": 1, "name": "p1"}, {"id": 2, "name": "p2"}]`))
		}
	}))
	return client, NewStore()
}

func TestRefreshPublishesSnapshot(t *testing.T) {
	client, store := rangerStub(t, http.StatusOK, http.StatusOK)
	r, err := NewRefresher(client, store, "minio", "s3", time.Hour, testLogger(t))
	require.NoError(t, err)

	require.NoError(t, r.Refresh(context.Background()))

	snap := store.GetPolicies("minio")
	require.NotNil(t, snap)
	assert.Len(t, snap.Policies, 2)
	require.NotNil(t, snap.ServiceDefID)
	assert.Equal(t, 5, *snap.ServiceDefID)

	id, ok := store.GetServiceDefID("s3")
	assert.True(t, ok)
	assert.Equal(t, 5, id)
}

func TestRefreshFailureKeepsPreviousSnapshot(t *testing.T) {
	client, store := rangerStub(t, http.StatusInternalServerError, http.StatusOK)
	store.PutPolicies("minio", []Policy{{ID: 99}}, nil)

	r, err := NewRefresher(client, store, "minio", "s3", time.Hour, testLogger(t))
	require.NoError(t, err)

	assert.Error(t, r.Refresh(context.Background()))

	snap := store.GetPolicies("minio")
	require.NotNil(t, snap)
	assert.Equal(t, 99, snap.Policies[0].ID)
}

func TestRefreshToleratesServiceDefFailure(t *testing.T) {
	client, store := rangerStub(t, http.StatusOK, http.StatusInternalServerError)
	r, err := NewRefresher(client, store, "minio", "s3", time.Hour, testLogger(t))
	require.NoError(t, err)

	// A failed servicedef lookup must not discard the policy fetch.
	require.NoError(t, r.Refresh(context.Background()))

	snap := store.GetPolicies("minio")
	require.NotNil(t, snap)
	assert.Len(t, snap.Policies, 2)
	assert.Nil(t, snap.ServiceDefID)
}

func TestRefreshDiscardsAfterCancellation(t *testing.T) {
	client, store := rangerStub(t, http.StatusOK, http.StatusOK)
	r, err := NewRefresher(client, store, "minio", "s3", time.Hour, testLogger(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, r.Refresh(ctx))
	assert.Nil(t, store.GetPolicies("minio"))
}

func TestRefresherStartStop(t *testing.T) {
	client, store := rangerStub(t, http.StatusOK, http.StatusOK)
	r, err := NewRefresher(client, store, "minio", "s3", time.Hour, testLogger(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start performs one synchronous load before scheduling.
	require.NoError(t, r.Start(ctx))
	assert.NotNil(t, store.GetPolicies("minio"))

	require.NoError(t, r.Stop())
	// Stop is idempotent.
	require.NoError(t, r.Stop())
}
