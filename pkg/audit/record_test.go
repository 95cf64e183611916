// Copyright 2025 The MinIO-Ranger Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package audit

import (
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovsyannikovas/minio-ranger-gateway/pkg/authz"
	"github.com/ovsyannikovas/minio-ranger-gateway/pkg/ranger"
)

func TestBuildAllowedRecord(t *testing.T) {
	store := ranger.NewStore()
	store.PutServiceDefID("s3", 42)
	builder := NewBuilder(store, "s3", "gateway-host")

	rec := builder.Build(authz.AuditEvent{
		Allowed:    true,
		PolicyID:   10,
		AccessType: "read",
		User:       "alice",
		Bucket:     "analytics",
		Object:     "file.txt",
		SessionID:  "sess-1",
		ClientIP:   "10.0.0.1",
		Reason:     "policy",
	})

	_, err := uuid.Parse(rec.ID)
	require.NoError(t, err)

	assert.Equal(t, 10, rec.Policy)
	assert.Equal(t, 1, rec.PolicyVersion)
	assert.Equal(t, "read", rec.Access)
	assert.Equal(t, "ranger-acl", rec.Enforcer)
	assert.Equal(t, "analytics", rec.Repo)
	assert.Equal(t, 42, rec.RepoType)
	assert.Equal(t, "sess-1", rec.Sess)
	assert.Equal(t, "alice", rec.ReqUser)
	assert.Equal(t, "/analytics/file.txt", rec.Resource)
	assert.Equal(t, "10.0.0.1", rec.CliIP)
	assert.Equal(t, 1, rec.Result)
	assert.Equal(t, "gateway-host", rec.AgentHost)
	assert.Equal(t, "RangerAudit", rec.LogType)
	assert.Equal(t, "path", rec.ResType)
	assert.Equal(t, "policy", rec.Reason)
	assert.Equal(t, "read", rec.Action)
	assert.Equal(t, 1, rec.SeqNum)
	assert.Equal(t, 1, rec.EventCount)
	assert.Equal(t, 0, rec.EventDurMS)
	assert.Equal(t, []string{}, rec.Tags)
	assert.Empty(t, rec.CliType)
	assert.Empty(t, rec.Cluster)
	assert.Empty(t, rec.Zone)
}

func TestBuildDeniedRecordDefaults(t *testing.T) {
	builder := NewBuilder(ranger.NewStore(), "s3", "gateway-host")

	rec := builder.Build(authz.AuditEvent{
		Allowed:    false,
		PolicyID:   0,
		AccessType: "write",
		User:       "bob",
		Bucket:     "b",
	})

	assert.Equal(t, "no-policy", rec.Policy)
	assert.Equal(t, 0, rec.Result)
	assert.Equal(t, "/b", rec.Resource)
	// Unresolved service definition falls back to 1.
	assert.Equal(t, 1, rec.RepoType)
	// Missing client address falls back to 0.0.0.0.
	assert.Equal(t, "0.0.0.0", rec.CliIP)
}

func TestEvtTimeFormat(t *testing.T) {
	ts := time.Date(2025, 3, 14, 9, 26, 53, 589_000_000, time.UTC)
	assert.Equal(t, "2025-03-14T09:26:53.589Z", evtTime(ts))

	// Always UTC with millisecond precision and a Z suffix.
	pattern := regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z$`)
	assert.Regexp(t, pattern, evtTime(time.Now()))
}
