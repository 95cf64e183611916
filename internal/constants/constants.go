// Copyright 2025 The MinIO-Ranger Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package constants

// Build-time variables set via ldflags
var (
	Version   = "v0.1.0-dev" // Set via -X flag during build
	CommitSHA = "unknown"    // Set via -X flag during build
	BuildTime = "unknown"    // Set via -X flag during build
)

const (
	GatewayVersion     = "v0.1.0"
	GatewayPIDFilePath = "/var/run/minio-ranger-gateway.pid"

	// config
	ConfigFileName = "gateway.yml"

	// routes
	APICheck      = "/check"
	APIHealth     = "/utils/health-check/"
	APICacheStats = "/utils/cache-stats/"

	// Ranger REST endpoints, relative to the Ranger base URL
	RangerPolicyPathFmt     = "/service/public/v2/api/service/%s/policy"
	RangerServiceDefPathFmt = "/service/public/v2/api/servicedef/name/%s"
	RangerUserPathFmt       = "/service/xusers/users/userName/%s"

	// Role granted unconditional access
	AdminRole = "ROLE_SYS_ADMIN"

	// Audit defaults
	AuditEnforcer      = "ranger-acl"
	AuditLogType       = "RangerAudit"
	AuditResourceType  = "path"
	AuditNoPolicy      = "no-policy"
	AuditPolicyVersion = 1
)
