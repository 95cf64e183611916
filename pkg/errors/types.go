// Copyright 2025 The MinIO-Ranger Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package errors

import "net/http"

// ErrorCode represents unique error identifiers
type ErrorCode int

// Domain represents the subsystem where the error originated
type Domain string

const (
	DomainConfig    Domain = "CONFIG"
	DomainServer    Domain = "SERVER"
	DomainRanger    Domain = "RANGER"
	DomainAuthz     Domain = "AUTHZ"
	DomainAudit     Domain = "AUDIT"
	DomainLifecycle Domain = "LIFECYCLE"
	DomainMisc      Domain = "MISC"
)

// Error code ranges:
// 1000-1099: Configuration errors
// 1100-1199: Server errors
// 1200-1299: Ranger policy source errors
// 1300-1399: Authorization errors
// 1400-1499: Audit errors
// 1500-1599: Lifecycle management
// 1600-1699: Miscellaneous
const (
	// Configuration Errors (1000-1099)
	ConfigNotFound    ErrorCode = 1000 + iota // Config file not found
	ConfigInvalid                             // Invalid config format
	ConfigLoadFailed                          // Failed to load config
	ConfigWriteFailed                         // Failed to write config
	ConfigUnmarshalFailed
)

const (
	// Server Errors (1100-1199)
	ServerStart             ErrorCode = 1100 + iota // Failed to start server
	ServerShutdown                                  // Error during shutdown
	ServerBind                                      // Failed to bind port
	ServerRequestValidation                         // Request validation failed
	ServerInternalError
	ServerIPNotAllowed // Peer address rejected by whitelist
)

const (
	// Ranger policy source errors (1200-1299)
	RangerRequestFailed      ErrorCode = 1200 + iota // Transport failure against Ranger
	RangerUnexpectedResponse                         // Response shape not understood
	RangerUserNotFound                               // User unknown to Ranger
	RangerServiceDefNotFound                         // Service definition unknown to Ranger
)

const (
	// Authorization errors (1300-1399)
	AuthzAccessDenied  ErrorCode = 1300 + iota // No policy authorizes the request
	AuthzEmptySnapshot                         // No policies loaded yet
	AuthzMissingUser                           // Request carries no username
)

const (
	// Audit errors (1400-1499)
	AuditEmitFailed    ErrorCode = 1400 + iota // Audit sink rejected or unreachable
	AuditQueueOverflow                         // Bounded audit queue full, record dropped
)

const (
	// Lifecycle Errors (1500-1599)
	LifecycleSignal ErrorCode = 1500 + iota // Signal handling error
	LifecycleDaemon                         // Daemon operation failed
)

const (
	// Miscellaneous (1600-1699)
	GatewayMisc ErrorCode = 1600 + iota // Miscellaneous program error
	LoggerError                         // Logger error
	SchedulerError
)

var errorDefinitions = map[ErrorCode]struct {
	message    string
	domain     Domain
	httpStatus int
}{
	ConfigNotFound:        {"Configuration file not found", DomainConfig, http.StatusInternalServerError},
	ConfigInvalid:         {"Invalid configuration", DomainConfig, http.StatusInternalServerError},
	ConfigLoadFailed:      {"Failed to load configuration", DomainConfig, http.StatusInternalServerError},
	ConfigWriteFailed:     {"Failed to write configuration", DomainConfig, http.StatusInternalServerError},
	ConfigUnmarshalFailed: {"Failed to parse configuration", DomainConfig, http.StatusInternalServerError},

	ServerStart:             {"Failed to start the server", DomainServer, http.StatusInternalServerError},
	ServerShutdown:          {"Error during server shutdown", DomainServer, http.StatusInternalServerError},
	ServerBind:              {"Failed to bind server port", DomainServer, http.StatusInternalServerError},
	ServerRequestValidation: {"Request validation failed", DomainServer, http.StatusBadRequest},
	ServerInternalError:     {"Internal server error", DomainServer, http.StatusInternalServerError},
	ServerIPNotAllowed:      {"Client address not allowed", DomainServer, http.StatusForbidden},

	RangerRequestFailed:      {"Policy source request failed", DomainRanger, http.StatusBadGateway},
	RangerUnexpectedResponse: {"Unexpected policy source response", DomainRanger, http.StatusBadGateway},
	RangerUserNotFound:       {"User not found in policy source", DomainRanger, http.StatusNotFound},
	RangerServiceDefNotFound: {"Service definition not found", DomainRanger, http.StatusNotFound},

	AuthzAccessDenied:  {"Access denied", DomainAuthz, http.StatusForbidden},
	AuthzEmptySnapshot: {"No policies loaded", DomainAuthz, http.StatusForbidden},
	AuthzMissingUser:   {"Username is required", DomainAuthz, http.StatusBadRequest},

	AuditEmitFailed:    {"Failed to emit audit record", DomainAudit, http.StatusInternalServerError},
	AuditQueueOverflow: {"Audit queue overflow", DomainAudit, http.StatusInternalServerError},

	LifecycleSignal: {"Signal handling error", DomainLifecycle, http.StatusInternalServerError},
	LifecycleDaemon: {"Daemon operation failed", DomainLifecycle, http.StatusInternalServerError},

	GatewayMisc:    {"Gateway error", DomainMisc, http.StatusInternalServerError},
	LoggerError:    {"Logger error", DomainMisc, http.StatusInternalServerError},
	SchedulerError: {"Scheduler error", DomainMisc, http.StatusInternalServerError},
}
