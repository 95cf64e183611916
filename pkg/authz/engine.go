// Copyright 2025 The MinIO-Ranger Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package authz

import (
	"context"
	"time"

	"github.com/stratastor/logger"
	"github.com/ovsyannikovas/minio-ranger-gateway/pkg/errors"
	"github.com/ovsyannikovas/minio-ranger-gateway/pkg/ranger"
)

// AuditEvent is what the engine hands to the audit sink for every decision
// that policy marks auditable (and every denial).
type AuditEvent struct {
	Allowed    bool
	PolicyID   int // 0 means no policy matched
	AccessType string
	User       string
	Bucket     string
	Object     string // empty for bucket-level operations
	SessionID  string
	ClientIP   string
	Reason     string
}

// Auditor accepts audit events without blocking the decision path.
type Auditor interface {
	Submit(ev AuditEvent)
}

// CheckInput is the normalized request record handed in by the ingress
// adapter.
type CheckInput struct {
	User      string
	Bucket    string
	Object    *string
	Action    string // S3 verb, e.g. "s3:GetObject"
	SessionID string
	ClientIP  string
}

// CheckResult is the decision returned to the HTTP façade.
type CheckResult struct {
	Allowed    bool
	Audited    bool
	PolicyID   int
	AccessType AccessType
	Timings    map[string]int64 // milliseconds, observability only
}

// Engine is the decision pipeline: action mapping, subject resolution,
// admin short-circuit, decision cache, evaluation and audit emission.
// Construct one per process and share it across requests.
type Engine struct {
	store       *ranger.Store
	subjects    *ranger.SubjectResolver
	decisions   *DecisionCache
	auditor     Auditor
	serviceName string
	logger      logger.Logger
}

// NewEngine wires the decision pipeline. auditor may be nil, in which case
// no audit records are produced (used by tests).
func NewEngine(
	store *ranger.Store,
	subjects *ranger.SubjectResolver,
	decisions *DecisionCache,
	auditor Auditor,
	serviceName string,
	l logger.Logger,
) *Engine {
	return &Engine{
		store:       store,
		subjects:    subjects,
		decisions:   decisions,
		auditor:     auditor,
		serviceName: serviceName,
		logger:      l,
	}
}

// Check runs the full decision pipeline for one request. It returns an
// error only for invalid input or internal failures; a policy denial is a
// successful check with Allowed=false.
func (e *Engine) Check(ctx context.Context, in CheckInput) (CheckResult, error) {
	start := time.Now()

	if in.User == "" {
		return CheckResult{}, errors.New(errors.AuthzMissingUser, "empty username in request")
	}

	accessType := MapAction(in.Action)

	resolveStart := time.Now()
	attrs := e.subjects.Resolve(ctx, in.User)
	resolveMS := time.Since(resolveStart).Milliseconds()

	req := Request{
		User:       in.User,
		Groups:     attrs.Groups,
		Roles:      attrs.Roles,
		Bucket:     in.Bucket,
		Object:     in.Object,
		AccessType: accessType,
	}

	// Admin bypass: no policies, no decision cache.
	if req.IsAdmin() {
		e.logger.Info("Access granted by admin bypass",
			"user", in.User, "bucket", in.Bucket, "access", string(accessType))
		e.emit(in, accessType, Decision{Allowed: true, Audited: true, PolicyID: 0}, "admin")
		return CheckResult{
			Allowed:    true,
			Audited:    true,
			PolicyID:   0,
			AccessType: accessType,
			Timings:    e.timings(start, resolveMS, 0),
		}, nil
	}

	evalStart := time.Now()
	decision, reason := e.decide(req)
	evalMS := time.Since(evalStart).Milliseconds()

	if decision.Allowed {
		e.logger.Info("Access granted",
			"user", in.User, "bucket", in.Bucket, "object", derefOrEmpty(in.Object),
			"access", string(accessType), "policy", decision.PolicyID)
		if decision.Audited {
			e.emit(in, accessType, decision, reason)
		}
	} else {
		e.logger.Warn("Access denied",
			"user", in.User, "bucket", in.Bucket, "object", derefOrEmpty(in.Object),
			"access", string(accessType), "policy", decision.PolicyID, "reason", reason)
		e.emit(in, accessType, decision, reason)
	}

	return CheckResult{
		Allowed:    decision.Allowed,
		Audited:    decision.Audited,
		PolicyID:   decision.PolicyID,
		AccessType: accessType,
		Timings:    e.timings(start, resolveMS, evalMS),
	}, nil
}

// decide probes the decision cache and falls back to a full evaluation
// against the current snapshot.
func (e *Engine) decide(req Request) (Decision, string) {
	key := DecisionKey(e.serviceName, req.User, req.Bucket, req.Object, req.AccessType)
	if d, ok := e.decisions.Get(key); ok {
		return d, "cached"
	}

	snapshot := e.store.GetPolicies(e.serviceName)
	if snapshot.Empty() {
		e.logger.Warn("No policies loaded for service, denying access",
			"service", e.serviceName)
		// Not cached: the next refresh may publish policies any moment.
		return Decision{}, "empty-snapshot"
	}

	d := Evaluate(snapshot, req)
	e.decisions.Put(key, d)
	return d, "policy"
}

func (e *Engine) emit(in CheckInput, accessType AccessType, d Decision, reason string) {
	if e.auditor == nil {
		return
	}
	e.auditor.Submit(AuditEvent{
		Allowed:    d.Allowed,
		PolicyID:   d.PolicyID,
		AccessType: string(accessType),
		User:       in.User,
		Bucket:     in.Bucket,
		Object:     derefOrEmpty(in.Object),
		SessionID:  in.SessionID,
		ClientIP:   in.ClientIP,
		Reason:     reason,
	})
}

func (e *Engine) timings(start time.Time, resolveMS, evalMS int64) map[string]int64 {
	return map[string]int64{
		"resolve_ms":  resolveMS,
		"evaluate_ms": evalMS,
		"total_ms":    time.Since(start).Milliseconds(),
	}
}

// Stats aggregates cache statistics for the stats endpoint.
type EngineStats struct {
	Store     ranger.StoreStats  `json:"policy_store"`
	Subjects  ranger.CacheStats  `json:"subject_cache"`
	Decisions DecisionCacheStats `json:"decision_cache"`
}

func (e *Engine) Stats() EngineStats {
	return EngineStats{
		Store:     e.store.Stats(),
		Subjects:  e.subjects.Stats(),
		Decisions: e.decisions.Stats(),
	}
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
