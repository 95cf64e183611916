// Copyright 2025 The MinIO-Ranger Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package ranger

import (
	"encoding/json"
	"time"
)

// Resource kinds used by the MinIO service definition.
const (
	ResourceBucket = "bucket"
	ResourceObject = "object"
)

// ResourceSpec describes how one resource kind is matched by a policy.
// IsRecursive is a pointer because Ranger omits it frequently and the
// default differs by kind: false for buckets, true for objects.
type ResourceSpec struct {
	Values      []string `json:"values"`
	IsExcludes  bool     `json:"isExcludes"`
	IsRecursive *bool    `json:"isRecursive"`
}

// Recursive resolves the isRecursive flag against the kind default.
func (rs *ResourceSpec) Recursive(kindDefault bool) bool {
	if rs.IsRecursive == nil {
		return kindDefault
	}
	return *rs.IsRecursive
}

// Access is a single access-type grant inside a policy item.
type Access struct {
	Type      string `json:"type"`
	IsAllowed bool   `json:"isAllowed"`
}

// PolicyItem grants a set of accesses to users and groups.
type PolicyItem struct {
	Users         []string `json:"users"`
	Groups        []string `json:"groups"`
	Accesses      []Access `json:"accesses"`
	DelegateAdmin bool     `json:"delegateAdmin"`
}

// Policy is one Ranger policy, immutable once it is part of a snapshot.
// IsEnabled and IsAuditEnabled default to true when Ranger omits them.
type Policy struct {
	ID             int                     `json:"id"`
	Name           string                  `json:"name"`
	IsEnabled      *bool                   `json:"isEnabled"`
	IsAuditEnabled *bool                   `json:"isAuditEnabled"`
	Resources      map[string]ResourceSpec `json:"resources"`
	PolicyItems    []PolicyItem            `json:"policyItems"`
}

func (p *Policy) Enabled() bool {
	return p.IsEnabled == nil || *p.IsEnabled
}

func (p *Policy) AuditEnabled() bool {
	return p.IsAuditEnabled == nil || *p.IsAuditEnabled
}

// Snapshot is an immutable, timestamped policy list for one service.
// Readers hold a snapshot reference for the duration of one evaluation;
// the store swaps whole snapshots and never mutates a published one.
type Snapshot struct {
	ServiceName  string
	ServiceDefID *int
	Policies     []Policy
	LoadedAt     time.Time
}

// Empty reports whether the snapshot carries no policies.
func (s *Snapshot) Empty() bool {
	return s == nil || len(s.Policies) == 0
}

// UserInfo is the subset of the Ranger xusers record the gateway consumes.
// The lists arrive untyped; non-string entries are dropped on extraction.
type UserInfo struct {
	Name          string `json:"name"`
	GroupNameList []any  `json:"groupNameList"`
	UserRoleList  []any  `json:"userRoleList"`
}

// Groups returns the user's group names, filtering non-string values.
func (u *UserInfo) Groups() []string {
	return filterStrings(u.GroupNameList)
}

// Roles returns the user's role names, filtering non-string values.
func (u *UserInfo) Roles() []string {
	return filterStrings(u.UserRoleList)
}

func filterStrings(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// ParsePolicies normalizes the documented response shapes of the Ranger
// policy endpoint into a policy list:
//
//   - a top-level JSON array of policies;
//   - an object wrapping the array under "policies", "vXPolicies" or "data";
//   - a single policy object, recognized by its "policyItems" field.
//
// Any other shape yields an empty list. Unknown fields are ignored.
func ParsePolicies(data []byte) ([]Policy, error) {
	var policies []Policy
	if err := json.Unmarshal(data, &policies); err == nil {
		return policies, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, err
	}

	for _, field := range []string{"policies", "vXPolicies", "data"} {
		raw, ok := wrapper[field]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &policies); err == nil {
			return policies, nil
		}
	}

	if _, ok := wrapper["policyItems"]; ok {
		var single Policy
		if err := json.Unmarshal(data, &single); err == nil {
			return []Policy{single}, nil
		}
	}

	return []Policy{}, nil
}
