// Copyright 2025 The MinIO-Ranger Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package authz

import (
	"regexp"
	"slices"
	"strings"

	"github.com/ovsyannikovas/minio-ranger-gateway/internal/constants"
	"github.com/ovsyannikovas/minio-ranger-gateway/pkg/ranger"
)

// Request is the normalized decision tuple handed to the evaluator.
type Request struct {
	User       string
	Groups     []string
	Roles      []string
	Bucket     string  // may be empty
	Object     *string // nil for bucket-level operations
	AccessType AccessType
}

// Decision is the evaluation outcome. PolicyID is the id of the granting
// policy on allow; on deny it reports the last policy walked (0 when none)
// and is informational only.
type Decision struct {
	Allowed  bool
	Audited  bool
	PolicyID int
}

// IsAdmin reports whether the request bypasses policy evaluation outright:
// an admin access type or the system administrator role.
func (r *Request) IsAdmin() bool {
	return r.AccessType == AccessAdmin || slices.Contains(r.Roles, constants.AdminRole)
}

// Evaluate walks the snapshot's policies in their declared order and
// returns the first authorizing decision. It is a pure function: the same
// snapshot and request always produce the same decision.
func Evaluate(snap *ranger.Snapshot, req Request) Decision {
	if req.IsAdmin() {
		return Decision{Allowed: true, Audited: true, PolicyID: 0}
	}
	if snap.Empty() {
		return Decision{}
	}

	lastPolicyID := 0
	for i := range snap.Policies {
		policy := &snap.Policies[i]
		lastPolicyID = policy.ID

		if !policy.Enabled() {
			continue
		}

		bucketSpec, hasBucket := policy.Resources[ranger.ResourceBucket]
		objectSpec, hasObject := policy.Resources[ranger.ResourceObject]

		if hasBucket {
			if !matchResource(req.Bucket, bucketSpec, false, "") {
				continue
			}
		} else if !hasObject {
			// Policy constrains neither resource kind; it cannot apply.
			continue
		}
		// Without a bucket spec the policy encodes the bucket inside its
		// object values; the object match below checks it.

		if req.Object != nil {
			if hasObject && !matchResource(*req.Object, objectSpec, true, req.Bucket) {
				continue
			}
			// No object spec: bucket-level policy permits any object.
		} else if hasObject {
			// An object-specific policy cannot authorize a bucket-level
			// operation.
			continue
		}

		if d, ok := matchItems(policy, req); ok {
			return d
		}
	}

	return Decision{Allowed: false, Audited: false, PolicyID: lastPolicyID}
}

// matchItems scans a policy's items in declared order for a grant covering
// the request's subject and access type.
func matchItems(policy *ranger.Policy, req Request) (Decision, bool) {
	isAdminRole := slices.Contains(req.Roles, constants.AdminRole)

	for i := range policy.PolicyItems {
		item := &policy.PolicyItems[i]

		userHit := slices.Contains(item.Users, req.User)
		groupHit := intersects(req.Groups, item.Groups)
		if !userHit && !groupHit {
			continue
		}

		if item.DelegateAdmin || isAdminRole {
			return Decision{Allowed: true, Audited: policy.AuditEnabled(), PolicyID: policy.ID}, true
		}

		for _, access := range item.Accesses {
			if access.Type == string(req.AccessType) && access.IsAllowed {
				return Decision{Allowed: true, Audited: policy.AuditEnabled(), PolicyID: policy.ID}, true
			}
		}
	}

	return Decision{}, false
}

// matchResource checks a resource value against a ResourceSpec.
//
// When bucket is non-empty (object matching) and a policy value contains a
// slash, the value is treated as "bucket/tail": a mismatched bucket skips
// the value, a matched one strips the prefix before comparison.
//
// An exclude spec inverts the outcome: a hit denies, no hit passes.
func matchResource(value string, spec ranger.ResourceSpec, kindRecursiveDefault bool, bucket string) bool {
	if len(spec.Values) == 0 {
		return false
	}

	recursive := spec.Recursive(kindRecursiveDefault)

	for _, pv := range spec.Values {
		pattern := pv

		if bucket != "" && strings.Contains(pv, "/") {
			pvBucket, pvTail, _ := strings.Cut(pv, "/")
			if pvBucket != bucket {
				continue
			}
			pattern = pvTail
		}

		matched := value == pattern
		if !matched && recursive {
			matched = strings.HasPrefix(value, pattern)
		}
		if !matched && strings.Contains(pattern, "*") {
			matched = wildcardRegexp(pattern).MatchString(value)
		}

		if matched {
			return !spec.IsExcludes
		}
	}

	return spec.IsExcludes
}

// wildcardRegexp converts a Ranger wildcard pattern to an anchored regexp:
// every metacharacter is escaped, then '*' becomes '.*'.
func wildcardRegexp(pattern string) *regexp.Regexp {
	escaped := strings.ReplaceAll(regexp.QuoteMeta(pattern), `\*`, `.*`)
	return regexp.MustCompile(`^` + escaped + `$`)
}

func intersects(a, b []string) bool {
	for _, x := range a {
		if slices.Contains(b, x) {
			return true
		}
	}
	return false
}
