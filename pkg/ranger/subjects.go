// Copyright 2025 The MinIO-Ranger Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package ranger

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/stratastor/logger"
)

const (
	defaultSubjectCacheSize = 10000
	defaultSubjectCacheTTL  = 300 * time.Second
)

// SubjectAttributes are the groups and roles of a user as reported by the
// policy source.
type SubjectAttributes struct {
	Groups []string
	Roles  []string
}

// SubjectResolver maps usernames to their groups and roles with a
// size-bounded TTL cache. Unknown users are cached with empty attributes
// for the same TTL to absorb repeated lookups of unknown subjects.
type SubjectResolver struct {
	client *Client
	cache  *expirable.LRU[string, SubjectAttributes]
	logger logger.Logger
}

// NewSubjectResolver creates a resolver backed by the given Ranger client.
// Zero size or TTL select the defaults (10 000 entries, 300 s).
func NewSubjectResolver(client *Client, size int, ttl time.Duration, l logger.Logger) *SubjectResolver {
	if size <= 0 {
		size = defaultSubjectCacheSize
	}
	if ttl <= 0 {
		ttl = defaultSubjectCacheTTL
	}

	return &SubjectResolver{
		client: client,
		cache:  expirable.NewLRU[string, SubjectAttributes](size, nil, ttl),
		logger: l,
	}
}

// Resolve returns the subject attributes for a username. A transport
// failure against Ranger degrades to empty attributes, cached briefly so
// the policy source is not hammered while it is down.
func (r *SubjectResolver) Resolve(ctx context.Context, username string) SubjectAttributes {
	if attrs, ok := r.cache.Get(username); ok {
		return attrs
	}

	attrs := SubjectAttributes{Groups: []string{}, Roles: []string{}}

	user, err := r.client.GetUser(ctx, username)
	switch {
	case err != nil:
		r.logger.Warn("Subject lookup failed, using empty attributes",
			"user", username, "error", err)
	case user == nil:
		r.logger.Debug("User not found in Ranger", "user", username)
	default:
		attrs.Groups = user.Groups()
		attrs.Roles = user.Roles()
	}

	r.cache.Add(username, attrs)
	return attrs
}

// CacheStats reports occupancy of the subject cache.
type CacheStats struct {
	Size int `json:"size"`
}

func (r *SubjectResolver) Stats() CacheStats {
	return CacheStats{Size: r.cache.Len()}
}
