// Copyright 2025 The MinIO-Ranger Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package authz

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	defaultDecisionCacheSize = 10000
	defaultDecisionCacheTTL  = 300 * time.Second
)

// DecisionCache memoizes evaluation outcomes per decision tuple. It is an
// optimization only; correctness never depends on its presence. The key
// deliberately excludes groups and roles: a subject-resolution miss is
// recomputed on the next cache expiry at the latest.
type DecisionCache struct {
	lru *expirable.LRU[string, Decision]
}

// NewDecisionCache creates a size-bounded TTL cache. Zero size or TTL
// select the defaults (10 000 entries, 300 s).
func NewDecisionCache(size int, ttl time.Duration) *DecisionCache {
	if size <= 0 {
		size = defaultDecisionCacheSize
	}
	if ttl <= 0 {
		ttl = defaultDecisionCacheTTL
	}
	return &DecisionCache{
		lru: expirable.NewLRU[string, Decision](size, nil, ttl),
	}
}

// DecisionKey is a deterministic fingerprint of the decision tuple:
// SHA-256 hex over the canonical JSON (sorted keys) of its fields.
func DecisionKey(service, user, bucket string, object *string, accessType AccessType) string {
	// encoding/json marshals struct fields in declaration order; keeping
	// the fields alphabetical makes the encoding canonical.
	key := struct {
		AccessType string  `json:"access_type"`
		Bucket     string  `json:"bucket"`
		Object     *string `json:"object"`
		Service    string  `json:"service"`
		User       string  `json:"user"`
	}{
		AccessType: string(accessType),
		Bucket:     bucket,
		Object:     object,
		Service:    service,
		User:       user,
	}

	encoded, _ := json.Marshal(key)
	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:])
}

func (c *DecisionCache) Get(key string) (Decision, bool) {
	return c.lru.Get(key)
}

func (c *DecisionCache) Put(key string, d Decision) {
	c.lru.Add(key, d)
}

// Purge drops all entries. Used by tests and on demand after policy swaps.
func (c *DecisionCache) Purge() {
	c.lru.Purge()
}

// DecisionCacheStats reports occupancy for the stats endpoint.
type DecisionCacheStats struct {
	Size int `json:"size"`
}

func (c *DecisionCache) Stats() DecisionCacheStats {
	return DecisionCacheStats{Size: c.lru.Len()}
}
