// Copyright 2025 The MinIO-Ranger Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package ranger

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSnapshotSwap(t *testing.T) {
	store := NewStore()
	assert.Nil(t, store.GetPolicies("minio"))

	store.PutPolicies("minio", []Policy{{ID: 1}}, nil)
	first := store.GetPolicies("minio")
	require.NotNil(t, first)
	assert.Len(t, first.Policies, 1)

	store.PutPolicies("minio", []Policy{{ID: 2}, {ID: 3}}, nil)
	second := store.GetPolicies("minio")
	assert.Len(t, second.Policies, 2)

	// The previously returned snapshot is untouched by the swap.
	assert.Len(t, first.Policies, 1)
	assert.Equal(t, 1, first.Policies[0].ID)
}

func TestStoreServiceDefID(t *testing.T) {
	store := NewStore()

	_, ok := store.GetServiceDefID("s3")
	assert.False(t, ok)

	store.PutServiceDefID("s3", 42)
	id, ok := store.GetServiceDefID("s3")
	assert.True(t, ok)
	assert.Equal(t, 42, id)
}

func TestStoreStats(t *testing.T) {
	store := NewStore()
	assert.Equal(t, StoreStats{}, store.Stats())

	store.PutPolicies("minio", []Policy{{ID: 1}, {ID: 2}}, nil)
	store.PutServiceDefID("s3", 7)

	st := store.Stats()
	assert.Equal(t, 1, st.Services)
	assert.Equal(t, 2, st.Policies)
	assert.Equal(t, 1, st.ServiceDefs)
	require.NotNil(t, st.LoadedAt)
}

func TestStoreConcurrentAccess(t *testing.T) {
	store := NewStore()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			store.PutPolicies("minio", []Policy{{ID: n}}, nil)
		}(i)
		go func() {
			defer wg.Done()
			if snap := store.GetPolicies("minio"); snap != nil {
				// A published snapshot is never half-populated.
				assert.Len(t, snap.Policies, 1)
			}
		}()
	}
	wg.Wait()
}
