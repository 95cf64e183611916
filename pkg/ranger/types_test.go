// Copyright 2025 The MinIO-Ranger Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package ranger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePoliciesTopLevelArray(t *testing.T) {
	data := []byte(`[
		{"id": 1, "name": "p1", "resources": {"bucket": {"values": ["b"]}}},
		{"id": 2, "name": "p2"}
	]`)

	policies, err := ParsePolicies(data)
	require.NoError(t, err)
	require.Len(t, policies, 2)
	assert.Equal(t, 1, policies[0].ID)
	assert.Equal(t, []string{"b"}, policies[0].Resources["bucket"].Values)
}

func TestParsePoliciesWrapped(t *testing.T) {
	for _, field := range []string{"policies", "vXPolicies", "data"} {
		t.Run(field, func(t *testing.T) {
			data := []byte(`{"` + field + `": [{"id": 7, "name": "wrapped"}], "totalCount": 1}`)

			policies, err := ParsePolicies(data)
			require.NoError(t, err)
			require.Len(t, policies, 1)
			assert.Equal(t, 7, policies[0].ID)
		})
	}
}

func TestParsePoliciesSingleObject(t *testing.T) {
	data := []byte(`{
		"id": 3,
		"name": "single",
		"policyItems": [{"users": ["u"], "accesses": [{"type": "read", "isAllowed": true}]}]
	}`)

	policies, err := ParsePolicies(data)
	require.NoError(t, err)
	require.Len(t, policies, 1)
	assert.Equal(t, 3, policies[0].ID)
	require.Len(t, policies[0].PolicyItems, 1)
	assert.True(t, policies[0].PolicyItems[0].Accesses[0].IsAllowed)
}

func TestParsePoliciesUnknownShape(t *testing.T) {
	policies, err := ParsePolicies([]byte(`{"unexpected": 42}`))
	require.NoError(t, err)
	assert.Empty(t, policies)

	_, err = ParsePolicies([]byte(`not json`))
	assert.Error(t, err)
}

func TestPolicyFlagDefaults(t *testing.T) {
	enabled := false
	p := Policy{}
	assert.True(t, p.Enabled())
	assert.True(t, p.AuditEnabled())

	p.IsEnabled = &enabled
	p.IsAuditEnabled = &enabled
	assert.False(t, p.Enabled())
	assert.False(t, p.AuditEnabled())
}

func TestResourceSpecRecursiveDefaults(t *testing.T) {
	spec := ResourceSpec{}
	assert.False(t, spec.Recursive(false)) // bucket default
	assert.True(t, spec.Recursive(true))   // object default

	explicit := true
	spec.IsRecursive = &explicit
	assert.True(t, spec.Recursive(false))
}

func TestUserInfoFiltersNonStrings(t *testing.T) {
	u := UserInfo{
		Name:          "u",
		GroupNameList: []any{"g1", 42, "g2", nil},
		UserRoleList:  []any{"ROLE_USER", map[string]any{"x": 1}},
	}

	assert.Equal(t, []string{"g1", "g2"}, u.Groups())
	assert.Equal(t, []string{"ROLE_USER"}, u.Roles())
}

func TestSnapshotEmpty(t *testing.T) {
	var nilSnap *Snapshot
	assert.True(t, nilSnap.Empty())
	assert.True(t, (&Snapshot{}).Empty())
	assert.False(t, (&Snapshot{Policies: []Policy{{ID: 1}}}).Empty())
}
