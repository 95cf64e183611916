// Copyright 2025 The MinIO-Ranger Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package audit

import (
	"time"

	"github.com/google/uuid"
	"github.com/ovsyannikovas/minio-ranger-gateway/internal/constants"
	"github.com/ovsyannikovas/minio-ranger-gateway/pkg/authz"
	"github.com/ovsyannikovas/minio-ranger-gateway/pkg/ranger"
)

// Record is one Ranger audit document as the Solr audit collection expects
// it. Policy is either the numeric policy id or the "no-policy" sentinel.
type Record struct {
	ID            string   `json:"id"`
	EvtTime       string   `json:"evtTime"`
	Policy        any      `json:"policy"`
	PolicyVersion int      `json:"policyVersion"`
	Access        string   `json:"access"`
	Enforcer      string   `json:"enforcer"`
	Repo          string   `json:"repo"`
	RepoType      int      `json:"repoType"`
	Sess          string   `json:"sess"`
	ReqUser       string   `json:"reqUser"`
	Resource      string   `json:"resource"`
	CliIP         string   `json:"cliIP"`
	Result        int      `json:"result"`
	AgentHost     string   `json:"agentHost"`
	LogType       string   `json:"logType"`
	ResType       string   `json:"resType"`
	Reason        string   `json:"reason"`
	Action        string   `json:"action"`
	SeqNum        int      `json:"seq_num"`
	EventCount    int      `json:"event_count"`
	EventDurMS    int      `json:"event_dur_ms"`
	Tags          []string `json:"tags"`
	CliType       string   `json:"cliType"`
	Cluster       string   `json:"cluster"`
	Zone          string   `json:"zone"`
}

// Builder assembles audit records, pulling the repoType (service-definition
// id) from the policy store at build time so records pick up a late
// servicedef resolution.
type Builder struct {
	store          *ranger.Store
	serviceDefName string
	agentHost      string
}

func NewBuilder(store *ranger.Store, serviceDefName, agentHost string) *Builder {
	return &Builder{
		store:          store,
		serviceDefName: serviceDefName,
		agentHost:      agentHost,
	}
}

// Build assembles the audit document for one decision event.
func (b *Builder) Build(ev authz.AuditEvent) Record {
	result := 0
	if ev.Allowed {
		result = 1
	}

	var policy any = constants.AuditNoPolicy
	if ev.PolicyID != 0 {
		policy = ev.PolicyID
	}

	repoType := 1
	if id, ok := b.store.GetServiceDefID(b.serviceDefName); ok {
		repoType = id
	}

	resource := "/" + ev.Bucket
	if ev.Object != "" {
		resource += "/" + ev.Object
	}

	clientIP := ev.ClientIP
	if clientIP == "" {
		clientIP = "0.0.0.0"
	}

	return Record{
		ID:            uuid.New().String(),
		EvtTime:       evtTime(time.Now()),
		Policy:        policy,
		PolicyVersion: constants.AuditPolicyVersion,
		Access:        ev.AccessType,
		Enforcer:      constants.AuditEnforcer,
		Repo:          ev.Bucket,
		RepoType:      repoType,
		Sess:          ev.SessionID,
		ReqUser:       ev.User,
		Resource:      resource,
		CliIP:         clientIP,
		Result:        result,
		AgentHost:     b.agentHost,
		LogType:       constants.AuditLogType,
		ResType:       constants.AuditResourceType,
		Reason:        ev.Reason,
		Action:        ev.AccessType,
		SeqNum:        1,
		EventCount:    1,
		EventDurMS:    0,
		Tags:          []string{},
	}
}

// evtTime renders UTC ISO-8601 with millisecond precision and a Z suffix,
// the format the Ranger audit schema indexes.
func evtTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000") + "Z"
}
