// Copyright 2025 The MinIO-Ranger Gateway Authors
// SPDX-License-Identifier: Apache-2.0

// Package audit ships Ranger audit records to a Solr collection without
// ever blocking the authorization path. Submission is fire and forget: a
// bounded queue feeds a single worker, overflow drops the record with a
// log line, and post failures are logged and forgotten.
package audit

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/stratastor/logger"

	"github.com/ovsyannikovas/minio-ranger-gateway/pkg/authz"
	"github.com/ovsyannikovas/minio-ranger-gateway/pkg/httpclient"
)

const DefaultQueueSize = 1024

// Emitter queues audit records and posts them to Solr from a background
// worker. It implements authz.Auditor.
type Emitter struct {
	http    *httpclient.Client
	builder *Builder
	queue   chan Record
	logger  logger.Logger

	wg        sync.WaitGroup
	closeOnce sync.Once

	mu      sync.Mutex
	emitted uint64
	dropped uint64
	failed  uint64
}

// NewEmitter starts the delivery worker. auditURL is the Solr collection
// base, e.g. http://ranger-solr:8983/solr/ranger_audits.
func NewEmitter(auditURL string, builder *Builder, queueSize int, l logger.Logger) *Emitter {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	cfg := httpclient.NewClientConfig()
	cfg.BaseURL = strings.TrimRight(auditURL, "/")
	cfg.Timeout = 5 * time.Second

	e := &Emitter{
		http:    httpclient.NewClient(cfg),
		builder: builder,
		queue:   make(chan Record, queueSize),
		logger:  l,
	}
	e.wg.Add(1)
	go e.worker()
	return e
}

// Submit builds and enqueues a record. It never blocks; when the queue is
// full the record is dropped and counted.
func (e *Emitter) Submit(ev authz.AuditEvent) {
	rec := e.builder.Build(ev)
	select {
	case e.queue <- rec:
	default:
		e.mu.Lock()
		e.dropped++
		e.mu.Unlock()
		e.logger.Warn("Audit queue full, dropping record",
			"user", ev.User, "resource", rec.Resource)
	}
}

// Close stops accepting records and waits for the queue to drain.
func (e *Emitter) Close() {
	e.closeOnce.Do(func() {
		close(e.queue)
		e.wg.Wait()
	})
}

func (e *Emitter) worker() {
	defer e.wg.Done()
	for rec := range e.queue {
		e.post(rec)
	}
}

func (e *Emitter) post(rec Record) {
	resp, err := e.http.R().
		SetContext(context.Background()).
		SetHeader("Content-Type", "application/json").
		SetQueryParam("commit", "true").
		SetBody([]Record{rec}).
		Post("/update")
	if err != nil {
		e.mu.Lock()
		e.failed++
		e.mu.Unlock()
		e.logger.Warn("Audit post failed", "err", err)
		return
	}
	if resp.IsError() {
		e.mu.Lock()
		e.failed++
		e.mu.Unlock()
		e.logger.Warn("Audit post rejected",
			"status", resp.StatusCode(), "body", resp.String())
		return
	}
	e.mu.Lock()
	e.emitted++
	e.mu.Unlock()
}

// Stats reports delivery counters for the cache-stats endpoint.
type Stats struct {
	Queued  int    `json:"queued"`
	Emitted uint64 `json:"emitted"`
	Dropped uint64 `json:"dropped"`
	Failed  uint64 `json:"failed"`
}

func (e *Emitter) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Stats{
		Queued:  len(e.queue),
		Emitted: e.emitted,
		Dropped: e.dropped,
		Failed:  e.failed,
	}
}
