// Copyright 2025 The MinIO-Ranger Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package ranger

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/stratastor/logger"
	"github.com/ovsyannikovas/minio-ranger-gateway/pkg/errors"
)

const refreshJobName = "policy-refresh"

// Refresher keeps the store's snapshot current by polling Ranger on a
// fixed cadence. A failed refresh keeps the previously published snapshot;
// the decision path never waits on the refresher.
type Refresher struct {
	client         *Client
	store          *Store
	serviceName    string
	serviceDefName string
	interval       time.Duration
	scheduler      gocron.Scheduler
	logger         logger.Logger

	ctx     context.Context
	started bool
}

// NewRefresher creates a Refresher for one Ranger service.
func NewRefresher(
	client *Client,
	store *Store,
	serviceName, serviceDefName string,
	interval time.Duration,
	l logger.Logger,
) (*Refresher, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.Wrap(err, errors.SchedulerError)
	}

	return &Refresher{
		client:         client,
		store:          store,
		serviceName:    serviceName,
		serviceDefName: serviceDefName,
		interval:       interval,
		scheduler:      scheduler,
		logger:         l,
	}, nil
}

// Start performs one synchronous load so the decision path is not serving
// an empty snapshot on first request, then schedules the periodic refresh.
// The initial load is best-effort: a cold start against an unreachable
// Ranger comes up denying (closed by default) and recovers on cadence.
func (r *Refresher) Start(ctx context.Context) error {
	if r.started {
		r.logger.Warn("Policy refresher already running")
		return nil
	}
	r.ctx = ctx

	if err := r.Refresh(ctx); err != nil {
		r.logger.Error("Initial policy load failed, starting with empty snapshot",
			"service", r.serviceName, "error", err)
	}

	_, err := r.scheduler.NewJob(
		gocron.DurationJob(r.interval),
		gocron.NewTask(func(taskCtx context.Context) {
			if err := r.Refresh(taskCtx); err != nil {
				r.logger.Error("Policy refresh failed, keeping previous snapshot",
					"service", r.serviceName, "error", err)
			}
		}),
		gocron.WithName(refreshJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithContext(ctx),
	)
	if err != nil {
		return errors.Wrap(err, errors.SchedulerError)
	}

	r.scheduler.Start()
	r.started = true
	r.logger.Info("Policy refresher started",
		"service", r.serviceName, "interval", r.interval.String())
	return nil
}

// Stop shuts the scheduler down. In-flight fetches may complete but their
// results are discarded once the context is cancelled.
func (r *Refresher) Stop() error {
	if !r.started {
		return nil
	}
	r.started = false
	if err := r.scheduler.Shutdown(); err != nil {
		return errors.Wrap(err, errors.SchedulerError)
	}
	r.logger.Info("Policy refresher stopped", "service", r.serviceName)
	return nil
}

// Refresh fetches policies and the service-definition id once and publishes
// the results. The servicedef lookup failing does not discard a successful
// policy fetch.
func (r *Refresher) Refresh(ctx context.Context) error {
	policies, err := r.client.GetPolicies(ctx, r.serviceName)
	if err != nil {
		return err
	}

	var defID *int
	id, err := r.client.GetServiceDefID(ctx, r.serviceDefName)
	if err != nil {
		r.logger.Warn("Failed to resolve service definition id",
			"servicedef", r.serviceDefName, "error", err)
	} else {
		defID = id
	}

	// Discard results observed after cancellation
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if defID != nil {
		r.store.PutServiceDefID(r.serviceDefName, *defID)
	}
	r.store.PutPolicies(r.serviceName, policies, defID)

	r.logger.Info("Published policy snapshot",
		"service", r.serviceName, "policies", len(policies))
	return nil
}
