package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stratastor/logger"

	"github.com/ovsyannikovas/minio-ranger-gateway/config"
	"github.com/ovsyannikovas/minio-ranger-gateway/pkg/audit"
	"github.com/ovsyannikovas/minio-ranger-gateway/pkg/authz"
	"github.com/ovsyannikovas/minio-ranger-gateway/pkg/gateway/api"
	"github.com/ovsyannikovas/minio-ranger-gateway/pkg/ranger"
)

// components holds the long-lived pieces of the gateway that need explicit
// start/stop around the HTTP server's lifetime.
type components struct {
	refresher *ranger.Refresher
	emitter   *audit.Emitter
	handler   *api.Handler
}

func buildComponents(cfg *config.Config, l logger.Logger) (*components, error) {
	lcfg := config.NewLoggerConfig(cfg)

	rangerLog, err := logger.NewTag(lcfg, "ranger")
	if err != nil {
		return nil, err
	}
	authzLog, err := logger.NewTag(lcfg, "authz")
	if err != nil {
		return nil, err
	}
	auditLog, err := logger.NewTag(lcfg, "audit")
	if err != nil {
		return nil, err
	}

	client := ranger.NewClient(ranger.ClientOptions{
		BaseURL:  cfg.Ranger.Host,
		Username: cfg.Ranger.User,
		Password: cfg.Ranger.Password,
	}, rangerLog)

	store := ranger.NewStore()

	ttl := time.Duration(cfg.Ranger.CacheTTL) * time.Second
	refresher, err := ranger.NewRefresher(
		client, store, cfg.Ranger.ServiceName, cfg.Ranger.ServiceDefName, ttl, rangerLog)
	if err != nil {
		return nil, err
	}

	subjects := ranger.NewSubjectResolver(client, cfg.Cache.SubjectSize, ttl, rangerLog)
	decisions := authz.NewDecisionCache(cfg.Cache.DecisionSize, ttl)

	builder := audit.NewBuilder(store, cfg.Ranger.ServiceDefName, cfg.API.Host)
	emitter := audit.NewEmitter(cfg.Solr.AuditURL, builder, cfg.Audit.QueueSize, auditLog)

	engine := authz.NewEngine(
		store, subjects, decisions, emitter, cfg.Ranger.ServiceName, authzLog)

	return &components{
		refresher: refresher,
		emitter:   emitter,
		handler:   api.NewHandler(engine, emitter, authzLog),
	}, nil
}

func registerRoutes(engine *gin.Engine, comps *components) {
	root := engine.Group("/")
	comps.handler.RegisterRoutes(root)
}
