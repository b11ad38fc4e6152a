package provider

import (
	"github.com/partnerdesk/partnerdesk/internal/authz"
	"github.com/partnerdesk/partnerdesk/internal/cache"
	"github.com/partnerdesk/partnerdesk/internal/config"
	"github.com/partnerdesk/partnerdesk/internal/logger"
	"github.com/partnerdesk/partnerdesk/internal/models"
	"github.com/partnerdesk/partnerdesk/internal/queue"
	"github.com/partnerdesk/partnerdesk/internal/repository"
	"github.com/partnerdesk/partnerdesk/internal/service"
)

// Container wires repositories and services once at startup.
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo       repository.AdminRepository
	UserRepo        repository.UserRepository
	DealRepo        repository.DealRepository
	DealMessageRepo repository.DealMessageRepository
	HierarchyRepo   repository.HierarchyRepository
	CommissionRepo  repository.CommissionRepository

	// Services
	AuthzService        *authz.Service
	AuthService         *service.AuthService
	PartnerAuthService  *service.PartnerAuthService
	PartnerService      *service.PartnerService
	HierarchyService    *service.HierarchyService
	DealService         *service.DealService
	CommissionService   *service.CommissionService
	EmailService        *service.EmailService
	NotificationService *service.NotificationService
}

// NewContainer initialises the dependency graph.
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.DealRepo = repository.NewDealRepository(db)
	c.DealMessageRepo = repository.NewDealMessageRepository(db)
	c.HierarchyRepo = repository.NewHierarchyRepository(db)
	c.CommissionRepo = repository.NewCommissionRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
	} else {
		if err := authzService.BootstrapBuiltinRoles(); err != nil {
			logger.Warnw("provider_bootstrap_roles_failed", "error", err)
		}
		c.AuthzService = authzService
	}

	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.HierarchyService = service.NewHierarchyService(c.HierarchyRepo, c.UserRepo)
	c.NotificationService = service.NewNotificationService(
		c.QueueClient,
		c.EmailService,
		c.DealRepo,
		c.UserRepo,
		c.CommissionRepo,
	)

	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.PartnerAuthService = service.NewPartnerAuthService(c.Config, c.UserRepo, c.HierarchyService)
	c.PartnerService = service.NewPartnerService(c.UserRepo, c.HierarchyService)
	c.DealService = service.NewDealService(c.DealRepo, c.DealMessageRepo, c.UserRepo, c.NotificationService)
	c.CommissionService = service.NewCommissionService(
		c.CommissionRepo,
		c.DealRepo,
		c.UserRepo,
		c.HierarchyService,
		c.NotificationService,
	)
}

// Close releases long-lived resources.
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_failed", "error", err)
		}
	}
}
