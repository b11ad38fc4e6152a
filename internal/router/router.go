package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/partnerdesk/partnerdesk/internal/authz"
	"github.com/partnerdesk/partnerdesk/internal/cache"
	"github.com/partnerdesk/partnerdesk/internal/config"
	adminhandlers "github.com/partnerdesk/partnerdesk/internal/http/handlers/admin"
	publichandlers "github.com/partnerdesk/partnerdesk/internal/http/handlers/public"
	"github.com/partnerdesk/partnerdesk/internal/http/response"
	"github.com/partnerdesk/partnerdesk/internal/logger"
	"github.com/partnerdesk/partnerdesk/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter wires middlewares and the API route table.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "pd"
	}
	redisClient := cache.Client()
	partnerLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_too_many",
	}
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_too_many",
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		public := apiV1.Group("/public")
		{
			public.GET("/config", publicHandler.GetConfig)
		}

		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.PartnerRegister)
			auth.POST("/login", RateLimitMiddleware(redisClient, partnerLoginRule, KeyByIPAndJSONField("email")), publicHandler.PartnerLogin)
		}

		partner := apiV1.Group("")
		partner.Use(PartnerJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			partner.GET("/me", publicHandler.PartnerProfile)
			partner.PUT("/me/password", publicHandler.PartnerChangePassword)
			partner.PUT("/me/bank-details", publicHandler.UpdateBankDetails)
			partner.GET("/me/dashboard", publicHandler.Dashboard)
			partner.GET("/me/team", publicHandler.MyTeam)
			partner.GET("/me/commissions", publicHandler.ListMyCommissions)
			partner.GET("/me/commissions/summary", publicHandler.MyCommissionSummary)
			partner.POST("/deals", publicHandler.SubmitDeal)
			partner.GET("/deals", publicHandler.ListMyDeals)
			partner.GET("/deals/:id", publicHandler.GetMyDeal)
			partner.GET("/deals/:id/messages", publicHandler.ListMyDealMessages)
			partner.POST("/deals/:id/messages", publicHandler.PostMyDealMessage)
		}

		admin := apiV1.Group("/admin")
		{
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIP), adminHandler.Login)

			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo), AdminRBACMiddleware(c.AuthzService))
			{
				authorized.GET("/me", adminHandler.Profile)
				authorized.PUT("/password", adminHandler.ChangePassword)

				// Administrator accounts
				authorized.GET("/admins", adminHandler.ListAdmins)
				authorized.POST("/admins", adminHandler.CreateAdmin)
				authorized.DELETE("/admins/:id", adminHandler.DeleteAdmin)

				// Role management
				authorized.GET("/authz/me", adminHandler.GetAuthzMe)
				authorized.GET("/authz/roles", adminHandler.ListAuthzRoles)
				authorized.POST("/authz/roles", adminHandler.CreateAuthzRole)
				authorized.DELETE("/authz/roles/:role", adminHandler.DeleteAuthzRole)
				authorized.GET("/authz/roles/:role/policies", adminHandler.GetAuthzRolePolicies)
				authorized.POST("/authz/policies", adminHandler.GrantAuthzPolicy)
				authorized.DELETE("/authz/policies", adminHandler.RevokeAuthzPolicy)
				authorized.GET("/authz/admins/:id/roles", adminHandler.GetAuthzAdminRoles)
				authorized.PUT("/authz/admins/:id/roles", adminHandler.SetAuthzAdminRoles)
				authorized.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
					response.Success(ctx, buildAdminPermissionCatalog(r))
				})

				// Deal pipeline
				authorized.GET("/deals", adminHandler.ListDeals)
				authorized.GET("/deals/:id", adminHandler.GetDeal)
				authorized.PUT("/deals/:id/stage", adminHandler.UpdateDealStage)
				authorized.GET("/deals/:id/messages", adminHandler.ListDealMessages)
				authorized.POST("/deals/:id/messages", adminHandler.PostDealMessage)
				authorized.POST("/deals/:id/commission", adminHandler.CreateCommission)
				authorized.GET("/deals/:id/payment-status", adminHandler.CommissionStatusByDeal)

				// Commission payments
				authorized.POST("/payments/preview", adminHandler.PreviewCommission)
				authorized.GET("/payments", adminHandler.ListPayments)
				authorized.GET("/payments/:id", adminHandler.GetPayment)
				authorized.POST("/payments/:id/submit", adminHandler.SubmitPayment)
				authorized.POST("/payments/:id/approve", adminHandler.ApprovePayment)
				authorized.POST("/payments/:id/query", adminHandler.QueryPayment)
				authorized.POST("/payments/:id/resolve", adminHandler.ResolvePaymentQuery)
				authorized.POST("/payments/:id/confirm", adminHandler.ConfirmPayment)
				authorized.POST("/payments/:id/fail", adminHandler.FailPayment)

				// Partner accounts
				authorized.GET("/partners", adminHandler.ListPartners)
				authorized.GET("/partners/:id", adminHandler.GetPartner)
				authorized.PUT("/partners/:id/status", adminHandler.SetPartnerStatus)
				authorized.PUT("/partners/:id/parent", adminHandler.ReparentPartner)
				authorized.GET("/partners/:id/team", adminHandler.PartnerTeam)
				authorized.POST("/hierarchy/rebuild", adminHandler.RebuildHierarchy)
			}
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		if item.Path == "/api/v1/admin/login" {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	if segments[1] == "authz" {
		return "authz"
	}
	return segments[1]
}
