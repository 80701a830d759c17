package app

import (
	"database/sql"
	"path/filepath"

	"go-pfund/internal/approval"
	"go-pfund/internal/auth"
	"go-pfund/internal/document"
	"go-pfund/internal/history"
	"go-pfund/internal/loan"
	"go-pfund/internal/member"
	"go-pfund/internal/messaging/kafka"
	"go-pfund/internal/rbac"
	"go-pfund/internal/rbac/infra"
	"go-pfund/internal/user"
	"go-pfund/internal/withdrawal"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	logger := zap.L()

	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)
	memberRepo := member.NewRepository(gormDB)
	documentRepo := document.NewRepository(gormDB)
	approvalRepo := approval.NewRepository(gormDB)
	historyRepo := history.NewRepository(gormDB)
	loanRepo := loan.NewRepository(gormDB)
	withdrawalRepo := withdrawal.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("config", "rbac_model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)
	if err := rbacService.LoadPolicy(); err != nil {
		return err
	}

	// --- Services ---
	authService := auth.NewService(authRepo, rbacService)
	userService := user.NewService(userRepo)
	memberService := member.NewService(memberRepo, rdb)
	documentService := document.NewService(documentRepo)
	chainManager := approval.NewManager(approvalRepo)
	loanService := loan.NewService(
		db,
		loanRepo,
		chainManager,
		historyRepo,
		documentService,
		memberService,
		outboxRepo,
	)
	withdrawalService := withdrawal.NewService(
		db,
		withdrawalRepo,
		historyRepo,
		documentService,
		memberRepo,
		outboxRepo,
	)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userService)
	memberHandler := member.NewHandler(memberService)
	documentHandler := document.NewHandler(documentService)
	loanHandler := loan.NewHandler(loanService)
	withdrawalHandler := withdrawal.NewHandler(withdrawalService)
	rbacHandler := rbac.NewHandler(rbacService, rbacRepo)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		user.RegisterRoutes(api, userHandler, rbacService, logger)
		member.RegisterRoutes(api, memberHandler, rbacService)
		document.RegisterRoutes(api, documentHandler, rbacService)
		loan.RegisterRoutes(api, loanHandler, rbacService, rdb)
		withdrawal.RegisterRoutes(api, withdrawalHandler, rbacService, rdb)
		rbac.RegisterRoutes(api, rbacHandler, rbacService)
	}

	return nil
}
