package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"hkinventory/config"
	_ "hkinventory/docs"
	"hkinventory/internal/pkg/cache"
	"hkinventory/internal/pkg/database"
	"hkinventory/internal/pkg/logger"
	"hkinventory/internal/pkg/token"
	"hkinventory/internal/pkg/validation"

	"hkinventory/internal/api/category"
	"hkinventory/internal/api/depreciation"
	"hkinventory/internal/api/item"
	"hkinventory/internal/api/router"
	"hkinventory/internal/api/supplier"
	"hkinventory/internal/api/transaction"
	"hkinventory/internal/api/user"
	"hkinventory/internal/repository/categoryrepo"
	"hkinventory/internal/repository/itemrepo"
	"hkinventory/internal/repository/ledgerrepo"
	"hkinventory/internal/repository/supplierrepo"
	"hkinventory/internal/repository/userrepo"
	"hkinventory/internal/service/categoryservice"
	"hkinventory/internal/service/itemservice"
	"hkinventory/internal/service/ledgerservice"
	"hkinventory/internal/service/supplierservice"
	"hkinventory/internal/service/userservice"
)

// @title HKInventory API
// @version 1.0
// @description Controle de estoque da governança: enxoval, amenities, empréstimos e baixas.
// @BasePath /v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	stdlog.Println("⚡ Inicializando serviço HKInventory...")
	if err := godotenv.Load(); err != nil {
		stdlog.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	log := logger.NewLogger(cfg.LogLevel)
	defer logger.Sync(log)
	log.Info("Configurações carregadas.", map[string]interface{}{"env": cfg.Environment})

	// 1. Infraestrutura
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	log.Info("Conexão PostgreSQL estabelecida.", nil)

	cacheClient, err := cache.NewRedisClient(cfg.RedisAddr)
	if err != nil {
		log.Warn("Redis indisponível: seguindo sem cache e sem rate limit.", map[string]interface{}{"addr": cfg.RedisAddr, "error": err.Error()})
		cacheClient = nil
	} else {
		log.Info("Conexão Redis estabelecida.", nil)
	}

	validate := validation.New()
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)

	// 2. Repository -> Service -> Handler
	itemRepo := itemrepo.NewItemRepository(db, cacheClient, cfg.DBTimeout, cfg.CacheTTL, logger.Named(log, "itemrepo"))
	categoryRepo := categoryrepo.NewCategoryRepository(db, cfg.DBTimeout, logger.Named(log, "categoryrepo"))
	supplierRepo := supplierrepo.NewSupplierRepository(db, cfg.DBTimeout, logger.Named(log, "supplierrepo"))
	userRepo := userrepo.NewUserRepository(db, cfg.DBTimeout, logger.Named(log, "userrepo"))
	ledgerRepo := ledgerrepo.NewLedgerRepository(db, cacheClient, cfg.DBTimeout, logger.Named(log, "ledgerrepo"))

	itemSvc := itemservice.NewService(itemRepo, validate, log)
	categorySvc := categoryservice.NewService(categoryRepo, validate, log)
	supplierSvc := supplierservice.NewService(supplierRepo, validate, log)
	userSvc := userservice.NewService(userRepo, tokenSvc, validate, log)
	ledgerSvc := ledgerservice.NewService(ledgerRepo, validate, logger.Named(log, "ledger"),
		ledgerservice.WithStrictOrphans(cfg.LedgerStrictOrphans))
	log.Debug("Serviços inicializados.", nil)

	handlers := router.Handlers{
		Item:         item.NewHandler(itemSvc, log),
		Category:     category.NewHandler(categorySvc, log),
		Supplier:     supplier.NewHandler(supplierSvc, log),
		User:         user.NewHandler(userSvc, log),
		Transaction:  transaction.NewHandler(ledgerSvc, log),
		Depreciation: depreciation.NewHandler(ledgerSvc, log),
	}

	// 3. Roteador e servidor
	r := router.NewRouter(handlers, tokenSvc, router.RateLimit{
		Cache:       cacheClient,
		MaxRequests: cfg.RateLimitMaxRequests,
		Period:      cfg.RateLimitPeriod,
	}, log)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Servidor HKInventory ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Desligamento do servidor forçado.", err)
	}

	log.Info("Servidor encerrado com sucesso.", nil)
}
