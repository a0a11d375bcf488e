package router

import (
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"hkinventory/internal/api/category"
	"hkinventory/internal/api/depreciation"
	"hkinventory/internal/api/item"
	"hkinventory/internal/api/supplier"
	"hkinventory/internal/api/transaction"
	"hkinventory/internal/api/user"
	"hkinventory/internal/domain"
	"hkinventory/internal/pkg/cache"
	"hkinventory/internal/pkg/logger"
	"hkinventory/internal/pkg/middleware"
)

// Handlers reúne os handlers já inicializados por injeção de dependências.
type Handlers struct {
	Item         *item.Handler
	Category     *category.Handler
	Supplier     *supplier.Handler
	User         *user.Handler
	Transaction  *transaction.Handler
	Depreciation *depreciation.Handler
}

// RateLimit configura o limite global por IP. Cache nil desliga o limite.
type RateLimit struct {
	Cache       cache.Client
	MaxRequests int
	Period      time.Duration
}

// NewRouter configura e retorna o roteador HTTP principal.
func NewRouter(h Handlers, tokenSvc middleware.TokenService, rl RateLimit, log logger.Logger) http.Handler {
	mux := http.NewServeMux()

	authed := middleware.NewAuthMiddleware(tokenSvc, log)
	managers := func(next http.HandlerFunc) http.HandlerFunc {
		return authed(middleware.PermissionMiddleware(log, domain.RoleAdmin, domain.RoleManager)(next))
	}
	admins := func(next http.HandlerFunc) http.HandlerFunc {
		return authed(middleware.PermissionMiddleware(log, domain.RoleAdmin)(next))
	}

	// --- Públicas ---
	mux.HandleFunc("GET /ping", PingHandler)
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)
	mux.HandleFunc("POST /v1/login", h.User.LoginUserHandler)

	// --- Itens ---
	mux.HandleFunc("GET /v1/items", authed(h.Item.ListItemsHandler))
	mux.HandleFunc("GET /v1/items/low-stock", authed(h.Item.ListLowStockHandler))
	mux.HandleFunc("GET /v1/items/{id}", authed(h.Item.GetItemHandler))
	mux.HandleFunc("POST /v1/items", managers(h.Item.CreateItemHandler))
	mux.HandleFunc("POST /v1/items/import", managers(h.Item.ImportItemsHandler))
	mux.HandleFunc("PUT /v1/items/{id}", managers(h.Item.UpdateItemHandler))
	mux.HandleFunc("DELETE /v1/items/{id}", managers(h.Item.DeleteItemHandler))

	// --- Categorias ---
	mux.HandleFunc("GET /v1/categories", authed(h.Category.ListCategoriesHandler))
	mux.HandleFunc("GET /v1/categories/{id}", authed(h.Category.GetCategoryHandler))
	mux.HandleFunc("POST /v1/categories", managers(h.Category.CreateCategoryHandler))
	mux.HandleFunc("PUT /v1/categories/{id}", managers(h.Category.UpdateCategoryHandler))
	mux.HandleFunc("DELETE /v1/categories/{id}", managers(h.Category.DeleteCategoryHandler))

	// --- Fornecedores ---
	mux.HandleFunc("GET /v1/suppliers", authed(h.Supplier.ListSuppliersHandler))
	mux.HandleFunc("GET /v1/suppliers/{id}", authed(h.Supplier.GetSupplierHandler))
	mux.HandleFunc("POST /v1/suppliers", managers(h.Supplier.CreateSupplierHandler))
	mux.HandleFunc("POST /v1/suppliers/import", managers(h.Supplier.ImportSuppliersHandler))
	mux.HandleFunc("PUT /v1/suppliers/{id}", managers(h.Supplier.UpdateSupplierHandler))
	mux.HandleFunc("DELETE /v1/suppliers/{id}", managers(h.Supplier.DeleteSupplierHandler))

	// --- Usuários ---
	mux.HandleFunc("GET /v1/users", admins(h.User.ListUsersHandler))
	mux.HandleFunc("GET /v1/users/{id}", admins(h.User.GetUserHandler))
	mux.HandleFunc("POST /v1/users", admins(h.User.CreateUserHandler))
	mux.HandleFunc("PUT /v1/users/{id}", admins(h.User.UpdateUserHandler))
	mux.HandleFunc("DELETE /v1/users/{id}", admins(h.User.DeleteUserHandler))

	// --- Transações ---
	mux.HandleFunc("GET /v1/transactions", authed(h.Transaction.ListTransactionsHandler))
	mux.HandleFunc("GET /v1/transactions/{id}", authed(h.Transaction.GetTransactionHandler))
	mux.HandleFunc("POST /v1/transactions", authed(h.Transaction.CreateTransactionHandler))
	mux.HandleFunc("POST /v1/transactions/{id}/return", authed(h.Transaction.ReturnBorrowingHandler))
	mux.HandleFunc("POST /v1/transactions/import", managers(h.Transaction.ImportTransactionsHandler))
	mux.HandleFunc("PUT /v1/transactions/{id}", managers(h.Transaction.UpdateTransactionHandler))
	mux.HandleFunc("DELETE /v1/transactions/{id}", managers(h.Transaction.DeleteTransactionHandler))

	// --- Baixas ---
	mux.HandleFunc("GET /v1/depreciations", authed(h.Depreciation.ListDepreciationsHandler))
	mux.HandleFunc("GET /v1/depreciations/{id}", authed(h.Depreciation.GetDepreciationHandler))
	mux.HandleFunc("POST /v1/depreciations", authed(h.Depreciation.CreateDepreciationHandler))
	mux.HandleFunc("POST /v1/depreciations/import", managers(h.Depreciation.ImportDepreciationsHandler))
	mux.HandleFunc("PUT /v1/depreciations/{id}", managers(h.Depreciation.UpdateDepreciationHandler))
	mux.HandleFunc("DELETE /v1/depreciations/{id}", managers(h.Depreciation.DeleteDepreciationHandler))

	var handler http.Handler = mux
	if rl.Cache != nil {
		handler = middleware.RateLimiter(rl.Cache, rl.MaxRequests, rl.Period, log)(handler)
	}
	return middleware.RequestLogger(log)(handler)
}

// PingHandler é o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
