package routes

import (
	"github.com/gorilla/mux"

	"github.com/VishalDET/mcflassets-sub000/handlers"
	"github.com/VishalDET/mcflassets-sub000/middleware"
	"github.com/VishalDET/mcflassets-sub000/websocket"
)

// HTTP method constants for better maintainability
var (
	MethodsGetOnly    = []string{"GET", "OPTIONS"}
	MethodsPostOnly   = []string{"POST", "OPTIONS"}
	MethodsPutOnly    = []string{"PUT", "OPTIONS"}
	MethodsDeleteOnly = []string{"DELETE", "OPTIONS"}
)

// Route grouping constants
const (
	PathAPI    = "/api"
	PathHealth = "/health"
)

func RegisterRoutes(r *mux.Router) {
	// ====================
	// HEALTH CHECK (Public)
	// ====================
	r.HandleFunc(PathHealth, handlers.HealthCheck).Methods(MethodsGetOnly...)

	// ====================
	// AUTHENTICATION ROUTES (Public - No auth required)
	// ====================
	r.HandleFunc("/api/auth/login", handlers.Login).Methods(MethodsPostOnly...)
	r.HandleFunc("/api/auth/validate", handlers.ValidateToken).Methods(MethodsGetOnly...)

	// ====================
	// PROTECTED API ROUTES (Require authentication)
	// ====================
	apiRouter := r.PathPrefix(PathAPI).Subrouter()
	apiRouter.Use(middleware.AuthMiddleware)

	// ====================
	// WEBSOCKET (token carried in query string)
	// ====================
	apiRouter.HandleFunc("/ws", websocket.HandleWebSocket)

	// ====================
	// ASSETS
	// ====================
	apiRouter.HandleFunc("/assets", handlers.ListAssets).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/assets", handlers.CreateAsset).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/assets/export", handlers.ExportAssets).Methods(MethodsGetOnly...)

	// Bulk asset actions (before the {id} routes so "bulk" never matches
	// as an asset id)
	apiRouter.HandleFunc("/assets/bulk/unassign", handlers.BulkUnassignAssets).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/assets/bulk/delete", handlers.BulkDeleteAssets).Methods(MethodsPostOnly...)

	apiRouter.HandleFunc("/assets/{id}", handlers.GetAsset).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/assets/{id}", handlers.UpdateAsset).Methods(MethodsPutOnly...)
	apiRouter.HandleFunc("/assets/{id}", handlers.DeleteAsset).Methods(MethodsDeleteOnly...)
	apiRouter.HandleFunc("/assets/{id}/unassign", handlers.UnassignAsset).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/assets/{id}/invoice", handlers.UploadInvoice).Methods(MethodsPostOnly...)

	// ====================
	// TRANSFERS
	// ====================
	apiRouter.HandleFunc("/assets/{id}/transfer", handlers.TransferAsset).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/assets/{id}/history", handlers.GetAssetHistory).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/assets/{id}/repair", handlers.RepairAsset).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/transfers/{id}", handlers.EditTransfer).Methods(MethodsPutOnly...)

	// ====================
	// RECYCLE BIN
	// ====================
	apiRouter.HandleFunc("/bin/assets", handlers.ListDeletedAssets).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/bin/assets/restore", handlers.BulkRestoreAssets).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/bin/assets/purge", handlers.BulkPurgeAssets).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/bin/assets/{id}/restore", handlers.RestoreAsset).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/bin/assets/{id}", handlers.PermanentlyDeleteAsset).Methods(MethodsDeleteOnly...)

	// ====================
	// DASHBOARD & REPORTS
	// ====================
	apiRouter.HandleFunc("/dashboard", handlers.GetDashboard).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/dashboard/warranty", handlers.GetWarrantyAlerts).Methods(MethodsGetOnly...)

	// ====================
	// MASTER DATA - COMPANIES & BRANCHES
	// ====================
	apiRouter.HandleFunc("/companies", handlers.ListCompanies).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/companies", handlers.CreateCompany).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/companies/{id}", handlers.UpdateCompany).Methods(MethodsPutOnly...)
	apiRouter.HandleFunc("/companies/{id}", handlers.DeleteCompany).Methods(MethodsDeleteOnly...)
	apiRouter.HandleFunc("/companies/{companyId}/branches", handlers.ListBranches).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/companies/{companyId}/branches", handlers.CreateBranch).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/branches/{id}", handlers.UpdateBranch).Methods(MethodsPutOnly...)
	apiRouter.HandleFunc("/branches/{id}", handlers.DeleteBranch).Methods(MethodsDeleteOnly...)

	// ====================
	// MASTER DATA - CATALOG
	// ====================
	apiRouter.HandleFunc("/products", handlers.ListProducts).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/products", handlers.CreateProduct).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/products/{id}", handlers.UpdateProduct).Methods(MethodsPutOnly...)
	apiRouter.HandleFunc("/products/{id}", handlers.DeleteProduct).Methods(MethodsDeleteOnly...)
	apiRouter.HandleFunc("/brands", handlers.ListBrands).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/brands", handlers.CreateBrand).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/brands/{id}", handlers.DeleteBrand).Methods(MethodsDeleteOnly...)
	apiRouter.HandleFunc("/suppliers", handlers.ListSuppliers).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/suppliers", handlers.CreateSupplier).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/suppliers/{id}", handlers.UpdateSupplier).Methods(MethodsPutOnly...)
	apiRouter.HandleFunc("/suppliers/{id}", handlers.DeleteSupplier).Methods(MethodsDeleteOnly...)

	// ====================
	// MASTER DATA - EMPLOYEES
	// ====================
	apiRouter.HandleFunc("/employees", handlers.ListEmployees).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/employees", handlers.CreateEmployee).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/employees/{id}", handlers.UpdateEmployee).Methods(MethodsPutOnly...)
	apiRouter.HandleFunc("/employees/{id}", handlers.DeleteEmployee).Methods(MethodsDeleteOnly...)

	// ====================
	// USERS & AUDIT
	// ====================
	apiRouter.HandleFunc("/users", handlers.ListUsers).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/users", handlers.CreateUser).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/audit", handlers.ListAuditLogs).Methods(MethodsGetOnly...)
}
