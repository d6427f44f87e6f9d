// handlers/init.go
package handlers

import (
	"context"
	"log"

	"github.com/VishalDET/mcflassets-sub000/cache"
	"github.com/VishalDET/mcflassets-sub000/lifecycle"
	"github.com/VishalDET/mcflassets-sub000/storage"
	"github.com/VishalDET/mcflassets-sub000/store"
	"github.com/VishalDET/mcflassets-sub000/websocket"
)

// Registry and support collections. Asset collections are owned by the
// lifecycle package.
const (
	companyCollection  = "companies"
	branchCollection   = "branches"
	productCollection  = "products"
	brandCollection    = "brands"
	supplierCollection = "suppliers"
	employeeCollection = "employees"
	userCollection     = "users"
	auditCollection    = "auditLogs"
)

var (
	db        store.Store
	svc       *lifecycle.Service
	invoices  *storage.InvoiceStore // nil when uploads are not configured
	dashCache *cache.Cache          // nil when Redis is not configured
)

func Init(st store.Store, service *lifecycle.Service, inv *storage.InvoiceStore, c *cache.Cache) {
	db = st
	svc = service
	invoices = inv
	dashCache = c
}

// WatchAssets forwards store change notifications to connected websocket
// clients until ctx is cancelled. The subscription is released on exit.
func WatchAssets(ctx context.Context) {
	ch, release, err := db.Subscribe(ctx, lifecycle.CollectionAssets)
	if err != nil {
		log.Printf("asset watch unavailable: %v", err)
		return
	}
	defer release()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			dashCache.Invalidate(ctx, dashboardCacheKey)
			websocket.SendAssetChanged()
		}
	}
}
