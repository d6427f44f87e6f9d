// websocket/asset_updates.go
package websocket

import (
	"encoding/json"
	"log"
	"time"
)

// AssetUpdate is a real-time notification pushed to connected asset lists
// and dashboards.
type AssetUpdate struct {
	Type      string      `json:"type"` // ASSET_CREATED, ASSET_UPDATED, ASSET_TRANSFERRED, ASSET_DELETED, ASSETS_CHANGED, AUDIT
	AssetID   string      `json:"assetId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	UserID    string      `json:"userId,omitempty"`
	UserName  string      `json:"userName,omitempty"`
}

// BroadcastAssetUpdate sends an update to all connected clients.
func BroadcastAssetUpdate(update AssetUpdate) {
	data, err := json.Marshal(update)
	if err != nil {
		log.Printf("Failed to marshal asset update: %v", err)
		return
	}
	hub.broadcast <- data
}

// SendAssetChanged notifies consumers that the asset collection changed and
// they should re-query. Sent from the store change-stream watcher, so a
// mutation committed by any writer reaches every open view.
func SendAssetChanged() {
	BroadcastAssetUpdate(AssetUpdate{
		Type:      "ASSETS_CHANGED",
		Timestamp: time.Now().UTC(),
	})
}

// SendAssetTransferred broadcasts a completed transfer.
func SendAssetTransferred(assetID string, event interface{}, userID, userName string) {
	BroadcastAssetUpdate(AssetUpdate{
		Type:      "ASSET_TRANSFERRED",
		AssetID:   assetID,
		Data:      event,
		Timestamp: time.Now().UTC(),
		UserID:    userID,
		UserName:  userName,
	})
}

// SendAudit broadcasts a new audit log entry.
func SendAudit(audit interface{}) {
	BroadcastAssetUpdate(AssetUpdate{
		Type:      "AUDIT",
		Data:      audit,
		Timestamp: time.Now().UTC(),
	})
}
