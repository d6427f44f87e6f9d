// config/config.go
package config

import (
	"log"
	"os"
	"time"
)

var (
	Port          string
	MongoURI      string
	MongoDB       string
	JWTKey        []byte
	JWTExpiration time.Duration

	// Store driver: "mongo" (default) or "memory" for local runs without a mongod.
	StoreDriver string

	// Optional integrations. Empty value disables the integration.
	RedisAddr       string
	InvoiceBucket   string
	InvoiceRegion   string
	InvoiceEndpoint string

	// When true, administrative unassignments are also recorded in the
	// transfer ledger as stock returns. Off by default to match the original
	// behavior of treating them as corrections, not transfers.
	LogUnassignEvents bool
)

func LoadConfig() {
	Port = os.Getenv("PORT")
	if Port == "" {
		Port = "8080"
	}

	MongoURI = os.Getenv("MONGO_URI")
	if MongoURI == "" {
		MongoURI = "mongodb://localhost:27017"
	}

	MongoDB = os.Getenv("MONGO_DB")
	if MongoDB == "" {
		MongoDB = "mcflassets"
	}

	StoreDriver = os.Getenv("STORE_DRIVER")
	if StoreDriver == "" {
		StoreDriver = "mongo"
	}

	JWTKey = []byte(os.Getenv("JWT_SECRET"))
	if len(JWTKey) == 0 {
		JWTKey = []byte("secret")
	}

	expireStr := os.Getenv("JWT_EXPIRE")
	dur := 24 * time.Hour
	if expireStr != "" {
		if expireStr == "7d" {
			dur = 7 * 24 * time.Hour
		} else {
			var err error
			dur, err = time.ParseDuration(expireStr)
			if err != nil {
				log.Printf("Invalid JWT_EXPIRE: %s, using 24h", expireStr)
				dur = 24 * time.Hour
			}
		}
	}
	JWTExpiration = dur

	RedisAddr = os.Getenv("REDIS_ADDR")

	InvoiceBucket = os.Getenv("INVOICE_S3_BUCKET")
	InvoiceRegion = os.Getenv("INVOICE_S3_REGION")
	InvoiceEndpoint = os.Getenv("INVOICE_S3_ENDPOINT")

	LogUnassignEvents = os.Getenv("LOG_UNASSIGN_EVENTS") == "true"
}
