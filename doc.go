// Package scooterwraps is the backend for the scooter wraps storefront:
// a catalog and checkout API plus the admin console endpoints used to
// author designs, move them through the production pipeline, and ingest
// their creative assets.
//
// Layout:
//
//	cmd/server        HTTP server entry point
//	internal/config   environment configuration
//	internal/database gorm connection and migrations
//	internal/models   Design, Deal, and related records
//	internal/services production state machine, deal ledger,
//	                  asset intake and batch ingestion, payments
//	internal/handlers gin handlers
//	internal/router   route wiring
package scooterwraps
