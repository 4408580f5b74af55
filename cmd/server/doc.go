// Folio - Collaborative Filtering Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package main is the entry point for the Folio server.

Folio recommends books from the Book-Crossing ratings dataset: given a title
it returns the titles whose ratings correlate most strongly with it among
the readers of that title.

# Application Architecture

	RootSupervisor ("folio")
	├── DataSupervisor ("data-layer")
	│   └── Title index refresh
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Initialization order:

 1. Configuration: koanf with defaults, YAML file and environment variables
 2. Logging: zerolog with JSON or console output
 3. Database: embedded DuckDB, CSV ingestion when the store is empty
 4. Circuit breaker around store reads (gobreaker)
 5. Recommendation service
 6. Supervisor tree (suture) with the index service and HTTP server

# Configuration

Common environment variables:

	DUCKDB_PATH=/data/folio.duckdb
	INGEST_ON_STARTUP=true
	BOOKS_CSV=/data/Books.csv
	RATINGS_CSV=/data/Ratings.csv
	HTTP_PORT=8080
	LOG_LEVEL=info

See internal/config for the full list.

# Signals

SIGINT and SIGTERM cancel the root context. Services get the supervisor's
shutdown timeout to stop, then the database is checkpointed and closed.
*/
package main
