// Package all wires every built-in storage backend into the storage factory.
//
// The package exists only for its side effects: importing it runs the init
// function of each backend, which registers a factory under its kind:
//
//   - "sqlite"   (internal/storage/sqlite, modernc.org/sqlite)
//   - "postgres" (internal/storage/postgres, pgx pool)
//   - "pq"       (internal/storage/postgres, lib/pq)
//   - "mysql"    (internal/storage/mysql)
//   - "mssql"    (internal/storage/mssql)
//
// Typical usage in a wiring layer such as cmd/corpis:
//
//	import _ "github.com/VikaRzyankina/CorpIS/internal/storage/all"
//
//	store, err := storage.New(ctx, storage.Config{Kind: cfg.Storage.Kind, DSN: cfg.Storage.DSN})
//
// A binary that needs only a subset of backends can import those packages
// directly instead.
package all

import (
	_ "github.com/VikaRzyankina/CorpIS/internal/storage/mssql"
	_ "github.com/VikaRzyankina/CorpIS/internal/storage/mysql"
	_ "github.com/VikaRzyankina/CorpIS/internal/storage/postgres"
	_ "github.com/VikaRzyankina/CorpIS/internal/storage/sqlite"
)
