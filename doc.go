// Package finsync keeps a local copy of bank data pulled from an account
// aggregation API (Powens), and enriches it with categories guessed by an AI
// model.
//
// The data lives in a folder of human readable JSON files, one per record
// kind:
//   - accounts.json: bank accounts, highest identity first.
//   - transactions.json: bank transactions, oldest first.
//   - transaction_extras.json: categories and tags attached to transactions,
//     keyed by the transaction identity.
//
// Each file is managed by a store.Collection (see package store), shared by
// the HTTP server and the background jobs through a DB.
//
// The package also exports the data as CSV files, using the import format of
// Maybe Finance.
package finsync
