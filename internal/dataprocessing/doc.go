// Package dataprocessing reads the contract spreadsheet into a domain.Table.
//
// # Components
//
//  1. Loader: opens the workbook with excelize, maps the header row by
//     normalised name, drops the identifier column and converts cells.
//  2. Cache: session-owned memoization of loaded tables, keyed by absolute
//     path and invalidated when the file's modification time or size changes.
//
// # Usage
//
//	loader := dataprocessing.NewLoader(logger)
//	cache := dataprocessing.NewCache(loader, logger)
//	table, err := cache.Get(ctx, "data/Case Open.xlsx", "Base")
//
// Every table returned by the cache is a private clone; callers may derive
// columns on it freely.
package dataprocessing
