// Package dataprocessing turns uploaded spreadsheet exports of support-ticket
// records into a normalized canonical dataset.
//
// # Architecture
//
// The package is organized into three main components:
//
// 1. Reader: parses the uploaded bytes as an xlsx workbook or a CSV table
// 2. Resolver: maps arbitrary source headers to the canonical ticket schema
// 3. Normalizer: coerces rows into canonical ticket records
//
// # Data Flow
//
// The typical data flow through this package:
//
//	Uploaded bytes → Reader → RawTable → Resolver + Normalizer → domain.Dataset
//
// # Error Handling
//
// Fatal conditions (unreadable file, unresolved required columns) abort the
// ingestion call with typed errors from internal/errors. Row-level problems
// degrade instead of failing: unparseable creation dates fall back to the
// processing wall-clock time and unparseable response dates degrade the
// response time to zero. Degradations are logged at Warn.
package dataprocessing
