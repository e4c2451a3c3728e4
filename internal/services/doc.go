// Package services implements the business logic layer of the ticket
// analytics pipeline. It orchestrates ingestion (read, resolve, normalize)
// and per-period analysis (statistics plus anomaly detection), keeping HTTP
// handlers and CLI entry points free of domain rules.
//
// Each pipeline invocation is synchronous and self-contained: the raw table
// and intermediate state live only for the duration of the call, and each
// period's filtered dataset is processed independently.
package services
