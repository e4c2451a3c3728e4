// Package http provides the chi HTTP handlers of the web shell. The handlers
// are thin: multipart upload in, per-period JSON reports out, with all
// domain logic delegated to the services layer.
package http
