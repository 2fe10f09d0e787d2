// Package api holds the HTTP contract of the photokit server.
package api

//go:generate go tool oapi-codegen -config cfg.yaml openapi.yaml
