// Package mcp provides an MCP (Model Context Protocol) server adapter for Quill.
// It enables AI assistants like Claude to search and question local documents.
package mcp

import "errors"

// ErrMissingStoreService is returned when the store service is not provided.
var ErrMissingStoreService = errors.New("mcp: store service is required")
