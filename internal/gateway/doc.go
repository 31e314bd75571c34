// Package gateway decides what happens to a page request before it reaches
// a handler.
//
// This package implements:
//   - Route classification (asset, API, public page, protected page)
//   - The redirect policy (pass through, send to login, send to dashboard)
//
// Both are pure functions of their inputs. Session resolution happens in
// package auth and the HTTP wiring in package middleware.
package gateway
