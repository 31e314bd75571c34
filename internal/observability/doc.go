// Package observability builds the process logger and the Prometheus
// collectors shared by the gateway, the session resolver and the login
// endpoints.
package observability
