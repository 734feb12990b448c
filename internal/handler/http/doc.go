// Package http serves the operational endpoints of the bot: Prometheus
// metrics, a health probe reporting the client phase and the build version.
// Requests are traced and access-logged by middleware before they reach the
// handlers.
package http
