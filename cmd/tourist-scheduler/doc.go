// Command tourist-scheduler runs the scheduling coordinator service:
// an A2A message endpoint that matches tourist requests to guide offers,
// plus health, metrics, and dashboard WebSocket endpoints.
package main
