// Package server manages HTTP listener lifecycle: non-blocking start,
// graceful shutdown, and signal handling for the scheduler's API and
// metrics endpoints.
package server
