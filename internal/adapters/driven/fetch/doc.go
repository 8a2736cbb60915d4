// Package fetch provides the HTTP implementation of the Fetcher port,
// with per-domain rate limiting, charset decoding and a durable fetch
// cache in front of the network.
package fetch
