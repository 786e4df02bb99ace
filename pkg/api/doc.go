// Package api defines the request and response messages exchanged with the
// splitledger.v1 services. Messages are plain structs encoded as JSON; the
// apiconnect package serves and calls them over Connect.
package api
