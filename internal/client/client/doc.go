// Package client talks to the EasyAdmin identity API.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface): Nonce, Login
//     and Me.
//  2. An HTTP/JSON implementation (see HTTPClient) for the public routes.
//  3. A gRPC implementation (see GRPCClient) for in-fleet tooling, sending
//     the bearer token as "authorization" metadata.
//
// # Error Handling
//
// Server rejections are reported as *RejectedError carrying the server
// message. ErrUnavailable and ErrUnauthorized can be matched with errors.Is.
package client
