// Package rdx is a goroutine-safe client for a RESP2-speaking in-memory data
// structure server.
//
// It owns the wire protocol end to end: encoding outbound command frames,
// decoding inbound reply frames, and driving a reconnecting TCP or TLS
// connection with exponential backoff. There are three execution strategies:
// a serialized Multiplexer for ad-hoc commands and a Pipeline for batched
// (optionally transactional) submission, which share one connection, and a
// Subscription for long-lived pub/sub streams that survive reconnection,
// which runs on a connection of its own.
//
// Basic usage:
//
//	client := rdx.NewClient("localhost:6379", rdx.WithDatabase(1))
//	defer client.Close()
//
//	reply, err := client.Do("SET", "greeting", "hello")
//
// The package does not implement RESP3, cluster redirection, Sentinel
// discovery, or a multi-connection pool; callers who need a pool build one
// out of several Clients.
package rdx
