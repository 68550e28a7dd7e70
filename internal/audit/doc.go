// Package audit implements async event dispatching for token operations.
//
// # Components
//
//   - [Sink] is the consumer interface (channel, JSON writer, zap logger, no-op).
//   - [Dispatcher] is a buffered async relay with drop-if-full or block-if-full behavior.
//   - [Event] is the structured record: timestamp, type, user, token id, IP, metadata.
//
// This package owns buffering and delivery. Deciding which events to emit
// belongs to the Engine.
package audit
