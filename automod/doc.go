// Spam and abuse decision engine for real-time group chats.
//
// This package (`github.com/vigil-bot/vigil/automod`) contains a "rules engine" to augment human moderators in group chats. Each inbound message is run through batches of rules: zero-tolerance checks which short-circuit to a ban, and weighted signal detectors whose partial scores are fused with an ensemble text classifier into a single spam score. Counters and per-user history are collected, which can drive subsequent rule invocations. The outcome is a moderation decision like "delete and warn the sender" or "flag for human review"; the platform adapter applies it. Confirmed spam is fed back into a self-learning training corpus which periodically refits the classifier.
//
// See `cmd/vigil` for a daemon built on this package.
package automod
