// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package bus is the in-process poll-changed broadcast hub.

One Hub instance is created in main and handed to the voting handler
(publisher) and the events handler (subscriber side). It is an owned
component with process lifecycle, not a package global.

The contract is deliberately weak: best-effort delivery to currently
connected subscribers, no history, no per-poll filtering. The durable
fact is the vote row; the hub only tells watching clients to re-fetch
results sooner than their next poll would.
*/
package bus
