// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package limiter is a middleware that rate limits requests which change server
state, such as creating feeds or uploading audio.

Clients are grouped by network (a /24 for IPv4 and a /48 for IPv6 by default)
and every network shares one token bucket.
*/
package limiter
