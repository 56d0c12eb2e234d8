// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package navigation maps navigation paths to the page-level views of Launchpod.

The route table is fixed at startup. [Resolve] tries every literal route in
table order and falls back to the wildcard route, which redirects to the
create view. Resolution never fails and has no side effects, so it is safe to
call from any number of goroutines.
*/
package navigation
