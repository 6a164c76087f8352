// Package acquire obtains raw image bytes for a page image reference by
// trying an ordered list of strategies, stopping at the first success.
//
// Strategy order:
//  1. Snapshot read — the extension captured the loaded page element into an
//     encoded snapshot; render it onto an off-screen surface and export PNG.
//     Fails when no snapshot was captured, the capture is marked tainted
//     (cross-origin export blocked on the page side), it is undecodable, or
//     it has zero intrinsic dimensions.
//  2. Privileged fetch — delegate the URL to a collaborator that can fetch
//     outside the page's origin restrictions. On an authorization-denied
//     status the pipeline retries once with the alternate size-suffix form
//     of the URL.
//  3. Direct fetch — plain anonymous GET of the URL followed by the same
//     render-and-export as strategy 1.
//
// Every strategy failure is recorded on the Attempt and recovered locally;
// only exhaustion of all applicable strategies surfaces as an error.
package acquire
