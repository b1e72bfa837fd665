// Package fetch performs the bounded-time HTTP retrieval of the page
// under audit.
//
// The fetcher consults the safeurl gate before dialing, caps total
// request time and redirect count, and records the elapsed time and body
// size that feed the performance scorer. Any transport error, timeout, or
// redirect-limit breach surfaces as a single *FetchError carrying the
// underlying cause; fetches are never retried automatically.
package fetch
