// Package httputil fetches JSON documents from the data source.
//
// # Overview
//
//   - [Client]: GET with retry, status classification and response caching
//   - [Retry]: exponential backoff for errors wrapped in [RetryableError]
//
// # Retry
//
// Network errors, 5xx and 429 responses are retried. A 404 is terminal and
// surfaces as a NOT_FOUND error, so a missing index or detail file aborts the
// load instead of being retried.
//
//	client := httputil.NewClient(cache.NewNullCache(), logger)
//	var cats []hierarchy.Category
//	err := client.GetJSON(ctx, "categories", base+"/categories.json", &cats)
//
// # Caching
//
// Response bodies are stored in a [cache.Cache] under
// Keyer.HTTPKey(namespace, url) for [cache.TTLHTTP]. Set Client.TTL to zero
// to bypass writes.
package httputil
