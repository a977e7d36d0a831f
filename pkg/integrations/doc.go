// Package integrations provides the shared HTTP client used by interaction
// database clients.
//
// [Client] wraps net/http with three concerns every remote lookup needs:
//
//   - Caching: responses are stored in a [cache.Cache] under namespaced keys
//   - Retries: transient failures (connection errors, 5xx, 429) are retried
//     with exponential backoff via [httputil.RetryWithBackoff]
//   - Observability: requests, responses and cache lookups fire the hooks
//     registered in [observability]
//
// Database-specific clients live in subpackages, currently [stringdb].
//
// [cache.Cache]: github.com/gemdiff/perturbviz/pkg/cache
// [httputil.RetryWithBackoff]: github.com/gemdiff/perturbviz/pkg/httputil
// [observability]: github.com/gemdiff/perturbviz/pkg/observability
// [stringdb]: github.com/gemdiff/perturbviz/pkg/integrations/stringdb
package integrations
