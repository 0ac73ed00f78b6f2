package enhancer

import "yashubustudio/launchersearch/textnorm"

// IsStale reports whether a batch computed for computedFor must be dropped
// because the search box now holds different, non-empty text.
func IsStale(computedFor, liveText string) bool {
	live := textnorm.Normalize(liveText)
	return live != "" && live != textnorm.Normalize(computedFor)
}

// Deliver hands results to deliver unless they went stale against the text
// returned by live. It reports whether the batch was delivered.
func Deliver[T any](computedFor string, live func() string, results T, deliver func(T)) bool {
	if live != nil && IsStale(computedFor, live()) {
		return false
	}
	deliver(results)
	return true
}
