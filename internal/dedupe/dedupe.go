// Package dedupe provides the shared singleflight group used to collapse
// concurrent narration generation for the same cache key.
package dedupe

import "golang.org/x/sync/singleflight"

// NarrationGroup deduplicates narration requests keyed by keys.NarrationKey.
var NarrationGroup singleflight.Group
