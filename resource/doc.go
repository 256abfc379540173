// Package resource provides a Controller for the resources a cursor and its
// sources consume.
//
//   - Memory: the cache store charges its partition arrays and the bytes of every
//     blob and string it keeps. Acquisition is fail-fast; a cursor that would
//     exceed the budget fails instead of waiting.
//   - IO: remote block reads (see blobstore.CachingStore) wait on a token bucket.
//
// A nil *Controller is valid and imposes no limits:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes:   64 << 20,
//	    IOLimitBytesPerSec: 8 << 20,
//	})
//	cur, err := pagecursor.New(src, pagecursor.WithResourceController(rc))
package resource
