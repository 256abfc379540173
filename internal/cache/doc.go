// Package cache provides an LRU cache for immutable byte blocks.
//
// blobstore.CachingStore keeps fixed-size blocks of remote objects here so
// that re-reading a Parquet footer or column chunk does not hit the network
// again. Cached bytes can be charged to a resource.Controller.
package cache
