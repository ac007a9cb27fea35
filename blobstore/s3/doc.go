// Package s3 provides a blobstore.Store implementation backed by Amazon S3,
// suitable for archiving register snapshots off the simulation host.
package s3
