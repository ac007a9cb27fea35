// Package blobstore defines the storage abstraction for snapshot blobs and
// provides in-memory and local-filesystem implementations.
//
// Remote backends live in subpackages:
//   - blobstore/s3: Amazon S3
//   - blobstore/minio: MinIO and other S3-compatible object stores
package blobstore
