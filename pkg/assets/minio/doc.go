// Package minio serves assets from a MinIO or other S3-compatible bucket.
package minio
