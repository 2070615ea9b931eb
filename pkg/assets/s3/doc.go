// Package s3 serves assets from an AWS S3 bucket.
package s3
