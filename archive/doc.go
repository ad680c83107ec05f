// Package archive stores finished run artifacts (CSV files, HTML
// reports) in a local directory or S3-compatible object storage, and can
// register completed runs in a DynamoDB table for deduplication across
// long batch campaigns.
package archive
