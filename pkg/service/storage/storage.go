// Package storage puts exported reports into object storage.
package storage

import "strings"

const (
	BackendGCS = "gcs"
	BackendS3  = "s3"
)

// objectKey prefixes key, tolerating a prefix with or without a trailing slash
func objectKey(prefix, key string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return key
	}
	return prefix + "/" + strings.TrimLeft(key, "/")
}
