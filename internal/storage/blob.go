package storage

import "io"

// BlobStore keeps archived report exports.
type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
}

// ExportKey is where the XLSX export of a report is archived.
func ExportKey(reportID string) string {
	return "reports/" + reportID + ".xlsx"
}
