package flatfiles

import "time"

// FileInfo describes one object in the flat file bucket.
type FileInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// FileResult is the outcome of downloading one file. Err is set when the
// transfer failed, in which case Path and Size are zero.
type FileResult struct {
	Key  string
	Path string
	Size int64
	Err  error
}

// BatchResult collects per-file outcomes of a batch download, in key order.
// Partial failure is a normal outcome; inspect the counts or the individual
// results to decide how to proceed.
type BatchResult struct {
	Results []FileResult
}

// Succeeded counts the files that downloaded cleanly.
func (b *BatchResult) Succeeded() int {
	n := 0
	for _, r := range b.Results {
		if r.Err == nil {
			n++
		}
	}
	return n
}

// Failed counts the files that did not download.
func (b *BatchResult) Failed() int {
	return len(b.Results) - b.Succeeded()
}

// FullySucceeded reports whether every file in the batch downloaded.
func (b *BatchResult) FullySucceeded() bool {
	return b.Failed() == 0
}
