package domain

import "errors"

// Failure categories for the scrape pipeline. Adapters wrap these with %w so
// callers can classify any error in the chain via errors.Is.
var (
	// ErrFetch marks transport failures and non-200 responses from the portal.
	ErrFetch = errors.New("fetch failed")

	// ErrParse marks responses or documents that do not match the expected
	// shape: undecodable JSON, records missing identifiers, empty names.
	ErrParse = errors.New("malformed source data")

	// ErrExport marks failures writing the snapshot or workbook to disk.
	ErrExport = errors.New("export failed")
)
