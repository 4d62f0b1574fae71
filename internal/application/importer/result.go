package importer

import "encoding/json"

// BrokenRecord is one payload a batch import could not process. Channel
// processors running with skip_broken_records collect these and continue
// instead of aborting the whole batch.
type BrokenRecord struct {
	Index  int             `json:"index"`
	SKU    string          `json:"sku,omitempty"`
	Reason string          `json:"reason"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// ImportRunResult summarizes one batch import run
type ImportRunResult struct {
	TotalRecords  int            `json:"total_records"`
	CreatedCount  int            `json:"created_count"`
	UpdatedCount  int            `json:"updated_count"`
	SkippedCount  int            `json:"skipped_count"`
	BrokenRecords []BrokenRecord `json:"broken_records,omitempty"`
	IsTruncated   bool           `json:"is_truncated,omitempty"`
	TotalBroken   int            `json:"total_broken,omitempty"`
}

// ErrorCollection accumulates broken records up to a cap, counting the
// overflow instead of growing without bound
type ErrorCollection struct {
	limit   int
	records []BrokenRecord
	total   int
}

// NewErrorCollection creates a collection keeping at most limit records
func NewErrorCollection(limit int) *ErrorCollection {
	if limit <= 0 {
		limit = 100
	}
	return &ErrorCollection{limit: limit}
}

// Add records one broken payload
func (c *ErrorCollection) Add(record BrokenRecord) {
	c.total++
	if len(c.records) < c.limit {
		c.records = append(c.records, record)
	}
}

// Records returns the kept broken records
func (c *ErrorCollection) Records() []BrokenRecord {
	return c.records
}

// IsTruncated reports whether records were dropped past the cap
func (c *ErrorCollection) IsTruncated() bool {
	return c.total > len(c.records)
}

// TotalCount returns the number of broken records seen, kept or not
func (c *ErrorCollection) TotalCount() int {
	return c.total
}

// ApplyTo writes the collection into a run result
func (c *ErrorCollection) ApplyTo(result *ImportRunResult) {
	result.BrokenRecords = c.records
	result.IsTruncated = c.IsTruncated()
	result.TotalBroken = c.total
}
