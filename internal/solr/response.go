package solr

import "encoding/json"

// ResponseHeader is the common header carried by every Solr response.
type ResponseHeader struct {
	Status int                        `json:"status"`
	QTime  int                        `json:"QTime"`
	Params map[string]json.RawMessage `json:"params,omitempty"`
}

// ErrorInfo is the error block of a failed Solr response.
type ErrorInfo struct {
	Metadata []string `json:"metadata,omitempty"`
	Msg      string   `json:"msg"`
	Code     int      `json:"code"`
}

// SimpleResponse is a response carrying no body beyond the header.
type SimpleResponse struct {
	Header ResponseHeader `json:"responseHeader"`
	Error  *ErrorInfo     `json:"error,omitempty"`
}

// PingResponse is the body of the admin ping endpoint.
type PingResponse struct {
	Header ResponseHeader `json:"responseHeader"`
	Status string         `json:"status"`
}

// IndexInfo describes the Lucene index backing a core.
type IndexInfo struct {
	NumDocs      uint64 `json:"numDocs"`
	MaxDoc       uint64 `json:"maxDoc"`
	DeletedDocs  uint64 `json:"deletedDocs"`
	Version      uint64 `json:"version"`
	SegmentCount uint64 `json:"segmentCount"`
	Current      bool   `json:"current"`
	HasDeletions bool   `json:"hasDeletions"`
	SizeInBytes  uint64 `json:"sizeInBytes"`
	Size         string `json:"size"`
}

// CoreStatus is one core's entry in the admin status response.
type CoreStatus struct {
	Name      string    `json:"name"`
	StartTime string    `json:"startTime"`
	Uptime    uint64    `json:"uptime"`
	Index     IndexInfo `json:"index"`
}

// CoreList is the body of the admin cores endpoint.
type CoreList struct {
	Header ResponseHeader        `json:"responseHeader"`
	Status map[string]CoreStatus `json:"status,omitempty"`
	Error  *ErrorInfo            `json:"error,omitempty"`
}

// SelectBody is the result block of a select response: total hit count,
// offset, and the page of documents.
type SelectBody[D any] struct {
	NumFound uint32 `json:"numFound"`
	Start    uint32 `json:"start"`
	Docs     []D    `json:"docs"`
}

// SelectResponse is a full select response. D is the document shape, F the
// facet counts shape (use json.RawMessage when facets are not requested).
type SelectResponse[D any, F any] struct {
	Header   ResponseHeader `json:"responseHeader"`
	Response SelectBody[D]  `json:"response"`
	Facets   F              `json:"facets,omitempty"`
}

// TermFacetCount is the counts block of one terms facet.
type TermFacetCount struct {
	Buckets []FacetBucket `json:"buckets"`
}

// RangeFacetCount is the counts block of one range facet, including the
// overflow buckets requested with other=all.
type RangeFacetCount struct {
	Buckets []FacetBucket  `json:"buckets"`
	Before  *OverflowCount `json:"before,omitempty"`
	After   *OverflowCount `json:"after,omitempty"`
	Between *OverflowCount `json:"between,omitempty"`
}

// FacetBucket is one value/count pair of a facet result.
type FacetBucket struct {
	Val   json.RawMessage `json:"val"`
	Count uint32          `json:"count"`
}

// OverflowCount is the count of documents falling outside a range facet.
type OverflowCount struct {
	Count uint32 `json:"count"`
}
