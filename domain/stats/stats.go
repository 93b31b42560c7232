// Package stats provides channel statistics types and upstream response
// parsing. Parsing is pure; fetching lives in adapters/youtube.
package stats

import "github.com/tidwall/gjson"

// NotAvailable is the sentinel reported for a statistic the upstream did
// not return. The Data API omits hidden counters rather than zeroing them.
const NotAvailable = "N/A"

// ChannelStats is the per-channel response entry (value type, not
// persisted). The Data API reports counters as decimal strings, so the
// fields stay strings end to end.
type ChannelStats struct {
	Name        string `json:"name"`
	Subscribers string `json:"subscribers"`
	Views       string `json:"views"`
	Videos      string `json:"videos"`
}

// ParseChannelStats extracts the statistics of the first result item from a
// channels.list response body. Each field independently falls back to the
// NotAvailable sentinel when the item or the counter is absent; an empty
// items array is a valid response, not an error.
func ParseChannelStats(name string, body []byte) ChannelStats {
	return ChannelStats{
		Name:        name,
		Subscribers: statField(body, "items.0.statistics.subscriberCount"),
		Views:       statField(body, "items.0.statistics.viewCount"),
		Videos:      statField(body, "items.0.statistics.videoCount"),
	}
}

func statField(body []byte, path string) string {
	v := gjson.GetBytes(body, path)
	if !v.Exists() || v.String() == "" {
		return NotAvailable
	}
	return v.String()
}
