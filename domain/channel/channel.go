// Package channel provides the tracked channel value type.
package channel

// Channel identifies one tracked YouTube channel (immutable value type).
// Ledger counters are keyed by position in the configured channel list.
type Channel struct {
	Name   string `json:"name"`
	ID     string `json:"channelId"`
	APIKey string `json:"apiKey"`
}

// Valid reports whether the channel carries enough information to be
// queried upstream. Channels without an ID or API key are skipped during
// aggregation rather than treated as errors.
func (c Channel) Valid() bool {
	return c.ID != "" && c.APIKey != ""
}

// DisplayName returns the configured name, falling back to the channel ID.
func (c Channel) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}
