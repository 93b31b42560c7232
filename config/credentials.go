package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/PRATIKUGALE02/youtube-proxy/domain/channel"
)

// credentialsFile is the on-disk shape of the credentials document.
type credentialsFile struct {
	Channels []channel.Channel `json:"channels"`
}

// LoadCredentials reads the channel credentials file. A missing or
// malformed file yields an empty list and an error; the caller decides
// whether that is fatal (it is not at startup, the service runs with
// zero channels until the file appears).
func LoadCredentials(path string) ([]channel.Channel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	var doc credentialsFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}

	return doc.Channels, nil
}
