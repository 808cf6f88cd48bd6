package main

import (
	"strings"
	"testing"

	"github.com/peterldowns/testy/assert"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr []string
	}{
		{
			name: "valid config",
			cfg: Config{
				Symbols:             []string{"R_100", "R_50"},
				APIToken:            "token",
				BrokerURL:           "wss://example.test/ws",
				ConfidenceThreshold: 0.4,
			},
			wantErr: nil,
		},
		{
			name: "missing symbols",
			cfg: Config{
				APIToken:            "token",
				BrokerURL:           "wss://example.test/ws",
				ConfidenceThreshold: 0.4,
			},
			wantErr: []string{"no symbols provided for trader service"},
		},
		{
			name: "missing api token",
			cfg: Config{
				Symbols:             []string{"R_100"},
				BrokerURL:           "wss://example.test/ws",
				ConfidenceThreshold: 0.4,
			},
			wantErr: []string{"api token cannot be an empty string"},
		},
		{
			name: "missing token and broker url",
			cfg: Config{
				Symbols:             []string{"R_100"},
				ConfidenceThreshold: 0.4,
			},
			wantErr: []string{
				"api token cannot be an empty string",
				"broker url cannot be an empty string",
			},
		},
		{
			name: "out of range confidence threshold",
			cfg: Config{
				Symbols:             []string{"R_100"},
				APIToken:            "token",
				BrokerURL:           "wss://example.test/ws",
				ConfidenceThreshold: 1.2,
			},
			wantErr: []string{"confidence threshold must be in (0, 1)"},
		},
		{
			name: "malformed min order sizes",
			cfg: Config{
				Symbols:             []string{"R_100"},
				APIToken:            "token",
				BrokerURL:           "wss://example.test/ws",
				ConfidenceThreshold: 0.4,
				MinOrderSizes:       "R_100=1.0",
			},
			wantErr: []string{"malformed min order size pair"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.cfg.Validate()
			if len(test.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}

			assert.Error(t, err)
			for _, want := range test.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error %q does not mention %q", err.Error(), want)
				}
			}
		})
	}
}

func TestParseMinOrderSizes(t *testing.T) {
	cfg := Config{MinOrderSizes: "R_100:1.0, R_50:0.5"}
	sizes, err := cfg.ParseMinOrderSizes()
	assert.NoError(t, err)
	assert.Equal(t, sizes["R_100"], 1.0)
	assert.Equal(t, sizes["R_50"], 0.5)

	// Ensure an empty setting parses to an empty map.
	cfg = Config{}
	sizes, err = cfg.ParseMinOrderSizes()
	assert.NoError(t, err)
	assert.Equal(t, len(sizes), 0)

	// Ensure malformed sizes are rejected.
	cfg = Config{MinOrderSizes: "R_100:abc"}
	_, err = cfg.ParseMinOrderSizes()
	assert.Error(t, err)
}
