package config_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/walletkit/internal/config"
)

func TestPrintServiceEnv(t *testing.T) {
	config := config.DefaultServiceConfigFromEnv()
	_, err := json.MarshalIndent(config, "", "  ")

	if err != nil {
		t.Fatal(err)
	}
}

func TestDefaultsAreUsable(t *testing.T) {
	cfg := config.DefaultServiceConfigFromEnv()

	assert.Equal(t, ":8080", cfg.Echo.ListenAddress)
	assert.NotEmpty(t, cfg.Thor.NodeURLs)
	assert.Equal(t, "main", cfg.Thor.Network)
	assert.Contains(t, cfg.Auth.EnabledMethods, "wallet")
	assert.Contains(t, cfg.Auth.EnabledMethods, "ecosystem")

	require.Contains(t, cfg.SmartAccount.FactoryAddresses, "main")
	require.Contains(t, cfg.SmartAccount.FactoryAddresses, "test")
}
