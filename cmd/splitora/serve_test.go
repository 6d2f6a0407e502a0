package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/splitora/client/pkg/config"
)

func TestListenAddr(t *testing.T) {
	t.Setenv("SPLITORA_GATEWAY_HOST", "")
	t.Setenv("SPLITORA_GATEWAY_PORT", "")
	cfg := config.Load()

	assert.Equal(t, "127.0.0.1:9040", listenAddr(cfg, "", 0))
	assert.Equal(t, "127.0.0.1:8081", listenAddr(cfg, "", 8081))
	assert.Equal(t, "0.0.0.0:9040", listenAddr(cfg, "0.0.0.0", 0))
	assert.Equal(t, "[::1]:9040", listenAddr(cfg, "::1", 0))

	assert.Equal(t, "127.0.0.1:9040", listenAddr(&config.Config{GatewayPort: 9040}, "", 0))
}

func TestListenAddr_ConfiguredHost(t *testing.T) {
	t.Setenv("SPLITORA_GATEWAY_HOST", "192.168.1.10")
	t.Setenv("SPLITORA_GATEWAY_PORT", "7000")

	assert.Equal(t, "192.168.1.10:7000", listenAddr(config.Load(), "", 0))
}
