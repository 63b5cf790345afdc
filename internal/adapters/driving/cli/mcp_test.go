package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/quotechain/internal/adapters/driving/mcp"
)

func TestMCPServeCmd_Flags(t *testing.T) {
	assert.NotNil(t, mcpServeCmd.Flags().Lookup("port"))
	assert.NotNil(t, mcpServeCmd.Flags().Lookup("metrics-addr"))
}

func TestMCPServe_MissingPorts(t *testing.T) {
	SetServices(Services{})

	_, _, err := executeCommand(t, "", "mcp", "serve")

	assert.ErrorIs(t, err, mcp.ErrMissingGenerator)
}

func TestMCPServe_MetricsNotConfigured(t *testing.T) {
	setupTestServices(t)

	_, _, err := executeCommand(t, "", "mcp", "serve", "--metrics-addr", "127.0.0.1:0")

	assert.EqualError(t, err, "metrics not configured")
}
