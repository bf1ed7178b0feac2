package tools

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// ToMCP converts a tool definition into its MCP wire representation,
// carrying the generated input schema through unchanged
func ToMCP(def Definition) (mcp.Tool, error) {
	raw, err := json.Marshal(def.InputSchema)
	if err != nil {
		return mcp.Tool{}, fmt.Errorf("failed to encode input schema for %s: %w", def.Name, err)
	}
	return mcp.NewToolWithRawSchema(def.Name, def.Description, raw), nil
}
