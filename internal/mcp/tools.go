package mcp

import "github.com/mark3labs/mcp-go/mcp"

// listCollectionTool defines the list_collection MCP tool.
var listCollectionTool = mcp.NewTool("list_collection",
	mcp.WithDescription("List antiques in the catalog, optionally filtered by category, period or featured status."),
	mcp.WithString("category",
		mcp.Description("Only return items in this category"),
		mcp.Enum("furniture", "porcelain", "silver", "prints", "sculpture", "decorative"),
	),
	mcp.WithString("period",
		mcp.Description("Only return items from this period"),
		mcp.Enum("georgian", "regency", "victorian", "edwardian"),
	),
	mcp.WithBoolean("featured",
		mcp.Description("Only return featured items"),
	),
)

// getItemTool defines the get_item MCP tool.
var getItemTool = mcp.NewTool("get_item",
	mcp.WithDescription("Get the full record of one catalog item, including its ordered 360° image sequence."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Item ID as returned by list_collection"),
	),
)

// listServicesTool defines the list_services MCP tool.
var listServicesTool = mcp.NewTool("list_services",
	mcp.WithDescription("List the services the dealer offers with pricing and features."),
)
