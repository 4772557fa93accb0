package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lunar-antiques/lunar/internal/collection"
	"github.com/lunar-antiques/lunar/internal/services"
)

// handleListCollection lists catalog items matching the optional filters.
func (s *Server) handleListCollection(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f := collection.Filter{
		Category:     collection.Category(request.GetString("category", "")),
		Period:       collection.Period(request.GetString("period", "")),
		FeaturedOnly: request.GetBool("featured", false),
	}

	items, err := s.items.List(ctx, f)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing collection failed: %v", err)), nil
	}
	if len(items) == 0 {
		return mcp.NewToolResultText("No items match. Run `lunar seed` or `lunar import` to populate the catalog."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d item(s):\n", len(items))
	for _, it := range items {
		fmt.Fprintf(&sb, "\n- %s [%s]\n  %s, %s, %s", it.Title, it.ID, it.Category, it.Period, it.Price)
		if it.Featured {
			sb.WriteString(", featured")
		}
		sb.WriteString("\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleGetItem returns one catalog item.
func (s *Server) handleGetItem(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}

	it, err := s.items.Get(ctx, id)
	if err != nil {
		if errors.Is(err, collection.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("No item with ID %q.", id)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to read item: %v", err)), nil
	}
	return mcp.NewToolResultText(formatItem(it)), nil
}

// handleListServices lists the services CMS entries in display order.
func (s *Server) handleListServices(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.services == nil {
		return mcp.NewToolResultError("services are not available with the configured storage backend"), nil
	}
	list, err := s.services.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing services failed: %v", err)), nil
	}
	if len(list) == 0 {
		return mcp.NewToolResultText("No services are listed."), nil
	}
	return mcp.NewToolResultText(formatServices(list)), nil
}

func formatItem(it collection.Item) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", it.Title)
	fmt.Fprintf(&sb, "ID: %s\n", it.ID)
	fmt.Fprintf(&sb, "Category: %s\n", it.Category)
	fmt.Fprintf(&sb, "Period: %s\n", it.Period)
	fmt.Fprintf(&sb, "Price: %s\n", it.Price)
	fmt.Fprintf(&sb, "Featured: %t\n", it.Featured)
	fmt.Fprintf(&sb, "\n%s\n", it.Description)
	fmt.Fprintf(&sb, "\nImages (%d, in rotation order):\n", len(it.Images))
	for i, img := range it.Images {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, img)
	}
	return sb.String()
}

func formatServices(list []services.Service) string {
	var sb strings.Builder
	for i, svc := range list {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "## %s\n", svc.Title)
		if svc.Pricing != "" {
			fmt.Fprintf(&sb, "Pricing: %s\n", svc.Pricing)
		}
		if svc.Description != "" {
			fmt.Fprintf(&sb, "%s\n", svc.Description)
		}
		for _, f := range svc.Features {
			fmt.Fprintf(&sb, "- %s\n", f)
		}
	}
	return sb.String()
}
