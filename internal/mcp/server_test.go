package mcp

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lunar-antiques/lunar/internal/collection"
	"github.com/lunar-antiques/lunar/internal/services"
)

type fakeServices struct {
	list []services.Service
	err  error
}

func (f fakeServices) List(context.Context) ([]services.Service, error) { return f.list, f.err }

func defaultServices() []services.Service {
	var out []services.Service
	for i, in := range services.DefaultServices() {
		out = append(out, services.Service{
			ID:           fmt.Sprintf("svc-%d", i),
			Title:        in.Title,
			Description:  in.Description,
			Pricing:      in.Pricing,
			Features:     []string(in.Features),
			DisplayOrder: i,
		})
	}
	return out
}

func setupServer(t *testing.T) (*Server, collection.Store) {
	t.Helper()
	items, err := collection.OpenFileStore(filepath.Join(t.TempDir(), "collection.json"))
	if err != nil {
		t.Fatalf("OpenFileStore: %v", err)
	}
	svc := fakeServices{list: defaultServices()}
	return NewServer(items, svc), items
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	var sb strings.Builder
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			sb.WriteString(tc.Text)
		}
	}
	return sb.String()
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"list_collection", listCollectionTool, "list_collection"},
		{"get_item", getItemTool, "get_item"},
		{"list_services", listServicesTool, "list_services"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	srv, items := setupServer(t)
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.items != items {
		t.Error("items store not set correctly")
	}
}

func TestHandleListCollection(t *testing.T) {
	srv, _ := setupServer(t)
	ctx := context.Background()

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"all", map[string]any{}, "Found 6 item(s)"},
		{"by category", map[string]any{"category": "silver"}, "Found 1 item(s)"},
		{"featured", map[string]any{"featured": true}, "Found 3 item(s)"},
		{"no match", map[string]any{"category": "prints", "period": "edwardian"}, "No items match"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := mcp.CallToolRequest{}
			req.Params.Arguments = tt.args

			result, err := srv.handleListCollection(ctx, req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.IsError {
				t.Fatalf("unexpected tool error: %v", result.Content)
			}
			if text := resultText(t, result); !strings.Contains(text, tt.want) {
				t.Errorf("result %q does not contain %q", text, tt.want)
			}
		})
	}
}

func TestHandleGetItem(t *testing.T) {
	srv, items := setupServer(t)
	ctx := context.Background()
	all, _ := items.List(ctx, collection.Filter{})
	first := all[0]

	t.Run("found", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"id": first.ID}

		result, err := srv.handleGetItem(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		text := resultText(t, result)
		if !strings.Contains(text, first.Title) || !strings.Contains(text, "1. "+first.Images[0]) {
			t.Errorf("unexpected item text:\n%s", text)
		}
	})

	t.Run("missing id", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleGetItem(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing id")
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"id": "nope"}

		result, _ := srv.handleGetItem(ctx, req)
		if !result.IsError {
			t.Error("expected error for unknown id")
		}
	})
}

func TestHandleListServices(t *testing.T) {
	srv, items := setupServer(t)
	ctx := context.Background()

	result, err := srv.handleListServices(ctx, mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text := resultText(t, result); !strings.Contains(text, "## UK & Worldwide Shipping") {
		t.Errorf("unexpected services text:\n%s", text)
	}

	failing := NewServer(items, fakeServices{err: errors.New("db closed")})
	result, _ = failing.handleListServices(ctx, mcp.CallToolRequest{})
	if !result.IsError {
		t.Error("expected tool error when the store fails")
	}

	none := NewServer(items, nil)
	result, _ = none.handleListServices(ctx, mcp.CallToolRequest{})
	if !result.IsError {
		t.Error("expected tool error without a services store")
	}
}
