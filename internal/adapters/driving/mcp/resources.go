package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for storefront resources.
const uriScheme = "storefront://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "session",
		Name:        "session",
		Description: "Whether the client is signed in, and as whom",
		MIMEType:    "application/json",
	}, s.handleSessionResource)
}

// sessionInfo never carries token values.
type sessionInfo struct {
	Authenticated   bool   `json:"authenticated"`
	HasRefreshToken bool   `json:"has_refresh_token"`
	Email           string `json:"email,omitempty"`
}

func (s *Server) handleSessionResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	var info sessionInfo
	if s.ports.Session != nil {
		status, err := s.ports.Session.Status(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading session: %w", err)
		}
		info.Authenticated = status.Authenticated
		info.HasRefreshToken = status.HasRefreshToken
		if status.Profile != nil {
			info.Email = status.Profile.Email
		}
	}

	data, err := json.Marshal(info)
	if err != nil {
		return nil, fmt.Errorf("encoding session: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
