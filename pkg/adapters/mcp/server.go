// Package mcp exposes intake routing to external assistants over the Model
// Context Protocol.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/intake"
	"github.com/aretw0/intake/internal/validator"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/proposal"
	"github.com/aretw0/intake/pkg/publish"
)

const (
	resourceScheme = "intake://"
	resourceSuffix = "/published"
)

// Engine is the part of intake.Engine assistants may reach.
type Engine interface {
	Summary(ctx context.Context, intakeID string) (proposal.Summary, error)
	Validate(ctx context.Context, intakeID string) (validator.Report, error)
	ApplyProposal(ctx context.Context, intakeID string, p proposal.Proposal) (*publish.ProposalResult, error)
	Next(ctx context.Context, intakeID, from string, answers domain.Answers) (intake.Step, error)
	Published(ctx context.Context, intakeID string) (domain.Snapshot, error)
}

var _ Engine = (*intake.Engine)(nil)

// Server wraps the Engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("intake-mcp", strings.TrimSpace(intake.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

type intakeArgs struct {
	IntakeID string `json:"intake_id"`
}

type proposeArgs struct {
	IntakeID string         `json:"intake_id"`
	Proposal map[string]any `json:"proposal"`
}

type resolveArgs struct {
	IntakeID string         `json:"intake_id"`
	From     string         `json:"from"`
	Answers  domain.Answers `json:"answers"`
}

func (s *Server) registerTools() {
	intakeID := mcp.WithString("intake_id", mcp.Required(), mcp.Description("Intake id"))

	// TOOL: get_routing_summary
	s.mcpServer.AddTool(mcp.NewTool("get_routing_summary",
		mcp.WithDescription("Get the redacted section summary of an intake draft: section ids and titles, answer blocks, and the option set of choice blocks. Routing proposals may only reference what it lists."),
		intakeID,
		mcp.WithOutputSchema[proposal.Summary](),
	), mcp.NewStructuredToolHandler(s.handleSummary))

	// TOOL: validate_flow
	s.mcpServer.AddTool(mcp.NewTool("validate_flow",
		mcp.WithDescription("Run the flow validator over the current draft and return every error and warning."),
		intakeID,
		mcp.WithOutputSchema[validator.Report](),
	), mcp.NewStructuredToolHandler(s.handleValidate))

	// TOOL: propose_routing
	s.mcpServer.AddTool(mcp.NewTool("propose_routing",
		mcp.WithDescription(`Replace the routing rules of some sections of the draft. "proposal" maps a section id to its rule list; each rule is {"id", "operator": "equals"|"any", "fromBlockId", "value", "nextSectionId"}. Unknown ids or options reject the whole proposal.`),
		intakeID,
		mcp.WithObject("proposal", mcp.Required(), mcp.Description("Rule lists keyed by section id")),
		mcp.WithOutputSchema[publish.ProposalResult](),
	), mcp.NewStructuredToolHandler(s.handlePropose))

	// TOOL: resolve_next
	s.mcpServer.AddTool(mcp.NewTool("resolve_next",
		mcp.WithDescription("Resolve the section that follows a section of the published intake, given the respondent's answers."),
		intakeID,
		mcp.WithString("from", mcp.Required(), mcp.Description("Current section id")),
		mcp.WithObject("answers", mcp.Description("Answers keyed by block id")),
		mcp.WithOutputSchema[intake.Step](),
	), mcp.NewStructuredToolHandler(s.handleResolve))
}

func (s *Server) handleSummary(ctx context.Context, request mcp.CallToolRequest, args intakeArgs) (proposal.Summary, error) {
	return s.engine.Summary(ctx, args.IntakeID)
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args intakeArgs) (validator.Report, error) {
	return s.engine.Validate(ctx, args.IntakeID)
}

func (s *Server) handlePropose(ctx context.Context, request mcp.CallToolRequest, args proposeArgs) (publish.ProposalResult, error) {
	p, err := proposal.Decode(args.Proposal)
	if err != nil {
		return publish.ProposalResult{}, err
	}
	res, err := s.engine.ApplyProposal(ctx, args.IntakeID, p)
	if err != nil {
		return publish.ProposalResult{}, err
	}
	return *res, nil
}

func (s *Server) handleResolve(ctx context.Context, request mcp.CallToolRequest, args resolveArgs) (intake.Step, error) {
	return s.engine.Next(ctx, args.IntakeID, args.From, args.Answers)
}

func (s *Server) registerResources() {
	// EXPOSE: intake://{id}/published
	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(resourceScheme+"{id}"+resourceSuffix, "Published snapshot",
		mcp.WithTemplateDescription("The published, validated graph of an intake"),
		mcp.WithTemplateMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		uri := request.Params.URI
		id := strings.TrimSuffix(strings.TrimPrefix(uri, resourceScheme), resourceSuffix)
		if id == "" || id == uri {
			return nil, fmt.Errorf("unexpected resource uri %q", uri)
		}

		snap, err := s.engine.Published(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load snapshot: %w", err)
		}
		jsonBytes, _ := json.Marshal(snap)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
