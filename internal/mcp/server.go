package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/a3tai/mcp-offer-letter/internal/compliance"
	"github.com/a3tai/mcp-offer-letter/internal/config"
	"github.com/a3tai/mcp-offer-letter/internal/descriptions"
	"github.com/a3tai/mcp-offer-letter/internal/pdf"
	"github.com/a3tai/mcp-offer-letter/internal/render"
	"github.com/a3tai/mcp-offer-letter/internal/session"
	"github.com/a3tai/mcp-offer-letter/internal/template"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	session    *session.Session
	info       *pdf.ServerInfo
	mcpServer  *server.MCPServer
	now        func() time.Time
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, pdfService *pdf.Service, sess *session.Session) (*Server, error) {
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}
	if sess == nil {
		return nil, fmt.Errorf("session cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		session:    sess,
		info:       pdf.NewServerInfo(pdfService, pdf.DefaultInfoTTL),
		mcpServer:  mcpServer,
		now:        time.Now,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	// Templates
	s.mcpServer.AddTool(mcp.NewTool(
		"offer_list_templates",
		mcp.WithDescription(descriptions.OfferListTemplatesDescription),
		mcp.WithString("directory",
			mcp.Description("Directory to search (uses the template directory if empty)"),
		),
		mcp.WithString("pattern",
			mcp.Description("Glob relative to the directory, e.g. **/*.pdf"),
		),
		mcp.WithString("query",
			mcp.Description("Words that must all appear in the file name"),
		),
	), s.handleListTemplates)

	s.mcpServer.AddTool(mcp.NewTool(
		"offer_load_template",
		mcp.WithDescription(descriptions.OfferLoadTemplateDescription),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to a .pdf, .txt or .md template"),
		),
	), s.handleLoadTemplate)

	s.mcpServer.AddTool(mcp.NewTool(
		"offer_validate_template",
		mcp.WithDescription(descriptions.OfferValidateTemplateDescription),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the template file"),
		),
	), s.handleValidateTemplate)

	// Variables
	s.mcpServer.AddTool(mcp.NewTool(
		"offer_set_variable",
		mcp.WithDescription(descriptions.OfferSetVariableDescription),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Variable name, e.g. Candidate Name"),
		),
		mcp.WithString("value",
			mcp.Required(),
			mcp.Description("Value to substitute; empty clears the variable"),
		),
	), s.handleSetVariable)

	s.mcpServer.AddTool(mcp.NewTool(
		"offer_seed_variables",
		mcp.WithDescription(descriptions.OfferSeedVariablesDescription),
		mcp.WithString("suggestions",
			mcp.Required(),
			mcp.Description("JSON object of variable name to suggested value"),
		),
	), s.handleSeedVariables)

	s.mcpServer.AddTool(mcp.NewTool(
		"offer_clear_variables",
		mcp.WithDescription(descriptions.OfferClearVariablesDescription),
	), s.handleClearVariables)

	s.mcpServer.AddTool(mcp.NewTool(
		"offer_list_variables",
		mcp.WithDescription(descriptions.OfferListVariablesDescription),
	), s.handleListVariables)

	// Compliance
	s.mcpServer.AddTool(mcp.NewTool(
		"offer_set_jurisdiction",
		mcp.WithDescription(descriptions.OfferSetJurisdictionDescription),
		mcp.WithString("jurisdiction",
			mcp.Required(),
			mcp.Description("US state code, e.g. CA or NY"),
		),
	), s.handleSetJurisdiction)

	s.mcpServer.AddTool(mcp.NewTool(
		"offer_check_compliance",
		mcp.WithDescription(descriptions.OfferCheckComplianceDescription),
		mcp.WithBoolean("flagged_only",
			mcp.Description("Only list sentences that have flags"),
		),
	), s.handleCheckCompliance)

	s.mcpServer.AddTool(mcp.NewTool(
		"offer_add_rule",
		mcp.WithDescription(descriptions.OfferAddRuleDescription),
		mcp.WithString("rules",
			mcp.Description("JSON or YAML object of rule key to rule definition"),
		),
		mcp.WithString("preset",
			mcp.Description("Name of a ready-made rule"),
		),
		mcp.WithString("name",
			mcp.Description("Rule name; the rule key is derived from it"),
		),
		mcp.WithString("description",
			mcp.Description("What the rule requires; shown as the flag message"),
		),
		mcp.WithString("severity",
			mcp.Description("error, warning or info (default error)"),
		),
		mcp.WithString("law_reference",
			mcp.Description("Statute or regulation the rule comes from"),
		),
		mcp.WithString("flagged_phrases",
			mcp.Description("Comma-separated phrases that trigger the rule"),
		),
	), s.handleAddRule)

	s.mcpServer.AddTool(mcp.NewTool(
		"offer_compliance_report",
		mcp.WithDescription(descriptions.OfferComplianceReportDescription),
	), s.handleComplianceReport)

	// Rendering
	s.mcpServer.AddTool(mcp.NewTool(
		"offer_render_text",
		mcp.WithDescription(descriptions.OfferRenderTextDescription),
		mcp.WithBoolean("exact",
			mcp.Description("Only replace tokens whose name matches a variable exactly"),
		),
		mcp.WithBoolean("preview",
			mcp.Description("Return the debounced preview, running any pending refresh first"),
		),
	), s.handleRenderText)

	s.mcpServer.AddTool(mcp.NewTool(
		"offer_render_plan",
		mcp.WithDescription(descriptions.OfferRenderPlanDescription),
		mcp.WithNumber("scale",
			mcp.Description("Pixels per point; 0 plans in PDF points"),
		),
		mcp.WithString("erase_mode",
			mcp.Description("How token glyphs are erased: fill (opaque white, default) or punch (clear to transparent)"),
		),
	), s.handleRenderPlan)

	s.mcpServer.AddTool(mcp.NewTool(
		"offer_export_pdf",
		mcp.WithDescription(descriptions.OfferExportPDFDescription),
		mcp.WithString("output_path",
			mcp.Description("Where to write the PDF (default Offer_Letter_<Candidate>_<date>.pdf)"),
		),
	), s.handleExportPDF)

	s.mcpServer.AddTool(mcp.NewTool(
		"offer_server_info",
		mcp.WithDescription(descriptions.OfferServerInfoDescription),
	), s.handleServerInfo)
}

func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return strings.TrimSpace(v)
}

func boolArg(args map[string]any, key string) bool {
	switch v := args[key].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	}
	return false
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleListTemplates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	req := pdf.TemplateSearchRequest{
		Directory: stringArg(args, "directory"),
		Pattern:   stringArg(args, "pattern"),
		Query:     stringArg(args, "query"),
	}

	result, err := s.pdfService.ListTemplates(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.TotalCount == 0 {
		responseText = fmt.Sprintf("No templates found in directory: %s", result.Directory)
		if result.SearchQuery != "" {
			responseText += fmt.Sprintf(" (searched for: %s)", result.SearchQuery)
		}
	} else {
		responseText = s.formatTemplateList(result)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleLoadTemplate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := s.pdfService.LoadTemplate(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.session.Load(doc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatLoadResult(result)), nil
}

func (s *Server) handleValidateTemplate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.ValidateTemplate(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("Template %s is valid (%s", result.Path, result.Kind)
		if result.Kind == pdf.KindPDF {
			responseText += fmt.Sprintf(", %d page(s)", result.Pages)
		}
		responseText += ")"
	} else {
		responseText = fmt.Sprintf("Template %s is invalid: %s", result.Path, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleSetVariable(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	value, err := request.RequireString("value")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.session.Set(name, value); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	filled, total := s.session.Completion()
	responseText := fmt.Sprintf("Set %s = %q (%d of %d variables filled)", name, value, filled, total)
	if value == "" {
		responseText = fmt.Sprintf("Cleared %s (%d of %d variables filled)", name, filled, total)
	}
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleSeedVariables(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	suggestions := make(map[string]string)
	switch v := args["suggestions"].(type) {
	case string:
		if err := json.Unmarshal([]byte(v), &suggestions); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("suggestions must be a JSON object of name to value: %v", err)), nil
		}
	case map[string]any:
		for name, value := range v {
			suggestions[name] = fmt.Sprint(value)
		}
	default:
		return mcp.NewToolResultError("required argument \"suggestions\" not found"), nil
	}

	created := s.session.Seed(suggestions)
	filled, total := s.session.Completion()

	responseText := fmt.Sprintf("Added %d new variable(s); %d of %d variables filled", len(created), filled, total)
	if len(created) > 0 {
		responseText += "\nNew: " + strings.Join(created, ", ")
	}
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleClearVariables(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.session.ClearAll()
	_, total := s.session.Completion()
	return mcp.NewToolResultText(fmt.Sprintf("Cleared %d variable(s)", total)), nil
}

func (s *Server) handleListVariables(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	vars := s.session.Variables()
	if len(vars) == 0 {
		return mcp.NewToolResultText("No variables yet. Load a template or seed variables first."), nil
	}
	filled, total := s.session.Completion()
	return mcp.NewToolResultText(s.formatVariables(vars, filled, total)), nil
}

func (s *Server) handleSetJurisdiction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jurisdiction, err := request.RequireString("jurisdiction")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.session.SetJurisdiction(ctx, jurisdiction); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	code := s.session.Jurisdiction()
	responseText := fmt.Sprintf("Jurisdiction set to %s (%d rule(s))", code, len(s.session.Rules()))
	if result, err := s.session.Compliance(true); err == nil {
		responseText += "\n" + formatSummary(result.Summary)
	}
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleCheckCompliance(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	flaggedOnly := boolArg(request.GetArguments(), "flagged_only")

	result, err := s.session.Compliance(flaggedOnly)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatCompliance(result)), nil
}

func (s *Server) handleAddRule(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	jurisdiction := s.session.Jurisdiction()

	if raw := stringArg(args, "rules"); raw != "" {
		keys, err := s.session.AddRules([]byte(raw))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Added %d rule(s) to %s: %s",
			len(keys), jurisdiction, strings.Join(keys, ", "))), nil
	}

	var form compliance.Form
	if preset := stringArg(args, "preset"); preset != "" {
		f, ok := compliance.Presets[strings.ToLower(preset)]
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unknown preset %q (available: %s)",
				preset, strings.Join(presetNames(), ", "))), nil
		}
		form = f
	}
	if v := stringArg(args, "name"); v != "" {
		form.Name = v
	}
	if v := stringArg(args, "description"); v != "" {
		form.Description = v
	}
	if v := stringArg(args, "severity"); v != "" {
		form.Severity = v
	}
	if v := stringArg(args, "law_reference"); v != "" {
		form.LawReference = v
	}
	if v := stringArg(args, "flagged_phrases"); v != "" {
		form.FlaggedPhrases = v
	}

	rule, err := s.session.AddRuleForm(form)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Added rule %s to %s (%s)", rule.Key, jurisdiction, rule.Severity)
	if len(rule.FlaggedPhrases) > 0 {
		responseText += "\nFlagged phrases: " + strings.Join(rule.FlaggedPhrases, ", ")
	} else {
		responseText += "\nThe rule has no flagged phrases and will not match any sentence"
	}
	return mcp.NewToolResultText(responseText), nil
}

func presetNames() []string {
	names := make([]string, 0, len(compliance.Presets))
	for name := range compliance.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Server) handleComplianceReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := s.session.Report(s.now())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(report)
}

func (s *Server) handleRenderText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	if boolArg(args, "preview") {
		if s.session.Document() == nil {
			return mcp.NewToolResultError("no template loaded"), nil
		}
		p := s.session.Preview(true)
		header := fmt.Sprintf("Preview #%d: %d of %d variables filled", p.Generation, p.Filled, p.Total)
		if p.Ops > 0 {
			header += fmt.Sprintf(", %d drawing operation(s)", p.Ops)
		}
		return mcp.NewToolResultText(header + "\n\n" + p.Text), nil
	}

	text, err := s.session.RenderText(boolArg(args, "exact"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleRenderPlan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scale, _ := request.GetArguments()["scale"].(float64)
	if scale < 0 {
		return mcp.NewToolResultError("scale cannot be negative"), nil
	}

	var mode render.EraseMode
	if err := mode.UnmarshalText([]byte(stringArg(request.GetArguments(), "erase_mode"))); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	plans, err := s.session.RenderPlan(scale, mode)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(plans)
}

func (s *Server) handleExportPDF(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	outputPath := stringArg(request.GetArguments(), "output_path")

	doc, resolve, err := s.session.ExportInput()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if outputPath == "" {
		outputPath = pdf.OutputName(pdf.CandidateName(resolve), s.now())
	}

	result, err := s.pdfService.ExportToFile(doc, resolve, outputPath)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.info.Invalidate()

	var responseText string
	if result.Fallback {
		responseText = "⚠️  Export failed, the original template was written unchanged\n"
		responseText += fmt.Sprintf("Reason: %s\n", result.Error)
	} else {
		responseText = fmt.Sprintf("Exported offer letter with %d substitution(s)\n", result.Stamps)
	}
	responseText += fmt.Sprintf("File: %s\n", result.Path)
	responseText += fmt.Sprintf("Size: %d bytes\n", result.Size)

	if filled, total := s.session.Completion(); filled < total {
		responseText += fmt.Sprintf("Note: %d of %d variables are still empty and were left as [Token]\n", total-filled, total)
	}
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result := s.info.GetServerInfo(s.config.ServerName, s.config.Version,
		s.session.Jurisdiction(), s.session.Jurisdictions())
	return mcp.NewToolResultText(s.formatServerInfo(result)), nil
}

// Formatting methods
func (s *Server) formatTemplateList(result *pdf.TemplateSearchResult) string {
	text := fmt.Sprintf("Found %d template(s) in directory: %s\n", result.TotalCount, result.Directory)
	if result.SearchQuery != "" {
		text += fmt.Sprintf("Search query: %s\n", result.SearchQuery)
	}
	text += "\nTemplates:\n"

	for i, file := range result.Files {
		text += fmt.Sprintf("%d. %s (%s)\n", i+1, file.Name, file.Kind)
		text += fmt.Sprintf("   Path: %s\n", file.Path)
		text += fmt.Sprintf("   Size: %d bytes\n", file.Size)
		text += fmt.Sprintf("   Modified: %s\n", file.ModifiedTime)
		if i < len(result.Files)-1 {
			text += "\n"
		}
	}

	return text
}

func (s *Server) formatLoadResult(result *session.LoadResult) string {
	text := fmt.Sprintf("Loaded template: %s (%s, %d page(s))\n", result.Name, result.Kind, result.Pages)
	text += fmt.Sprintf("Tokens found: %d\n", result.Tokens)
	text += fmt.Sprintf("Sentences: %d\n", result.Sentences)

	if len(result.Names) > 0 {
		text += "\nVariables:\n"
		for _, name := range result.Names {
			text += fmt.Sprintf("  • [%s]\n", name)
		}
	} else {
		text += "\nNo [Placeholder] tokens found\n"
	}
	if len(result.Created) > 0 {
		text += fmt.Sprintf("New variables: %s\n", strings.Join(result.Created, ", "))
	}

	text += fmt.Sprintf("\nCompliance (%s): %s\n", s.session.Jurisdiction(), formatSummary(result.Summary))
	return text
}

func (s *Server) formatVariables(vars []template.Variable, filled, total int) string {
	text := fmt.Sprintf("Variables: %d of %d filled\n", filled, total)

	groups := template.Group(vars)
	for _, category := range template.Categories {
		list := groups[category]
		if len(list) == 0 {
			continue
		}
		text += fmt.Sprintf("\n%s:\n", strings.ToUpper(string(category)))
		for _, v := range list {
			value := "(empty)"
			if v.Filled() {
				value = v.Value
			}
			text += fmt.Sprintf("  • %s: %s", v.Name, value)
			if v.Occurrences > 0 {
				text += fmt.Sprintf(" [%d occurrence(s)", v.Occurrences)
				if v.FlaggedOccurrences > 0 {
					text += fmt.Sprintf(", %d flagged", v.FlaggedOccurrences)
				}
				text += "]"
			}
			text += "\n"
		}
	}

	return text
}

func formatSummary(summary compliance.Summary) string {
	if summary.Total() == 0 {
		return "no issues found"
	}
	return fmt.Sprintf("%d error(s), %d warning(s), %d info", summary.Error, summary.Warning, summary.Info)
}

func (s *Server) formatCompliance(result *session.ComplianceResult) string {
	text := fmt.Sprintf("Compliance check (%s): %s\n", result.Jurisdiction, formatSummary(result.Summary))

	for _, sentence := range result.Sentences {
		text += fmt.Sprintf("\n[%s] %s\n", sentence.ID, sentence.Text)
		for _, flag := range result.Flags[sentence.ID] {
			text += fmt.Sprintf("  %s %s: %s\n", strings.ToUpper(string(flag.Severity)), flag.RuleKey, flag.Message)
			if flag.LawReference != "" {
				text += fmt.Sprintf("    Law: %s\n", flag.LawReference)
			}
			text += fmt.Sprintf("    Matched: %q\n", flag.Evidence)
			if flag.Suggestion != "" {
				text += fmt.Sprintf("    Suggestion: %s\n", flag.Suggestion)
			}
			if flag.AlternativeLanguage != "" {
				text += fmt.Sprintf("    Alternative: %s\n", flag.AlternativeLanguage)
			}
		}
	}

	return text
}

func (s *Server) formatServerInfo(result *pdf.ServerInfoResult) string {
	text := fmt.Sprintf("📋 %s v%s - Server Information\n", result.ServerName, result.Version)
	text += fmt.Sprintf("📁 Template Directory: %s\n", result.TemplateDirectory)
	text += fmt.Sprintf("📏 Max File Size: %d MB\n", result.MaxFileSize/(1024*1024))
	text += fmt.Sprintf("⚖️  Jurisdiction: %s (rules for %s)\n\n", result.Jurisdiction, strings.Join(result.Jurisdictions, ", "))

	if len(result.Templates) > 0 {
		text += fmt.Sprintf("📂 Templates (%d found):\n", len(result.Templates))
		for i, file := range result.Templates {
			if i >= 10 {
				text += fmt.Sprintf("   ... and %d more\n", len(result.Templates)-10)
				break
			}
			text += fmt.Sprintf("   %d. %s (%d bytes)\n", i+1, file.Name, file.Size)
		}
		text += "\n"
	} else {
		text += "📂 Templates: none found in the template directory\n\n"
	}

	text += "🛠️  Available Tools:\n"
	for _, tool := range result.AvailableTools {
		text += fmt.Sprintf("\n• %s\n", tool.Name)
		text += fmt.Sprintf("  Usage: %s\n", tool.Usage)
		text += fmt.Sprintf("  Parameters: %s\n", tool.Parameters)
	}

	text += "\n" + result.UsageGuidance

	return text
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting offer letter MCP server in stdio mode")
		log.Printf("Template directory: %s", s.config.TemplateDirectory)
		log.Printf("Jurisdiction: %s", s.session.Jurisdiction())
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode serves MCP over SSE on the configured address until ctx
// is cancelled.
func (s *Server) runServerMode(ctx context.Context) error {
	addr := s.config.Address()
	sse := server.NewSSEServer(s.mcpServer, server.WithBaseURL("http://"+addr))

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting offer letter MCP server on %s", addr)
		errCh <- sse.Start(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve sse: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := sse.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		return nil
	}
}
