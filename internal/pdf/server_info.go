package pdf

import (
	"fmt"
	"sync"
	"time"

	"github.com/a3tai/mcp-offer-letter/internal/descriptions"
)

// DefaultInfoTTL is how long a directory listing is reused by server info
const DefaultInfoTTL = 5 * time.Minute

// maxInfoTemplates caps the listing included in server info
const maxInfoTemplates = 100

// ToolInfo describes one tool for the server info listing
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Usage       string `json:"usage"`
	Parameters  string `json:"parameters"`
}

// ServerInfoResult is everything offer_server_info reports
type ServerInfoResult struct {
	ServerName        string     `json:"server_name"`
	Version           string     `json:"version"`
	TemplateDirectory string     `json:"template_directory"`
	MaxFileSize       int64      `json:"max_file_size"`
	Jurisdiction      string     `json:"jurisdiction"`
	Jurisdictions     []string   `json:"jurisdictions"`
	AvailableTools    []ToolInfo `json:"available_tools"`
	Templates         []FileInfo `json:"templates"`
	Truncated         bool       `json:"truncated"`
	FromCache         bool       `json:"from_cache"`
	UsageGuidance     string     `json:"usage_guidance"`
}

// DirectoryCache provides TTL-based caching for template listings
type DirectoryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

type cacheEntry struct {
	files      []FileInfo
	lastUpdate time.Time
}

// NewDirectoryCache creates a new directory cache with specified TTL
func NewDirectoryCache(ttl time.Duration) *DirectoryCache {
	return &DirectoryCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached listing for dir if it has not expired
func (c *DirectoryCache) Get(dir string) ([]FileInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[dir]
	if !ok || c.now().Sub(entry.lastUpdate) > c.ttl {
		return nil, false
	}
	return entry.files, true
}

// Set stores a listing
func (c *DirectoryCache) Set(dir string, files []FileInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[dir] = cacheEntry{files: files, lastUpdate: c.now()}
}

// Invalidate drops every entry, e.g. after an export wrote a new file
func (c *DirectoryCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// ServerInfo builds server info over a service, caching the template
// listing of the template directory.
type ServerInfo struct {
	service *Service
	cache   *DirectoryCache
}

// NewServerInfo creates a server info handler
func NewServerInfo(service *Service, ttl time.Duration) *ServerInfo {
	return &ServerInfo{service: service, cache: NewDirectoryCache(ttl)}
}

// Invalidate forgets cached listings
func (p *ServerInfo) Invalidate() {
	p.cache.Invalidate()
}

// GetServerInfo reports server settings, the tool catalog and the
// templates found in the template directory. A listing failure is not an
// error; the result simply has no templates.
func (p *ServerInfo) GetServerInfo(serverName, version, jurisdiction string, jurisdictions []string) *ServerInfoResult {
	root := p.service.Root()
	result := &ServerInfoResult{
		ServerName:        serverName,
		Version:           version,
		TemplateDirectory: root,
		MaxFileSize:       p.service.GetMaxFileSize(),
		Jurisdiction:      jurisdiction,
		Jurisdictions:     jurisdictions,
		AvailableTools:    AvailableTools(),
		UsageGuidance:     p.usageGuidance(),
	}

	files, ok := p.cache.Get(root)
	if !ok {
		listing, err := p.service.ListTemplates(TemplateSearchRequest{Directory: root})
		if err == nil {
			files = listing.Files
			p.cache.Set(root, files)
		}
	}
	result.FromCache = ok
	if len(files) > maxInfoTemplates {
		files = files[:maxInfoTemplates]
		result.Truncated = true
	}
	result.Templates = files
	return result
}

// AvailableTools returns the tool catalog in the order tools are meant to
// be used.
func AvailableTools() []ToolInfo {
	tool := func(name, usage, params string) ToolInfo {
		return ToolInfo{Name: name, Description: descriptions.GetToolDescription(name), Usage: usage, Parameters: params}
	}
	return []ToolInfo{
		tool("offer_list_templates",
			"Find templates in the template directory.",
			"directory (optional), pattern (optional): doublestar glob, query (optional): words in the file name"),
		tool("offer_validate_template",
			"Check a file can be loaded before loading it.",
			"path (required)"),
		tool("offer_load_template",
			"Load a PDF, text or markdown template and scan its [Placeholder] tokens.",
			"path (required)"),
		tool("offer_list_variables",
			"See every variable by category with completion.",
			"No parameters required"),
		tool("offer_seed_variables",
			"Add suggested values without overwriting existing ones.",
			"suggestions (required): JSON object of name to value"),
		tool("offer_set_variable",
			"Fill in one variable.",
			"name (required), value (required, empty clears)"),
		tool("offer_clear_variables",
			"Empty every value, keeping the names.",
			"No parameters required"),
		tool("offer_set_jurisdiction",
			"Switch the state whose rules apply.",
			"jurisdiction (required): US state code"),
		tool("offer_check_compliance",
			"List compliance flags per sentence.",
			"flagged_only (optional): only sentences with flags"),
		tool("offer_add_rule",
			"Add rules to the current jurisdiction.",
			"rules (JSON or YAML), or name + description (+ severity, law_reference, flagged_phrases), or preset"),
		tool("offer_compliance_report",
			"Export the compliance report as JSON.",
			"No parameters required"),
		tool("offer_render_text",
			"Preview the filled letter as text.",
			"exact (optional): only replace exact name matches, preview (optional): flush the pending preview"),
		tool("offer_render_plan",
			"Inspect the in-place drawing plan of a PDF template.",
			"scale (optional): pixels per point, 0 for PDF points, erase_mode (optional): fill or punch"),
		tool("offer_export_pdf",
			"Write the filled PDF.",
			"output_path (optional): .pdf path inside the template directory"),
		tool("offer_server_info",
			"Server settings, templates and this guide.",
			"No parameters required"),
	}
}

func (p *ServerInfo) usageGuidance() string {
	maxFileSizeMB := p.service.GetMaxFileSize() / (1024 * 1024)

	return fmt.Sprintf(`Offer Letter MCP Server Usage Guide:

1. FIND AND LOAD A TEMPLATE:
   - Use 'offer_list_templates' to find templates
   - Use 'offer_load_template' to load one; every [Token] becomes a variable

2. FILL IN VARIABLES:
   - Use 'offer_seed_variables' with values extracted elsewhere
   - Use 'offer_set_variable' for each remaining field
   - Use 'offer_list_variables' to see what is still empty

3. CHECK COMPLIANCE:
   - Use 'offer_set_jurisdiction' for the state the role is based in
   - Use 'offer_check_compliance' to see flagged sentences
   - Use 'offer_add_rule' to add company or state specific rules
   - Use 'offer_compliance_report' to keep a record

4. PRODUCE THE LETTER:
   - Use 'offer_render_text' to review
   - Use 'offer_export_pdf' to write the PDF

IMPORTANT NOTES:
- Paths are resolved inside the template directory
- The server can handle files up to %dMB
- Tokens without a value are left visible as [Token]
- If an export fails the original template is written unchanged and the result says so
- Template listings here are cached for a few minutes; offer_list_templates is always fresh`, maxFileSizeMB)
}
