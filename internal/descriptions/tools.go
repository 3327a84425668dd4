package descriptions

// Tool descriptions with practical examples and use cases

const (
	// Template Tools
	OfferListTemplatesDescription = `Discover offer letter templates (PDF, text and markdown) below the template directory.

**When to use:** Before loading a template, to see which templates exist or to find one by name.

**Examples:**
• List everything: "Which offer letter templates are available?"
• Narrow by name: "Find the engineering offer template" (query: "engineering")
• Narrow by glob: "Only PDFs under california/" (pattern: "california/**/*.pdf")

**Common workflows:**
1. offer_list_templates → offer_load_template → offer_list_variables

**Best practices:** Paths in the result can be passed straight to offer_load_template.`

	OfferLoadTemplateDescription = `Load an offer letter template and scan it for [Placeholder] tokens.

**When to use:** Start of every session, or to switch to another template.

**What happens:** Every bracketed token becomes a variable (existing values are kept), the text is split into sentences and every sentence is checked against the active jurisdiction's compliance rules.

**Examples:**
• "Load templates/standard-offer.pdf"
• "Switch to the contractor template, keep the names I already filled in"

**Common workflows:**
1. Load → offer_seed_variables → offer_set_variable → offer_export_pdf
2. Load → offer_check_compliance → offer_compliance_report

**Best practices:** Run offer_validate_template first on files from unknown sources.`

	OfferValidateTemplateDescription = `Check that a file can be loaded as a template without loading it.

**When to use:** Before loading uploaded or generated files.

**Examples:**
• "Is contracts/offer-v2.pdf readable?"
• "Check that the markdown template is not empty"

**Best practices:** Cheap to run, does not change the session.`

	// Variable Tools
	OfferSetVariableDescription = `Set the value of one template variable.

**When to use:** Filling in the offer letter, one field at a time.

**Examples:**
• "Set Candidate Name to Jane Smith"
• "Set Start Date to March 1, 2025"

**Notes:** Names are matched forgivingly when rendering: [Candidate Name], [candidate_name] and [CANDIDATE_NAME] all resolve to the same value, and common synonyms such as [Name] or [Employee Name] fall back to it. An empty value clears the field; the bracketed token stays visible in output.

**Best practices:** Preview recomputation is debounced, so rapid edits are cheap.`

	OfferSeedVariablesDescription = `Add suggested variables and values in bulk, without overwriting anything already set.

**When to use:** After extracting entities (names, companies, dates) from another document or system.

**Examples:**
• suggestions: {"Candidate Name": "Jane Smith", "Company Name": "Acme Corp"}

**Best practices:** Safe to call repeatedly, existing values always win.`

	OfferClearVariablesDescription = `Empty every variable value while keeping the variable names.

**When to use:** Reusing a loaded template for another candidate.`

	OfferListVariablesDescription = `List all variables grouped by category with values, usage and completion.

**When to use:** To see what still needs to be filled in, or which fields appear in flagged sentences.

**Output:** Categories (personal, company, position, compensation, dates, other), each variable's value, how often its exact [Token] occurs in the template and how many of those occurrences sit in flagged sentences, plus an overall filled/total count.

**Best practices:** Check flagged occurrences before exporting.`

	// Compliance Tools
	OfferSetJurisdictionDescription = `Switch the jurisdiction (US state code) compliance rules are taken from.

**When to use:** When the role is based in another state.

**Examples:**
• "Check this offer against New York rules" (jurisdiction: "NY")

**Notes:** The loaded template is re-checked immediately.`

	OfferCheckComplianceDescription = `Check every sentence of the loaded template against the jurisdiction's rules.

**When to use:** Reviewing a template before sending it.

**Output:** Each flagged sentence with rule, severity (error, warning, info), message, law reference, suggestion and alternative language, plus a summary count per severity.

**Examples:**
• "Which sentences violate California law?" (flagged_only: true)`

	OfferAddRuleDescription = `Add compliance rules to the current jurisdiction.

**Three ways to add rules:**
1. rules: a JSON or YAML object of rule key → {severity, message, lawReference, suggestion, alternativeLanguage, flaggedPhrases}
2. Form fields: name, description, severity, law_reference and a comma-separated flagged_phrases list
3. preset: one of the ready-made rule forms (overtime, benefits, probation, termination)

**Examples:**
• name: "Non-compete ban", description: "Non-compete clauses are void", flagged_phrases: "non-compete, noncompete"
• rules: {"pay_transparency": {"severity": "warning", "message": "Include a pay range", "flaggedPhrases": ["competitive salary"]}}

**Notes:** Rules with the same key replace the existing rule. Invalid input changes nothing.`

	OfferComplianceReportDescription = `Build the exportable compliance report for the loaded template as JSON.

**When to use:** Archiving the review, or sharing it with legal.

**Output:** Template, state, timestamp, summary, total issues, critical issues, warnings and per-sentence details.`

	// Rendering Tools
	OfferRenderTextDescription = `Render the loaded template as text with variable values substituted.

**When to use:** Quick review of the filled offer letter, or for text and markdown templates.

**Notes:** By default tokens resolve with forgiving name matching and synonyms. With exact set, only tokens that match a variable name exactly are replaced. Tokens without a value stay as [Token]. With preview set, the debounced preview is computed immediately and its generation is reported.`

	OfferRenderPlanDescription = `Show where each substitution will be drawn on each page of a PDF template.

**When to use:** Debugging placement, or driving another renderer.

**Output:** Per page, erase boxes over each token followed by text draws at the token's baseline, in PDF points (scale 0) or pixels (scale > 0, pixels per point). erase_mode picks an opaque white fill (default) or a transparent punch for the erase boxes.`

	OfferExportPDFDescription = `Export the filled offer letter as a PDF with values drawn in place of the tokens.

**When to use:** Producing the final document.

**Notes:** The original page content is kept; each token is covered with a white box and the value is drawn over it in a matching font family. If anything fails the original template is written unchanged and the result says so. Without output_path the file is named Offer_Letter_<Candidate>_<date>.pdf in the template directory.

**Best practices:** Fill every variable and review compliance first.`

	OfferServerInfoDescription = `Get server information, configuration, available templates and usage guidance.

**When to use:** At the start of a conversation to learn what the server can do.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"offer_list_templates":    OfferListTemplatesDescription,
	"offer_load_template":     OfferLoadTemplateDescription,
	"offer_validate_template": OfferValidateTemplateDescription,
	"offer_set_variable":      OfferSetVariableDescription,
	"offer_seed_variables":    OfferSeedVariablesDescription,
	"offer_clear_variables":   OfferClearVariablesDescription,
	"offer_list_variables":    OfferListVariablesDescription,
	"offer_set_jurisdiction":  OfferSetJurisdictionDescription,
	"offer_check_compliance":  OfferCheckComplianceDescription,
	"offer_add_rule":          OfferAddRuleDescription,
	"offer_compliance_report": OfferComplianceReportDescription,
	"offer_render_text":       OfferRenderTextDescription,
	"offer_render_plan":       OfferRenderPlanDescription,
	"offer_export_pdf":        OfferExportPDFDescription,
	"offer_server_info":       OfferServerInfoDescription,
}

// GetToolDescription returns the description for a specific tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns a list of all available tool names
func GetAllToolNames() []string {
	var names []string
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	return names
}
