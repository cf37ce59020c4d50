package events

import (
	"fmt"
	"strings"
)

// MessageTemplateEngine provides dynamic message generation for events.
type MessageTemplateEngine struct {
	templates map[EventReason]string
}

// NewMessageTemplateEngine creates a new message template engine with default templates.
func NewMessageTemplateEngine() *MessageTemplateEngine {
	engine := &MessageTemplateEngine{
		templates: make(map[EventReason]string),
	}
	engine.loadDefaultTemplates()
	return engine
}

// loadDefaultTemplates initializes the default message templates for all event reasons.
func (e *MessageTemplateEngine) loadDefaultTemplates() {
	// Source templates
	e.templates[ReasonSourceCreated] = "Source {{.Name}} added"
	e.templates[ReasonSourceRemoved] = "Source {{.Name}} removed"
	e.templates[ReasonSourceRecreated] = "Source {{.Name}} re-created with correct params{{if .Reason}} ({{.Reason}}){{end}}"
	e.templates[ReasonSourceEnabled] = "Source {{.Name}} enabled"
	e.templates[ReasonSourceDisabled] = "Source {{.Name}} disabled"

	// Feature templates
	e.templates[ReasonFeatureEnabled] = "Feature {{.Name}} enabled"
	e.templates[ReasonFeatureDisabled] = "Feature {{.Name}} disabled"

	// Reconciliation templates
	e.templates[ReasonReconcileFailed] = "Reconciliation of {{.Kind}} {{.Name}} failed{{if .Error}}: {{.Error}}{{end}}"
	e.templates[ReasonUnknownResource] = "Feature {{.Name}} is not defined by the provider"

	// Declaration and sync templates
	e.templates[ReasonDeclarationInvalid] = "Declaration {{.Name}} failed to load{{if .Error}}: {{.Error}}{{end}}"
	e.templates[ReasonDeclarationsSynced] = "Declaration repository synced"
	e.templates[ReasonDeclarationSyncFailed] = "Declaration repository sync failed{{if .Error}}: {{.Error}}{{end}}"
}

// Render generates a message for the given event reason and data.
func (e *MessageTemplateEngine) Render(reason EventReason, data EventData) string {
	template, exists := e.templates[reason]
	if !exists {
		// Fallback for unknown event reasons
		return fmt.Sprintf("Event: %s for %s %s", string(reason), data.Kind, data.Name)
	}

	return e.renderTemplate(template, data)
}

// SetTemplate allows customizing the message template for a specific event reason.
func (e *MessageTemplateEngine) SetTemplate(reason EventReason, template string) {
	e.templates[reason] = template
}

// GetTemplate returns the template for a specific event reason.
func (e *MessageTemplateEngine) GetTemplate(reason EventReason) (string, bool) {
	template, exists := e.templates[reason]
	return template, exists
}

// renderTemplate performs simple template rendering with EventData. This is
// a simplified template system that supports basic variable substitution.
func (e *MessageTemplateEngine) renderTemplate(template string, data EventData) string {
	result := template

	// Conditional blocks first so their contents get substituted too
	result = e.renderConditionals(result, data)

	result = strings.ReplaceAll(result, "{{.Name}}", data.Name)
	result = strings.ReplaceAll(result, "{{.Kind}}", data.Kind)
	result = strings.ReplaceAll(result, "{{.Reason}}", data.Reason)
	result = strings.ReplaceAll(result, "{{.Error}}", data.Error)

	return result
}

// renderConditionals handles simple conditional rendering in templates.
// Supports: {{if .FieldName}}content{{end}}
func (e *MessageTemplateEngine) renderConditionals(template string, data EventData) string {
	result := template

	result = e.renderConditional(result, "{{if .Reason}}", "{{end}}", data.Reason != "")
	result = e.renderConditional(result, "{{if .Error}}", "{{end}}", data.Error != "")

	return result
}

// renderConditional handles a single conditional block.
func (e *MessageTemplateEngine) renderConditional(template, startMarker, endMarker string, condition bool) string {
	startIndex := strings.Index(template, startMarker)
	if startIndex == -1 {
		return template
	}

	endIndex := strings.Index(template[startIndex:], endMarker)
	if endIndex == -1 {
		return template
	}

	endIndex += startIndex

	if condition {
		before := template[:startIndex]
		content := template[startIndex+len(startMarker) : endIndex]
		after := template[endIndex+len(endMarker):]
		return before + content + after
	}

	before := template[:startIndex]
	after := template[endIndex+len(endMarker):]
	return before + after
}
