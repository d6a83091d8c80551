package validation

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

const (
	maxFileSize          = 1024 * 1024
	maxBodyLength        = 12000
	maxDescriptionLength = 250
)

// AllowedTriggers are the accepted values of the frontmatter "trigger" key
var AllowedTriggers = []string{"manual", "model_decision", "always_on"}

// AllowedTags are the tag names permitted in a document body
var AllowedTags = []string{
	"role",
	"instructions",
	"constraints",
	"context",
	"task",
	"output_format",
	"final_instruction",
}

var (
	frontmatterRe = regexp.MustCompile(`\A---\r?\n((?s:.*?))\r?\n---`)
	fencedCodeRe  = regexp.MustCompile("(?s)```.*?```")
	inlineCodeRe  = regexp.MustCompile("`[^`]*`")
	tagRe         = regexp.MustCompile(`</?([a-zA-Z0-9_]+)(?:\s+[^>]*)?>`)
)

// StructureValidator enforces document shape: size limits, frontmatter keys
// and the tag vocabulary of the body
type StructureValidator struct {
	allowedTags     map[string]bool
	allowedTriggers map[string]bool
}

// NewStructureValidator creates a new structure validator
func NewStructureValidator() *StructureValidator {
	return &StructureValidator{
		allowedTags:     toSet(AllowedTags),
		allowedTriggers: toSet(AllowedTriggers),
	}
}

func (v *StructureValidator) Name() string {
	return "StructureValidator"
}

func (v *StructureValidator) Validate(_ context.Context, fc FileContext) Result {
	result := NewResult()

	if len(fc.Content) > maxFileSize {
		result.AddError("File size exceeds limit of 1MB.")
		return result
	}

	match := frontmatterRe.FindStringSubmatchIndex(fc.Content)
	if match == nil {
		result.AddError("Missing frontmatter")
		return result
	}

	frontmatter, err := parseFrontmatter(fc.Content[match[2]:match[3]])
	if err != nil {
		result.AddError(fmt.Sprintf("Invalid YAML in frontmatter: %v", err))
		return result
	}

	trigger, hasTrigger := stringValue(frontmatter["trigger"])
	switch {
	case !hasTrigger:
		result.AddError(`Missing required key "trigger"`)
	case !v.allowedTriggers[trigger]:
		result.AddError(fmt.Sprintf("Invalid trigger value %q. Allowed: %s",
			trigger, strings.Join(AllowedTriggers, ", ")))
	}

	description, hasDescription := stringValue(frontmatter["description"])
	if trigger == "model_decision" && !hasDescription {
		result.AddError(`Missing required key "description" (required when trigger is "model_decision")`)
	}
	if hasDescription {
		if _, isString := frontmatter["description"].(string); isString {
			if n := utf8.RuneCountInString(description); n > maxDescriptionLength {
				result.AddError(fmt.Sprintf("Description is too long (%d chars). Max %d.", n, maxDescriptionLength))
			}
		}
	}

	body := fc.Content[match[1]:]
	if n := utf8.RuneCountInString(strings.TrimSpace(body)); n > maxBodyLength {
		result.AddError(fmt.Sprintf("Body content exceeds %d characters (current: %d).", maxBodyLength, n))
	}

	v.checkTags(body, &result)

	return result
}

// checkTags reports each disallowed tag name once, outside code spans
func (v *StructureValidator) checkTags(body string, result *Result) {
	clean := fencedCodeRe.ReplaceAllString(body, "")
	clean = inlineCodeRe.ReplaceAllString(clean, "")

	seen := make(map[string]bool)
	for _, m := range tagRe.FindAllStringSubmatch(clean, -1) {
		name := m[1]
		if v.allowedTags[name] || seen[name] {
			continue
		}
		seen[name] = true
		result.AddError(fmt.Sprintf("Invalid XML tag found: <%s>. Allowed: %s",
			name, strings.Join(AllowedTags, ", ")))
	}
}

// parseFrontmatter decodes the frontmatter body, which must be a mapping
func parseFrontmatter(raw string) (map[string]any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("frontmatter is not a mapping")
	}

	var fm map[string]any
	if err := doc.Content[0].Decode(&fm); err != nil {
		return nil, err
	}
	return fm, nil
}

// stringValue renders a scalar frontmatter value; empty and null values
// count as absent
func stringValue(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, val != ""
	case bool:
		if !val {
			return "", false
		}
		return "true", true
	default:
		s := fmt.Sprint(val)
		return s, s != "" && s != "0"
	}
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
