package sarif

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/hashicorp/go-version"
	gosarif "github.com/owenrumney/go-sarif/v2/sarif"
	"github.com/tailscale/hujson"

	"github.com/grafana/sarif-importer/pkg/logme"
	"github.com/grafana/sarif-importer/pkg/utils"
)

const schemaMarker = "$schema"

var supportedVersions = version.MustConstraints(version.NewConstraint(">= 2.1.0, < 2.2.0"))

type Options struct {
	// Schema is a gojsonschema reference (file:// or http(s)://) or a plain
	// file path. The embedded SARIF 2.1.0 schema is used when empty.
	Schema string
	// OnWarning receives recoverable problems. Warnings are logged when nil.
	OnWarning func(Warning)
}

// ParseFile reads and parses the SARIF document at path.
func ParseFile(path string, opts Options) (*Document, error) {
	b, err := utils.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(path, b, opts)
}

// Parse validates raw against the SARIF schema and extracts a Document.
// Validation happens before any extraction, a document that fails it yields
// no partial result.
func Parse(raw []byte, opts Options) (*Document, error) {
	return parse("", raw, opts)
}

func parse(path string, raw []byte, opts Options) (*Document, error) {
	// using hujson first to allow some tolerance in the input (comments, trailing commas)
	std, err := hujson.Standardize(bytes.Clone(raw))
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(std, &top); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if _, ok := top[schemaMarker]; !ok {
		return nil, &ValidationError{Path: path, Reasons: []string{"missing " + schemaMarker + " marker"}}
	}

	if err := validate(path, std, opts.Schema); err != nil {
		return nil, err
	}

	report, err := gosarif.FromBytes(std)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	p := &parser{path: path, onWarning: opts.OnWarning}
	return p.document(top, report), nil
}

type parser struct {
	path      string
	onWarning func(Warning)
}

func (p *parser) warn(w Warning) {
	w.Path = p.path
	if p.onWarning != nil {
		p.onWarning(w)
		return
	}
	logme.WarnF("%s", w)
}

func (p *parser) document(top map[string]json.RawMessage, report *gosarif.Report) *Document {
	doc := &Document{}
	if v, ok := stringField(top, "version"); ok {
		doc.Version = v
		p.checkVersion(doc.Version)
	}
	if s, ok := stringField(top, schemaMarker); ok {
		doc.Schema = s
	}

	for _, run := range report.Runs {
		if run == nil {
			continue
		}
		if d := run.Tool.Driver; d != nil {
			doc.Run.Driver = p.driver(d)
			doc.Run.Rules = append(doc.Run.Rules, p.rules(d.Rules)...)
		}
		for _, ext := range run.Tool.Extensions {
			if ext != nil {
				doc.Run.Rules = append(doc.Run.Rules, p.rules(ext.Rules)...)
			}
		}
		for _, res := range run.Results {
			if res != nil {
				doc.Run.Results = append(doc.Run.Results, p.result(res))
			}
		}
	}

	logme.DebugFln("parsed %q: %d rules, %d results", displayName(p.path), len(doc.Run.Rules), len(doc.Run.Results))
	return doc
}

func (p *parser) checkVersion(raw string) {
	v, err := version.NewVersion(raw)
	if err != nil || !supportedVersions.Check(v) {
		p.warn(Warning{Kind: UnsupportedVersion, Field: "version", Value: raw})
	}
}

func (p *parser) driver(c *gosarif.ToolComponent) *Driver {
	return &Driver{
		Name:            nonEmpty(c.Name),
		Organization:    optionalString(c.Organization),
		SemanticVersion: optionalString(c.SemanticVersion),
	}
}

func (p *parser) rules(descriptors []*gosarif.ReportingDescriptor) []Rule {
	rules := make([]Rule, 0, len(descriptors))
	for _, r := range descriptors {
		if r == nil {
			continue
		}
		id := nonEmpty(r.ID)
		rule := Rule{
			ID:               id,
			Name:             optionalString(r.Name),
			ShortDescription: messageText(r.ShortDescription),
			FullDescription:  messageText(r.FullDescription),
			Level:            p.level(id, r.DefaultConfiguration),
			Properties:       p.properties(id, r.Properties),
		}
		rules = append(rules, rule)
	}
	return rules
}

func (p *parser) level(id *string, cfg *gosarif.ReportingConfiguration) *Level {
	if cfg == nil {
		return nil
	}
	raw := optionalString(cfg.Level)
	if raw == nil {
		return nil
	}
	l, ok := ParseLevel(*raw)
	if !ok {
		p.warn(Warning{Kind: ClassificationAmbiguity, Field: "level", Value: *raw, Context: ruleContext(id)})
		return nil
	}
	return &l
}

func (p *parser) properties(id *string, bag map[string]interface{}) *RuleProperties {
	if bag == nil {
		return nil
	}

	var tags []string
	if list, ok := bag["tags"].([]interface{}); ok {
		seen := make(map[string]bool, len(list))
		for _, t := range list {
			tag := scalarText(t)
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	if tags == nil {
		tags = []string{}
	}
	sort.Strings(tags)

	props := &RuleProperties{
		ID:          bagText(bag, "id"),
		Name:        bagText(bag, "name"),
		Description: bagText(bag, "description"),
		Tags:        tags,
		Kind:        bagText(bag, "kind"),
		Precision:   bagText(bag, "precision"),
	}

	if raw := bagText(bag, "problem.severity"); raw != nil {
		s, ok := ParsePropertySeverity(*raw)
		if ok {
			props.Severity = &s
		} else {
			p.warn(Warning{Kind: ClassificationAmbiguity, Field: "problem.severity", Value: *raw, Context: ruleContext(id)})
		}
	}
	return props
}

func (p *parser) result(r *gosarif.Result) Result {
	res := Result{
		RuleID:    r.RuleID,
		RuleIndex: optionalInt(r.RuleIndex),
		Message:   messageText(r.Message),
		Locations: make([]Location, 0, len(r.Locations)),
	}
	if res.RuleIndex == nil && r.Rule != nil {
		res.RuleIndex = optionalInt(r.Rule.Index)
	}

	for _, l := range r.Locations {
		if l == nil || l.PhysicalLocation == nil {
			continue
		}
		res.Locations = append(res.Locations, toLocation(l.PhysicalLocation))
	}
	return res
}

func toLocation(pl *gosarif.PhysicalLocation) Location {
	var loc Location
	if a := pl.ArtifactLocation; a != nil {
		if a.URI != nil {
			loc.URI = *a.URI
		}
		loc.URIBaseID = optionalString(a.URIBaseId)
		loc.Index = optionalInt(a.Index)
	}
	if r := pl.Region; r != nil {
		region := &Region{StartColumn: optionalInt(r.StartColumn), EndColumn: optionalInt(r.EndColumn)}
		if r.StartLine != nil {
			region.StartLine = *r.StartLine
		}
		loc.Region = region
	}
	return loc
}

func ruleContext(id *string) string {
	if id == nil {
		return ""
	}
	return fmt.Sprintf("rule %s", *id)
}

// IsValidationError reports whether err stems from schema validation.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}
