// Package localization holds the dashboard string tables and the positional
// placeholder formatter used by every rendered label.
package localization

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// TreatmentPolicyStrings are the causal treatment policy labels
type TreatmentPolicyStrings struct {
	NoData           string `json:"noData"`
	NSample          string `json:"nSample"`
	Recommended      string `json:"Recommended"`
	Left             string `json:"Left"`
	Right            string `json:"Right"`
	Size             string `json:"Size"`
	Table            string `json:"Table"`
	TableDescription string `json:"TableDescription"`
}

// CausalAnalysisStrings groups the causal analysis page strings
type CausalAnalysisStrings struct {
	Title           string                 `json:"Title"`
	TreatmentPolicy TreatmentPolicyStrings `json:"TreatmentPolicy"`
}

// CounterfactualStrings are the local policy list column headers
type CounterfactualStrings struct {
	RecommendedTreatment string `json:"RecommendedTreatment"`
	EffectOfTreatment    string `json:"EffectOfTreatment"`
	EffectLowerBound     string `json:"EffectLowerBound"`
	EffectUpperBound     string `json:"EffectUpperBound"`
	TopN                 string `json:"TopN"`
}

// ErrorAnalysisStrings groups the error analysis page strings
type ErrorAnalysisStrings struct {
	Title            string `json:"Title"`
	TreeTitle        string `json:"TreeTitle"`
	MatrixTitle      string `json:"MatrixTitle"`
	ImportancesTitle string `json:"ImportancesTitle"`
	NoData           string `json:"NoData"`
	Help             string `json:"Help"`
}

// Strings is one complete language table
type Strings struct {
	Language        string                `json:"language"`
	CausalAnalysis  CausalAnalysisStrings `json:"CausalAnalysis"`
	Counterfactuals CounterfactualStrings `json:"Counterfactuals"`
	ErrorAnalysis   ErrorAnalysisStrings  `json:"ErrorAnalysis"`
}

// Catalog resolves language preferences to a string table
type Catalog struct {
	tags    []language.Tag
	tables  []*Strings
	matcher language.Matcher
}

// NewCatalog loads the embedded tables. English is always first and is the fallback.
func NewCatalog() (*Catalog, error) {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}

	c := &Catalog{}
	var en *Strings
	for _, entry := range entries {
		raw, err := localeFS.ReadFile(path.Join("locales", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", entry.Name(), err)
		}
		var table Strings
		if err := json.Unmarshal(raw, &table); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", entry.Name(), err)
		}
		tag, err := language.Parse(table.Language)
		if err != nil {
			return nil, fmt.Errorf("locale %s: %w", entry.Name(), err)
		}
		if tag == language.English {
			en = &table
			continue
		}
		c.tags = append(c.tags, tag)
		c.tables = append(c.tables, &table)
	}
	if en == nil {
		return nil, fmt.Errorf("missing English locale table")
	}

	c.tags = append([]language.Tag{language.English}, c.tags...)
	c.tables = append([]*Strings{en}, c.tables...)
	c.matcher = language.NewMatcher(c.tags)
	return c, nil
}

// MustCatalog is NewCatalog for embedded tables known to be valid
func MustCatalog() *Catalog {
	c, err := NewCatalog()
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup picks the best table for an Accept-Language header or a bare tag
func (c *Catalog) Lookup(acceptLanguage string) *Strings {
	if strings.TrimSpace(acceptLanguage) == "" {
		return c.tables[0]
	}
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return c.tables[0]
	}
	_, idx, conf := c.matcher.Match(prefs...)
	if conf == language.No || idx < 0 || idx >= len(c.tables) {
		return c.tables[0]
	}
	return c.tables[idx]
}

// Languages returns the supported language tags, default first
func (c *Catalog) Languages() []string {
	out := make([]string, len(c.tags))
	for i, t := range c.tags {
		out[i] = t.String()
	}
	return out
}

var placeholder = regexp.MustCompile(`\{(\d+)\}`)

// Format substitutes {N} with args[N]. Placeholders without a matching
// argument stay verbatim; surplus arguments are ignored.
func Format(template string, args ...interface{}) string {
	return placeholder.ReplaceAllStringFunc(template, func(m string) string {
		idx, err := strconv.Atoi(m[1 : len(m)-1])
		if err != nil || idx >= len(args) {
			return m
		}
		return fmt.Sprint(args[idx])
	})
}
