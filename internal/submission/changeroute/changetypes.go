package changeroute

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"cites/internal/submission/pagegraph"
)

//go:embed changetypes.yaml
var defaultChangeTypes []byte

const indexPlaceholder = "{applicationIndex}"

// ChangeType is one row of the change journey table.
type ChangeType struct {
	StartURLs       []string            `yaml:"startUrls"`
	EndURLs         []string            `yaml:"endUrls"`
	OptionStartURLs map[string][]string `yaml:"optionStartUrls"`
	// Controlling journeys edit an answer other pages depend on.
	Controlling          bool `yaml:"controlling"`
	ShowConfirmationPage bool `yaml:"showConfirmationPage"`
}

// PerApplication reports whether the journey's URLs need an application index.
func (ct ChangeType) PerApplication() bool {
	for _, u := range ct.StartURLs {
		if strings.Contains(u, indexPlaceholder) {
			return true
		}
	}
	return false
}

// LoadChangeTypes decodes and checks a change journey table. Every URL must
// name a known page, controlling journeys may not declare end pages and all
// other journeys must.
func LoadChangeTypes(data []byte) (map[string]ChangeType, error) {
	var table map[string]ChangeType
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("decode change types: %w", err)
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("decode change types: empty table")
	}
	for name, ct := range table {
		if len(ct.StartURLs) == 0 {
			return nil, fmt.Errorf("change type %s: no start urls", name)
		}
		if ct.Controlling && len(ct.EndURLs) > 0 {
			return nil, fmt.Errorf("change type %s: controlling journeys end on resubmission, not on a page", name)
		}
		if !ct.Controlling && len(ct.EndURLs) == 0 {
			return nil, fmt.Errorf("change type %s: no end urls", name)
		}
		urls := append(append([]string{}, ct.StartURLs...), ct.EndURLs...)
		for _, extra := range ct.OptionStartURLs {
			urls = append(urls, extra...)
		}
		for _, u := range urls {
			if _, err := pagegraph.ParsePagePath(expand(u, 0)); err != nil {
				return nil, fmt.Errorf("change type %s: %w", name, err)
			}
		}
	}
	return table, nil
}

func expand(template string, applicationIndex int) string {
	return strings.ReplaceAll(template, indexPlaceholder, strconv.Itoa(applicationIndex))
}

func expandAll(templates []string, applicationIndex int) []string {
	out := make([]string, len(templates))
	for i, t := range templates {
		out[i] = expand(t, applicationIndex)
	}
	return out
}
