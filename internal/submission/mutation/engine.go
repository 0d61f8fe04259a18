package mutation

import (
	"fmt"
	"reflect"
	"strings"

	"cites/internal/submission/models"
	pg "cites/internal/submission/pagegraph"
)

// Outcome is the merged submission and the document paths of answers the
// invalidation rules removed.
type Outcome struct {
	Submission  *models.Submission
	DataRemoved []string
}

// Apply merges patch into sub and runs the invalidation rules. Fields present
// in patch, including explicit nulls, are never cleared by a rule.
func Apply(sub *models.Submission, patch models.Document) (Outcome, error) {
	return apply(sub, func(old models.Document) (models.Document, func(string) bool, error) {
		supplied := func(path string) bool {
			_, ok := models.Lookup(patch, path)
			return ok
		}
		return DeepMerge(old, patch), supplied, nil
	})
}

// ApplyToApplication merges an application-relative patch into one
// application and runs the invalidation rules.
func ApplyToApplication(sub *models.Submission, applicationIndex int, patch models.Document) (Outcome, error) {
	if sub == nil || applicationIndex < 0 || applicationIndex >= len(sub.Applications) {
		return Outcome{}, fmt.Errorf("application %d out of range", applicationIndex)
	}
	prefix := models.ApplicationPath(applicationIndex, "") + "."
	return apply(sub, func(old models.Document) (models.Document, func(string) bool, error) {
		apps, _ := old["applications"].([]any)
		app, _ := apps[applicationIndex].(map[string]any)
		merged := copyMap(old)
		mergedApps := merged["applications"].([]any)
		mergedApp := DeepMerge(app, patch)
		// The index is positional and not the caller's to change.
		mergedApp["applicationIndex"] = float64(applicationIndex)
		mergedApps[applicationIndex] = mergedApp

		supplied := func(path string) bool {
			rel, ok := strings.CutPrefix(path, prefix)
			if !ok {
				return false
			}
			_, found := models.Lookup(patch, rel)
			return found
		}
		return merged, supplied, nil
	})
}

type mergeFunc func(old models.Document) (merged models.Document, supplied func(string) bool, err error)

func apply(sub *models.Submission, merge mergeFunc) (Outcome, error) {
	if sub == nil {
		return Outcome{}, fmt.Errorf("apply patch: nil submission")
	}
	old, err := models.ToDocument(sub)
	if err != nil {
		return Outcome{}, err
	}
	merged, supplied, err := merge(old)
	if err != nil {
		return Outcome{}, err
	}

	inv := invalidation{old: old, merged: merged, supplied: supplied}
	oldApps := applicationCount(old)
	newApps := applicationCount(merged)
	for _, r := range Rules {
		switch r.Scope {
		case ScopeSubmission:
			inv.run(r, pg.NoApplication, newApps)
		case ScopeApplication:
			if oldApps != newApps {
				continue
			}
			for i := 0; i < newApps; i++ {
				inv.run(r, i, newApps)
			}
		}
	}

	pruneEmpty(merged)
	out, err := models.FromDocument(merged)
	if err != nil {
		return Outcome{}, err
	}
	out.Applications = models.ReIndexApplications(out.Applications)
	if out.Applications == nil {
		out.Applications = []models.Application{}
	}
	return Outcome{Submission: out, DataRemoved: inv.removed}, nil
}

type invalidation struct {
	old      models.Document
	merged   models.Document
	supplied func(string) bool
	removed  []string
}

// run fires r for one application, or for the submission when index is
// NoApplication.
func (inv *invalidation) run(r Rule, index int, applications int) {
	field := scoped(index, r.Field)
	before, had := models.Lookup(inv.old, field)
	if !had || before == nil {
		return
	}
	after, _ := models.Lookup(inv.merged, field)
	if reflect.DeepEqual(before, after) {
		return
	}

	for _, rel := range r.AlsoClears {
		path := scoped(index, rel)
		if !inv.supplied(path) && models.Delete(inv.merged, path) {
			inv.removed = append(inv.removed, path)
		}
	}
	for _, id := range r.Clears {
		node, ok := pg.Lookup(id)
		if !ok {
			continue
		}
		for _, target := range targetIndexes(node, index, applications) {
			for _, path := range node.FieldPaths(target) {
				if inv.supplied(path) {
					continue
				}
				if models.Delete(inv.merged, path) {
					inv.removed = append(inv.removed, path)
				}
			}
		}
	}
}

func scoped(index int, field string) string {
	if index == pg.NoApplication {
		return field
	}
	return models.ApplicationPath(index, field)
}

// targetIndexes resolves which applications a cleared page lives in: the
// rule's own application, or every application for submission rules.
func targetIndexes(node *pg.Node, index int, applications int) []int {
	switch {
	case node.Scope == pg.ScopeSubmission:
		return []int{pg.NoApplication}
	case index != pg.NoApplication:
		return []int{index}
	}
	out := make([]int, applications)
	for i := range out {
		out[i] = i
	}
	return out
}

func applicationCount(doc models.Document) int {
	apps, _ := doc["applications"].([]any)
	return len(apps)
}
