package pagegraph

import (
	"cites/internal/submission/models"
)

// ProgressItem is one applicable page of the wizard for a submission.
type ProgressItem struct {
	Page             PageID `json:"page"`
	ApplicationIndex *int   `json:"applicationIndex,omitempty"`
	URL              string `json:"url"`
	IsMandatory      bool   `json:"isMandatory"`
	HasData          bool   `json:"hasData"`
	IsReachable      bool   `json:"isReachable"`
}

// Path returns the item's page path.
func (it ProgressItem) Path() PagePath {
	if it.ApplicationIndex == nil {
		return At(it.Page, NoApplication)
	}
	return At(it.Page, *it.ApplicationIndex)
}

type evalKey struct {
	page  PageID
	index int
}

// evaluator memoises reachability for one submission snapshot.
type evaluator struct {
	sub       *models.Submission
	doc       models.Document
	reachable map[evalKey]bool
}

func newEvaluator(sub *models.Submission) *evaluator {
	// Submissions only hold JSON-safe values, so conversion cannot fail.
	doc, err := models.ToDocument(sub)
	if err != nil {
		doc = models.Document{}
	}
	return &evaluator{sub: sub, doc: doc, reachable: make(map[evalKey]bool)}
}

func (e *evaluator) applies(n *Node, index int) bool {
	if n.Scope == ScopeApplication {
		if index < 0 || index >= len(e.sub.Applications) {
			return false
		}
	} else {
		index = NoApplication
	}
	return n.AppliesWhen == nil || n.AppliesWhen(e.sub, index)
}

func (e *evaluator) hasData(n *Node, index int) bool {
	if len(n.Fields) == 0 {
		return false
	}
	return models.HasValue(e.doc, n.fieldPath(index, n.Fields[0]))
}

func (e *evaluator) isReachable(n *Node, index int) bool {
	if n.Scope == ScopeSubmission {
		index = NoApplication
	}
	key := evalKey{n.ID, index}
	if v, ok := e.reachable[key]; ok {
		return v
	}
	ok := e.applies(n, index) && e.requirementsMet(n, index)
	e.reachable[key] = ok
	return ok
}

func (e *evaluator) requirementsMet(n *Node, index int) bool {
	for _, id := range n.Requires {
		pred := nodes[id]
		if n.AllApplications && pred.Scope == ScopeApplication {
			if len(e.sub.Applications) == 0 {
				return false
			}
			for i := range e.sub.Applications {
				if !e.satisfied(pred, i) {
					return false
				}
			}
			continue
		}
		if !e.satisfied(pred, index) {
			return false
		}
	}
	return true
}

// satisfied: a predecessor that does not apply is skipped in favour of its own
// predecessors; one that applies must be reachable and either answered or
// optional.
func (e *evaluator) satisfied(pred *Node, index int) bool {
	if !e.applies(pred, index) {
		return e.requirementsMet(pred, index)
	}
	return e.isReachable(pred, index) && (!pred.Mandatory || e.hasData(pred, index))
}

func (e *evaluator) item(n *Node, index int) ProgressItem {
	p := At(n.ID, index)
	it := ProgressItem{
		Page:        n.ID,
		URL:         p.URL(),
		IsMandatory: n.Mandatory,
		HasData:     e.hasData(n, index),
		IsReachable: e.isReachable(n, index),
	}
	if n.Scope == ScopeApplication {
		i := index
		it.ApplicationIndex = &i
	}
	return it
}

type position struct {
	node  *Node
	index int
}

// wizardOrder lists every (page, index) slot in navigation order for the
// submission's current applications.
func wizardOrder(sub *models.Submission) []position {
	var out []position
	for _, n := range submissionPages {
		out = append(out, position{n, NoApplication})
	}
	for i := range sub.Applications {
		for _, n := range applicationPages {
			out = append(out, position{n, i})
		}
	}
	for _, n := range tailPages {
		out = append(out, position{n, NoApplication})
	}
	return out
}

// ComputeProgress returns every applicable page in wizard order. With
// allowTargetPage false the list stops before target, so it holds only the
// pages preceding it; with true the whole graph is evaluated. A target outside
// the wizard order never stops the walk.
func ComputeProgress(sub *models.Submission, target PagePath, allowTargetPage bool) []ProgressItem {
	if sub == nil {
		return nil
	}
	e := newEvaluator(sub)
	var items []ProgressItem
	for _, pos := range wizardOrder(sub) {
		if !e.applies(pos.node, pos.index) {
			continue
		}
		if !allowTargetPage && pos.node.ID == target.Page && pos.index == target.ApplicationIndex {
			break
		}
		items = append(items, e.item(pos.node, pos.index))
	}
	return items
}

// IsPageReachable reports whether page applies at applicationIndex and every
// required predecessor is satisfied.
func IsPageReachable(sub *models.Submission, page PageID, applicationIndex int) bool {
	n, ok := nodes[page]
	if !ok || sub == nil {
		return false
	}
	return newEvaluator(sub).isReachable(n, applicationIndex)
}

// NextPage returns the first applicable page after current. Application pages
// continue within the same application and then move to the submission tail.
// When the next step is the first page of an application that does not exist
// yet the returned path points at it and the caller must add the application.
func NextPage(sub *models.Submission, current PagePath) (PagePath, bool) {
	if sub == nil {
		return PagePath{}, false
	}
	e := newEvaluator(sub)
	var candidates []position

	switch {
	case inSection(submissionPages, current.Page):
		for _, n := range following(submissionPages, current.Page) {
			candidates = append(candidates, position{n, NoApplication})
		}
		for _, n := range applicationPages {
			candidates = append(candidates, position{n, 0})
		}
	case inSection(applicationPages, current.Page):
		for _, n := range following(applicationPages, current.Page) {
			candidates = append(candidates, position{n, current.ApplicationIndex})
		}
		for _, n := range tailPages {
			candidates = append(candidates, position{n, NoApplication})
		}
	case inSection(standalonePages, current.Page):
		for _, n := range tailPages {
			candidates = append(candidates, position{n, NoApplication})
		}
	case inSection(tailPages, current.Page):
		for _, n := range following(tailPages, current.Page) {
			candidates = append(candidates, position{n, NoApplication})
		}
	}

	for _, c := range candidates {
		if c.node.Scope == ScopeApplication && c.index >= len(sub.Applications) {
			return At(PageSpeciesName, c.index), true
		}
		if e.applies(c.node, c.index) {
			return At(c.node.ID, c.index), true
		}
	}
	return PagePath{}, false
}

// PreviousPage returns the closest reachable page before current in wizard
// order, for back links.
func PreviousPage(sub *models.Submission, current PagePath) (PagePath, bool) {
	items := ComputeProgress(sub, current, false)
	for i := len(items) - 1; i >= 0; i-- {
		it := items[i]
		if !it.IsReachable {
			continue
		}
		// Other applications' pages are not on the way back.
		if it.ApplicationIndex != nil && current.HasApplication() && *it.ApplicationIndex != current.ApplicationIndex {
			continue
		}
		return it.Path(), true
	}
	return PagePath{}, false
}

// FurthestReachable returns the last reachable page of the wizard.
func FurthestReachable(sub *models.Submission) PagePath {
	furthest := At(PagePermitType, NoApplication)
	for _, it := range ComputeProgress(sub, PagePath{}, true) {
		if it.IsReachable {
			furthest = it.Path()
		}
	}
	return furthest
}

// FirstOutstanding returns the first reachable mandatory page without an
// answer in wizard order, or the furthest reachable page when none is left.
func FirstOutstanding(sub *models.Submission) PagePath {
	for _, it := range MandatoryIssues(ComputeProgress(sub, PagePath{}, true), NoApplication) {
		if it.IsReachable {
			return it.Path()
		}
	}
	return FurthestReachable(sub)
}

// MandatoryIssues returns mandatory items without data. A negative
// applicationIndex selects every item.
func MandatoryIssues(progress []ProgressItem, applicationIndex int) []ProgressItem {
	var issues []ProgressItem
	for _, it := range progress {
		if !it.IsMandatory || it.HasData {
			continue
		}
		if applicationIndex >= 0 && (it.ApplicationIndex == nil || *it.ApplicationIndex != applicationIndex) {
			continue
		}
		issues = append(issues, it)
	}
	return issues
}

func following(section []*Node, id PageID) []*Node {
	for i, n := range section {
		if n.ID == id {
			return section[i+1:]
		}
	}
	return nil
}

func inSection(section []*Node, id PageID) bool {
	for _, n := range section {
		if n.ID == id {
			return true
		}
	}
	return false
}
