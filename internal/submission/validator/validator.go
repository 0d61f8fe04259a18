// Package validator gates page access: a page may only be served or posted
// when the page graph says it is reachable for the current submission.
package validator

import (
	"fmt"

	"cites/internal/submission/models"
	"cites/internal/submission/pagegraph"
	dErrors "cites/pkg/domain-errors"
)

// Result carries the progress computed while validating, so callers such as
// the application summary can list mandatory issues without recomputing.
type Result struct {
	Path     pagegraph.PagePath
	Progress []pagegraph.ProgressItem
}

// ValidateSubmission confirms pagePath is reachable for submission. Failures
// are CodeInvalidSubmission errors; callers redirect to the wizard root.
// isSummaryCheck widens the returned progress to the whole graph.
func ValidateSubmission(submission *models.Submission, pagePath string, isSummaryCheck bool) (Result, error) {
	if submission == nil {
		return Result{}, dErrors.New(dErrors.CodeInvalidSubmission, "no submission in session")
	}
	path, err := pagegraph.ParsePagePath(pagePath)
	if err != nil {
		return Result{}, dErrors.Wrap(err, dErrors.CodeInvalidSubmission, "invalid page path")
	}
	return ValidatePath(submission, path, isSummaryCheck)
}

// ValidatePath is ValidateSubmission for an already parsed path.
func ValidatePath(submission *models.Submission, path pagegraph.PagePath, isSummaryCheck bool) (Result, error) {
	if submission == nil {
		return Result{}, dErrors.New(dErrors.CodeInvalidSubmission, "no submission in session")
	}
	if path.HasApplication() && path.ApplicationIndex >= len(submission.Applications) {
		return Result{}, dErrors.New(dErrors.CodeInvalidSubmission,
			fmt.Sprintf("application %d out of range (%d applications)", path.ApplicationIndex, len(submission.Applications)))
	}
	if !pagegraph.IsPageReachable(submission, path.Page, path.ApplicationIndex) {
		return Result{}, dErrors.New(dErrors.CodeInvalidSubmission, fmt.Sprintf("page %s is not reachable", path))
	}
	return Result{
		Path:     path,
		Progress: pagegraph.ComputeProgress(submission, path, isSummaryCheck),
	}, nil
}
