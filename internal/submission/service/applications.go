package service

import (
	"context"
	"fmt"
	"strings"

	"cites/internal/submission/models"
	"cites/internal/submission/pagegraph"
	dErrors "cites/pkg/domain-errors"
)

// AddApplication appends an empty application and returns its index.
func (s *Service) AddApplication(ctx context.Context, sc models.SubmissionContext) (int, error) {
	sub, err := s.GetSubmission(ctx, sc)
	if err != nil {
		return 0, err
	}
	index := s.appendApplication(sub)
	if err := s.store(ctx, sc, sub); err != nil {
		return 0, err
	}
	return index, nil
}

func (s *Service) appendApplication(sub *models.Submission) int {
	sub.Applications = append(sub.Applications, models.Application{})
	sub.Applications = models.ReIndexApplications(sub.Applications)
	return len(sub.Applications) - 1
}

// DeleteApplication removes one application and closes the gap in the
// indexes.
func (s *Service) DeleteApplication(ctx context.Context, sc models.SubmissionContext, applicationIndex int) error {
	sub, err := s.GetSubmission(ctx, sc)
	if err != nil {
		return err
	}
	if sub.Application(applicationIndex) == nil {
		return dErrors.New(dErrors.CodeInvalidSubmission, fmt.Sprintf("application %d out of range", applicationIndex))
	}
	sub.Applications = append(sub.Applications[:applicationIndex], sub.Applications[applicationIndex+1:]...)
	return s.store(ctx, sc, sub)
}

// GenerateExportApplications rebuilds the export applications that Article 10
// applications ask for. Previously generated ones are dropped first, then
// each Article 10 application needing an export permit is followed by its
// export copy.
func (s *Service) GenerateExportApplications(ctx context.Context, sc models.SubmissionContext) (*models.Submission, error) {
	sub, err := s.GetSubmission(ctx, sc)
	if err != nil {
		return nil, err
	}
	if sub.PermitType == nil || *sub.PermitType != models.PermitTypeArticle10 {
		return sub, nil
	}
	apps, err := generateExports(sub.Applications)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "generate export applications")
	}
	sub.Applications = apps
	if err := s.store(ctx, sc, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func generateExports(in []models.Application) ([]models.Application, error) {
	out := make([]models.Application, 0, len(in))
	for _, app := range in {
		if app.IsGeneratedExport {
			continue
		}
		out = append(out, app)
		if app.A10ExportData == nil || app.A10ExportData.IsExportPermitRequired == nil || !*app.A10ExportData.IsExportPermitRequired {
			continue
		}
		export, err := exportFrom(app)
		if err != nil {
			return nil, err
		}
		out = append(out, export)
	}
	return models.ReIndexApplications(out), nil
}

// exportFrom copies an Article 10 application into an export application
// addressed to the importer given on the export-permit-importer page.
func exportFrom(app models.Application) (models.Application, error) {
	holder := &models.Submission{Applications: []models.Application{app}}
	clone, err := holder.Clone()
	if err != nil {
		return models.Application{}, err
	}
	export := clone.Applications[0]
	export.PermitType = models.Ptr(models.PermitTypeExport)
	export.IsGeneratedExport = true
	export.ImporterExporterDetails = export.A10ExportData.ImporterDetails
	export.A10ExportData = nil
	export.IsBreeder = nil
	export.PermitDetails = nil
	if export.Species != nil {
		export.Species.AcquiredDate = nil
		export.Species.IsEverImportedExported = nil
	}
	return export, nil
}

// SetUniqueIdentificationMarks stores the marks for one specimen after
// checking none is already used, either within the list or by another
// application. Living animals take their quantity from the mark count.
func (s *Service) SetUniqueIdentificationMarks(ctx context.Context, sc models.SubmissionContext, applicationIndex int, marks []models.UniqueIdentificationMark) (MergeResult, error) {
	sub, err := s.GetSubmission(ctx, sc)
	if err != nil {
		return MergeResult{}, err
	}
	if sub.Application(applicationIndex) == nil {
		return MergeResult{}, dErrors.New(dErrors.CodeInvalidSubmission, "application out of range")
	}
	if err := checkDuplicateMarks(sub, applicationIndex, marks); err != nil {
		return MergeResult{}, err
	}
	patch, err := marksPatch(sub, applicationIndex, marks)
	if err != nil {
		return MergeResult{}, err
	}
	path := pagegraph.At(pagegraph.PageUniqueIdentificationMark, applicationIndex)
	return s.MergeApplication(ctx, sc, applicationIndex, patch, path.String())
}

func checkDuplicateMarks(sub *models.Submission, applicationIndex int, marks []models.UniqueIdentificationMark) error {
	seen := make(map[string]int, len(marks))
	for i, m := range marks {
		key := markKey(m)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			return dErrors.NewField(dErrors.CodeDuplicateIdentifier,
				fmt.Sprintf("uniqueIdentificationMark-%d", i), "identification mark entered more than once")
		}
		seen[key] = i
	}
	for _, app := range sub.Applications {
		if app.ApplicationIndex == applicationIndex || app.IsGeneratedExport {
			continue
		}
		for _, other := range app.SpeciesOf().UniqueIdentificationMarks {
			if i, dup := seen[markKey(other)]; dup {
				return dErrors.NewField(dErrors.CodeDuplicateIdentifier,
					fmt.Sprintf("uniqueIdentificationMark-%d", i), "identification mark used by another specimen")
			}
		}
	}
	return nil
}

// markKey is empty for marks that identify nothing.
func markKey(m models.UniqueIdentificationMark) string {
	if m.UniqueIdentificationMarkType == models.UnmarkedSpecimen {
		return ""
	}
	mark := strings.ToUpper(strings.TrimSpace(m.UniqueIdentificationMark))
	if mark == "" {
		return ""
	}
	return m.UniqueIdentificationMarkType + ":" + mark
}

func marksPatch(sub *models.Submission, applicationIndex int, marks []models.UniqueIdentificationMark) (models.Document, error) {
	for i := range marks {
		marks[i].Index = i
	}
	var encoded any
	if len(marks) > 0 {
		v, err := jsonValue(marks)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "encode marks")
		}
		encoded = v
	}
	species := map[string]any{"uniqueIdentificationMarks": encoded}
	sp := sub.Applications[applicationIndex].SpeciesOf()
	if sp.SpecimenType != nil && *sp.SpecimenType == models.SpecimenAnimalLiving {
		species["quantity"] = float64(len(marks))
	}
	return models.Document{"species": species}, nil
}
