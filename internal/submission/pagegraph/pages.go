package pagegraph

import (
	"slices"
	"strings"

	"cites/internal/submission/models"
)

// PageID names a node in the page table. Qualified pages (contact type,
// summary type) carry the qualifier in their ID.
type PageID string

const (
	PagePermitType       PageID = "permit-type"
	PageApplyingOnBehalf PageID = "applying-on-behalf"

	PageContactDetailsAgent PageID = "contact-details/agent"
	PagePostcodeAgent       PageID = "postcode/agent"
	PageSelectAddressAgent  PageID = "select-address/agent"
	PageConfirmAddressAgent PageID = "confirm-address/agent"

	PageContactDetailsApplicant PageID = "contact-details/applicant"
	PagePostcodeApplicant       PageID = "postcode/applicant"
	PageSelectAddressApplicant  PageID = "select-address/applicant"
	PageConfirmAddressApplicant PageID = "confirm-address/applicant"

	PageSelectDeliveryAddress  PageID = "select-delivery-address"
	PagePostcodeDelivery       PageID = "postcode/delivery"
	PageSelectAddressDelivery  PageID = "select-address/delivery"
	PageConfirmAddressDelivery PageID = "confirm-address/delivery"
	PageDeliveryType           PageID = "delivery-type"

	PageSpeciesName              PageID = "species-name"
	PageSourceCode               PageID = "source-code"
	PagePurposeCode              PageID = "purpose-code"
	PageSpecimenType             PageID = "specimen-type"
	PageTradeTermCode            PageID = "trade-term-code"
	PageCreatedDate              PageID = "created-date"
	PageUniqueIdentificationMark PageID = "unique-identification-mark"
	PageDescribeLivingAnimal     PageID = "describe-living-animal"
	PageDescribeSpecimen         PageID = "describe-specimen"
	PageQuantity                 PageID = "quantity"
	PageAcquiredDate             PageID = "acquired-date"
	PageEverImportedExported     PageID = "ever-imported-exported"
	PagePermitDetails            PageID = "permit-details"
	PageImporterExporter         PageID = "importer-exporter"
	PageBreeder                  PageID = "breeder"
	PageExportPermitRequired     PageID = "export-permit-required"
	PageExportPermitImporter     PageID = "export-permit-importer"
	PageComments                 PageID = "comments"

	PageSummaryCheck         PageID = "application-summary/check"
	PageSummaryView          PageID = "application-summary/view"
	PageSummaryCopy          PageID = "application-summary/copy"
	PageSummaryViewSubmitted PageID = "application-summary/view-submitted"

	PageYourSubmission            PageID = "your-submission"
	PageUploadSupportingDocuments PageID = "upload-supporting-documents"
	PageDeclaration               PageID = "declaration"
)

// Scope says whether a page belongs to the submission or to one application.
type Scope int

const (
	ScopeSubmission Scope = iota
	ScopeApplication
)

// Predicate decides whether a page applies to the submission at all. The
// application index is -1 for submission pages.
type Predicate func(s *models.Submission, applicationIndex int) bool

// Node is one row of the page table.
type Node struct {
	ID    PageID
	Scope Scope
	// Fields are the document paths the page owns, relative to the application
	// for application pages. The first is the primary field and decides hasData.
	Fields      []string
	Requires    []PageID
	AppliesWhen Predicate
	Mandatory   bool
	// AllApplications evaluates application-scoped predecessors for every
	// application rather than the page's own index.
	AllApplications bool
}

// Section membership fixes the wizard order.
var (
	submissionPages = []*Node{
		{ID: PagePermitType, Fields: []string{"permitType"}, Mandatory: true},
		{ID: PageApplyingOnBehalf, Fields: []string{"isAgent"}, Requires: []PageID{PagePermitType}, Mandatory: true},

		{ID: PageContactDetailsAgent, Fields: contactFields("agent"), Requires: []PageID{PageApplyingOnBehalf}, AppliesWhen: isAgent, Mandatory: true},
		{ID: PagePostcodeAgent, Fields: []string{"agent.candidateAddressData.addressSearchData"}, Requires: []PageID{PageContactDetailsAgent}, AppliesWhen: isAgent},
		{ID: PageSelectAddressAgent, Fields: []string{"agent.candidateAddressData.selectedAddress"}, Requires: []PageID{PagePostcodeAgent}, AppliesWhen: isAgent},
		{ID: PageConfirmAddressAgent, Fields: []string{"agent.address"}, Requires: []PageID{PageSelectAddressAgent}, AppliesWhen: isAgent, Mandatory: true},

		{ID: PageContactDetailsApplicant, Fields: contactFields("applicant"), Requires: []PageID{PageConfirmAddressAgent}, Mandatory: true},
		{ID: PagePostcodeApplicant, Fields: []string{"applicant.candidateAddressData.addressSearchData"}, Requires: []PageID{PageContactDetailsApplicant}},
		{ID: PageSelectAddressApplicant, Fields: []string{"applicant.candidateAddressData.selectedAddress"}, Requires: []PageID{PagePostcodeApplicant}},
		{ID: PageConfirmAddressApplicant, Fields: []string{"applicant.address"}, Requires: []PageID{PageSelectAddressApplicant}, Mandatory: true},

		{ID: PageSelectDeliveryAddress, Fields: []string{"delivery.addressOption", "delivery.address"}, Requires: []PageID{PageConfirmAddressApplicant}, Mandatory: true},
		{ID: PagePostcodeDelivery, Fields: []string{"delivery.candidateAddressData.addressSearchData"}, Requires: []PageID{PageSelectDeliveryAddress}, AppliesWhen: differentDeliveryAddress},
		{ID: PageSelectAddressDelivery, Fields: []string{"delivery.candidateAddressData.selectedAddress"}, Requires: []PageID{PagePostcodeDelivery}, AppliesWhen: differentDeliveryAddress},
		{ID: PageConfirmAddressDelivery, Fields: []string{"delivery.address"}, Requires: []PageID{PageSelectAddressDelivery}, AppliesWhen: differentDeliveryAddress, Mandatory: true},
		{ID: PageDeliveryType, Fields: []string{"delivery.deliveryType"}, Requires: []PageID{PageConfirmAddressDelivery}, Mandatory: true},
	}

	applicationPages = []*Node{
		{ID: PageSpeciesName, Fields: []string{"species.speciesName", "species.kingdom"}, Requires: []PageID{PageDeliveryType}, Mandatory: true},
		{ID: PageSourceCode, Fields: []string{"species.sourceCode", "species.anotherSourceCodeForI", "species.anotherSourceCodeForO", "species.enterAReason"}, Requires: []PageID{PageSpeciesName}, Mandatory: true},
		{ID: PagePurposeCode, Fields: []string{"species.purposeCode"}, Requires: []PageID{PageSourceCode}, AppliesWhen: needsPurposeCode, Mandatory: true},
		{ID: PageSpecimenType, Fields: []string{"species.specimenType"}, Requires: []PageID{PagePurposeCode}, Mandatory: true},
		{ID: PageTradeTermCode, Fields: []string{"species.isTradeTermCode", "species.tradeTermCode"}, Requires: []PageID{PageSpecimenType}, AppliesWhen: specimenIn(models.SpecimenAnimalOther, models.SpecimenPlantProcessed), Mandatory: true},
		{ID: PageCreatedDate, Fields: []string{"species.createdDate"}, Requires: []PageID{PageTradeTermCode}, AppliesWhen: specimenIn(models.SpecimenAnimalWorked, models.SpecimenPlantWorked), Mandatory: true},
		{ID: PageUniqueIdentificationMark, Fields: []string{"species.uniqueIdentificationMarks", "species.quantity"}, Requires: []PageID{PageCreatedDate}, AppliesWhen: specimenIn(models.SpecimenAnimalLiving, models.SpecimenAnimalWorked), Mandatory: true},
		{ID: PageDescribeLivingAnimal, Fields: []string{"species.sex", "species.dateOfBirth", "species.maleParentDetails", "species.femaleParentDetails", "species.description"}, Requires: []PageID{PageUniqueIdentificationMark}, AppliesWhen: specimenIn(models.SpecimenAnimalLiving), Mandatory: true},
		{ID: PageDescribeSpecimen, Fields: []string{"species.specimenDescriptionGeneric"}, Requires: []PageID{PageDescribeLivingAnimal}, AppliesWhen: describesSpecimen, Mandatory: true},
		{ID: PageQuantity, Fields: []string{"species.quantity", "species.unitOfMeasurement"}, Requires: []PageID{PageDescribeSpecimen}, AppliesWhen: needsQuantity, Mandatory: true},
		{ID: PageAcquiredDate, Fields: []string{"species.acquiredDate"}, Requires: []PageID{PageQuantity}, AppliesWhen: permitIn(models.PermitTypeArticle10), Mandatory: true},
		{ID: PageEverImportedExported, Fields: []string{"species.isEverImportedExported"}, Requires: []PageID{PageAcquiredDate}, AppliesWhen: permitIn(models.PermitTypeArticle10), Mandatory: true},
		{ID: PagePermitDetails, Fields: []string{"permitDetails"}, Requires: []PageID{PageEverImportedExported}, AppliesWhen: needsPermitDetails, Mandatory: true},
		{ID: PageImporterExporter, Fields: []string{"importerExporterDetails"}, Requires: []PageID{PagePermitDetails}, AppliesWhen: permitIn(models.PermitTypeImport, models.PermitTypeExport, models.PermitTypeReexport), Mandatory: true},
		{ID: PageBreeder, Fields: []string{"isBreeder"}, Requires: []PageID{PageImporterExporter}, AppliesWhen: all(permitIn(models.PermitTypeArticle10), specimenIn(models.SpecimenAnimalLiving)), Mandatory: true},
		{ID: PageExportPermitRequired, Fields: []string{"a10ExportData.isExportPermitRequired"}, Requires: []PageID{PageBreeder}, AppliesWhen: permitIn(models.PermitTypeArticle10), Mandatory: true},
		{ID: PageExportPermitImporter, Fields: []string{"a10ExportData.importerDetails"}, Requires: []PageID{PageExportPermitRequired}, AppliesWhen: all(permitIn(models.PermitTypeArticle10), exportPermitRequired), Mandatory: true},
		{ID: PageComments, Fields: []string{"comments"}, Requires: []PageID{PageExportPermitImporter}},
		{ID: PageSummaryCheck, Requires: []PageID{PageComments}},
	}

	tailPages = []*Node{
		{ID: PageYourSubmission, Requires: []PageID{PageSummaryCheck}, AllApplications: true},
		{ID: PageUploadSupportingDocuments, Fields: []string{"supportingDocuments"}, Requires: []PageID{PageYourSubmission}},
		{ID: PageDeclaration, Requires: []PageID{PageUploadSupportingDocuments}},
	}

	// Summary views outside the wizard only need the application to exist.
	standalonePages = []*Node{
		{ID: PageSummaryView, Scope: ScopeApplication},
		{ID: PageSummaryCopy, Scope: ScopeApplication},
		{ID: PageSummaryViewSubmitted, Scope: ScopeApplication},
	}

	nodes = buildTable()
)

func buildTable() map[PageID]*Node {
	table := make(map[PageID]*Node)
	for _, n := range applicationPages {
		n.Scope = ScopeApplication
	}
	for _, section := range [][]*Node{submissionPages, applicationPages, tailPages, standalonePages} {
		for _, n := range section {
			table[n.ID] = n
		}
	}
	return table
}

// Lookup returns the node for id.
func Lookup(id PageID) (*Node, bool) {
	n, ok := nodes[id]
	return n, ok
}

// FieldPaths returns the node's fields as absolute document paths.
func (n *Node) FieldPaths(applicationIndex int) []string {
	out := make([]string, len(n.Fields))
	for i, f := range n.Fields {
		out[i] = n.fieldPath(applicationIndex, f)
	}
	return out
}

func (n *Node) fieldPath(applicationIndex int, field string) string {
	if n.Scope == ScopeApplication {
		return models.ApplicationPath(applicationIndex, field)
	}
	return field
}

// OwnsField reports whether field (relative to the node's scope) is one of the
// node's fields or nested beneath one.
func (n *Node) OwnsField(field string) bool {
	return slices.ContainsFunc(n.Fields, func(f string) bool {
		return field == f || strings.HasPrefix(field, f+".")
	})
}

// ForeignFields returns, sorted, the leaf paths of patch that the node does not
// own. patch is relative to the application for application pages.
func (n *Node) ForeignFields(patch models.Document) []string {
	var out []string
	n.collectForeign(patch, "", &out)
	slices.Sort(out)
	return out
}

func (n *Node) collectForeign(doc map[string]any, prefix string, out *[]string) {
	for key, v := range doc {
		field := models.JoinPath(prefix, key)
		if n.OwnsField(field) {
			continue
		}
		if nested, ok := v.(map[string]any); ok && n.ownsBeneath(field) {
			n.collectForeign(nested, field, out)
			continue
		}
		*out = append(*out, field)
	}
}

func (n *Node) ownsBeneath(prefix string) bool {
	return slices.ContainsFunc(n.Fields, func(f string) bool {
		return strings.HasPrefix(f, prefix+".")
	})
}

func contactFields(contact string) []string {
	return []string{contact + ".fullName", contact + ".businessName", contact + ".email"}
}

func isAgent(s *models.Submission, _ int) bool {
	return s.IsAgent != nil && *s.IsAgent
}

func differentDeliveryAddress(s *models.Submission, _ int) bool {
	return s.Delivery != nil && s.Delivery.AddressOption != nil &&
		*s.Delivery.AddressOption == models.AddressOptionDifferent
}

func permitIn(types ...models.PermitType) Predicate {
	return func(s *models.Submission, i int) bool {
		return slices.Contains(types, s.EffectivePermitType(i))
	}
}

func specimenIn(types ...models.SpecimenType) Predicate {
	return func(s *models.Submission, i int) bool {
		sp := s.Application(i).SpeciesOf()
		return sp.SpecimenType != nil && slices.Contains(types, *sp.SpecimenType)
	}
}

func all(preds ...Predicate) Predicate {
	return func(s *models.Submission, i int) bool {
		for _, p := range preds {
			if !p(s, i) {
				return false
			}
		}
		return true
	}
}

// Generated export applications inherit their purpose from the Article 10
// certificate.
func needsPurposeCode(s *models.Submission, i int) bool {
	app := s.Application(i)
	return s.EffectivePermitType(i) != models.PermitTypeArticle10 && (app == nil || !app.IsGeneratedExport)
}

func describesSpecimen(s *models.Submission, i int) bool {
	sp := s.Application(i).SpeciesOf()
	return sp.SpecimenType != nil && *sp.SpecimenType != models.SpecimenAnimalLiving
}

// Living animals with identification marks are counted by their marks.
func needsQuantity(s *models.Submission, i int) bool {
	sp := s.Application(i).SpeciesOf()
	if sp.SpecimenType == nil {
		return false
	}
	return !(*sp.SpecimenType == models.SpecimenAnimalLiving && sp.HasUniqueMarks())
}

func needsPermitDetails(s *models.Submission, i int) bool {
	sp := s.Application(i).SpeciesOf()
	switch s.EffectivePermitType(i) {
	case models.PermitTypeReexport:
		return true
	case models.PermitTypeArticle10:
		return sp.IsEverImportedExported != nil && *sp.IsEverImportedExported
	case models.PermitTypeImport:
		return sp.SourceCode != nil && (*sp.SourceCode == "I" || *sp.SourceCode == "O")
	}
	return false
}

func exportPermitRequired(s *models.Submission, i int) bool {
	app := s.Application(i)
	return app != nil && app.A10ExportData != nil && app.A10ExportData.IsExportPermitRequired != nil &&
		*app.A10ExportData.IsExportPermitRequired
}
