package mutation

import (
	pg "cites/internal/submission/pagegraph"
)

// Scope of a rule's controlling field.
type Scope int

const (
	ScopeSubmission Scope = iota
	ScopeApplication
)

// Rule clears every field of the dependent pages when the controlling field
// changes from one non-null value to another value. Application rules run per
// application; submission rules clearing application pages hit every
// application.
type Rule struct {
	Field  string
	Scope  Scope
	Clears []pg.PageID
	// AlsoClears names sibling fields on the controlling field's own page that
	// only make sense for the old value.
	AlsoClears []string
}

// Rules are evaluated in order; a field cleared by an earlier rule counts as a
// change for later rules, so invalidation cascades.
var Rules = []Rule{
	{Field: "permitType", Scope: ScopeSubmission, Clears: []pg.PageID{
		pg.PagePurposeCode, pg.PageImporterExporter, pg.PagePermitDetails, pg.PageAcquiredDate,
		pg.PageEverImportedExported, pg.PageBreeder, pg.PageExportPermitRequired, pg.PageExportPermitImporter,
	}},
	{Field: "isAgent", Scope: ScopeSubmission, Clears: []pg.PageID{
		pg.PageContactDetailsAgent, pg.PagePostcodeAgent, pg.PageSelectAddressAgent, pg.PageConfirmAddressAgent,
		pg.PageSelectDeliveryAddress,
	}},
	{Field: "delivery.addressOption", Scope: ScopeSubmission, Clears: []pg.PageID{
		pg.PagePostcodeDelivery, pg.PageSelectAddressDelivery, pg.PageConfirmAddressDelivery,
	}},
	{Field: "species.kingdom", Scope: ScopeApplication, Clears: []pg.PageID{
		pg.PageSourceCode, pg.PagePurposeCode, pg.PageSpecimenType, pg.PageTradeTermCode, pg.PageCreatedDate,
		pg.PageUniqueIdentificationMark, pg.PageDescribeLivingAnimal, pg.PageDescribeSpecimen, pg.PageQuantity,
		pg.PageBreeder,
	}},
	{
		Field:      "species.sourceCode",
		Scope:      ScopeApplication,
		Clears:     []pg.PageID{pg.PagePermitDetails},
		AlsoClears: []string{"species.anotherSourceCodeForI", "species.anotherSourceCodeForO", "species.enterAReason"},
	},
	{Field: "species.specimenType", Scope: ScopeApplication, Clears: []pg.PageID{
		pg.PageTradeTermCode, pg.PageCreatedDate, pg.PageUniqueIdentificationMark, pg.PageDescribeLivingAnimal,
		pg.PageDescribeSpecimen, pg.PageQuantity, pg.PageBreeder,
	}},
	{Field: "species.isEverImportedExported", Scope: ScopeApplication, Clears: []pg.PageID{pg.PagePermitDetails}},
	{Field: "a10ExportData.isExportPermitRequired", Scope: ScopeApplication, Clears: []pg.PageID{pg.PageExportPermitImporter}},
}

// ControllingFields lists every field that can trigger invalidation.
func ControllingFields() []string {
	out := make([]string, len(Rules))
	for i, r := range Rules {
		out[i] = r.Field
	}
	return out
}
