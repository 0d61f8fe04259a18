package models

// PermitType selects which wizard branches apply to a submission.
type PermitType string

const (
	PermitTypeImport    PermitType = "import"
	PermitTypeExport    PermitType = "export"
	PermitTypeReexport  PermitType = "reexport"
	PermitTypeArticle10 PermitType = "article10"
	PermitTypeMIC       PermitType = "mic"
	PermitTypeTEC       PermitType = "tec"
	PermitTypePOC       PermitType = "poc"
)

func (p PermitType) IsValid() bool {
	switch p {
	case PermitTypeImport, PermitTypeExport, PermitTypeReexport, PermitTypeArticle10,
		PermitTypeMIC, PermitTypeTEC, PermitTypePOC:
		return true
	}
	return false
}

type Kingdom string

const (
	KingdomAnimalia Kingdom = "Animalia"
	KingdomPlantae  Kingdom = "Plantae"
)

type SpecimenType string

const (
	SpecimenAnimalLiving   SpecimenType = "animalLiving"
	SpecimenAnimalWorked   SpecimenType = "animalWorked"
	SpecimenAnimalOther    SpecimenType = "animalOther"
	SpecimenPlantLiving    SpecimenType = "plantLiving"
	SpecimenPlantProcessed SpecimenType = "plantProcessed"
	SpecimenPlantWorked    SpecimenType = "plantWorked"
)

// AddressOption is where the permit should be delivered.
type AddressOption string

const (
	AddressOptionApplicant AddressOption = "applicant"
	AddressOptionAgent     AddressOption = "agent"
	AddressOptionDifferent AddressOption = "different"
)

type DeliveryType string

const (
	DeliveryStandard DeliveryType = "standardDelivery"
	DeliverySpecial  DeliveryType = "specialDelivery"
)

// ContactType qualifies the contact and address pages.
type ContactType string

const (
	ContactAgent     ContactType = "agent"
	ContactApplicant ContactType = "applicant"
	ContactDelivery  ContactType = "delivery"
)

// SummaryType qualifies the application summary page.
type SummaryType string

const (
	SummaryCheck         SummaryType = "check"
	SummaryView          SummaryType = "view"
	SummaryCopy          SummaryType = "copy"
	SummaryViewSubmitted SummaryType = "view-submitted"
)

// UnmarkedSpecimen is the identification mark type for specimens without marks.
const UnmarkedSpecimen = "unmarked"

// Submission is the root document for one permit application session. Every
// optional field is a pointer or omitted slice so that "not answered" and
// "cleared" serialise identically.
type Submission struct {
	SubmissionRef       string               `json:"submissionRef,omitempty"`
	SubmissionID        string               `json:"submissionId,omitempty"`
	ContactID           string               `json:"contactId,omitempty"`
	OrganisationID      string               `json:"organisationId,omitempty"`
	PermitType          *PermitType          `json:"permitType,omitempty"`
	IsAgent             *bool                `json:"isAgent,omitempty"`
	Agent               *Contact             `json:"agent,omitempty"`
	Applicant           *Contact             `json:"applicant,omitempty"`
	Delivery            *Delivery            `json:"delivery,omitempty"`
	Applications        []Application        `json:"applications"`
	PaymentDetails      *PaymentDetails      `json:"paymentDetails,omitempty"`
	SupportingDocuments []SupportingDocument `json:"supportingDocuments,omitempty"`
}

type Address struct {
	AddressLine1 string `json:"addressLine1,omitempty"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	AddressLine3 string `json:"addressLine3,omitempty"`
	AddressLine4 string `json:"addressLine4,omitempty"`
	Postcode     string `json:"postcode,omitempty"`
	Country      string `json:"country,omitempty"`
	UPRN         string `json:"uprn,omitempty"`
}

type AddressSearchData struct {
	Postcode string    `json:"postcode,omitempty"`
	Property string    `json:"property,omitempty"`
	Results  []Address `json:"results,omitempty"`
}

type CandidateAddressData struct {
	AddressSearchData *AddressSearchData `json:"addressSearchData,omitempty"`
	SelectedAddress   *Address           `json:"selectedAddress,omitempty"`
}

type Contact struct {
	FullName             *string               `json:"fullName,omitempty"`
	BusinessName         *string               `json:"businessName,omitempty"`
	Email                *string               `json:"email,omitempty"`
	CandidateAddressData *CandidateAddressData `json:"candidateAddressData,omitempty"`
	Address              *Address              `json:"address,omitempty"`
}

type Delivery struct {
	AddressOption        *AddressOption        `json:"addressOption,omitempty"`
	CandidateAddressData *CandidateAddressData `json:"candidateAddressData,omitempty"`
	Address              *Address              `json:"address,omitempty"`
	DeliveryType         *DeliveryType         `json:"deliveryType,omitempty"`
}

// Application is one species request within a submission.
type Application struct {
	ApplicationIndex int `json:"applicationIndex"`
	// PermitType overrides the submission's type. Only export applications
	// generated from Article 10 answers carry one.
	PermitType              *PermitType              `json:"permitType,omitempty"`
	IsGeneratedExport       bool                     `json:"isGeneratedExport,omitempty"`
	Species                 *Species                 `json:"species,omitempty"`
	PermitDetails           *PermitDetails           `json:"permitDetails,omitempty"`
	ImporterExporterDetails *ImporterExporterDetails `json:"importerExporterDetails,omitempty"`
	A10ExportData           *A10ExportData           `json:"a10ExportData,omitempty"`
	Comments                *string                  `json:"comments,omitempty"`
	IsBreeder               *bool                    `json:"isBreeder,omitempty"`
}

type PartialDate struct {
	Day   int `json:"day,omitempty"`
	Month int `json:"month,omitempty"`
	Year  int `json:"year,omitempty"`
}

type UniqueIdentificationMark struct {
	Index                        int    `json:"index"`
	UniqueIdentificationMarkType string `json:"uniqueIdentificationMarkType"`
	UniqueIdentificationMark     string `json:"uniqueIdentificationMark,omitempty"`
}

type Species struct {
	SpeciesName                *string                    `json:"speciesName,omitempty"`
	Kingdom                    *Kingdom                   `json:"kingdom,omitempty"`
	SourceCode                 *string                    `json:"sourceCode,omitempty"`
	AnotherSourceCodeForI      *string                    `json:"anotherSourceCodeForI,omitempty"`
	AnotherSourceCodeForO      *string                    `json:"anotherSourceCodeForO,omitempty"`
	EnterAReason               *string                    `json:"enterAReason,omitempty"`
	PurposeCode                *string                    `json:"purposeCode,omitempty"`
	SpecimenType               *SpecimenType              `json:"specimenType,omitempty"`
	IsTradeTermCode            *bool                      `json:"isTradeTermCode,omitempty"`
	TradeTermCode              *string                    `json:"tradeTermCode,omitempty"`
	CreatedDate                *PartialDate               `json:"createdDate,omitempty"`
	UniqueIdentificationMarks  []UniqueIdentificationMark `json:"uniqueIdentificationMarks,omitempty"`
	Sex                        *string                    `json:"sex,omitempty"`
	DateOfBirth                *PartialDate               `json:"dateOfBirth,omitempty"`
	MaleParentDetails          *string                    `json:"maleParentDetails,omitempty"`
	FemaleParentDetails        *string                    `json:"femaleParentDetails,omitempty"`
	Description                *string                    `json:"description,omitempty"`
	SpecimenDescriptionGeneric *string                    `json:"specimenDescriptionGeneric,omitempty"`
	Quantity                   *float64                   `json:"quantity,omitempty"`
	UnitOfMeasurement          *string                    `json:"unitOfMeasurement,omitempty"`
	AcquiredDate               *PartialDate               `json:"acquiredDate,omitempty"`
	IsEverImportedExported     *bool                      `json:"isEverImportedExported,omitempty"`
}

type PermitDetails struct {
	CountryOfOrigin                 string       `json:"countryOfOrigin,omitempty"`
	CountryOfOriginPermitNumber     string       `json:"countryOfOriginPermitNumber,omitempty"`
	CountryOfOriginPermitIssueDate  *PartialDate `json:"countryOfOriginPermitIssueDate,omitempty"`
	IsCountryOfOriginNotApplicable  bool         `json:"isCountryOfOriginNotApplicable,omitempty"`
	ExportOrReexportCountry         string       `json:"exportOrReexportCountry,omitempty"`
	ExportOrReexportPermitNumber    string       `json:"exportOrReexportPermitNumber,omitempty"`
	ExportOrReexportPermitIssueDate *PartialDate `json:"exportOrReexportPermitIssueDate,omitempty"`
	IsExportOrReexportNotApplicable bool         `json:"isExportOrReexportNotApplicable,omitempty"`
}

type ImporterExporterDetails struct {
	Country      string `json:"country,omitempty"`
	CountryDesc  string `json:"countryDesc,omitempty"`
	Name         string `json:"name,omitempty"`
	AddressLine1 string `json:"addressLine1,omitempty"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	AddressLine3 string `json:"addressLine3,omitempty"`
	AddressLine4 string `json:"addressLine4,omitempty"`
	Postcode     string `json:"postcode,omitempty"`
}

type A10ExportData struct {
	IsExportPermitRequired *bool                    `json:"isExportPermitRequired,omitempty"`
	ImporterDetails        *ImporterExporterDetails `json:"importerDetails,omitempty"`
}

type PaymentDetails struct {
	CostingType      string  `json:"costingType,omitempty"`
	CostingValue     float64 `json:"costingValue,omitempty"`
	PaymentID        string  `json:"paymentId,omitempty"`
	PaymentReference string  `json:"paymentReference,omitempty"`
	PaymentStatus    string  `json:"paymentStatus,omitempty"`
	NextURL          string  `json:"nextUrl,omitempty"`
}

type SupportingDocument struct {
	FileName       string `json:"fileName"`
	BlobStorageKey string `json:"blobStorageKey"`
	ContentType    string `json:"contentType,omitempty"`
	Size           int64  `json:"size,omitempty"`
}

// EffectivePermitType resolves the permit type the application's pages are
// driven by.
func (s *Submission) EffectivePermitType(applicationIndex int) PermitType {
	if s == nil {
		return ""
	}
	if applicationIndex >= 0 && applicationIndex < len(s.Applications) {
		if pt := s.Applications[applicationIndex].PermitType; pt != nil {
			return *pt
		}
	}
	if s.PermitType == nil {
		return ""
	}
	return *s.PermitType
}

// Application returns the application at index, or nil when out of range.
func (s *Submission) Application(index int) *Application {
	if s == nil || index < 0 || index >= len(s.Applications) {
		return nil
	}
	return &s.Applications[index]
}

// SpeciesOf returns the application's species record, never nil.
func (a *Application) SpeciesOf() Species {
	if a == nil || a.Species == nil {
		return Species{}
	}
	return *a.Species
}

// HasUniqueMarks reports whether marks were recorded and the first is not the
// "unmarked" placeholder.
func (sp Species) HasUniqueMarks() bool {
	return len(sp.UniqueIdentificationMarks) > 0 &&
		sp.UniqueIdentificationMarks[0].UniqueIdentificationMarkType != UnmarkedSpecimen
}

// Ptr is a helper for building optional fields.
func Ptr[T any](v T) *T {
	return &v
}
