// Package testfixtures builds complete submissions for tests across the
// submission packages.
package testfixtures

import "cites/internal/submission/models"

func applicantContact() *models.Contact {
	return &models.Contact{
		FullName: models.Ptr("Ada Byron"),
		Email:    models.Ptr("ada@example.com"),
		Address: &models.Address{
			AddressLine1: "1 Horse Guards Road",
			AddressLine2: "London",
			Postcode:     "SW1A 2HQ",
			Country:      "United Kingdom",
		},
	}
}

// ImportSubmission is a finished import submission, applicant acting for
// themselves, with one worked-animal-other application.
func ImportSubmission() *models.Submission {
	return &models.Submission{
		ContactID:  "contact-1",
		PermitType: models.Ptr(models.PermitTypeImport),
		IsAgent:    models.Ptr(false),
		Applicant:  applicantContact(),
		Delivery: &models.Delivery{
			AddressOption: models.Ptr(models.AddressOptionApplicant),
			Address:       applicantContact().Address,
			DeliveryType:  models.Ptr(models.DeliveryStandard),
		},
		Applications: []models.Application{ImportApplication(0)},
	}
}

// ImportApplication is an animalOther import with wild source code.
func ImportApplication(index int) models.Application {
	return models.Application{
		ApplicationIndex: index,
		Species: &models.Species{
			SpeciesName:                models.Ptr("Panthera leo"),
			Kingdom:                    models.Ptr(models.KingdomAnimalia),
			SourceCode:                 models.Ptr("W"),
			PurposeCode:                models.Ptr("T"),
			SpecimenType:               models.Ptr(models.SpecimenAnimalOther),
			IsTradeTermCode:            models.Ptr(false),
			SpecimenDescriptionGeneric: models.Ptr("Tanned skin"),
			Quantity:                   models.Ptr(2.0),
			UnitOfMeasurement:          models.Ptr("noOfSpecimens"),
		},
		ImporterExporterDetails: &models.ImporterExporterDetails{
			Country:      "US",
			CountryDesc:  "United States",
			Name:         "Zoo Supplies Inc",
			AddressLine1: "100 Main St",
		},
		Comments: models.Ptr("Museum loan"),
	}
}

// Article10Submission is a finished Article 10 submission made by an agent for
// a marked living animal that needs an export permit.
func Article10Submission() *models.Submission {
	return &models.Submission{
		ContactID:      "contact-2",
		OrganisationID: "org-2",
		PermitType:     models.Ptr(models.PermitTypeArticle10),
		IsAgent:        models.Ptr(true),
		Agent: &models.Contact{
			FullName:     models.Ptr("Grace Agent"),
			BusinessName: models.Ptr("Agents Ltd"),
			Email:        models.Ptr("grace@example.com"),
			Address:      &models.Address{AddressLine1: "2 Agent Street", Postcode: "BS1 1AA"},
		},
		Applicant: applicantContact(),
		Delivery: &models.Delivery{
			AddressOption: models.Ptr(models.AddressOptionDifferent),
			CandidateAddressData: &models.CandidateAddressData{
				AddressSearchData: &models.AddressSearchData{Postcode: "EH1 1AA"},
				SelectedAddress:   &models.Address{AddressLine1: "3 Castle Hill", Postcode: "EH1 1AA"},
			},
			Address:      &models.Address{AddressLine1: "3 Castle Hill", Postcode: "EH1 1AA"},
			DeliveryType: models.Ptr(models.DeliverySpecial),
		},
		Applications: []models.Application{Article10Application(0)},
	}
}

// Article10Application is a microchipped living parrot with known parents.
func Article10Application(index int) models.Application {
	return models.Application{
		ApplicationIndex: index,
		Species: &models.Species{
			SpeciesName:  models.Ptr("Psittacus erithacus"),
			Kingdom:      models.Ptr(models.KingdomAnimalia),
			SourceCode:   models.Ptr("C"),
			SpecimenType: models.Ptr(models.SpecimenAnimalLiving),
			UniqueIdentificationMarks: []models.UniqueIdentificationMark{
				{Index: 0, UniqueIdentificationMarkType: "microchip", UniqueIdentificationMark: "MC-0001"},
			},
			Sex:                    models.Ptr("F"),
			DateOfBirth:            &models.PartialDate{Day: 1, Month: 1, Year: 2020},
			MaleParentDetails:      models.Ptr("MC-9001"),
			FemaleParentDetails:    models.Ptr("MC-9002"),
			Description:            models.Ptr("Grey plumage, red tail"),
			Quantity:               models.Ptr(1.0),
			AcquiredDate:           &models.PartialDate{Month: 6, Year: 2021},
			IsEverImportedExported: models.Ptr(false),
		},
		IsBreeder: models.Ptr(true),
		A10ExportData: &models.A10ExportData{
			IsExportPermitRequired: models.Ptr(true),
			ImporterDetails: &models.ImporterExporterDetails{
				Country:      "FR",
				CountryDesc:  "France",
				Name:         "Parc des Oiseaux",
				AddressLine1: "Route de Villars",
			},
		},
	}
}
