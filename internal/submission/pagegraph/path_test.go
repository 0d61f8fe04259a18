package pagegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePagePath(t *testing.T) {
	valid := []struct {
		raw   string
		page  PageID
		index int
		str   string
	}{
		{"permit-type", PagePermitType, NoApplication, "permit-type"},
		{"/permit-type/", PagePermitType, NoApplication, "permit-type"},
		{"/species-name/0", PageSpeciesName, 0, "species-name/0"},
		{"quantity/12", PageQuantity, 12, "quantity/12"},
		{"/application-summary/check/1", PageSummaryCheck, 1, "application-summary/check/1"},
		{"/application-summary/view-submitted/0", PageSummaryViewSubmitted, 0, "application-summary/view-submitted/0"},
		{"/contact-details/agent", PageContactDetailsAgent, NoApplication, "contact-details/agent"},
		{"/confirm-address/delivery?from=change", PageConfirmAddressDelivery, NoApplication, "confirm-address/delivery"},
	}
	for _, tc := range valid {
		t.Run(tc.raw, func(t *testing.T) {
			p, err := ParsePagePath(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.page, p.Page)
			assert.Equal(t, tc.index, p.ApplicationIndex)
			assert.Equal(t, tc.str, p.String())
			assert.Equal(t, "/"+tc.str, p.URL())
		})
	}

	invalid := map[string]error{
		"":                              ErrMalformedPath,
		"/":                             ErrMalformedPath,
		"species-name":                  ErrMalformedPath,
		"permit-type/0":                 ErrMalformedPath,
		"species-name/-1":               ErrMalformedPath,
		"a/b/c/0":                       ErrMalformedPath,
		"application-summary/0":         ErrUnknownPage,
		"application-summary/edit/0":    ErrUnknownPage,
		"contact-details/someone-else":  ErrUnknownPage,
		"not-a-page":                    ErrUnknownPage,
	}
	for raw, want := range invalid {
		t.Run("invalid "+raw, func(t *testing.T) {
			_, err := ParsePagePath(raw)
			assert.ErrorIs(t, err, want)
		})
	}
}

func TestAtDropsIndexForSubmissionPages(t *testing.T) {
	assert.Equal(t, "delivery-type", At(PageDeliveryType, 3).String())
	assert.Equal(t, "comments/3", At(PageComments, 3).String())
}
