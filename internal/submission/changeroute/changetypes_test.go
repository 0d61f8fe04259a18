package changeroute

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedChangeTypesLoad(t *testing.T) {
	types, err := LoadChangeTypes(defaultChangeTypes)
	require.NoError(t, err)

	for name, ct := range types {
		if ct.Controlling {
			assert.True(t, ct.ShowConfirmationPage, "%s: controlling journeys confirm first", name)
		}
	}
	assert.True(t, types["quantity"].PerApplication())
	assert.False(t, types["deliveryType"].PerApplication())
}

func TestLoadChangeTypesRejects(t *testing.T) {
	cases := map[string]string{
		"empty":           ``,
		"not a mapping":   "- a\n- b\n",
		"no start urls":   "x:\n  endUrls: [/comments/0]\n",
		"unknown page":    "x:\n  startUrls: [/nowhere]\n  endUrls: [/nowhere]\n",
		"no end urls":     "x:\n  startUrls: [/delivery-type]\n",
		"controlling end": "x:\n  startUrls: [/permit-type]\n  endUrls: [/permit-type]\n  controlling: true\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadChangeTypes([]byte(data))
			assert.Error(t, err)
		})
	}
}
