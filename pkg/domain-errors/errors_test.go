package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCode(t *testing.T) {
	t.Run("matches direct code", func(t *testing.T) {
		err := New(CodeInvalidSubmission, "page not reachable")
		assert.True(t, HasCode(err, CodeInvalidSubmission))
		assert.False(t, HasCode(err, CodeInternal))
	})

	t.Run("matches through fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("merge: %w", New(CodeInvalidSubmission, "page not reachable"))
		assert.True(t, HasCode(err, CodeInvalidSubmission))
	})

	t.Run("matches inner domain error", func(t *testing.T) {
		inner := New(CodeUpstream, "crm unavailable")
		err := Wrap(inner, CodeInternal, "post submission")
		assert.True(t, HasCode(err, CodeUpstream))
		assert.True(t, HasCode(err, CodeInternal))
		assert.Equal(t, CodeInternal, CodeOf(err))
	})

	t.Run("plain errors carry no code", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
		assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	})
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, CodeInternal, "nothing"))
}

func TestFieldOf(t *testing.T) {
	err := NewField(CodeDuplicateIdentifier, "uniqueIdentificationMark-0", "mark already used")
	assert.Equal(t, "uniqueIdentificationMark-0", FieldOf(err))
	assert.Equal(t, "mark already used", err.Error())
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeBadRequest:          http.StatusBadRequest,
		CodeValidation:          http.StatusUnprocessableEntity,
		CodeDuplicateIdentifier: http.StatusUnprocessableEntity,
		CodeInvalidSubmission:   http.StatusConflict,
		CodeUpstream:            http.StatusBadGateway,
		CodeNotFound:            http.StatusNotFound,
		CodeInternal:            http.StatusInternalServerError,
	}
	for code, status := range cases {
		assert.Equal(t, status, ToHTTPStatus(code), string(code))
	}
}
