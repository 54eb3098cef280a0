package result

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindCodes(t *testing.T) {
	cases := map[Kind]string{
		Success:              "NO_ERROR",
		NotFound:             "ERROR_404",
		InvalidStatus:        "ERROR_253",
		IllegalTransition:    "ERROR_400",
		InvalidPaymentMethod: "ERROR_434",
		InvalidPartnerType:   "ERROR_400",
		WalletMissing:        "ERROR_108",
		PartnerNotFound:      "ERROR_404",
		PartialFailure:       "ERROR_422",
		InternalError:        "ERROR_501",
		Kind("whatever"):     "ERROR_501",
	}
	for k, want := range cases {
		assert.Equal(t, want, k.Code(), k)
	}
}

func TestOKCarriesDataOnly(t *testing.T) {
	r := OK(42)
	assert.True(t, r.OK)
	assert.Equal(t, Success, r.Kind)
	assert.Equal(t, CodeOK, r.Code)
	assert.Equal(t, 42, r.Data)
	assert.Empty(t, r.Errors)
}

func TestFailCarriesNoData(t *testing.T) {
	r := Fail[*int](NotFound)
	assert.False(t, r.OK)
	assert.Nil(t, r.Data)
	assert.Equal(t, "errors.ERROR_404", r.Message.Key)
}

func TestTransitionMessage(t *testing.T) {
	r := Transition[struct{}]("delivered", "new")
	assert.Equal(t, IllegalTransition, r.Kind)
	assert.Equal(t, CodeBadRequest, r.Code)
	assert.Equal(t, KeyTransitionRejected, r.Message.Key)
	assert.Equal(t, map[string]string{"from": "delivered", "to": "new"}, r.Message.Params)
}

func TestPartial(t *testing.T) {
	errs := []OrderError{NewOrderError(7, WalletMissing)}
	r := Partial[struct{}](errs)
	assert.False(t, r.OK)
	assert.Equal(t, CodePartialFailure, r.Code)
	assert.Equal(t, "ERROR_108", r.Errors[0].Code)
	assert.Equal(t, int64(7), r.Errors[0].OrderID)
}
