package common

import (
	"bank-cards-api/model"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func decodeBody(t *testing.T, body string, payload interface{}) *AppError {
	req, err := http.NewRequest("POST", "/", strings.NewReader(body))
	assert.NoError(t, err)
	return ValidateAndDecode(req, payload)
}

func TestValidateAndDecode_DecimalTags(t *testing.T) {
	from := "11111111-1111-1111-1111-111111111111"
	to := "22222222-2222-2222-2222-222222222222"

	t.Run("positive amount passes", func(t *testing.T) {
		var req model.TransferRequest
		appErr := decodeBody(t, `{"from_card_id":"`+from+`","to_card_id":"`+to+`","amount":0.01}`, &req)
		assert.Nil(t, appErr)
	})

	t.Run("zero amount fails gt tag", func(t *testing.T) {
		var req model.TransferRequest
		appErr := decodeBody(t, `{"from_card_id":"`+from+`","to_card_id":"`+to+`","amount":0}`, &req)
		assert.NotNil(t, appErr)
		assert.Equal(t, http.StatusBadRequest, appErr.Code)
	})

	t.Run("negative amount fails gt tag", func(t *testing.T) {
		var req model.TransferRequest
		appErr := decodeBody(t, `{"from_card_id":"`+from+`","to_card_id":"`+to+`","amount":-10}`, &req)
		assert.NotNil(t, appErr)
	})

	t.Run("negative initial balance fails gte tag", func(t *testing.T) {
		var req model.CreateCardRequest
		appErr := decodeBody(t, `{"owner_id":"`+from+`","card_number":"1234567890123456","holder_name":"JOHN DOE","expiry_date":"2030-01-31","initial_balance":-1}`, &req)
		assert.NotNil(t, appErr)
	})

	t.Run("zero initial balance passes gte tag", func(t *testing.T) {
		var req model.CreateCardRequest
		appErr := decodeBody(t, `{"owner_id":"`+from+`","card_number":"1234567890123456","holder_name":"JOHN DOE","expiry_date":"2030-01-31","initial_balance":0}`, &req)
		assert.Nil(t, appErr)
	})
}
