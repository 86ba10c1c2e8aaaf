package coinmarketcap

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		code      int
		wantHTTP  int
		wantCause Cause
	}{
		{0, http.StatusOK, CauseNone},
		{1001, http.StatusUnauthorized, CauseAuthentication},
		{1002, http.StatusUnauthorized, CauseAuthentication},
		{1003, http.StatusPaymentRequired, CausePaymentRequired},
		{1004, http.StatusPaymentRequired, CausePaymentRequired},
		{1005, http.StatusForbidden, CausePermissionDenied},
		{1006, http.StatusForbidden, CausePermissionDenied},
		{1007, http.StatusForbidden, CausePermissionDenied},
		{1008, http.StatusTooManyRequests, CauseRateLimit},
		{1009, http.StatusTooManyRequests, CauseRateLimit},
		{1010, http.StatusTooManyRequests, CauseRateLimit},
		{1011, http.StatusTooManyRequests, CauseRateLimit},
		{1012, 0, CauseUnknown},
		{400, 0, CauseUnknown},
	}

	for _, tt := range tests {
		httpStatus, cause := Classify(tt.code)
		assert.Equal(t, tt.wantHTTP, httpStatus, "code %d", tt.code)
		assert.Equal(t, tt.wantCause, cause, "code %d", tt.code)
	}
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "HTTP Status: 200 Successful", Status{}.String())
	assert.Equal(t, "HTTP Status: 401. Error Code: 1001. This API Key is invalid.",
		Status{Code: 1001, Message: "This API Key is invalid."}.String())
	assert.Equal(t, "Error Code: 4242. mystery", Status{Code: 4242, Message: "mystery"}.String())
}

func TestStatus_IsQuotaExceeded(t *testing.T) {
	for _, code := range []int{1003, 1004, 1009, 1010} {
		assert.True(t, Status{Code: code}.IsQuotaExceeded(), code)
	}
	for _, code := range []int{0, 1001, 1008, 1011, 9999} {
		assert.False(t, Status{Code: code}.IsQuotaExceeded(), code)
	}
}

func TestStatusOf(t *testing.T) {
	assert.True(t, StatusOf(nil).IsSuccess())

	wrapped := errors.Join(errors.New("ctx"), &APIError{Status: Status{Code: 1008}})
	assert.Equal(t, 1008, StatusOf(wrapped).Code)

	assert.Equal(t, CauseUnknown, StatusOf(errors.New("boom")).Cause())
}
