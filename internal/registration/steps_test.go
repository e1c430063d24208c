package registration

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func TestStepValidIffNoErrors(t *testing.T) {
	valid := ValidateBank(BankDetails{
		AccountHolder: "Sara Haddad",
		BankName:      "Emirates NBD",
		IBAN:          "AE070331234567890123456",
		SWIFT:         "EBILAEAD",
	})
	if len(valid) != 0 {
		t.Fatalf("expected no errors, got %v", valid)
	}

	invalid := ValidateBank(BankDetails{IBAN: "AE080331234567890123456"})
	for _, field := range []string{"accountHolder", "bankName", "iban", "swift"} {
		if invalid[field] == "" {
			t.Fatalf("expected an error for %s, got %v", field, invalid)
		}
	}
}

func TestValidateStepDecodes(t *testing.T) {
	raw := json.RawMessage(`{"fullName":"Sara Haddad","email":"sara@example.com","phone":"+971501234567","emiratesId":"784-1990-1234567-1"}`)
	errs, err := ValidateStep(StepPersonal, raw, testNow)
	if err != nil || len(errs) != 0 {
		t.Fatalf("expected a valid personal step, got %v %v", errs, err)
	}

	errs, err = ValidateStep(StepDocuments, json.RawMessage(`{"brokerCardExpiry":"2025-01-01"}`), testNow)
	if err != nil {
		t.Fatalf("documents: %v", err)
	}
	if len(errs) != 5 {
		t.Fatalf("expected every document field to fail, got %v", errs)
	}

	if _, err := ValidateStep(StepCompany, json.RawMessage(`{"compnyName":"typo"}`), testNow); err == nil {
		t.Fatal("expected unknown fields to be rejected")
	}
	if _, err := ValidateStep("payment", nil, testNow); !errors.Is(err, ErrUnknownStep) {
		t.Fatalf("expected ErrUnknownStep, got %v", err)
	}
}

func TestValidateEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler()
	h.now = func() time.Time { return testNow }
	engine := gin.New()
	engine.POST("/registration/validate", h.Validate)

	cases := []struct {
		name      string
		body      string
		wantCode  int
		wantValid bool
	}{
		{"valid company", `{"step":"company","data":{"companyName":"Gulf Homes","tradeLicense":"CN-1234567","brokerLicense":"40721","officeAddress":"Business Bay, Dubai"}}`, http.StatusOK, true},
		{"invalid company", `{"step":"company","data":{"companyName":""}}`, http.StatusOK, false},
		{"unknown step", `{"step":"payment","data":{}}`, http.StatusBadRequest, false},
		{"malformed", `{"step":`, http.StatusBadRequest, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/registration/validate", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)

			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d: %s", tc.wantCode, rec.Code, rec.Body.String())
			}
			if rec.Code != http.StatusOK {
				return
			}
			var resp ValidateResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Valid != tc.wantValid || resp.Valid != (len(resp.Errors) == 0) {
				t.Fatalf("unexpected response %+v", resp)
			}
		})
	}
}
