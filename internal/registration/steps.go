package registration

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type Step string

const (
	StepPersonal  Step = "personal"
	StepCompany   Step = "company"
	StepBank      Step = "bank"
	StepDocuments Step = "documents"
)

var ErrUnknownStep = errors.New("unknown registration step")

// Steps returns the wizard steps in order.
func Steps() []Step {
	return []Step{StepPersonal, StepCompany, StepBank, StepDocuments}
}

type PersonalDetails struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	EmiratesID string `json:"emiratesId"`
}

type CompanyDetails struct {
	CompanyName   string `json:"companyName"`
	TradeLicense  string `json:"tradeLicense"`
	BrokerLicense string `json:"brokerLicense"`
	OfficeAddress string `json:"officeAddress"`
	Website       string `json:"website,omitempty"`
}

type BankDetails struct {
	AccountHolder string `json:"accountHolder"`
	BankName      string `json:"bankName"`
	IBAN          string `json:"iban"`
	SWIFT         string `json:"swift"`
}

// DocumentDetails holds the storage keys of uploaded files.
type DocumentDetails struct {
	EmiratesIDCopy    string `json:"emiratesIdCopy"`
	TradeLicenseCopy  string `json:"tradeLicenseCopy"`
	BrokerCardCopy    string `json:"brokerCardCopy"`
	BrokerCardExpiry  string `json:"brokerCardExpiry"`
	AcceptedAgreement bool   `json:"acceptedAgreement"`
}

// fieldErrors drops the empty messages.
type fieldErrors map[string]string

func (f fieldErrors) check(field, msg string) {
	if msg != "" {
		f[field] = msg
	}
}

func ValidatePersonal(d PersonalDetails) map[string]string {
	errs := fieldErrors{}
	errs.check("fullName", Name(d.FullName))
	errs.check("email", Email(d.Email))
	errs.check("phone", Phone(d.Phone))
	errs.check("emiratesId", EmiratesID(d.EmiratesID))
	return errs
}

func ValidateCompany(d CompanyDetails) map[string]string {
	errs := fieldErrors{}
	errs.check("companyName", Name(d.CompanyName))
	errs.check("tradeLicense", TradeLicense(d.TradeLicense))
	errs.check("brokerLicense", BrokerLicense(d.BrokerLicense))
	if msg := Required(d.OfficeAddress); msg != "" {
		errs.check("officeAddress", msg)
	} else {
		errs.check("officeAddress", Text(d.OfficeAddress))
	}
	if d.Website != "" && fieldValidator.Var(d.Website, "url") != nil {
		errs.check("website", "Enter a valid URL")
	}
	return errs
}

func ValidateBank(d BankDetails) map[string]string {
	errs := fieldErrors{}
	errs.check("accountHolder", Name(d.AccountHolder))
	errs.check("bankName", Name(d.BankName))
	errs.check("iban", IBAN(d.IBAN))
	errs.check("swift", SWIFT(d.SWIFT))
	return errs
}

func ValidateDocuments(d DocumentDetails, now time.Time) map[string]string {
	errs := fieldErrors{}
	errs.check("emiratesIdCopy", Required(d.EmiratesIDCopy))
	errs.check("tradeLicenseCopy", Required(d.TradeLicenseCopy))
	errs.check("brokerCardCopy", Required(d.BrokerCardCopy))
	errs.check("brokerCardExpiry", FutureDate(d.BrokerCardExpiry, now))
	errs.check("acceptedAgreement", Accepted(d.AcceptedAgreement))
	return errs
}

// ValidateStep decodes raw into the step's fields and validates them.
// Unknown JSON fields are rejected so typos surface as errors.
func ValidateStep(step Step, raw json.RawMessage, now time.Time) (map[string]string, error) {
	switch step {
	case StepPersonal:
		return validateDecoded(raw, ValidatePersonal)
	case StepCompany:
		return validateDecoded(raw, ValidateCompany)
	case StepBank:
		return validateDecoded(raw, ValidateBank)
	case StepDocuments:
		return validateDecoded(raw, func(d DocumentDetails) map[string]string {
			return ValidateDocuments(d, now)
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStep, step)
	}
}

func validateDecoded[T any](raw json.RawMessage, validate func(T) map[string]string) (map[string]string, error) {
	var v T
	if len(raw) > 0 {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("decode step fields: %w", err)
		}
	}
	return validate(v), nil
}
