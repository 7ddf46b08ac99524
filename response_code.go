package iso8583

// ResponseCode is the two-character field 39 value.
type ResponseCode string

const (
	RCApproved                 ResponseCode = "00"
	RCReferToIssuer            ResponseCode = "01"
	RCReferSpecial             ResponseCode = "02"
	RCInvalidMerchant          ResponseCode = "03"
	RCPickUpCard               ResponseCode = "04"
	RCDoNotHonor               ResponseCode = "05"
	RCError                    ResponseCode = "06"
	RCPickUpSpecial            ResponseCode = "07"
	RCHonorWithID              ResponseCode = "08"
	RCInvalidTransaction       ResponseCode = "12"
	RCInvalidAmount            ResponseCode = "13"
	RCInvalidCardNumber        ResponseCode = "14"
	RCNoSuchIssuer             ResponseCode = "15"
	RCCustomerCancellation     ResponseCode = "17"
	RCDuplicateTransaction     ResponseCode = "18"
	RCReEnterTransaction       ResponseCode = "19"
	RCFormatError              ResponseCode = "30"
	RCExpiredCardPickUp        ResponseCode = "33"
	RCSuspectedFraud           ResponseCode = "34"
	RCRestrictedCard           ResponseCode = "36"
	RCLostCard                 ResponseCode = "41"
	RCStolenCard               ResponseCode = "43"
	RCInsufficientFunds        ResponseCode = "51"
	RCNoCheckingAccount        ResponseCode = "52"
	RCNoSavingsAccount         ResponseCode = "53"
	RCExpiredCard              ResponseCode = "54"
	RCIncorrectPIN             ResponseCode = "55"
	RCNoCardRecord             ResponseCode = "56"
	RCNotPermittedToCardholder ResponseCode = "57"
	RCNotPermittedToTerminal   ResponseCode = "58"
	RCExceedsWithdrawalLimit   ResponseCode = "61"
	RCSecurityViolation        ResponseCode = "63"
	RCExceedsWithdrawalCount   ResponseCode = "65"
	RCPINTriesExceeded         ResponseCode = "75"
	RCCryptographicFailure     ResponseCode = "80"
	RCCutoverInProgress        ResponseCode = "90"
	RCIssuerUnavailable        ResponseCode = "91"
	RCRoutingError             ResponseCode = "92"
	RCDuplicateTransmission    ResponseCode = "94"
	RCReconcileError           ResponseCode = "95"
	RCSystemMalfunction        ResponseCode = "96"
)

var responseDescriptions = map[ResponseCode]string{
	RCApproved:                 "Approved or completed successfully",
	RCReferToIssuer:            "Refer to card issuer",
	RCReferSpecial:             "Refer to card issuer, special condition",
	RCInvalidMerchant:          "Invalid merchant",
	RCPickUpCard:               "Pick up card",
	RCDoNotHonor:               "Do not honor",
	RCError:                    "Error",
	RCPickUpSpecial:            "Pick up card, special condition",
	RCHonorWithID:              "Honor with identification",
	RCInvalidTransaction:       "Invalid transaction",
	RCInvalidAmount:            "Invalid amount",
	RCInvalidCardNumber:        "Invalid card number",
	RCNoSuchIssuer:             "No such issuer",
	RCCustomerCancellation:     "Customer cancellation",
	RCDuplicateTransaction:     "Duplicate transaction",
	RCReEnterTransaction:       "Re-enter transaction",
	RCFormatError:              "Format error",
	RCExpiredCardPickUp:        "Expired card, pick up",
	RCSuspectedFraud:           "Suspected fraud, pick up",
	RCRestrictedCard:           "Restricted card, pick up",
	RCLostCard:                 "Lost card, pick up",
	RCStolenCard:               "Stolen card, pick up",
	RCInsufficientFunds:        "Insufficient funds",
	RCNoCheckingAccount:        "No checking account",
	RCNoSavingsAccount:         "No savings account",
	RCExpiredCard:              "Expired card",
	RCIncorrectPIN:             "Incorrect PIN",
	RCNoCardRecord:             "No card record",
	RCNotPermittedToCardholder: "Transaction not permitted to cardholder",
	RCNotPermittedToTerminal:   "Transaction not permitted to terminal",
	RCExceedsWithdrawalLimit:   "Exceeds withdrawal amount limit",
	RCSecurityViolation:        "Security violation",
	RCExceedsWithdrawalCount:   "Exceeds withdrawal frequency limit",
	RCPINTriesExceeded:         "PIN tries exceeded",
	RCCryptographicFailure:     "Cryptographic failure",
	RCCutoverInProgress:        "Cutover in progress",
	RCIssuerUnavailable:        "Issuer or switch inoperative",
	RCRoutingError:             "Financial institution or intermediate network facility cannot be found for routing",
	RCDuplicateTransmission:    "Duplicate transmission",
	RCReconcileError:           "Reconcile error",
	RCSystemMalfunction:        "System malfunction",
}

// ResponseCategory groups response codes by how a terminal reacts to them.
type ResponseCategory int

const (
	CategoryDeclined ResponseCategory = iota
	CategoryApproved
	CategoryReferral
	CategoryCardRetention
	CategoryInsufficientFunds
	CategoryExpiredCard
	CategoryPINError
	CategorySystemError
)

func (c ResponseCategory) String() string {
	switch c {
	case CategoryApproved:
		return "Approved"
	case CategoryReferral:
		return "Referral"
	case CategoryCardRetention:
		return "Card Retention"
	case CategoryInsufficientFunds:
		return "Insufficient Funds"
	case CategoryExpiredCard:
		return "Expired Card"
	case CategoryPINError:
		return "PIN Error"
	case CategorySystemError:
		return "System Error"
	default:
		return "Declined"
	}
}

func (rc ResponseCode) String() string {
	return string(rc)
}

// Description returns the ISO 8583:1987 meaning of the code.
func (rc ResponseCode) Description() string {
	if d, ok := responseDescriptions[rc]; ok {
		return d
	}
	return "Unknown response code"
}

func (rc ResponseCode) IsApproved() bool {
	return rc == RCApproved
}

// IsReferral reports codes that ask the acquirer to call the issuer.
func (rc ResponseCode) IsReferral() bool {
	return rc == RCReferToIssuer || rc == RCReferSpecial
}

// IsSystemError reports format, security and switch failures (06, 30, 8x, 9x).
func (rc ResponseCode) IsSystemError() bool {
	if rc == RCError || rc == RCFormatError {
		return true
	}
	return len(rc) == 2 && (rc[0] == '8' || rc[0] == '9')
}

// IsDeclined reports every code that is neither an approval, a referral nor
// a system error.
func (rc ResponseCode) IsDeclined() bool {
	return !rc.IsApproved() && !rc.IsReferral() && !rc.IsSystemError()
}

// RequiresPickup reports codes that instruct the terminal to retain the card.
func (rc ResponseCode) RequiresPickup() bool {
	switch rc {
	case RCPickUpCard, RCPickUpSpecial, RCExpiredCardPickUp, RCSuspectedFraud, RCRestrictedCard, RCLostCard, RCStolenCard:
		return true
	}
	return false
}

// Category classifies the code.
func (rc ResponseCode) Category() ResponseCategory {
	switch {
	case rc.IsApproved():
		return CategoryApproved
	case rc.IsReferral():
		return CategoryReferral
	case rc.RequiresPickup():
		return CategoryCardRetention
	}
	switch rc {
	case RCInsufficientFunds, RCExceedsWithdrawalLimit, RCExceedsWithdrawalCount:
		return CategoryInsufficientFunds
	case RCExpiredCard:
		return CategoryExpiredCard
	case RCIncorrectPIN, RCPINTriesExceeded:
		return CategoryPINError
	}
	if rc.IsSystemError() {
		return CategorySystemError
	}
	return CategoryDeclined
}

// ResponseCodeOf returns field 39 of m.
func ResponseCodeOf(m *Message) (ResponseCode, error) {
	s, err := m.GetString(39)
	if err != nil {
		return "", err
	}
	return ResponseCode(s), nil
}
