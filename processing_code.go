package iso8583

import "fmt"

// TransactionType is the first two digits of field 3.
type TransactionType uint8

const (
	TxPurchase                  TransactionType = 0
	TxCashWithdrawal            TransactionType = 1
	TxDebitAdjustment           TransactionType = 2
	TxRefund                    TransactionType = 20
	TxCashDeposit               TransactionType = 21
	TxCheckDeposit              TransactionType = 22
	TxBalanceInquiry            TransactionType = 31
	TxMiniStatement             TransactionType = 38
	TxTransferCheckingToSavings TransactionType = 40
	TxTransferSavingsToChecking TransactionType = 41
	TxPayment                   TransactionType = 50
)

var transactionNames = map[TransactionType]string{
	TxPurchase:                  "Purchase",
	TxCashWithdrawal:            "Cash Withdrawal",
	TxDebitAdjustment:           "Debit Adjustment",
	TxRefund:                    "Refund",
	TxCashDeposit:               "Deposit",
	TxCheckDeposit:              "Check Deposit",
	TxBalanceInquiry:            "Balance Inquiry",
	TxMiniStatement:             "Mini Statement",
	TxTransferCheckingToSavings: "Transfer",
	TxTransferSavingsToChecking: "Transfer",
	TxPayment:                   "Payment",
}

func (t TransactionType) String() string {
	if name, ok := transactionNames[t]; ok {
		return name
	}
	return "Transaction"
}

// AccountType is the from or to account pair of digits in field 3.
type AccountType uint8

const (
	AccountDefault    AccountType = 0
	AccountSavings    AccountType = 10
	AccountChecking   AccountType = 20
	AccountCredit     AccountType = 30
	AccountUniversal  AccountType = 40
	AccountInvestment AccountType = 50
)

func (a AccountType) String() string {
	switch a {
	case AccountDefault:
		return "Default"
	case AccountSavings:
		return "Savings"
	case AccountChecking:
		return "Checking"
	case AccountCredit:
		return "Credit"
	case AccountUniversal:
		return "Universal"
	case AccountInvestment:
		return "Investment"
	default:
		return "Account"
	}
}

// ProcessingCode is a decoded field 3. Codes outside the named constants
// are kept as-is so a parsed code always formats back to its input.
type ProcessingCode struct {
	Transaction TransactionType
	From        AccountType
	To          AccountType
}

var (
	PCPurchase              = ProcessingCode{Transaction: TxPurchase}
	PCWithdrawal            = ProcessingCode{Transaction: TxCashWithdrawal}
	PCWithdrawalSavings     = ProcessingCode{Transaction: TxCashWithdrawal, From: AccountSavings}
	PCDeposit               = ProcessingCode{Transaction: TxCashDeposit}
	PCDepositSavings        = ProcessingCode{Transaction: TxCashDeposit, From: AccountSavings}
	PCBalanceInquiry        = ProcessingCode{Transaction: TxBalanceInquiry}
	PCBalanceInquirySavings = ProcessingCode{Transaction: TxBalanceInquiry, From: AccountSavings}
	PCRefund                = ProcessingCode{Transaction: TxRefund}
	PCTransfer              = ProcessingCode{Transaction: TxTransferCheckingToSavings, From: AccountSavings, To: AccountChecking}
)

// ParseProcessingCode decodes a 6-digit field 3 value.
func ParseProcessingCode(s string) (ProcessingCode, error) {
	if len(s) != 6 {
		return ProcessingCode{}, fmt.Errorf("%w: processing code %q must be 6 digits", ErrFieldTypeMismatch, s)
	}
	var parts [3]int
	for i := range parts {
		n, ok := atoiDigits(s[i*2 : i*2+2])
		if !ok {
			return ProcessingCode{}, fmt.Errorf("%w: processing code %q is not numeric", ErrFieldTypeMismatch, s)
		}
		parts[i] = n
	}
	return ProcessingCode{
		Transaction: TransactionType(parts[0]),
		From:        AccountType(parts[1]),
		To:          AccountType(parts[2]),
	}, nil
}

func (pc ProcessingCode) String() string {
	return fmt.Sprintf("%02d%02d%02d", uint8(pc.Transaction), uint8(pc.From), uint8(pc.To))
}

// Description renders the code for humans, e.g. "Cash Withdrawal from Savings".
func (pc ProcessingCode) Description() string {
	desc := pc.Transaction.String()
	if pc.From != AccountDefault {
		desc += " from " + pc.From.String()
	}
	if pc.To != AccountDefault {
		desc += " to " + pc.To.String()
	}
	return desc
}

func (pc ProcessingCode) IsInquiry() bool {
	return pc.Transaction == TxBalanceInquiry || pc.Transaction == TxMiniStatement
}

func (pc ProcessingCode) IsCash() bool {
	return pc.Transaction == TxCashWithdrawal || pc.Transaction == TxCashDeposit
}

func (pc ProcessingCode) IsTransfer() bool {
	return pc.Transaction == TxTransferCheckingToSavings || pc.Transaction == TxTransferSavingsToChecking
}
