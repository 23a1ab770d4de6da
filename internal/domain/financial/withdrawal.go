package financial

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/advoga-scheduler/internal/httperr"
	"github.com/BruksfildServices01/advoga-scheduler/internal/models"
)

type WithdrawalStatus string

const (
	WithdrawalRequested  WithdrawalStatus = "requested"
	WithdrawalProcessing WithdrawalStatus = "processing"
	WithdrawalCompleted  WithdrawalStatus = "completed"
	WithdrawalCancelled  WithdrawalStatus = "cancelled"
)

var withdrawalTransitions = map[WithdrawalStatus][]WithdrawalStatus{
	WithdrawalRequested:  {WithdrawalProcessing, WithdrawalCancelled},
	WithdrawalProcessing: {WithdrawalCompleted, WithdrawalCancelled},
}

func CanTransitionWithdrawal(from, to WithdrawalStatus) bool {
	for _, next := range withdrawalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ===============================
// Error codes
// ===============================

const (
	ErrInvalidAmount      = "invalid_amount"
	ErrInsufficientFunds  = "insufficient_funds"
	ErrMissingBankDetails = "missing_bank_details"
	ErrEntryNotFound      = "entry_not_found"
	ErrInvalidState       = "invalid_withdrawal_state"
	ErrForbidden          = "forbidden"
	ErrPageNotFound       = "page_not_found"
)

// ===============================
// Validations
// ===============================

func ValidateBankDetails(b models.BankDetails) error {
	required := []string{b.BankName, b.Agency, b.Account, b.HolderName, b.HolderDocument}
	for _, v := range required {
		if strings.TrimSpace(v) == "" {
			return httperr.ErrBusiness(ErrMissingBankDetails)
		}
	}
	return nil
}

// ValidateWithdrawal exige 0 < amount <= disponível.
func ValidateWithdrawal(amount decimal.Decimal, bank models.BankDetails, s Summary) error {
	if !amount.IsPositive() {
		return httperr.ErrBusiness(ErrInvalidAmount)
	}
	if amount.GreaterThan(s.AvailableForWithdrawal) {
		return httperr.ErrBusiness(ErrInsufficientFunds)
	}
	return ValidateBankDetails(bank)
}
