package payment

import "travelagency/internal/domain"

// Gateway transaction statuses.
const (
	TxCapture    = "capture"
	TxSettlement = "settlement"
	TxPending    = "pending"
	TxDeny       = "deny"
	TxCancel     = "cancel"
	TxExpire     = "expire"

	FraudAccept = "accept"
)

// Resolve maps the last observed gateway (transaction status, fraud status) pair to a
// booking status. It is total: unknown statuses resolve to pending.
func Resolve(transactionStatus, fraudStatus string) domain.BookingStatus {
	switch transactionStatus {
	case TxCapture:
		if fraudStatus == FraudAccept {
			return domain.BookingConfirmed
		}
		return domain.BookingPendingVerification
	case TxSettlement:
		return domain.BookingConfirmed
	case TxPending:
		return domain.BookingPendingVerification
	case TxDeny, TxCancel, TxExpire:
		return domain.BookingCancelled
	default:
		return domain.BookingPending
	}
}
