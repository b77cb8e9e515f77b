package models

// PaymentMethod is how a membership fee was paid.
type PaymentMethod string

const (
	// PaymentBankTransfer is a manual transfer evidenced by an uploaded slip.
	PaymentBankTransfer PaymentMethod = "transaction"
	PaymentCard         PaymentMethod = "card"
)

// PaymentRequest is a membership payment to forward to the backend.
type PaymentRequest struct {
	UserID        string
	Amount        string
	Method        PaymentMethod
	TransactionID string
	// Slip is required for bank transfers and ignored for card payments.
	Slip *SlipFile
}

type SlipFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

// CardIntent is what the browser needs to confirm a card payment.
type CardIntent struct {
	IntentID     string `json:"intentId"`
	ClientSecret string `json:"clientSecret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}
