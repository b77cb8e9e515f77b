package payment

import (
	"context"

	"glsalliance/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

// StripeGateway uses the globally configured stripe.Key.
type StripeGateway struct{}

func NewStripeGateway() *StripeGateway { return &StripeGateway{} }

func (StripeGateway) CreateIntent(ctx context.Context, amountMinor int64, currency, userID string) (*models.CardIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountMinor),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("user_id", userID)
	params.AddMetadata("purpose", IntentPurpose)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, err
	}
	return &models.CardIntent{
		IntentID:     pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
	}, nil
}

func (StripeGateway) GetIntent(ctx context.Context, intentID string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := paymentintent.Get(intentID, params)
	if err != nil {
		return nil, err
	}
	return &Intent{
		ID:          pi.ID,
		Succeeded:   pi.Status == stripe.PaymentIntentStatusSucceeded,
		AmountMinor: pi.Amount,
		Currency:    string(pi.Currency),
		UserID:      pi.Metadata["user_id"],
		Purpose:     pi.Metadata["purpose"],
		Recorded:    pi.Metadata["recorded"] == "true",
	}, nil
}

func (StripeGateway) MarkRecorded(ctx context.Context, intentID string) error {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	params.AddMetadata("recorded", "true")
	_, err := paymentintent.Update(intentID, params)
	return err
}
