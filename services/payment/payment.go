package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"glsalliance/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	// MaxSlipBytes caps an uploaded payment slip.
	MaxSlipBytes = 10 << 20
	// IntentPurpose tags the card intents this server creates.
	IntentPurpose = "membership"

	claimPrefix = "payment:intent:"
	claimTTL    = 90 * 24 * time.Hour
)

var (
	ErrCardsDisabled    = errors.New("card payments are not enabled")
	ErrIntentNotSettled = errors.New("the card payment has not completed yet")
	ErrIntentNotYours   = errors.New("this card payment belongs to another account")
	ErrIntentPurpose    = errors.New("this card payment is not a membership payment")
	ErrIntentUsed       = errors.New("this card payment has already been recorded")
)

// ValidationError is a form problem shown next to the payment form.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Backend forwards payments to the alliance REST backend.
type Backend interface {
	MakePayment(ctx context.Context, token string, req models.PaymentRequest, slipField string) (json.RawMessage, error)
}

// CardGateway creates and inspects card payment intents.
type CardGateway interface {
	CreateIntent(ctx context.Context, amountMinor int64, currency, userID string) (*models.CardIntent, error)
	GetIntent(ctx context.Context, intentID string) (*Intent, error)
	// MarkRecorded flags an intent once the backend has accepted it.
	MarkRecorded(ctx context.Context, intentID string) error
}

// Intent is the part of a card payment intent the server checks.
type Intent struct {
	ID          string
	Succeeded   bool
	AmountMinor int64
	Currency    string
	UserID      string
	Purpose     string
	Recorded    bool
}

type Service struct {
	backend   Backend
	cards     CardGateway
	claims    *redis.Client
	currency  string
	slipField string
	logger    *zap.Logger
}

// NewService wires the payment flow. A nil cards gateway disables card
// payments. claims holds the intents already recorded by this server.
func NewService(b Backend, cards CardGateway, claims *redis.Client, currency, slipField string, logger *zap.Logger) *Service {
	if slipField == "" {
		slipField = "avidness"
	}
	if currency == "" {
		currency = "usd"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		backend:   b,
		cards:     cards,
		claims:    claims,
		currency:  strings.ToLower(currency),
		slipField: slipField,
		logger:    logger,
	}
}

func (s *Service) CardsEnabled() bool { return s.cards != nil }

// ParseAmount reads a positive amount in major units.
func ParseAmount(v string) (float64, error) {
	v = strings.ReplaceAll(strings.TrimSpace(v), ",", "")
	if v == "" {
		return 0, &ValidationError{Message: "Amount is required."}
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || n <= 0 || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, &ValidationError{Message: "Please enter a valid amount."}
	}
	return n, nil
}

func validSlipType(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.HasPrefix(ct, "image/") || ct == "application/pdf"
}

// SubmitManual forwards a bank transfer with its slip for admin verification.
func (s *Service) SubmitManual(ctx context.Context, token, userID, amount, transactionID string, slip *models.SlipFile) (json.RawMessage, error) {
	if userID == "" {
		return nil, &ValidationError{Message: "Login required."}
	}
	if _, err := ParseAmount(amount); err != nil {
		return nil, err
	}
	if strings.TrimSpace(transactionID) == "" {
		return nil, &ValidationError{Message: "Transaction ID required."}
	}
	if slip == nil || len(slip.Data) == 0 {
		return nil, &ValidationError{Message: "Upload slip."}
	}
	if !validSlipType(slip.ContentType) {
		return nil, &ValidationError{Message: "Slip must be an image or a PDF."}
	}
	if len(slip.Data) > MaxSlipBytes {
		return nil, &ValidationError{Message: "File too large. Max 10MB."}
	}

	raw, err := s.backend.MakePayment(ctx, token, models.PaymentRequest{
		UserID:        userID,
		Amount:        strings.TrimSpace(amount),
		Method:        models.PaymentBankTransfer,
		TransactionID: strings.TrimSpace(transactionID),
		Slip:          slip,
	}, s.slipField)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Manual payment submitted", zap.String("userId", userID))
	return raw, nil
}

// CreateCardIntent starts a card payment for amount in major units.
func (s *Service) CreateCardIntent(ctx context.Context, userID, amount string) (*models.CardIntent, error) {
	if s.cards == nil {
		return nil, ErrCardsDisabled
	}
	if userID == "" {
		return nil, &ValidationError{Message: "Login required."}
	}
	major, err := ParseAmount(amount)
	if err != nil {
		return nil, err
	}
	return s.cards.CreateIntent(ctx, int64(math.Round(major*100)), s.currency, userID)
}

// SubmitCard records a settled card payment with the backend. The intent ID
// becomes the transaction ID.
func (s *Service) SubmitCard(ctx context.Context, token, userID, intentID string) (json.RawMessage, error) {
	if s.cards == nil {
		return nil, ErrCardsDisabled
	}
	if userID == "" {
		return nil, &ValidationError{Message: "Login required."}
	}
	if strings.TrimSpace(intentID) == "" {
		return nil, &ValidationError{Message: "Transaction ID required."}
	}

	intent, err := s.cards.GetIntent(ctx, strings.TrimSpace(intentID))
	if err != nil {
		return nil, err
	}
	if intent.UserID != userID {
		return nil, ErrIntentNotYours
	}
	if intent.Purpose != IntentPurpose {
		return nil, ErrIntentPurpose
	}
	if !intent.Succeeded {
		return nil, ErrIntentNotSettled
	}
	if intent.Recorded {
		return nil, ErrIntentUsed
	}
	if err := s.claim(ctx, intent.ID); err != nil {
		return nil, err
	}

	raw, err := s.backend.MakePayment(ctx, token, models.PaymentRequest{
		UserID:        userID,
		Amount:        formatMinor(intent.AmountMinor),
		Method:        models.PaymentCard,
		TransactionID: intent.ID,
	}, s.slipField)
	if err != nil {
		s.unclaim(ctx, intent.ID)
		return nil, err
	}
	if err := s.cards.MarkRecorded(ctx, intent.ID); err != nil {
		s.logger.Warn("Failed to flag card payment as recorded", zap.String("intentId", intent.ID), zap.Error(err))
	}
	s.logger.Info("Card payment recorded", zap.String("userId", userID), zap.String("intentId", intent.ID))
	return raw, nil
}

// claim reserves an intent so concurrent or repeated submissions of it fail.
func (s *Service) claim(ctx context.Context, intentID string) error {
	if s.claims == nil {
		return nil
	}
	ok, err := s.claims.SetNX(ctx, claimPrefix+intentID, time.Now().UTC().Format(time.RFC3339), claimTTL).Result()
	if err != nil {
		return fmt.Errorf("failed to claim card payment: %w", err)
	}
	if !ok {
		return ErrIntentUsed
	}
	return nil
}

func (s *Service) unclaim(ctx context.Context, intentID string) {
	if s.claims == nil {
		return
	}
	if err := s.claims.Del(context.WithoutCancel(ctx), claimPrefix+intentID).Err(); err != nil {
		s.logger.Warn("Failed to release card payment claim", zap.String("intentId", intentID), zap.Error(err))
	}
}

func formatMinor(minor int64) string {
	if minor%100 == 0 {
		return strconv.FormatInt(minor/100, 10)
	}
	return fmt.Sprintf("%d.%02d", minor/100, minor%100)
}
