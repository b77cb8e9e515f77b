package handlers

import (
	"io"
	"net/http"

	"glsalliance/models"
	"glsalliance/services/payment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentHandler serves the membership payment page.
type PaymentHandler struct {
	Svc *payment.Service
}

func NewPaymentHandler(svc *payment.Service) *PaymentHandler {
	return &PaymentHandler{Svc: svc}
}

// readSlip returns nil when no slip was attached.
func readSlip(c *gin.Context) (*models.SlipFile, error) {
	fileHeader, err := c.FormFile("slip")
	if err == http.ErrMissingFile {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, payment.MaxSlipBytes+1))
	if err != nil {
		return nil, err
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return &models.SlipFile{FileName: fileHeader.Filename, ContentType: contentType, Data: data}, nil
}

// SubmitHandler records a payment. Bank transfers carry a slip; card
// payments name a settled payment intent.
func (h *PaymentHandler) SubmitHandler(c *gin.Context) {
	logger := getLogger(c)
	ctx := c.Request.Context()
	sess, _ := authSession(c)
	userID := currentUserID(c)

	if c.PostForm("method") == string(models.PaymentCard) {
		raw, err := h.Svc.SubmitCard(ctx, sess.Token, userID, c.PostForm("transaction_id"))
		if err != nil {
			logger.Warn("Card payment not recorded", zap.Error(err))
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Payment submitted successfully.", "data": raw})
		return
	}

	slip, err := readSlip(c)
	if err != nil {
		logger.Warn("Payment slip not readable", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Upload slip.", "details": err.Error()})
		return
	}
	raw, err := h.Svc.SubmitManual(ctx, sess.Token, userID, c.PostForm("amount"), c.PostForm("transaction_id"), slip)
	if err != nil {
		logger.Warn("Manual payment not recorded", zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment submitted successfully.", "data": raw})
}

// CardIntentHandler starts a card payment and returns its client secret.
func (h *PaymentHandler) CardIntentHandler(c *gin.Context) {
	var req struct {
		Amount string `json:"amount" form:"amount"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	intent, err := h.Svc.CreateCardIntent(c.Request.Context(), currentUserID(c), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, intent)
}

// ConfigHandler tells the page which payment methods are offered.
func (h *PaymentHandler) ConfigHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"cardsEnabled": h.Svc.CardsEnabled()})
}
