package backend

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"

	"glsalliance/models"
)

type paymentForm struct {
	req       models.PaymentRequest
	slipField string
}

func (p paymentForm) WriteParts(w *multipart.Writer) error {
	fields := [][2]string{
		{"user_id", p.req.UserID},
		{"payment_type", "manual"},
		{"amount", p.req.Amount},
		{"payment_method", string(p.req.Method)},
		{"transaction_id", p.req.TransactionID},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return err
		}
	}
	if p.req.Slip == nil {
		return nil
	}
	return WriteFile(w, p.slipField, p.req.Slip.FileName, p.req.Slip.ContentType, p.req.Slip.Data)
}

// MakePayment forwards a membership payment to /payment/make. The slip, if
// any, is sent under slipField.
func (c *Client) MakePayment(ctx context.Context, token string, req models.PaymentRequest, slipField string) (json.RawMessage, error) {
	const endpoint = "payment.make"
	body, contentType, err := encodeMultipart(paymentForm{req: req, slipField: slipField})
	if err != nil {
		return nil, err
	}
	raw, err := c.do(ctx, call{
		endpoint:    endpoint,
		method:      http.MethodPost,
		path:        "/payment/make",
		body:        bytesBody(body),
		contentType: contentType,
		token:       token,
	})
	if err != nil {
		return nil, err
	}
	if err := decode(endpoint, anyObjectV1, raw, nil); err != nil {
		return nil, err
	}
	return raw, nil
}
