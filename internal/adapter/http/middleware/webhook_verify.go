package middleware

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gabzlaundry/gab/internal/security"
)

// SignatureHeader carries hex(HMAC-SHA512(body)) on gateway deliveries.
const SignatureHeader = "x-paystack-signature"

type WebhookVerify struct {
	verifier *security.WebhookVerifier
}

func NewWebhookVerify(v *security.WebhookVerifier) *WebhookVerify {
	return &WebhookVerify{verifier: v}
}

// Verify checks the signature over the raw body before anything parses it,
// then restores the body for the handler.
func (wv *WebhookVerify) Verify() gin.HandlerFunc {
	return func(c *gin.Context) {
		rawBody, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
			return
		}
		defer c.Request.Body.Close()

		sig := c.GetHeader(SignatureHeader)
		if sig == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing webhook signature"})
			return
		}
		if err := wv.verifier.Verify(rawBody, sig); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "signature verification failed"})
			return
		}

		c.Request.Body = io.NopCloser(bytes.NewReader(rawBody))
		c.Request.ContentLength = int64(len(rawBody))
		c.Next()
	}
}

// SignWebhook is the dev counterpart of Verify: post any body and get the
// signature header value a real delivery would carry.
func (wv *WebhookVerify) SignWebhook() gin.HandlerFunc {
	return func(c *gin.Context) {
		rawBody, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"signature": wv.verifier.Sign(rawBody)})
	}
}
