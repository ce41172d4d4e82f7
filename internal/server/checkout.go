package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio-terminal/internal/polar"
)

type createCheckoutRequest struct {
	ProductID  string         `json:"productId"`
	Quantity   int            `json:"quantity"`
	SuccessURL string         `json:"successUrl"`
	CancelURL  string         `json:"cancelUrl"`
	Metadata   map[string]any `json:"metadata"`
}

func (s *Server) createCheckout(c *gin.Context) {
	if !s.requireToken(c) {
		return
	}

	var req createCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}
	if req.ProductID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId is required"})
		return
	}

	successURL := req.SuccessURL
	if successURL == "" {
		successURL = s.siteURL + "/?checkout=success"
	}
	cancelURL := req.CancelURL
	if cancelURL == "" {
		cancelURL = s.siteURL + "/?checkout=cancelled"
	}

	co, err := s.provider.CreateCheckout(c.Request.Context(), polar.CreateParams{
		ProductID:  req.ProductID,
		SuccessURL: successURL,
		CancelURL:  cancelURL,
		Metadata:   req.Metadata,
	})
	if err != nil {
		log.Printf("checkout: create %s for %s failed: %v", req.ProductID, s.hasher.hash(c.ClientIP()), err)
		s.providerError(c, err, "Unexpected error creating checkout")
		return
	}

	log.Printf("checkout: created %s for %s", co.ID, s.hasher.hash(c.ClientIP()))
	c.JSON(http.StatusOK, gin.H{
		"checkoutId":  co.ID,
		"checkoutUrl": co.URL,
		"status":      co.Status,
		"checkout":    co.Raw,
	})
}

func (s *Server) checkoutStatus(c *gin.Context) {
	if !s.requireToken(c) {
		return
	}

	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}

	co, err := s.provider.GetCheckout(c.Request.Context(), id)
	if err != nil {
		s.providerError(c, err, "Unable to fetch checkout status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": co.Status, "checkout": co.Raw})
}

func (s *Server) checkoutSession(c *gin.Context) {
	if !s.requireToken(c) {
		return
	}

	token := c.Query("customer_session_token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customer_session_token is required"})
		return
	}

	co, err := s.provider.CheckoutBySessionToken(c.Request.Context(), token)
	if err != nil {
		s.providerError(c, err, "Unable to fetch checkout session")
		return
	}
	c.JSON(http.StatusOK, gin.H{"checkout": co.Raw})
}

// requireToken answers 500 when no provider credential is configured, so no
// outbound call is ever attempted without one.
func (s *Server) requireToken(c *gin.Context) bool {
	if s.provider.HasToken() {
		return true
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": polar.ErrMissingToken.Error()})
	return false
}

func (s *Server) providerError(c *gin.Context, err error, prefix string) {
	var apiErr *polar.APIError
	switch {
	case errors.As(err, &apiErr):
		body := gin.H{"error": apiErr.Message, "details": apiErr.Details}
		if apiErr.Troubleshooting != "" {
			body["troubleshooting"] = apiErr.Troubleshooting
		}
		c.JSON(apiErr.StatusCode, body)
	case errors.Is(err, polar.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Failed to load checkout session"})
	case errors.Is(err, polar.ErrMissingToken):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	case polar.IsTransport(err):
		c.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("%s: %v", prefix, err)})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("%s: %v", prefix, err)})
	}
}
