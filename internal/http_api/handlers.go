package http_api

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/0xZumii/cat-tv/internal/mediastore"
	"github.com/0xZumii/cat-tv/pkg/apperr"
)

// GetUserRequest carries the optional wallet address to link.
type GetUserRequest struct {
	WalletAddress string `json:"walletAddress"`
}

// FeedRequest names the cat to feed.
type FeedRequest struct {
	CatID string `json:"catId"`
}

// AddCatRequest is the catalog submission payload.
type AddCatRequest struct {
	Name      string   `json:"name"`
	MediaURL  string   `json:"mediaUrl"`
	MediaType string   `json:"mediaType"`
	Vibes     []string `json:"vibes"`
}

// UpdateCatVibesRequest replaces a cat's vibe tags.
type UpdateCatVibesRequest struct {
	CatID string   `json:"catId"`
	Vibes []string `json:"vibes"`
}

// UploadMediaRequest carries a base64-encoded media file.
type UploadMediaRequest struct {
	Data        string `json:"data"`
	ContentType string `json:"contentType"`
	Filename    string `json:"filename"`
}

// CreateCheckoutRequest selects a purchase tier.
type CreateCheckoutRequest struct {
	TierID     string `json:"tierId"`
	SuccessURL string `json:"successUrl"`
	CancelURL  string `json:"cancelUrl"`
}

// TriggerDecayRequest bounds a manual decay pass.
type TriggerDecayRequest struct {
	MaxCats int64 `json:"maxCats"`
}

// getUser is a handler for the /getUser endpoint.
func (s *HTTPServer) getUser(c *gin.Context) {
	var req GetUserRequest
	if err := bindData(c, &req); err != nil {
		respondError(c, err)
		return
	}

	user, err := s.app.GetOrCreateUser(currentUser(c), req.WalletAddress)
	if err != nil {
		respondError(c, err)
		return
	}
	respondResult(c, user)
}

// claimDaily is a handler for the /claimDaily endpoint.
func (s *HTTPServer) claimDaily(c *gin.Context) {
	result, err := s.app.ClaimDaily(currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	res := gin.H{
		"success": true,
		"claimed": result.Claimed,
		"balance": result.Balance,
	}
	// Only the chain ledger produces a payout transaction.
	if result.TxHash != "" {
		res["txHash"] = result.TxHash
	}
	respondResult(c, res)
}

// feed is a handler for the /feed endpoint.
func (s *HTTPServer) feed(c *gin.Context) {
	var req FeedRequest
	if err := bindData(c, &req); err != nil {
		respondError(c, err)
		return
	}

	result, err := s.app.Feed(currentUser(c), req.CatID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondResult(c, gin.H{
		"success":        true,
		"balance":        result.Balance,
		"feedsRemaining": result.FeedsRemaining,
		"message":        result.Message,
	})
}

// addCat is a handler for the /addCat endpoint.
func (s *HTTPServer) addCat(c *gin.Context) {
	var req AddCatRequest
	if err := bindData(c, &req); err != nil {
		respondError(c, err)
		return
	}

	cat, err := s.app.AddCat(currentUser(c), req.Name, req.MediaURL, req.MediaType, req.Vibes)
	if err != nil {
		respondError(c, err)
		return
	}
	respondResult(c, gin.H{
		"success": true,
		"catId":   cat.ID,
		"cat":     cat,
	})
}

// updateCatVibes is a handler for the /updateCatVibes endpoint.
func (s *HTTPServer) updateCatVibes(c *gin.Context) {
	var req UpdateCatVibesRequest
	if err := bindData(c, &req); err != nil {
		respondError(c, err)
		return
	}

	cat, err := s.app.UpdateCatVibes(currentUser(c), req.CatID, req.Vibes)
	if err != nil {
		respondError(c, err)
		return
	}
	respondResult(c, gin.H{"success": true, "cat": cat})
}

// uploadMedia is a handler for the /uploadMedia endpoint.
func (s *HTTPServer) uploadMedia(c *gin.Context) {
	var req UploadMediaRequest
	if err := bindData(c, &req); err != nil {
		respondError(c, err)
		return
	}
	if req.Data == "" {
		respondError(c, apperr.New(apperr.InvalidArgument, "data is required"))
		return
	}

	kind, ok := mediastore.MediaKind(req.ContentType)
	if !ok {
		respondError(c, apperr.New(apperr.InvalidArgument, "Unsupported media type: %s", req.ContentType))
		return
	}

	url, err := s.media.Save(req.Data, req.ContentType)
	if err != nil {
		respondError(c, err)
		return
	}
	respondResult(c, gin.H{"mediaUrl": url, "mediaType": kind})
}

// getCats is a handler for the /getCats endpoint.
func (s *HTTPServer) getCats(c *gin.Context) {
	cats, err := s.app.ListCats()
	if err != nil {
		respondError(c, err)
		return
	}
	respondResult(c, gin.H{"cats": cats})
}

// getStats is a handler for the /getStats endpoint.
func (s *HTTPServer) getStats(c *gin.Context) {
	stats, err := s.app.Stats()
	if err != nil {
		respondError(c, err)
		return
	}
	respondResult(c, stats)
}

// getPurchaseTiers is a handler for the /getPurchaseTiers endpoint.
func (s *HTTPServer) getPurchaseTiers(c *gin.Context) {
	respondResult(c, gin.H{
		"tiers":      s.app.PurchaseTiers(),
		"disclaimer": "Your purchase supports the Care Fund, which funds real cat shelter donations and keeps Cat TV free for everyone.",
	})
}

// createCheckoutSession is a handler for the /createCheckoutSession endpoint.
func (s *HTTPServer) createCheckoutSession(c *gin.Context) {
	var req CreateCheckoutRequest
	if err := bindData(c, &req); err != nil {
		respondError(c, err)
		return
	}

	result, err := s.app.CreateCheckout(currentUser(c), req.TierID, req.SuccessURL, req.CancelURL)
	if err != nil {
		respondError(c, err)
		return
	}
	respondResult(c, result)
}

// paymentWebhook receives signed payment-provider deliveries. The raw body
// is verified against the signature header before anything is decoded.
func (s *HTTPServer) paymentWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, apperr.New(apperr.InvalidArgument, "Failed to read body"))
		return
	}

	event, err := s.provider.VerifyEvent(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		s.logger.Warn("Webhook signature verification failed", "error", err)
		respondError(c, apperr.New(apperr.InvalidSignature, "Invalid signature"))
		return
	}

	if err := s.app.HandleWebhookEvent(event); err != nil {
		s.logger.Error("Failed to process webhook event", "error", err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

// triggerDecay is a handler for the /triggerDecay endpoint.
func (s *HTTPServer) triggerDecay(c *gin.Context) {
	var req TriggerDecayRequest
	if err := bindData(c, &req); err != nil {
		respondError(c, err)
		return
	}

	txHash, err := s.app.TriggerDecay(req.MaxCats)
	if err != nil {
		respondError(c, err)
		return
	}
	respondResult(c, gin.H{"success": true, "txHash": txHash})
}

// getTokenBalance is a handler for the /getTokenBalance endpoint.
func (s *HTTPServer) getTokenBalance(c *gin.Context) {
	balance, err := s.app.TokenBalance(currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondResult(c, gin.H{"balance": balance})
}

// getContractStats is a handler for the /getContractStats endpoint.
func (s *HTTPServer) getContractStats(c *gin.Context) {
	stats, err := s.app.ContractStats()
	if err != nil {
		respondError(c, err)
		return
	}
	respondResult(c, stats)
}

// health is the liveness endpoint.
func (s *HTTPServer) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UnixMilli()})
}
