package cattv

import (
	"math/big"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/0xZumii/cat-tv/internal/config"
	"github.com/0xZumii/cat-tv/internal/models"
	"github.com/0xZumii/cat-tv/internal/payments"
	"github.com/0xZumii/cat-tv/pkg/apperr"
	"github.com/0xZumii/cat-tv/pkg/logger"
	"github.com/0xZumii/cat-tv/pkg/validation"
)

const (
	// ClaimCooldown is the minimum time between daily claims.
	ClaimCooldown = 24 * time.Hour

	// catListLimit caps the public catalog listing.
	catListLimit = 50

	// happyWindow is how recently a cat must have been fed to count as happy.
	happyWindow = 6 * time.Hour

	// hungryAfter is how long without food before a cat is announced hungry.
	hungryAfter = 24 * time.Hour

	// pendingPurchaseTTL is how long an unpaid checkout session is kept.
	pendingPurchaseTTL = 24 * time.Hour

	// decayBatchSize is the default cat count for a decay pass.
	decayBatchSize = 50

	// decayLockTTL keeps the decay lock held between hourly ticks so only
	// one instance of a replicated deployment fires the pass.
	decayLockTTL = 55 * time.Minute
)

// weiPerToken converts between base units and whole tokens (18 decimals).
var weiPerToken = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// CatTV is the application core. It couples the balance ledger, the catalog
// and the purchase flow, and mirrors committed actions onto the chain.
type CatTV struct {
	logger *logger.Logger
	config *config.Config

	repo     models.Repository
	chain    models.ChainService
	provider models.PaymentProvider
	notifier models.Notifier

	instanceID string
	stop       chan struct{}
}

// NewCatTV creates a new CatTV instance. notifier may be nil.
func NewCatTV(
	repo models.Repository,
	chain models.ChainService,
	provider models.PaymentProvider,
	notifier models.Notifier,
	logger *logger.Logger,
	config *config.Config,
) *CatTV {
	return &CatTV{
		repo:       repo,
		chain:      chain,
		provider:   provider,
		notifier:   notifier,
		logger:     logger,
		config:     config,
		instanceID: uuid.NewString(),
		stop:       make(chan struct{}),
	}
}

// safeGo runs fn on a goroutine with panic recovery.
func (c *CatTV) safeGo(fn func(), context string) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				c.logger.Error("Goroutine panicked",
					"context", context,
					"panic", r,
					"stack", string(debug.Stack()))
			}
		}()
		fn()
	}()
}

// GetOrCreateUser returns the caller's record, creating it on first access.
// A provided wallet address is validated and stored.
func (c *CatTV) GetOrCreateUser(userID, walletAddress string) (*models.User, error) {
	user, err := c.repo.GetOrCreateUser(userID)
	if err != nil {
		return nil, err
	}

	if walletAddress != "" && walletAddress != user.WalletAddress {
		if err := validation.ValidateAddress(walletAddress); err != nil {
			return nil, apperr.New(apperr.InvalidArgument, "Invalid wallet address: %s", err)
		}
		if err := c.repo.SetUserWallet(userID, walletAddress); err != nil {
			return nil, err
		}
		user.WalletAddress = walletAddress
	}

	return user, nil
}

// ClaimDaily grants the daily allowance once per rolling 24-hour window.
// In chain ledger mode the faucet contract pays out and its own cooldown is
// authoritative; the record written here remains a secondary guard.
func (c *CatTV) ClaimDaily(userID string) (*models.ClaimResult, error) {
	if c.config.LedgerMode == config.LedgerModeChain {
		return c.claimOnChain(userID)
	}

	user, err := c.repo.ClaimDaily(userID, c.config.DailyAmount, ClaimCooldown)
	if err != nil {
		return nil, err
	}
	return &models.ClaimResult{Claimed: c.config.DailyAmount, Balance: user.Balance}, nil
}

func (c *CatTV) claimOnChain(userID string) (*models.ClaimResult, error) {
	user, err := c.repo.GetOrCreateUser(userID)
	if err != nil {
		return nil, err
	}
	if user.WalletAddress == "" {
		return nil, apperr.New(apperr.FailedPrecondition, "No wallet on file. Link a wallet first.")
	}

	// Secondary cooldown guard; the contract enforces its own. The faucet
	// pays out, so the guard only stamps the cooldown and never credits the
	// off-chain balance.
	prev, err := c.repo.ReserveClaim(userID, ClaimCooldown)
	if err != nil {
		return nil, err
	}

	txHash, err := c.chain.ClaimFromFaucet(user.WalletAddress, c.config.DailyAmount)
	if err != nil {
		// Give the cooldown back so the user can retry once the chain
		// recovers.
		if revertErr := c.repo.RevertClaim(userID, prev); revertErr != nil {
			c.logger.Error("Failed to revert claim reservation ", "user ", userID, "error ", revertErr)
		}
		c.logger.Error("Faucet claim failed ", "user ", userID, "error ", err)
		return nil, apperr.New(apperr.Internal, "On-chain claim failed")
	}

	return &models.ClaimResult{Claimed: c.config.DailyAmount, Balance: user.Balance, TxHash: txHash}, nil
}

// Feed spends FeedCost food on a cat. The debit, the cat and global
// counters and the audit event commit in one transaction; the chain mirror
// fires after commit and never blocks or fails the response.
func (c *CatTV) Feed(userID, catID string) (*models.FeedResult, error) {
	if catID == "" {
		return nil, apperr.New(apperr.InvalidArgument, "catId is required")
	}

	outcome, err := c.repo.Feed(userID, catID, c.config.FeedCost, c.config.MaxDailyFeeds)
	if err != nil {
		return nil, err
	}

	if c.chain.Enabled() {
		c.safeGo(func() {
			if _, err := c.chain.MirrorFeed(catID); err != nil {
				// No retry queue exists; the off-chain ledger stays the
				// source of truth for the response already sent.
				c.logger.Error("On-chain feed failed ", "cat ", catID, "error ", err)
			}
		}, "mirrorFeed")
	}

	return &models.FeedResult{
		Balance:        outcome.User.Balance,
		FeedsRemaining: outcome.FeedsRemaining,
		Message:        outcome.Cat.Name + " says thank you! 😸",
	}, nil
}

// AddCat validates and stores a new catalog entry.
func (c *CatTV) AddCat(userID, name, mediaURL, mediaType string, vibes []string) (*models.Cat, error) {
	trimmed, err := validation.ValidateCatName(name)
	if err != nil {
		return nil, apperr.New(apperr.InvalidArgument, "%s", err)
	}
	if mediaURL == "" {
		return nil, apperr.New(apperr.InvalidArgument, "name and mediaUrl required")
	}
	if mediaType == "" {
		mediaType = models.MediaTypeImage
	}
	if err := validation.ValidateMediaType(mediaType); err != nil {
		return nil, apperr.New(apperr.InvalidArgument, "%s", err)
	}
	if err := validation.ValidateVibes(vibes); err != nil {
		return nil, apperr.New(apperr.InvalidArgument, "%s", err)
	}

	cat := &models.Cat{
		ID:        uuid.NewString(),
		Name:      trimmed,
		MediaURL:  mediaURL,
		MediaType: mediaType,
		Vibes:     vibes,
		CreatedAt: time.Now().UnixMilli(),
		CreatedBy: userID,
	}
	if err := c.repo.AddCat(cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// UpdateCatVibes replaces a cat's vibe tags. Owner only.
func (c *CatTV) UpdateCatVibes(userID, catID string, vibes []string) (*models.Cat, error) {
	if err := validation.ValidateVibes(vibes); err != nil {
		return nil, apperr.New(apperr.InvalidArgument, "%s", err)
	}

	cat, err := c.repo.GetCat(catID)
	if err != nil {
		return nil, err
	}
	if cat.CreatedBy != userID {
		return nil, apperr.New(apperr.FailedPrecondition, "Only the cat's owner can edit vibes")
	}

	return c.repo.UpdateCatVibes(catID, vibes)
}

// ListCats returns the newest catalog entries with computed happiness.
func (c *CatTV) ListCats() ([]*models.CatWithHappiness, error) {
	cats, err := c.repo.ListCats(catListLimit)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result := make([]*models.CatWithHappiness, 0, len(cats))
	for _, cat := range cats {
		result = append(result, &models.CatWithHappiness{
			Cat:       *cat,
			Happiness: ComputeHappiness(cat.LastFedAt, now),
		})
	}
	return result, nil
}

// Stats returns the public aggregate counters.
func (c *CatTV) Stats() (*models.Stats, error) {
	global, err := c.repo.GetGlobalStats()
	if err != nil {
		return nil, err
	}
	totalCats, err := c.repo.CountCats()
	if err != nil {
		return nil, err
	}
	happyCats, err := c.repo.CountCatsFedSince(time.Now().Add(-happyWindow).UnixMilli())
	if err != nil {
		return nil, err
	}

	return &models.Stats{
		TotalFeeds: global.TotalFeeds,
		TotalCats:  totalCats,
		HappyCats:  happyCats,
	}, nil
}

// PurchaseTiers returns the static tier table with display labels.
func (c *CatTV) PurchaseTiers() []models.Tier {
	tiers := make([]models.Tier, 0, len(payments.Tiers))
	for _, t := range payments.Tiers {
		t.Label = payments.TierLabel(t)
		tiers = append(tiers, t)
	}
	return tiers
}

// CreateCheckout opens a payment session for the tier and records the
// pending purchase under the session id.
func (c *CatTV) CreateCheckout(userID, tierID, successURL, cancelURL string) (*models.CheckoutResult, error) {
	tier, ok := payments.TierByID(tierID)
	if !ok {
		return nil, apperr.New(apperr.InvalidArgument, "Invalid tier")
	}
	if !c.provider.Configured() {
		return nil, apperr.New(apperr.FailedPrecondition, "Payments not configured")
	}

	if successURL == "" {
		successURL = c.config.CheckoutSuccessURL
	}
	if cancelURL == "" {
		cancelURL = c.config.CheckoutCancelURL
	}

	sessionID, url, err := c.provider.CreateSession(userID, tier, successURL, cancelURL)
	if err != nil {
		c.logger.Error("Checkout session creation failed ", "error ", err)
		return nil, apperr.New(apperr.Internal, "Failed to create checkout")
	}

	purchase := &models.Purchase{
		SessionID: sessionID,
		UserID:    userID,
		TierID:    tier.ID,
		Cattv:     tier.Cattv,
		PriceUSD:  tier.PriceUSD,
		Status:    models.PurchasePending,
		CreatedAt: time.Now().UnixMilli(),
	}
	if err := c.repo.CreatePurchase(purchase); err != nil {
		return nil, err
	}

	return &models.CheckoutResult{SessionID: sessionID, URL: url}, nil
}

// HandleWebhookEvent applies a verified provider event. Completed checkouts
// credit the buyer exactly once per session; redelivery is acknowledged
// without a second credit.
func (c *CatTV) HandleWebhookEvent(event *models.WebhookEvent) error {
	if event.Type != "checkout.session.completed" {
		c.logger.Debug("Ignoring webhook event ", "type ", event.Type)
		return nil
	}

	credited, err := c.repo.CompletePurchase(event.SessionID, event.PaymentID)
	if err != nil {
		return err
	}
	if credited {
		c.logger.Info("Purchase completed ", "session ", event.SessionID)
	} else {
		c.logger.Info("Purchase already completed, skipping credit ", "session ", event.SessionID)
	}
	return nil
}

// TriggerDecay runs a manual decay pass on the feeder contract.
func (c *CatTV) TriggerDecay(maxCats int64) (string, error) {
	if !c.chain.Enabled() {
		return "", apperr.New(apperr.FailedPrecondition, "On-chain integration not configured")
	}
	if maxCats <= 0 {
		maxCats = decayBatchSize
	}

	txHash, err := c.chain.ProcessDecayAll(maxCats)
	if err != nil {
		c.logger.Error("Decay pass failed ", "error ", err)
		return "", apperr.New(apperr.Internal, "Decay processing failed")
	}
	return txHash, nil
}

// ContractStats reads the feeder contract's aggregate counters.
func (c *CatTV) ContractStats() (*models.ContractStats, error) {
	if !c.chain.Enabled() {
		return nil, apperr.New(apperr.FailedPrecondition, "On-chain integration not configured")
	}

	stats, err := c.chain.ContractStats()
	if err != nil {
		c.logger.Error("Contract stats read failed ", "error ", err)
		return nil, apperr.New(apperr.Internal, "Failed to read contract stats")
	}
	return stats, nil
}

// TokenBalance reads the caller's on-chain token balance, floored to whole
// tokens for display as food.
func (c *CatTV) TokenBalance(userID string) (int64, error) {
	if !c.chain.Enabled() {
		return 0, apperr.New(apperr.FailedPrecondition, "On-chain integration not configured")
	}

	user, err := c.repo.GetUser(userID)
	if err != nil {
		return 0, err
	}
	if user.WalletAddress == "" {
		return 0, apperr.New(apperr.FailedPrecondition, "No wallet on file. Link a wallet first.")
	}

	raw, err := c.chain.TokenBalance(user.WalletAddress)
	if err != nil {
		c.logger.Error("Token balance read failed ", "user ", userID, "error ", err)
		return 0, apperr.New(apperr.Internal, "Failed to read token balance")
	}
	return new(big.Int).Div(raw, weiPerToken).Int64(), nil
}

// Start launches the background maintenance loops.
func (c *CatTV) Start() {
	go c.prunePurchasesLoop()
	if c.chain.Enabled() {
		go c.decayLoop()
	}
	if c.notifier != nil {
		go c.hungryCatsLoop()
	}
}

// Stop terminates the background loops.
func (c *CatTV) Stop() {
	close(c.stop)
}

func (c *CatTV) prunePurchasesLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.logger.Debug("Removing stale pending purchases")
			cutoff := time.Now().Add(-pendingPurchaseTTL).UnixMilli()
			if err := c.repo.RemoveStalePendingPurchases(cutoff); err != nil {
				c.logger.Error("Failed to remove stale pending purchases", "error", err)
			}
		}
	}
}

func (c *CatTV) decayLoop() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			// The lock is held for most of the hour, so exactly one
			// instance runs each pass.
			acquired, err := c.repo.AcquireLock("decay", c.instanceID, decayLockTTL)
			if err != nil {
				c.logger.Error("Failed to acquire decay lock", "error", err)
				continue
			}
			if !acquired {
				continue
			}
			if _, err := c.chain.ProcessDecayAll(decayBatchSize); err != nil {
				c.logger.Error("Scheduled decay pass failed", "error", err)
			}
		}
	}
}

func (c *CatTV) hungryCatsLoop() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-hungryAfter).UnixMilli()
			cats, err := c.repo.ListHungryCats(cutoff, cutoff)
			if err != nil {
				c.logger.Error("Failed to list hungry cats", "error", err)
				continue
			}
			for _, cat := range cats {
				c.notifier.AnnounceHungryCat(cat)
				if err := c.repo.SetCatAlertedAt(cat.ID, time.Now().UnixMilli()); err != nil {
					c.logger.Error("Failed to record hungry alert", "error", err)
				}
			}
		}
	}
}
