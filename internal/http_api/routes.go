package http_api

// routes sets up the routes for the HTTP server.
func (s *HTTPServer) routes() {
	s.router.GET("/health", s.health)
	s.router.Static("/media", s.media.Dir())

	api := s.router.Group("/api/v1")

	// Public operations
	api.POST("/getCats", s.getCats)
	api.POST("/getStats", s.getStats)
	api.POST("/getPurchaseTiers", s.getPurchaseTiers)
	api.POST("/getContractStats", s.getContractStats)

	// Webhook deliveries are authenticated by signature, not bearer token
	api.POST("/stripeWebhook", s.paymentWebhook)

	// Authenticated operations
	authed := api.Group("", s.authRequired())
	authed.POST("/getUser", s.getUser)
	authed.POST("/claimDaily", s.claimDaily)
	authed.POST("/feed", s.feed)
	authed.POST("/addCat", s.addCat)
	authed.POST("/updateCatVibes", s.updateCatVibes)
	authed.POST("/uploadMedia", s.uploadMedia)
	authed.POST("/createCheckoutSession", s.createCheckoutSession)
	authed.POST("/getTokenBalance", s.getTokenBalance)
	authed.POST("/triggerDecay", s.triggerDecay)
}
