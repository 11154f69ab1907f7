// Package auth resolves API bearer tokens to catalog callers.
//
// Every user owns one API token, issued by `lexicon users create` and
// stored only as a sha256 hash. Requests carry it as:
//
//	Authorization: Bearer <token>
//
// Requests without a token continue anonymously so that public catalog
// reads work; routes that act for a user are wrapped in RequireCaller, and
// moderation routes additionally in RequireRole(catalog.RoleAdmin).
//
// Repeated invalid tokens from one client IP are locked out by RateLimiter.
//
// # Usage
//
//	mw := auth.NewMiddleware(usersRepo, auth.NewRateLimiter(auth.DefaultRateLimitConfig()))
//	router.Use(mw.Handler())
//	api.POST("/words", mw.RequireCaller(), controller.Create)
//
// Extract the caller in handlers:
//
//	caller, ok := auth.GetCaller(c)
package auth
