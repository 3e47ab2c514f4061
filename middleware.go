package reqheaders

import "net/http"

// Middleware publishes each inbound request's headers on the request
// context, mirroring the gateway's per-request publish contract for
// in-process HTTP services.
//
// Downstream handlers read the bag with Headers(r.Context()); handlers that
// run outside this middleware observe ErrNoRequestContext, the same way SQL
// code outside a request scope observes an unset gateway setting.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := PublishBag(r.Context(), BagFromRequest(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
