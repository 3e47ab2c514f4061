package reqheaders

import "context"

// The header store carries one request's published headers on the request
// context, replacing the ambient per-connection setting the gateway uses on
// the SQL side with explicit, testable context propagation.

type ctxKey struct{}

type headerContext struct {
	bag        HeaderBag
	rawPayload []byte
	raw        bool
}

// Publish stores a raw gateway payload on the context.
//
// The payload is kept verbatim; decoding happens in Headers so that a
// corrupt payload surfaces as ErrMalformedPayload at read time instead of
// being dropped at publish time.
func Publish(ctx context.Context, payload []byte) context.Context {
	return context.WithValue(ctx, ctxKey{}, &headerContext{rawPayload: payload, raw: true})
}

// PublishBag stores an already-constructed bag on the context.
func PublishBag(ctx context.Context, bag HeaderBag) context.Context {
	return context.WithValue(ctx, ctxKey{}, &headerContext{bag: bag})
}

// Headers returns the header bag published on ctx.
//
// It fails with ErrNoRequestContext when nothing was published, which
// callers in non-request scopes should treat as "no headers". A published
// payload that does not decode fails with an error wrapping
// ErrMalformedPayload; the two conditions are deliberately distinguishable
// so callers can tell "no request" from "corrupt publish channel".
func Headers(ctx context.Context) (HeaderBag, error) {
	hc, ok := ctx.Value(ctxKey{}).(*headerContext)
	if !ok {
		return HeaderBag{}, ErrNoRequestContext
	}

	if hc.raw {
		return ParseHeaderBag(hc.rawPayload)
	}

	return hc.bag, nil
}
