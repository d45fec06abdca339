package httpkit

import (
	"kudos/internal/platform/net/middleware"
)

// Protected groups routes behind the auth middleware. Identity lands on the
// request context, where User and Org read it back out.
func Protected(r Router, p middleware.AuthPort, fn func(Router)) {
	r.Group(func(gr Router) {
		gr.Use(Auth(p))
		fn(gr)
	})
}
