package handler

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	httpcontext "github.com/dtroode/codemap-billing/internal/api/http/context"
	"github.com/dtroode/codemap-billing/internal/model"
)

var (
	alice = model.Principal{ExternalID: "user_1", Email: "a@x.com"}
	cm    = httpcontext.NewManager()
)

// authedRequest builds a request that already passed the Authenticate middleware.
func authedRequest(method, target, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	return req.WithContext(cm.SetPrincipalToContext(req.Context(), alice))
}
