package auth

import (
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
)

// PaymentHeader carries the payment proof negotiated out of band after a
// 402 response.
const PaymentHeader = "X-Payment"

/*
Credentials holds the bearer and payment tokens attached to outgoing RPC
calls.  It is an explicit object handed to the transport, not an ambient
singleton, so two clients can talk to two agents with independent
credentials.

The payment token lives only as long as the task lineage it was negotiated
for: once a task reaches a terminal state the client invalidates it, and
the next message in that context re-negotiates payment against the fresh
task.
*/
type Credentials struct {
	mu      sync.RWMutex
	bearer  string
	payment string
}

func NewCredentials(bearer, payment string) *Credentials {
	return &Credentials{
		bearer:  bearer,
		payment: payment,
	}
}

// Apply attaches the configured headers to an outgoing request.  A payment
// token containing non-ASCII bytes cannot be carried in a header safely, so
// it is skipped rather than sent mangled.
func (c *Credentials) Apply(req *http.Request) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearer)
	}

	if c.payment == "" {
		return
	}

	if !isASCII(c.payment) {
		log.Warn("payment token contains non-ASCII bytes, not attaching header")
		return
	}

	req.Header.Set(PaymentHeader, c.payment)
}

// SetPayment replaces the payment token, e.g. after the caller settled a
// 402 challenge.
func (c *Credentials) SetPayment(token string) {
	c.mu.Lock()
	c.payment = token
	c.mu.Unlock()
}

// InvalidatePayment drops the held payment token.  Called when the task
// lineage it belongs to reaches a terminal state.
func (c *Credentials) InvalidatePayment() {
	c.mu.Lock()
	c.payment = ""
	c.mu.Unlock()
}

// HasPayment reports whether a payment token is currently held.
func (c *Credentials) HasPayment() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.payment != ""
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return false
		}
	}
	return true
}
