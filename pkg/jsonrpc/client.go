package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/binduai/bindu-go/pkg/a2a"
	"github.com/binduai/bindu-go/pkg/auth"
)

/*
RPCClient issues JSON-RPC 2.0 calls over HTTP POST against a single
endpoint URL.  It is the only place that sees raw HTTP: status codes are
classified into the error taxonomy here, credentials are attached here and
inbound records are normalized to the canonical field spelling here.
*/
type RPCClient struct {
	URL         string
	Client      *http.Client
	Credentials *auth.Credentials

	nextID atomic.Int64
}

func NewRPCClient(url string, credentials *auth.Credentials) *RPCClient {
	return &RPCClient{
		URL:         url,
		Client:      &http.Client{},
		Credentials: credentials,
	}
}

// Call issues a single request/response RPC and unmarshals the result
// member into result, which may be nil when the caller only cares about
// success.
func (c *RPCClient) Call(
	ctx context.Context,
	method string,
	params any,
	result any,
) error {
	resp, err := c.post(ctx, method, params, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var rpcResp RPCResponse
	if err := json.Unmarshal(a2a.Normalize(body), &rpcResp); err != nil {
		return err
	}

	if rpcResp.Error != nil {
		return &a2a.ProtocolError{
			Code:    rpcResp.Error.Code,
			Message: rpcResp.Error.Message,
			Data:    rpcResp.Error.Data,
		}
	}

	if result != nil && len(rpcResp.Result) > 0 {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return err
		}
	}

	return nil
}

// Stream issues the same RPC but asks for the incremental delivery mode.
// The returned body is a stream of `data:`-framed event records; the
// caller owns closing it.
func (c *RPCClient) Stream(
	ctx context.Context,
	method string,
	params any,
) (io.ReadCloser, error) {
	resp, err := c.post(ctx, method, params, "text/event-stream")
	if err != nil {
		return nil, err
	}

	return resp.Body, nil
}

// post sends the request and classifies the HTTP status.  Any non-2xx
// response is consumed and turned into a typed error; a 2xx response is
// handed back with its body still open.
func (c *RPCClient) post(
	ctx context.Context,
	method string,
	params any,
	accept string,
) (*http.Response, error) {
	if c.Client == nil {
		c.Client = http.DefaultClient
	}

	payload := RPCRequest{
		JSONRPC: "2.0",
		ID:      json.RawMessage(strconv.FormatInt(c.nextID.Add(1), 10)),
		Method:  method,
	}

	if params != nil {
		b, err := json.Marshal(params)
		if err != nil {
			return nil, err
		}
		payload.Params = b
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if accept != "" {
		httpReq.Header.Set("Accept", accept)
	}

	if c.Credentials != nil {
		c.Credentials.Apply(httpReq)
	}

	log.Debug("rpc call", "method", method, "url", c.URL)

	resp, err := c.Client.Do(httpReq)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	detail, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return nil, &a2a.AuthRequiredError{Detail: string(detail)}
	case http.StatusPaymentRequired:
		return nil, &a2a.PaymentRequiredError{Instructions: string(detail)}
	default:
		return nil, &a2a.TransportError{Status: resp.StatusCode, Body: string(detail)}
	}
}
