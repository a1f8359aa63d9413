// Package gateway is the typed access point to the remote admin REST service.
// Every call attaches the session bearer token, decodes the uniform
// {success,message,data} envelope in one place and expires the session on any
// 401 before propagating the error to the caller.
package gateway

import (
	"context"
	stdjson "encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/guonaihong/gout"
	"github.com/guonaihong/gout/dataflow"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lytortech/vendoradmin/internal/session"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type envelope struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Data    stdjson.RawMessage `json:"data"`
}

// Client talks to one upstream base address on behalf of one session.
type Client struct {
	baseURL string
	sess    *session.Session
	httpc   *http.Client
	node    *snowflake.Node
}

// New builds a gateway client. A nil httpc falls back to a plain http.Client;
// no timeout or retry policy is layered on top of it.
func New(baseURL string, sess *session.Session, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{}
	}
	node, err := snowflake.NewNode(1)
	if err != nil {
		// node 1 is always in range, this cannot fail at runtime
		panic(err)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		sess:    sess,
		httpc:   httpc,
		node:    node,
	}
}

// Session exposes the credential context the client was built with.
func (c *Client) Session() *session.Session { return c.sess }

func (c *Client) flow(method, path string) *dataflow.DataFlow {
	g := gout.New(c.httpc)
	url := c.baseURL + path
	switch method {
	case http.MethodPost:
		return g.POST(url)
	case http.MethodPut:
		return g.PUT(url)
	case http.MethodDelete:
		return g.DELETE(url)
	default:
		return g.GET(url)
	}
}

func (c *Client) headers() gout.H {
	h := gout.H{
		"Content-Type": "application/json",
		"X-Request-Id": c.node.Generate().String(),
	}
	if token := c.sess.Token(); token != "" {
		h["Authorization"] = "Bearer " + token
	}
	return h
}

// do performs one enveloped call and returns the raw data payload.
func (c *Client) do(ctx context.Context, method, path string, query gout.H, body interface{}) (stdjson.RawMessage, error) {
	var (
		code  int
		raw   []byte
		start = time.Now()
	)
	df := c.flow(method, path).
		WithContext(ctx).
		SetHeader(c.headers()).
		Code(&code).
		BindBody(&raw)
	if query != nil {
		df = df.SetQuery(query)
	}
	if body != nil {
		df = df.SetJSON(body)
	}
	if err := df.Do(); err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, path)
	}
	zap.L().Debug("gateway call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", code),
		zap.Duration("elapsed", time.Since(start)))

	return c.decode(method+" "+path, code, raw)
}

func (c *Client) decode(op string, code int, raw []byte) (stdjson.RawMessage, error) {
	if code == http.StatusUnauthorized {
		c.sess.Expire()
		return nil, ErrUnauthorized
	}
	var env envelope
	envErr := json.Unmarshal(raw, &env)
	if code < http.StatusOK || code >= http.StatusMultipleChoices {
		// carry the upstream message when the error body is still enveloped
		return nil, &APIError{Status: code, Message: env.Message}
	}
	if envErr != nil {
		return nil, &DecodeError{Op: op, Err: envErr}
	}
	if !env.Success {
		return nil, &APIError{Status: code, Message: env.Message}
	}
	return env.Data, nil
}

// decodeData unwraps the envelope data into a concrete type, failing loudly
// when the payload is absent or has the wrong shape.
func decodeData[T any](op string, raw stdjson.RawMessage) (T, error) {
	var v T
	if len(raw) == 0 || string(raw) == "null" {
		return v, &DecodeError{Op: op, Err: errors.New("envelope data missing")}
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, &DecodeError{Op: op, Err: err}
	}
	return v, nil
}

// doRaw performs a non-enveloped call (binary downloads). 401 handling is the
// same as for enveloped calls.
func (c *Client) doRaw(ctx context.Context, path string, query gout.H) ([]byte, error) {
	var (
		code int
		raw  []byte
	)
	df := c.flow(http.MethodGet, path).
		WithContext(ctx).
		SetHeader(c.headers()).
		Code(&code).
		BindBody(&raw)
	if query != nil {
		df = df.SetQuery(query)
	}
	if err := df.Do(); err != nil {
		return nil, errors.Wrapf(err, "GET %s", path)
	}
	if code == http.StatusUnauthorized {
		c.sess.Expire()
		return nil, ErrUnauthorized
	}
	if code < http.StatusOK || code >= http.StatusMultipleChoices {
		var env envelope
		_ = json.Unmarshal(raw, &env)
		return nil, &APIError{Status: code, Message: env.Message}
	}
	return raw, nil
}
