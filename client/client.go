// Package client implements the keyward client side: it frames native
// operations onto a service connection and decodes the framed results.
// One client owns one connection; exchanges are serialized on it, with
// the session identifier correlating each response to its request.
package client

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"keyward.io/keyward/operations"
	"keyward.io/keyward/protoconv"
	"keyward.io/keyward/wire"
)

type Client struct {
	mu      sync.Mutex
	conn    net.Conn
	conv    operations.Convert
	session atomic.Uint64

	// Provider addresses key operations. Discovery operations are routed
	// by the service regardless of this value.
	Provider wire.ProviderID

	// Timeout bounds one full exchange when non-zero and the context
	// carries no earlier deadline.
	Timeout time.Duration
}

// Dial connects to a keyward service on its unix socket.
func Dial(socket string) (*Client, error) {
	conn, err := net.Dial("unix", socket)
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}

// New wraps an established connection. The client takes ownership of it.
func New(conn net.Conn) *Client {
	return &Client{
		conn:     conn,
		conv:     protoconv.Converter{},
		Provider: wire.ProviderSoftware,
	}
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Execute performs one operation and returns its result. A response
// carrying a failure status surfaces as a *wire.Error.
func (c *Client) Execute(ctx context.Context, op operations.NativeOperation) (operations.NativeResult, error) {
	body, err := c.conv.OperationToBody(op)
	if err != nil {
		return nil, err
	}
	session := c.session.Add(1)
	req := &wire.Request{
		Header: wire.Header{
			VersionMaj:  wire.VersionMajor,
			VersionMin:  wire.VersionMinor,
			Provider:    c.Provider,
			Session:     session,
			ContentType: c.conv.BodyType(),
			Opcode:      op.Opcode(),
		},
		Body: body,
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	deadline, ok := ctx.Deadline()
	if !ok && c.Timeout > 0 {
		deadline = time.Now().Add(c.Timeout)
		ok = true
	}
	if ok {
		if err := c.conn.SetDeadline(deadline); err != nil {
			return nil, err
		}
		defer c.conn.SetDeadline(time.Time{})
	}

	if err := req.Write(c.conn); err != nil {
		return nil, err
	}
	resp, err := wire.ReadResponse(c.conn)
	if err != nil {
		return nil, err
	}
	if resp.Header.Session != session {
		return nil, wire.NewError(wire.StatusInternalError,
			fmt.Sprintf("client: response session %d does not match request %d", resp.Header.Session, session))
	}
	if resp.Header.Status != wire.StatusSuccess {
		return nil, wire.NewError(resp.Header.Status, "client: operation failed")
	}
	return c.conv.BodyToResult(resp.Body, op.Opcode())
}

// Ping reports the wire protocol version the service speaks.
func (c *Client) Ping(ctx context.Context) (maj, min uint8, err error) {
	res, err := c.Execute(ctx, operations.Ping{})
	if err != nil {
		return 0, 0, err
	}
	ping := res.(operations.PingResult)
	return ping.VersionMaj, ping.VersionMin, nil
}

func (c *Client) GenerateKey(ctx context.Context, name string, attrs operations.KeyAttributes) error {
	_, err := c.Execute(ctx, operations.GenerateKey{KeyName: name, Attributes: attrs})
	return err
}

func (c *Client) ImportKey(ctx context.Context, name string, attrs operations.KeyAttributes, data []byte) error {
	_, err := c.Execute(ctx, operations.ImportKey{KeyName: name, Attributes: attrs, Data: data})
	return err
}

func (c *Client) DestroyKey(ctx context.Context, name string) error {
	_, err := c.Execute(ctx, operations.DestroyKey{KeyName: name})
	return err
}

func (c *Client) SignHash(ctx context.Context, name string, hash []byte) ([]byte, error) {
	res, err := c.Execute(ctx, operations.SignHash{KeyName: name, Hash: hash})
	if err != nil {
		return nil, err
	}
	return res.(operations.SignHashResult).Signature, nil
}

// VerifyHash reports nil when the signature checks out; a bad signature
// is a *wire.Error with StatusCryptoFailure.
func (c *Client) VerifyHash(ctx context.Context, name string, hash, signature []byte) error {
	_, err := c.Execute(ctx, operations.VerifyHash{KeyName: name, Hash: hash, Signature: signature})
	return err
}

func (c *Client) ExportPublicKey(ctx context.Context, name string) ([]byte, error) {
	res, err := c.Execute(ctx, operations.ExportPublicKey{KeyName: name})
	if err != nil {
		return nil, err
	}
	return res.(operations.ExportPublicKeyResult).Data, nil
}

func (c *Client) ListProviders(ctx context.Context) ([]operations.ProviderInfo, error) {
	res, err := c.Execute(ctx, operations.ListProviders{})
	if err != nil {
		return nil, err
	}
	return res.(operations.ListProvidersResult).Providers, nil
}

func (c *Client) ListOpcodes(ctx context.Context, provider wire.ProviderID) ([]wire.Opcode, error) {
	res, err := c.Execute(ctx, operations.ListOpcodes{Provider: provider})
	if err != nil {
		return nil, err
	}
	return res.(operations.ListOpcodesResult).Opcodes, nil
}
