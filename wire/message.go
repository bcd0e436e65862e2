package wire

import (
	"fmt"
	"io"
)

// MaxBodyLen bounds the body size this implementation will read or write.
// A header declaring more is rejected before any body bytes are consumed.
const MaxBodyLen = 1 << 20

// Request is one framed client-to-service message. Header.Status is
// StatusSuccess on requests.
type Request struct {
	Header Header
	Body   []byte
}

// Response is one framed service-to-client message.
type Response struct {
	Header Header
	Body   []byte
}

// ReadBody reads exactly bodyLen body bytes from r, enforcing MaxBodyLen.
// Stream failures (short reads included) propagate as-is.
func ReadBody(r io.Reader, bodyLen uint32) ([]byte, error) {
	if bodyLen > MaxBodyLen {
		return nil, NewError(StatusBodyTooLarge, fmt.Sprintf("wire: declared body length %d exceeds limit %d", bodyLen, MaxBodyLen))
	}
	if bodyLen == 0 {
		return nil, nil
	}
	body := make([]byte, bodyLen)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}
	return body, nil
}

func writeMessage(w io.Writer, h Header, body []byte) error {
	if len(body) > MaxBodyLen {
		return NewError(StatusBodyTooLarge, fmt.Sprintf("wire: body length %d exceeds limit %d", len(body), MaxBodyLen))
	}
	if err := WriteHeader(w, h, uint32(len(body))); err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	_, err := w.Write(body)
	return err
}

func readMessage(r io.Reader) (Header, []byte, error) {
	h, bodyLen, err := ReadHeader(r)
	if err != nil {
		return h, nil, err
	}
	body, err := ReadBody(r, bodyLen)
	if err != nil {
		return h, nil, err
	}
	return h, body, nil
}

// Write frames the request onto w: the header with the body length patched
// in, then the body bytes.
func (req *Request) Write(w io.Writer) error {
	return writeMessage(w, req.Header, req.Body)
}

// ReadRequest reads one framed request from r. The body read is bounded by
// the length the validated header declares.
func ReadRequest(r io.Reader) (*Request, error) {
	h, body, err := readMessage(r)
	if err != nil {
		return nil, err
	}
	return &Request{Header: h, Body: body}, nil
}

// Write frames the response onto w.
func (resp *Response) Write(w io.Writer) error {
	return writeMessage(w, resp.Header, resp.Body)
}

// ReadResponse reads one framed response from r.
func ReadResponse(r io.Reader) (*Response, error) {
	h, body, err := readMessage(r)
	if err != nil {
		return nil, err
	}
	return &Response{Header: h, Body: body}, nil
}
