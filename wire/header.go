// Package wire implements the framed binary message format spoken between
// keyward clients and the keyward service.
//
// Every message is a fixed-layout little-endian header followed by an
// opcode-selected body. The header is validated fully before any body
// bytes are read, so a peer sending garbage or an oversized body is
// rejected before it can cost anything. Decoding is strict: unknown
// enumeration codes and version mismatches always fail, they are never
// mapped to a default.
//
// All functions here are stateless transformations over byte streams and
// values; they are safe to use concurrently on independent exchanges.
package wire

import (
	"encoding/binary"
	"io"
)

// MagicNumber opens every framed message.
const MagicNumber uint32 = 0x5EC0A710

// headerSize is the encoded size of the header record. It is transmitted
// explicitly on the wire and re-checked against this constant on read.
const headerSize uint16 = 20

// Wire protocol version implemented by this package. No other version is
// accepted.
const (
	VersionMajor uint8 = 1
	VersionMinor uint8 = 0
)

// rawHeader mirrors the wire layout of the header record field for field.
type rawHeader struct {
	versionMaj  uint8
	versionMin  uint8
	provider    uint8
	session     uint64
	contentType uint8
	bodyLen     uint32
	opcode      uint16
	status      uint16
}

func (h rawHeader) appendTo(b []byte) []byte {
	b = append(b, h.versionMaj, h.versionMin, h.provider)
	b = binary.LittleEndian.AppendUint64(b, h.session)
	b = append(b, h.contentType)
	b = binary.LittleEndian.AppendUint32(b, h.bodyLen)
	b = binary.LittleEndian.AppendUint16(b, h.opcode)
	b = binary.LittleEndian.AppendUint16(b, h.status)
	return b
}

// parseRawHeader decodes exactly headerSize bytes. Structural only: the
// caller is responsible for version and enumeration validation.
func parseRawHeader(b []byte) rawHeader {
	return rawHeader{
		versionMaj:  b[0],
		versionMin:  b[1],
		provider:    b[2],
		session:     binary.LittleEndian.Uint64(b[3:11]),
		contentType: b[11],
		bodyLen:     binary.LittleEndian.Uint32(b[12:16]),
		opcode:      binary.LittleEndian.Uint16(b[16:18]),
		status:      binary.LittleEndian.Uint16(b[18:20]),
	}
}

// Header is the validated, native representation of a message header.
//
// The declared body length is deliberately not a field here: it is a
// framing detail recomputed from the actual body whenever a message is
// written, and surfaced separately by ReadHeader so callers can bound the
// body read. It is never authoritative application state.
type Header struct {
	VersionMaj  uint8
	VersionMin  uint8
	Provider    ProviderID
	Session     uint64
	ContentType BodyType
	Opcode      Opcode
	Status      Status
}

// toRaw is total: every native enumeration variant has exactly one wire
// code. bodyLen is left at zero; the framing caller overwrites it with the
// true serialized body length before transmission.
func (h Header) toRaw() rawHeader {
	return rawHeader{
		versionMaj:  h.VersionMaj,
		versionMin:  h.VersionMin,
		provider:    uint8(h.Provider),
		session:     h.Session,
		contentType: uint8(h.ContentType),
		opcode:      uint16(h.Opcode),
		status:      uint16(h.Status),
	}
}

// toNative validates the enumeration fields in a fixed order (provider,
// content type, opcode, status) so that a header with several invalid
// fields reports a deterministic error. On failure the returned Header
// still carries everything decoded up to that point, session included, so
// a service can address an error response to the right exchange.
func (h rawHeader) toNative() (Header, error) {
	out := Header{
		VersionMaj: h.versionMaj,
		VersionMin: h.versionMin,
		Session:    h.session,
	}
	provider, err := ProviderIDFromWire(h.provider)
	if err != nil {
		return out, err
	}
	out.Provider = provider
	contentType, err := BodyTypeFromWire(h.contentType)
	if err != nil {
		return out, err
	}
	out.ContentType = contentType
	opcode, err := OpcodeFromWire(h.opcode)
	if err != nil {
		return out, err
	}
	out.Opcode = opcode
	status, err := StatusFromWire(h.status)
	if err != nil {
		return out, err
	}
	out.Status = status
	return out, nil
}

// WriteHeader writes the magic number, the header size and the header
// record with the given body length to w. Sink errors propagate unchanged.
func WriteHeader(w io.Writer, h Header, bodyLen uint32) error {
	raw := h.toRaw()
	raw.bodyLen = bodyLen
	buf := make([]byte, 0, 6+int(headerSize))
	buf = binary.LittleEndian.AppendUint32(buf, MagicNumber)
	buf = binary.LittleEndian.AppendUint16(buf, headerSize)
	buf = raw.appendTo(buf)
	_, err := w.Write(buf)
	return err
}

// ReadHeader reads and validates one framed header from r, returning the
// native header and the declared body length so the caller can bound the
// subsequent body read.
//
// The magic number and header size are read as two independent fixed-width
// reads; if either does not match its constant the stream is rejected with
// StatusInvalidHeader before any further bytes are consumed. The version
// check happens only after the record parses structurally, and
// enumeration validation only after the version check. Short reads and
// other stream failures propagate as-is.
func ReadHeader(r io.Reader) (Header, uint32, error) {
	var magicBuf [4]byte
	if _, err := io.ReadFull(r, magicBuf[:]); err != nil {
		return Header{}, 0, err
	}
	var sizeBuf [2]byte
	if _, err := io.ReadFull(r, sizeBuf[:]); err != nil {
		return Header{}, 0, err
	}
	magic := binary.LittleEndian.Uint32(magicBuf[:])
	size := binary.LittleEndian.Uint16(sizeBuf[:])
	if magic != MagicNumber || size != headerSize {
		return Header{}, 0, NewError(StatusInvalidHeader, "wire: invalid magic number or header size")
	}

	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Header{}, 0, err
	}
	raw := parseRawHeader(buf)
	if raw.versionMaj != VersionMajor || raw.versionMin != VersionMinor {
		return Header{}, 0, NewError(StatusWireProtocolVersionNotSupported, "wire: unsupported wire protocol version")
	}
	h, err := raw.toNative()
	return h, raw.bodyLen, err
}
