package wire

import "fmt"

// ProviderID identifies which backend services a request.
type ProviderID uint8

const (
	// ProviderCore services facility-level operations (ping, discovery).
	ProviderCore ProviderID = 0
	// ProviderSoftware is the in-process software provider.
	ProviderSoftware ProviderID = 1
	// ProviderRemote proxies operations to a remote backend.
	ProviderRemote ProviderID = 2
)

func (p ProviderID) String() string {
	switch p {
	case ProviderCore:
		return "core"
	case ProviderSoftware:
		return "software"
	case ProviderRemote:
		return "remote"
	default:
		return fmt.Sprintf("provider(%d)", uint8(p))
	}
}

// ProviderIDFromWire decodes a provider wire code. Unknown codes fail:
// forward compatibility is deliberately not supported at this layer.
func ProviderIDFromWire(v uint8) (ProviderID, error) {
	switch p := ProviderID(v); p {
	case ProviderCore, ProviderSoftware, ProviderRemote:
		return p, nil
	default:
		return 0, NewError(StatusProviderDoesNotExist, fmt.Sprintf("wire: unknown provider code %d", v))
	}
}

// BodyType identifies the structural encoding scheme of a message body.
type BodyType uint8

const (
	// BodyProtobuf is the protobuf wire encoding, the only scheme currently
	// defined.
	BodyProtobuf BodyType = 0
)

func (b BodyType) String() string {
	switch b {
	case BodyProtobuf:
		return "protobuf"
	default:
		return fmt.Sprintf("bodytype(%d)", uint8(b))
	}
}

// BodyTypeFromWire decodes a content-type wire code.
func BodyTypeFromWire(v uint8) (BodyType, error) {
	switch b := BodyType(v); b {
	case BodyProtobuf:
		return b, nil
	default:
		return 0, NewError(StatusContentTypeNotSupported, fmt.Sprintf("wire: unknown content type code %d", v))
	}
}

// Opcode selects which operation a message represents. The set is closed:
// every opcode has exactly one Operation type, one Result type, and a
// registered body converter.
type Opcode uint16

const (
	OpPing            Opcode = 0x0001
	OpGenerateKey     Opcode = 0x0002
	OpDestroyKey      Opcode = 0x0003
	OpSignHash        Opcode = 0x0004
	OpVerifyHash      Opcode = 0x0005
	OpImportKey       Opcode = 0x0006
	OpExportPublicKey Opcode = 0x0007
	OpListProviders   Opcode = 0x0008
	OpListOpcodes     Opcode = 0x0009
)

func (o Opcode) String() string {
	switch o {
	case OpPing:
		return "Ping"
	case OpGenerateKey:
		return "GenerateKey"
	case OpDestroyKey:
		return "DestroyKey"
	case OpSignHash:
		return "SignHash"
	case OpVerifyHash:
		return "VerifyHash"
	case OpImportKey:
		return "ImportKey"
	case OpExportPublicKey:
		return "ExportPublicKey"
	case OpListProviders:
		return "ListProviders"
	case OpListOpcodes:
		return "ListOpcodes"
	default:
		return fmt.Sprintf("opcode(0x%04x)", uint16(o))
	}
}

// Opcodes lists every defined opcode in wire-code order.
func Opcodes() []Opcode {
	return []Opcode{
		OpPing,
		OpGenerateKey,
		OpDestroyKey,
		OpSignHash,
		OpVerifyHash,
		OpImportKey,
		OpExportPublicKey,
		OpListProviders,
		OpListOpcodes,
	}
}

// OpcodeFromWire decodes an opcode wire code.
func OpcodeFromWire(v uint16) (Opcode, error) {
	switch o := Opcode(v); o {
	case OpPing, OpGenerateKey, OpDestroyKey, OpSignHash, OpVerifyHash,
		OpImportKey, OpExportPublicKey, OpListProviders, OpListOpcodes:
		return o, nil
	default:
		return 0, NewError(StatusOpcodeDoesNotExist, fmt.Sprintf("wire: unknown opcode 0x%04x", v))
	}
}

// Status is the failure category carried in a response header. Requests
// always carry StatusSuccess.
type Status uint16

const (
	StatusSuccess                         Status = 0
	StatusInvalidHeader                   Status = 1
	StatusWireProtocolVersionNotSupported Status = 2
	StatusProviderDoesNotExist            Status = 3
	StatusContentTypeNotSupported         Status = 4
	StatusOpcodeDoesNotExist              Status = 5
	StatusInvalidEncoding                 Status = 6
	StatusBodyTooLarge                    Status = 7
	StatusProviderNotRegistered           Status = 8
	StatusUnsupportedOperation            Status = 9
	StatusKeyAlreadyExists                Status = 10
	StatusKeyDoesNotExist                 Status = 11
	StatusCryptoFailure                   Status = 12
	StatusInternalError                   Status = 13
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "Success"
	case StatusInvalidHeader:
		return "InvalidHeader"
	case StatusWireProtocolVersionNotSupported:
		return "WireProtocolVersionNotSupported"
	case StatusProviderDoesNotExist:
		return "ProviderDoesNotExist"
	case StatusContentTypeNotSupported:
		return "ContentTypeNotSupported"
	case StatusOpcodeDoesNotExist:
		return "OpcodeDoesNotExist"
	case StatusInvalidEncoding:
		return "InvalidEncoding"
	case StatusBodyTooLarge:
		return "BodyTooLarge"
	case StatusProviderNotRegistered:
		return "ProviderNotRegistered"
	case StatusUnsupportedOperation:
		return "UnsupportedOperation"
	case StatusKeyAlreadyExists:
		return "KeyAlreadyExists"
	case StatusKeyDoesNotExist:
		return "KeyDoesNotExist"
	case StatusCryptoFailure:
		return "CryptoFailure"
	case StatusInternalError:
		return "InternalError"
	default:
		return fmt.Sprintf("status(%d)", uint16(s))
	}
}

// StatusFromWire decodes a status wire code.
func StatusFromWire(v uint16) (Status, error) {
	if v > uint16(StatusInternalError) {
		return 0, NewError(StatusInvalidEncoding, fmt.Sprintf("wire: unknown status code %d", v))
	}
	return Status(v), nil
}
