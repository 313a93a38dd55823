// Package transfer implements the transfer capability: it builds, signs
// and submits one transfer per call, anchored to a freshly fetched
// blockhash.
package transfer

import (
	"fmt"

	"github.com/mr-tron/base58"

	"solana-airdrop-bot/internal/wallet"
)

// SystemProgramID is the native system program owning plain transfers.
const SystemProgramID = "11111111111111111111111111111111"

// systemInstructionTransfer is the system program's transfer index.
const systemInstructionTransfer = 2

// LamportsPerUnit converts a ui amount into base units.
const LamportsPerUnit = 1_000_000_000

// BuildTransferTx builds a signed legacy transaction moving lamports
// from the keypair to recipient, referencing blockhash, and returns it
// base58-encoded for sendTransaction.
func BuildTransferTx(kp *wallet.Keypair, recipient string, lamports uint64, blockhash string) (string, error) {
	recipientKey, err := base58.Decode(recipient)
	if err != nil {
		return "", fmt.Errorf("decode recipient: %w", err)
	}
	if len(recipientKey) != 32 {
		return "", fmt.Errorf("recipient key is %d bytes, want 32", len(recipientKey))
	}

	blockhashRaw, err := base58.Decode(blockhash)
	if err != nil {
		return "", fmt.Errorf("decode blockhash: %w", err)
	}
	if len(blockhashRaw) != 32 {
		return "", fmt.Errorf("blockhash is %d bytes, want 32", len(blockhashRaw))
	}

	message := buildTransferMessage(kp.PublicKeyBytes(), recipientKey, lamports, blockhashRaw)
	signature := kp.Sign(message)

	// Wire layout: compact-u16 signature count, signatures, message.
	tx := make([]byte, 0, 1+len(signature)+len(message))
	tx = appendCompactU16(tx, 1)
	tx = append(tx, signature...)
	tx = append(tx, message...)

	return base58.Encode(tx), nil
}

// buildTransferMessage serializes the legacy message for one system
// transfer instruction.
//
// Accounts, in order: sender (signer, writable), recipient (writable),
// system program (readonly). Header counts follow from that ordering.
func buildTransferMessage(sender, recipient []byte, lamports uint64, blockhash []byte) []byte {
	programKey, _ := base58.Decode(SystemProgramID)

	var msg []byte

	// Header: required signatures, readonly signed, readonly unsigned.
	msg = append(msg, 1, 0, 1)

	// Account keys.
	msg = appendCompactU16(msg, 3)
	msg = append(msg, sender...)
	msg = append(msg, recipient...)
	msg = append(msg, programKey...)

	// Recent blockhash.
	msg = append(msg, blockhash...)

	// Instructions.
	msg = appendCompactU16(msg, 1)
	msg = append(msg, 2)            // program id index
	msg = appendCompactU16(msg, 2)  // account index count
	msg = append(msg, 0, 1)         // sender, recipient
	msg = appendCompactU16(msg, 12) // data length: u32 tag + u64 lamports
	msg = appendUint32LE(msg, systemInstructionTransfer)
	msg = appendUint64LE(msg, lamports)

	return msg
}

// appendCompactU16 appends v in the compact-u16 encoding (7 bits per
// byte, continuation in the high bit).
func appendCompactU16(b []byte, v int) []byte {
	for {
		if v < 0x80 {
			return append(b, byte(v))
		}
		b = append(b, byte(v&0x7f)|0x80)
		v >>= 7
	}
}

func appendUint32LE(b []byte, v uint32) []byte {
	return append(b, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func appendUint64LE(b []byte, v uint64) []byte {
	return append(b,
		byte(v), byte(v>>8), byte(v>>16), byte(v>>24),
		byte(v>>32), byte(v>>40), byte(v>>48), byte(v>>56))
}
