// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package xcrypto gives the provenance-log core's "opaque multi-format
// byte strings" (§1, §3.2 of SPEC_FULL.md) a concrete shape: every proof,
// public key, and hash digest is a leading unsigned-varint codec tag
// followed by its payload. This lets check_signature and check_preimage
// bind to real algorithms instead of staying permanently opaque, the way
// the teacher package's ecies/contract.go dispatches on a leading curve-ID
// byte.
package xcrypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"

	secp256k1 "github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	sha256simd "github.com/minio/sha256-simd"
	"github.com/zeebo/blake3"

	"github.com/luxfi/plog/internal/varint"
)

// Tag identifies the algorithm a multi-format byte string was produced
// with. New tags are additive; the table in this file is the single
// source of truth for what the core can verify.
type Tag uint64

const (
	// TagSecp256k1Pub tags a 33-byte compressed secp256k1 public key.
	TagSecp256k1Pub Tag = 0xE7
	// TagSecp256k1Sig tags a fixed-size secp256k1 ECDSA signature in
	// compact (R||S, 64-byte) form.
	TagSecp256k1Sig Tag = 0xE8
	// TagEd25519Pub tags a 32-byte Ed25519 public key.
	TagEd25519Pub Tag = 0xED
	// TagEd25519Sig tags a 64-byte Ed25519 signature.
	TagEd25519Sig Tag = 0xEE
	// TagSha2_256 tags a sha2-256 digest.
	TagSha2_256 Tag = 0x12
	// TagBlake3 tags a 32-byte blake3 digest.
	TagBlake3 Tag = 0x1E
)

var (
	// ErrUnknownTag means the leading codec tag does not name a supported
	// algorithm.
	ErrUnknownTag = errors.New("xcrypto: unknown codec tag")
	// ErrMalformed means the payload length or shape doesn't match what
	// the tag requires.
	ErrMalformed = errors.New("xcrypto: malformed multi-format value")
)

// tagged prepends tag to payload as a uvarint, followed by a
// length-prefixed payload, producing the wire form stored in
// proof/pubkey/hash fields.
func tagged(tag Tag, payload []byte) []byte {
	out := varint.PutUvarint(nil, uint64(tag))
	return varint.PutBytes(out, payload)
}

// Untag splits a multi-format byte string into its tag and payload.
func Untag(b []byte) (Tag, []byte, error) {
	n, rest, err := varint.ReadUvarint(b)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	payload, rest, err := varint.ReadBytes(rest)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(rest) != 0 {
		return 0, nil, fmt.Errorf("%w: trailing bytes", ErrMalformed)
	}
	return Tag(n), payload, nil
}

// TagSecp256k1PubBytes wraps a compressed secp256k1 public key.
func TagSecp256k1PubBytes(pub []byte) []byte { return tagged(TagSecp256k1Pub, pub) }

// TagSecp256k1SigBytes wraps a compact secp256k1 signature.
func TagSecp256k1SigBytes(sig []byte) []byte { return tagged(TagSecp256k1Sig, sig) }

// TagEd25519PubBytes wraps an Ed25519 public key.
func TagEd25519PubBytes(pub []byte) []byte { return tagged(TagEd25519Pub, pub) }

// TagEd25519SigBytes wraps an Ed25519 signature.
func TagEd25519SigBytes(sig []byte) []byte { return tagged(TagEd25519Sig, sig) }

// TagSha2_256Bytes wraps a sha2-256 digest.
func TagSha2_256Bytes(digest []byte) []byte { return tagged(TagSha2_256, digest) }

// TagBlake3Bytes wraps a blake3 digest.
func TagBlake3Bytes(digest []byte) []byte { return tagged(TagBlake3, digest) }

// VerifySignature checks sig (a tagged multi-format signature) over msg
// under pub (a tagged multi-format public key). It is the implementation
// behind the script host's check_signature function.
func VerifySignature(pub, sig, msg []byte) (bool, error) {
	pubTag, pubPayload, err := Untag(pub)
	if err != nil {
		return false, err
	}
	sigTag, sigPayload, err := Untag(sig)
	if err != nil {
		return false, err
	}

	switch {
	case pubTag == TagSecp256k1Pub && sigTag == TagSecp256k1Sig:
		return verifySecp256k1(pubPayload, sigPayload, msg)
	case pubTag == TagEd25519Pub && sigTag == TagEd25519Sig:
		return verifyEd25519(pubPayload, sigPayload, msg)
	default:
		return false, fmt.Errorf("%w: pub tag %#x, sig tag %#x", ErrUnknownTag, pubTag, sigTag)
	}
}

func verifySecp256k1(pubBytes, sigBytes, msg []byte) (bool, error) {
	pub, err := secp256k1.ParsePubKey(pubBytes)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(sigBytes) != 64 {
		return false, fmt.Errorf("%w: secp256k1 signature must be 64 bytes", ErrMalformed)
	}
	r := new(secp256k1.ModNScalar)
	s := new(secp256k1.ModNScalar)
	r.SetByteSlice(sigBytes[:32])
	s.SetByteSlice(sigBytes[32:])
	sig := ecdsa.NewSignature(r, s)
	digest := Sha2_256(msg)
	return sig.Verify(digest, pub), nil
}

func verifyEd25519(pubBytes, sigBytes, msg []byte) (bool, error) {
	if len(pubBytes) != ed25519.PublicKeySize {
		return false, fmt.Errorf("%w: ed25519 public key must be %d bytes", ErrMalformed, ed25519.PublicKeySize)
	}
	if len(sigBytes) != ed25519.SignatureSize {
		return false, fmt.Errorf("%w: ed25519 signature must be %d bytes", ErrMalformed, ed25519.SignatureSize)
	}
	return ed25519.Verify(ed25519.PublicKey(pubBytes), msg, sigBytes), nil
}

// SignSecp256k1 signs the sha2-256 digest of msg with priv, returning a
// tagged multi-format signature. Used by tests and entry authors.
func SignSecp256k1(priv *secp256k1.PrivateKey, msg []byte) []byte {
	digest := Sha2_256(msg)
	// SignCompact yields a recovery byte followed by R||S; keep R||S only.
	compact := ecdsa.SignCompact(priv, digest, true)
	return TagSecp256k1SigBytes(compact[1:])
}

// GenerateSecp256k1 returns a fresh secp256k1 keypair: the private key
// first, the tagged public key second.
func GenerateSecp256k1() (*secp256k1.PrivateKey, []byte, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, nil, err
	}
	return priv, TagSecp256k1PubBytes(priv.PubKey().SerializeCompressed()), nil
}

// GenerateEd25519 returns a fresh Ed25519 keypair, tagged public key
// second.
func GenerateEd25519() (ed25519.PrivateKey, []byte, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	return priv, TagEd25519PubBytes(pub), nil
}

// SignEd25519 signs msg with priv, returning a tagged multi-format
// signature.
func SignEd25519(priv ed25519.PrivateKey, msg []byte) []byte {
	return TagEd25519SigBytes(ed25519.Sign(priv, msg))
}

// VerifyPreimage checks that hashing preimage with the algorithm named by
// a tagged digest produces that exact digest. It is the implementation
// behind the script host's check_preimage function.
func VerifyPreimage(digest, preimage []byte) (bool, error) {
	tag, payload, err := Untag(digest)
	if err != nil {
		return false, err
	}
	switch tag {
	case TagSha2_256:
		return string(Sha2_256(preimage)) == string(payload), nil
	case TagBlake3:
		return string(Blake3(preimage)) == string(payload), nil
	default:
		return false, fmt.Errorf("%w: digest tag %#x", ErrUnknownTag, tag)
	}
}

// Sha2_256 hashes b with sha256-simd, the hardware-accelerated sha2-256
// implementation the domain stack already carries.
func Sha2_256(b []byte) []byte {
	sum := sha256simd.Sum256(b)
	return sum[:]
}

// Blake3 hashes b with blake3, producing a 32-byte digest.
func Blake3(b []byte) []byte {
	sum := blake3.Sum256(b)
	return sum[:]
}
