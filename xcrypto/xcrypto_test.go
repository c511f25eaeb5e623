// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package xcrypto_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/plog/xcrypto"
)

func TestSecp256k1SignVerify(t *testing.T) {
	priv, pub, err := xcrypto.GenerateSecp256k1()
	require.NoError(t, err)

	msg := []byte("hello plog")
	sig := xcrypto.SignSecp256k1(priv, msg)

	ok, err := xcrypto.VerifySignature(pub, sig, msg)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = xcrypto.VerifySignature(pub, sig, []byte("tampered"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestEd25519SignVerify(t *testing.T) {
	priv, pub, err := xcrypto.GenerateEd25519()
	require.NoError(t, err)

	msg := []byte("hello plog")
	sig := xcrypto.SignEd25519(priv, msg)

	ok, err := xcrypto.VerifySignature(pub, sig, msg)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestMismatchedSchemesRejected(t *testing.T) {
	_, secpPub, err := xcrypto.GenerateSecp256k1()
	require.NoError(t, err)
	_, ed25519Pub, err := xcrypto.GenerateEd25519()
	require.NoError(t, err)

	_, edSig, err := xcrypto.GenerateEd25519()
	require.NoError(t, err)
	_ = edSig

	_, err = xcrypto.VerifySignature(secpPub, xcrypto.TagEd25519SigBytes(make([]byte, 64)), []byte("x"))
	require.Error(t, err)
	_, err = xcrypto.VerifySignature(ed25519Pub, xcrypto.TagSecp256k1SigBytes(make([]byte, 64)), []byte("x"))
	require.Error(t, err)
}

func TestPreimageSha256(t *testing.T) {
	preimage := []byte("open sesame")
	digest := xcrypto.TagSha2_256Bytes(xcrypto.Sha2_256(preimage))

	ok, err := xcrypto.VerifyPreimage(digest, preimage)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = xcrypto.VerifyPreimage(digest, []byte("wrong"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPreimageBlake3(t *testing.T) {
	preimage := []byte("open sesame")
	digest := xcrypto.TagBlake3Bytes(xcrypto.Blake3(preimage))

	ok, err := xcrypto.VerifyPreimage(digest, preimage)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestUntagRoundTrip(t *testing.T) {
	tagged := xcrypto.TagSha2_256Bytes([]byte{1, 2, 3})
	tag, payload, err := xcrypto.Untag(tagged)
	require.NoError(t, err)
	require.Equal(t, xcrypto.TagSha2_256, tag)
	require.Equal(t, []byte{1, 2, 3}, payload)
}
