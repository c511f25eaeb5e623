// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package script_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/plog/keypath"
	"github.com/luxfi/plog/kvstore"
	"github.com/luxfi/plog/script"
	"github.com/luxfi/plog/value"
	"github.com/luxfi/plog/xcrypto"
)

func storeWith(pairs map[string]value.Value) *kvstore.Store {
	s := kvstore.New()
	for k, v := range pairs {
		s.Set(keypath.MustParse(k), v)
	}
	return s
}

func TestHost_PushPop(t *testing.T) {
	s := storeWith(map[string]value.Value{"/x": value.Str("hello")})
	h := script.NewHost(s, keypath.Root, true)

	require.NoError(t, h.Push(keypath.MustParse("/x")))
	require.Equal(t, [][]byte{[]byte("hello")}, h.ParamStack())

	require.NoError(t, h.Pop())
	require.Empty(t, h.ParamStack())

	require.Error(t, h.Pop())
}

func TestHost_PushMissingKeyFails(t *testing.T) {
	h := script.NewHost(kvstore.New(), keypath.Root, true)
	require.Error(t, h.Push(keypath.MustParse("/absent")))
}

func TestHost_Branch(t *testing.T) {
	h := script.NewHost(kvstore.New(), keypath.MustParse("/delegated/"), true)
	p, err := h.Branch("mike/pubkey")
	require.NoError(t, err)
	require.Equal(t, keypath.Path("/delegated/mike/pubkey"), p)

	leafHost := script.NewHost(kvstore.New(), keypath.MustParse("/delegated/mike"), true)
	_, err = leafHost.Branch("x")
	require.Error(t, err)
}

func TestHost_CheckEq_SuccessAndFailure(t *testing.T) {
	s := storeWith(map[string]value.Value{"/secret": value.Str("sesame")})
	h := script.NewHost(s, keypath.Root, true)
	h.SeedStack([][]byte{[]byte("sesame")})

	require.NoError(t, h.CheckEq(keypath.MustParse("/secret")))
	marker, ok := h.Succeeded()
	require.True(t, ok)
	require.Equal(t, uint64(0), marker.N)
	require.Empty(t, h.ParamStack(), "matched entry is popped on success")

	h2 := script.NewHost(s, keypath.Root, true)
	h2.SeedStack([][]byte{[]byte("wrong")})
	require.NoError(t, h2.CheckEq(keypath.MustParse("/secret")))
	_, ok = h2.Succeeded()
	require.False(t, ok)
	require.Equal(t, uint64(1), h2.CheckCount())
	require.Equal(t, [][]byte{[]byte("wrong")}, h2.ParamStack(), "stack untouched on failure")
}

func TestHost_CheckEq_ForbiddenInUnlock(t *testing.T) {
	h := script.NewHost(kvstore.New(), keypath.Root, false)
	err := h.CheckEq(keypath.MustParse("/x"))
	require.Error(t, err)
}

func TestHost_CheckPreimage(t *testing.T) {
	preimage := []byte("open sesame")
	digest := xcrypto.TagSha2_256Bytes(xcrypto.Sha2_256(preimage))
	s := storeWith(map[string]value.Value{"/digest": value.Data(digest)})

	h := script.NewHost(s, keypath.Root, true)
	h.SeedStack([][]byte{preimage})

	require.NoError(t, h.CheckPreimage(keypath.MustParse("/digest")))
	_, ok := h.Succeeded()
	require.True(t, ok)
}

func TestHost_CheckSignature_SkipsLeadingMarkers(t *testing.T) {
	priv, pub, err := xcrypto.GenerateEd25519()
	require.NoError(t, err)

	msg := []byte("entry bytes")
	sig := xcrypto.SignEd25519(priv, msg)

	s := storeWith(map[string]value.Value{"/pubkey": value.Data(pub)})
	h := script.NewHost(s, keypath.Root, true)
	h.SeedStack([][]byte{msg, sig, script.Success(0).Bytes()})

	require.NoError(t, h.CheckSignature(keypath.MustParse("/pubkey")))
	marker, ok := h.Succeeded()
	require.True(t, ok)
	require.Equal(t, uint64(0), marker.N)
	require.Empty(t, h.ParamStack())
}

func TestHost_CheckSignature_Failure(t *testing.T) {
	_, pub, err := xcrypto.GenerateEd25519()
	require.NoError(t, err)

	s := storeWith(map[string]value.Value{"/pubkey": value.Data(pub)})
	h := script.NewHost(s, keypath.Root, true)
	h.SeedStack([][]byte{[]byte("message"), []byte("not-a-signature")})

	require.NoError(t, h.CheckSignature(keypath.MustParse("/pubkey")))
	_, ok := h.Succeeded()
	require.False(t, ok)
	require.Equal(t, uint64(1), h.CheckCount())
}

func TestMarker_EncodeDecode(t *testing.T) {
	m := script.Success(42)
	decoded, ok := script.DecodeMarker(m.Bytes())
	require.True(t, ok)
	require.Equal(t, m, decoded)

	_, ok = script.DecodeMarker([]byte("not a marker"))
	require.False(t, ok)
}
