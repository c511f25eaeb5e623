// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cid_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/plog/cid"
)

func TestSumAndEqual(t *testing.T) {
	a, err := cid.Sum(cid.CodeBlake3, []byte("hello"))
	require.NoError(t, err)
	b, err := cid.Sum(cid.CodeBlake3, []byte("hello"))
	require.NoError(t, err)
	c, err := cid.Sum(cid.CodeBlake3, []byte("goodbye"))
	require.NoError(t, err)

	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
}

func TestUnknownCode(t *testing.T) {
	_, err := cid.Sum(cid.Code(0xFFFF), []byte("x"))
	require.ErrorIs(t, err, cid.ErrUnknownCode)
}

func TestBytesRoundTrip(t *testing.T) {
	c, err := cid.Sum(cid.CodeSha2_256, []byte("round trip me"))
	require.NoError(t, err)

	decoded, err := cid.Decode(c.Bytes())
	require.NoError(t, err)
	require.True(t, c.Equal(decoded))
}

func TestStringRoundTrip(t *testing.T) {
	c, err := cid.Sum(cid.CodeBlake3, []byte("stringify me"))
	require.NoError(t, err)

	s := c.String()
	require.NotEmpty(t, s)

	decoded, err := cid.ParseString(s)
	require.NoError(t, err)
	require.True(t, c.Equal(decoded))
}

func TestZeroCID(t *testing.T) {
	var c cid.CID
	require.True(t, c.IsZero())
	require.Equal(t, "-", c.String())

	decoded, err := cid.ParseString("-")
	require.NoError(t, err)
	require.True(t, decoded.IsZero())
}

func TestVLAD(t *testing.T) {
	v1 := cid.NewVLAD([]byte("pub-a"), []byte("nonce-a"))
	v2 := cid.NewVLAD([]byte("pub-a"), []byte("nonce-a"))
	v3 := cid.NewVLAD([]byte("pub-b"), []byte("nonce-a"))

	require.True(t, v1.Equal(v2))
	require.False(t, v1.Equal(v3))
	require.NotEmpty(t, v1.String())
}
