// Copyright (c) 2026 YaMDb. All rights reserved.

package sec_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Groozzy/api-yamdb/internal/platform/sec"
)

/*
TestGenerateConfirmationCode verifies length and the transcribable alphabet
(no 0/O or 1/I/l lookalikes). Many draws are taken so the rejection path,
which redraws bytes outside the alphabet range, is exercised too.
*/
func TestGenerateConfirmationCode(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := sec.GenerateConfirmationCode(8)
		require.NoError(t, err)
		require.Len(t, code, 8)

		for _, char := range code {
			assert.True(t, strings.ContainsRune("23456789ABCDEFGHJKMNPQRSTUVWXYZ", char),
				"unexpected character %q in code", char)
		}
	}
}

/*
TestConfirmationCode_HashRoundTrip verifies that a code checks against its
own hash and nothing else.
*/
func TestConfirmationCode_HashRoundTrip(t *testing.T) {
	code, err := sec.GenerateConfirmationCode(8)
	require.NoError(t, err)

	hash, err := sec.HashConfirmationCode(code)
	require.NoError(t, err)
	assert.NotEqual(t, code, hash)

	assert.True(t, sec.CheckConfirmationCode(code, hash))
	assert.False(t, sec.CheckConfirmationCode("WRONGCOD", hash))
}
