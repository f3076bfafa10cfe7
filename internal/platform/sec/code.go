// Copyright (c) 2026 YaMDb. All rights reserved.

package sec

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// # Confirmation Codes

// codeAlphabet excludes visually ambiguous characters (0/O, 1/I/l) since
// users transcribe confirmation codes from email by hand.
const codeAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// maxUnbiasedByte is the largest byte value that maps onto the alphabet
// without modulo bias; bytes at or above it are rejected and redrawn.
const maxUnbiasedByte = 256 - (256 % len(codeAlphabet))

// GenerateConfirmationCode returns a random human-transcribable code of
// the given length. Characters are drawn by rejection sampling so every
// alphabet character is equally likely.
func GenerateConfirmationCode(length int) (string, error) {
	code := make([]byte, 0, length)
	buffer := make([]byte, length)

	for len(code) < length {
		if _, err := rand.Read(buffer); err != nil {
			return "", fmt.Errorf("sec: failed to generate confirmation code: %w", err)
		}

		for _, b := range buffer {
			if int(b) >= maxUnbiasedByte {
				continue
			}
			code = append(code, codeAlphabet[int(b)%len(codeAlphabet)])
			if len(code) == length {
				break
			}
		}
	}

	return string(code), nil
}

// HashConfirmationCode hashes a confirmation code with bcrypt before it is
// written to volatile storage. Only the hash ever leaves process memory.
func HashConfirmationCode(code string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash confirmation code: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckConfirmationCode compares a plain-text code against its stored hash
// using bcrypt's constant-time comparison.
func CheckConfirmationCode(code, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(code))
	return err == nil
}
