package test

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/polkiloo/weddingmart/internal/domain/model"
)

const (
	asciiLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	digits       = "0123456789"
)

var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// RandomASCIIString returns a pseudo-random alphanumeric string within the provided bounds.
func RandomASCIIString(minLen, maxLen int) string {
	return randomFrom(asciiLetters, minLen, maxLen)
}

// RandomRegistration returns valid sign-up values with a unique-looking address.
func RandomRegistration() model.Registration {
	return model.Registration{
		Name:     RandomASCIIString(3, 16),
		Email:    strings.ToLower(RandomASCIIString(6, 14)) + "@example.com",
		Password: RandomASCIIString(8, 32),
		Phone:    "9" + randomFrom(digits, 9, 9),
	}
}

func randomFrom(alphabet string, minLen, maxLen int) string {
	if minLen <= 0 {
		minLen = 1
	}
	if maxLen < minLen {
		maxLen = minLen
	}
	length := minLen
	if maxLen > minLen {
		length += randomIntn(maxLen - minLen + 1)
	}
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = alphabet[randomIntn(len(alphabet))]
	}
	return string(buf)
}

func randomIntn(n int) int {
	rngMu.Lock()
	defer rngMu.Unlock()
	return rng.Intn(n)
}
