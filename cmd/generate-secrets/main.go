package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
)

// randomSecret returns a hex-encoded 256-bit random secret.
func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func main() {
	accessSecret, err := randomSecret()
	if err != nil {
		log.Fatalf("Failed to generate access secret: %v", err)
	}
	refreshSecret, err := randomSecret()
	if err != nil {
		log.Fatalf("Failed to generate refresh secret: %v", err)
	}

	fmt.Println("Add these to your .env file:")
	fmt.Println()
	fmt.Printf("JWT_SECRET=%s\n", accessSecret)
	fmt.Printf("JWT_REFRESH_SECRET=%s\n", refreshSecret)
}
