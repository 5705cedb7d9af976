package auth_test

import (
	"context"
	"fmt"
	"log"

	"github.com/Watts-Digital/go-wattsvision/auth"
)

// Example demonstrates basic usage of TokenManager.
func Example() {
	ctx := context.Background()

	tm := auth.NewTokenManager(auth.Credentials{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RefreshToken: "stored-refresh-token",
	}, auth.WithLoggingEnabled())
	defer tm.Close()

	token, err := tm.GetAccessToken(ctx)
	if err != nil {
		log.Fatal(err)
	}

	// The refresh token may have rotated; persist the current value.
	fmt.Println(token, tm.RefreshToken())
}

// ExampleExtractSubject shows local extraction of the user identifier from
// an access token. Malformed tokens yield the empty string.
func ExampleExtractSubject() {
	subject := auth.ExtractSubject("not-a-jwt")
	fmt.Printf("%q\n", subject)
	// Output: ""
}
