// Package firebase verifies Firebase Authentication ID tokens against the
// securetoken JWKS and maps them to identity claims.
//
// Use NewTokenVerifier as the identity.TokenVerifier for production
// credentials. Emulator and custom tokens never reach this package.
package firebase
