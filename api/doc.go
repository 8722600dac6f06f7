// Package api exposes the sign-in flows and the caller's profile over Fiber.
package api
