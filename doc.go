// Package identity turns inbound bearer credentials into trusted identities
// and keeps a persisted profile in sync with them.
//
// Credential resolution:
//   - Classifier assigns every raw credential to a CredentialTier without
//     trusting its claims. Classification never fails; anything it cannot
//     decode or recognise is treated as a production ID token and must pass
//     signature verification.
//   - ClaimExtractor produces IdentityClaims for a tier. Self-describing tiers
//     (test fixture, emulator, dev custom token) are decoded locally, the
//     production tier is delegated to a TokenVerifier such as
//     provider/firebase.
//   - BuildIdentityContext normalises claims into the per-request
//     IdentityContext. CredentialResolver runs the three steps in order.
//
// Profile reconciliation:
//   - ProfileReconciler creates a profile the first time an identity is seen
//     and afterwards only writes name, image and phone when they changed.
//     Fields the identity provider never asserts (age, tags) are left alone,
//     and a login that changes nothing performs zero writes.
//   - Profile creation goes through ProfileStore.Create, a create-if-absent
//     primitive. Losing a creation race falls back to the diff path.
package identity
