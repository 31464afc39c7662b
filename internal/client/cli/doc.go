// Package cli implements the EasyAdmin login command-line client.
//
// The client performs one login with the configured strategy and prints the
// resulting session token:
//
//   - password: prompts for the username (unless configured) and password,
//     fetches a nonce, and sends a scrypt proof derived from both
//   - otp: prompts for the one-time password printed in the server log
//   - open: logs in with the client id alone
//
// Afterwards it calls the protected "me" endpoint with the token and prints
// the claims, which doubles as a check that the token is accepted.
package cli
