package model

// User represents a customer record as stored in the `users` table.
// The password is never stored; only a per-user random salt and the
// secret derived from password+salt by the credential verifier.
//
// Fields:
//  Username     – unique key identifying the customer.
//  Salt         – random bytes generated at registration.
//  PasswordHash – derived secret, comparable by equality.
//  Balance      – account balance in whole currency units, never negative.
type User struct {
	Username     string // users.username
	Salt         []byte // users.salt
	PasswordHash []byte // users.password_hash
	Balance      int64  // users.balance
}
