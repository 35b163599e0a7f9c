package password

import "golang.org/x/crypto/bcrypt"

// Cost is the bcrypt work factor used for new hashes. Existing hashes
// embed their own cost, so Verify handles older values transparently.
const Cost = 12

// Hash derives a salted bcrypt hash from the plaintext password.
// The returned blob embeds the salt and cost factor.
func Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), Cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches the stored hash.
// Malformed hashes and mismatches both return false.
func Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
