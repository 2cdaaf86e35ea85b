package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword returns a salted bcrypt hash. Plaintext passwords are never
// stored; only this hash goes to the database.
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

func CheckPassword(pw, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
