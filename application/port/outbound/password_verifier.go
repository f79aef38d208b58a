package outbound

// PasswordVerifier is the pluggable one-way hash capability used by signup
// and login. Verify fails with autherr.ErrBadCredentials on mismatch.
type PasswordVerifier interface {
	Hash(password string) (string, error)
	Verify(hash, password string) error
}
