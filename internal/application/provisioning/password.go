package provisioning

import (
	"crypto/rand"
	"math/big"
)

const (
	generatedPasswordLength = 16
	passwordAlphabet        = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"
	passwordSymbols         = "!@#%*-_+="
)

// generatePassword returns a random password with at least one symbol and one digit.
// Look-alike characters are left out since the password travels by email.
func generatePassword() (string, error) {
	buf := make([]byte, generatedPasswordLength)
	for i := range buf {
		c, err := pick(passwordAlphabet)
		if err != nil {
			return "", err
		}
		buf[i] = c
	}

	symbol, err := pick(passwordSymbols)
	if err != nil {
		return "", err
	}
	digit, err := pick("23456789")
	if err != nil {
		return "", err
	}
	buf[len(buf)-2] = symbol
	buf[len(buf)-1] = digit
	return string(buf), nil
}

func pick(alphabet string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
	if err != nil {
		return 0, err
	}
	return alphabet[n.Int64()], nil
}
