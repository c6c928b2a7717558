package ssh

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/ssh"
)

// CheckIdentity verifies that the private key at path is readable and
// parsable. Encrypted keys pass: ssh-agent or the key's own prompt handles
// them, not us.
func CheckIdentity(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read identity file: %w", err)
	}
	if _, err := ssh.ParseRawPrivateKey(data); err != nil {
		var missing *ssh.PassphraseMissingError
		if errors.As(err, &missing) {
			return nil
		}
		return fmt.Errorf("parse identity file: %w", err)
	}
	return nil
}
