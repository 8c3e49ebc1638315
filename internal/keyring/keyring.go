// Package keyring stores the project key in the OS keyring, keyed by
// the project directory, so the key never has to live in a file or
// shell profile.
package keyring

import (
	"github.com/zalando/go-keyring"
)

const serviceName = "sealed"

// SaveKey stores a base64 project key for a project directory.
func SaveKey(project, keyB64 string) error {
	return keyring.Set(serviceName, project, keyB64)
}

// GetKey retrieves the base64 project key for a project directory.
func GetKey(project string) (string, error) {
	return keyring.Get(serviceName, project)
}

// DeleteKey removes the stored key for a project directory.
func DeleteKey(project string) error {
	return keyring.Delete(serviceName, project)
}

// HasKey checks whether a key is stored for a project directory.
func HasKey(project string) bool {
	_, err := keyring.Get(serviceName, project)
	return err == nil
}
