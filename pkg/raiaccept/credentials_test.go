package raiaccept

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestLoadKeyPair(t *testing.T) {
	dir := t.TempDir()
	cert, key := generateKeyPair(t)
	certFile := writeFile(t, dir, "client.crt", cert)
	keyFile := writeFile(t, dir, "client.key", key)

	gotCert, gotKey, err := LoadKeyPair(certFile, keyFile)
	require.NoError(t, err)
	assert.Equal(t, cert, gotCert)
	assert.Equal(t, key, gotKey)

	_, otherKey := generateKeyPair(t)
	mismatched := writeFile(t, dir, "other.key", otherKey)
	_, _, err = LoadKeyPair(certFile, mismatched)
	assert.ErrorContains(t, err, "invalid key pair")

	_, _, err = LoadKeyPair(filepath.Join(dir, "missing.crt"), keyFile)
	assert.ErrorContains(t, err, "failed to read certificate")
}

func TestLoadPKCS12Errors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := LoadPKCS12(filepath.Join(dir, "missing.p12"), "pw")
	assert.ErrorContains(t, err, "failed to read bundle")

	garbage := writeFile(t, dir, "garbage.p12", []byte("not a pkcs12 bundle"))
	_, _, err = LoadPKCS12(garbage, "pw")
	assert.ErrorContains(t, err, "failed to decode bundle")
}
