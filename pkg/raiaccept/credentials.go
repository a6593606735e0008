package raiaccept

import (
	"bytes"
	"crypto/tls"
	"encoding/pem"
	"fmt"
	"os"

	"golang.org/x/crypto/pkcs12"
)

// LoadKeyPair reads a PEM certificate and private key from disk and checks
// that they belong together.
func LoadKeyPair(certFile, keyFile string) (cert, key []byte, err error) {
	cert, err = os.ReadFile(certFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read certificate: %w", err)
	}
	key, err = os.ReadFile(keyFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read private key: %w", err)
	}
	if _, err := tls.X509KeyPair(cert, key); err != nil {
		return nil, nil, fmt.Errorf("invalid key pair: %w", err)
	}
	return cert, key, nil
}

// LoadPKCS12 extracts the client certificate and private key of a .p12
// bundle as PEM.
func LoadPKCS12(file, password string) (cert, key []byte, err error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read bundle: %w", err)
	}
	return DecodePKCS12(data, password)
}

// DecodePKCS12 is LoadPKCS12 for bundle bytes already in memory.
func DecodePKCS12(data []byte, password string) (cert, key []byte, err error) {
	blocks, err := pkcs12.ToPEM(data, password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode bundle: %w", err)
	}

	var certBuf, keyBuf bytes.Buffer
	for _, b := range blocks {
		switch b.Type {
		case "CERTIFICATE":
			if certBuf.Len() == 0 {
				_ = pem.Encode(&certBuf, b)
			}
		case "PRIVATE KEY":
			// ToPEM emits PKCS#1 bytes for RSA keys under this type; x509
			// key parsing accepts either form.
			_ = pem.Encode(&keyBuf, &pem.Block{Type: b.Type, Bytes: b.Bytes})
		}
	}
	if certBuf.Len() == 0 {
		return nil, nil, fmt.Errorf("bundle contains no certificate")
	}
	if keyBuf.Len() == 0 {
		return nil, nil, fmt.Errorf("bundle contains no private key")
	}

	cert, key = certBuf.Bytes(), keyBuf.Bytes()
	if _, err := tls.X509KeyPair(cert, key); err != nil {
		return nil, nil, fmt.Errorf("invalid key pair: %w", err)
	}
	return cert, key, nil
}
