// Package sshkey generates the login keypair handed out with a server rental.
package sshkey

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"fmt"
	"strings"

	"golang.org/x/crypto/ssh"
)

// KeyPair is an ed25519 keypair in ready-to-use formats.
type KeyPair struct {
	// PrivateKey is the OpenSSH private key, PEM encoded.
	PrivateKey []byte
	// AuthorizedKey is the public key as one authorized_keys line, no newline.
	AuthorizedKey string
	// Fingerprint is the SHA256 fingerprint of the public key.
	Fingerprint string
}

// Generate creates a keypair whose public key carries comment.
func Generate(comment string) (*KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate ed25519 key: %w", err)
	}
	block, err := ssh.MarshalPrivateKey(priv, comment)
	if err != nil {
		return nil, fmt.Errorf("marshal private key: %w", err)
	}
	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("create ssh public key: %w", err)
	}
	authorized := strings.TrimSpace(string(ssh.MarshalAuthorizedKey(sshPub)))
	if comment != "" {
		authorized += " " + comment
	}
	return &KeyPair{
		PrivateKey:    pem.EncodeToMemory(block),
		AuthorizedKey: authorized,
		Fingerprint:   ssh.FingerprintSHA256(sshPub),
	}, nil
}

// FileName is the name the private key is offered under for rental name.
func FileName(name string) string {
	return name + "_keypair.pem"
}
