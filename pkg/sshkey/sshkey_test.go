package sshkey

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

func TestGenerate(t *testing.T) {
	kp, err := Generate("alice-vm")
	require.NoError(t, err)

	signer, err := ssh.ParsePrivateKey(kp.PrivateKey)
	require.NoError(t, err)
	assert.Equal(t, ssh.KeyAlgoED25519, signer.PublicKey().Type())
	assert.Equal(t, ssh.FingerprintSHA256(signer.PublicKey()), kp.Fingerprint)

	pub, comment, _, _, err := ssh.ParseAuthorizedKey([]byte(kp.AuthorizedKey))
	require.NoError(t, err)
	assert.Equal(t, "alice-vm", comment)
	assert.Equal(t, signer.PublicKey().Marshal(), pub.Marshal())
	assert.False(t, strings.HasSuffix(kp.AuthorizedKey, "\n"))
}

func TestGenerateIsFresh(t *testing.T) {
	a, err := Generate("")
	require.NoError(t, err)
	b, err := Generate("")
	require.NoError(t, err)
	assert.NotEqual(t, a.Fingerprint, b.Fingerprint)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "db1_keypair.pem", FileName("db1"))
}
