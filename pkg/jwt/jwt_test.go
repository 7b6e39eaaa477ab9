package jwt

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWT(key string) *JWT {
	conf := viper.New()
	conf.Set("security.jwt.key", key)
	return NewJwt(conf)
}

func TestGenAndParseToken(t *testing.T) {
	j := newTestJWT("secret")
	token, err := j.GenToken("ops", time.Now().Add(time.Hour))
	require.NoError(t, err)

	claims, err := j.ParseToken("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Operator)
}

func TestParseTokenRejects(t *testing.T) {
	j := newTestJWT("secret")

	_, err := j.ParseToken("")
	assert.Error(t, err)

	expired, err := j.GenToken("ops", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	_, err = j.ParseToken(expired)
	assert.Error(t, err)

	foreign, err := newTestJWT("other").GenToken("ops", time.Now().Add(time.Hour))
	require.NoError(t, err)
	_, err = j.ParseToken(foreign)
	assert.Error(t, err)
}
