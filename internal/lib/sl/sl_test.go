package sl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecret(t *testing.T) {
	assert.Equal(t, "ab****yz", Secret("k", "abcdefyz").Value.String())
	assert.Equal(t, "***", Secret("k", "abc").Value.String())
	assert.Equal(t, "", Secret("k", "").Value.String())
}

func TestPhone(t *testing.T) {
	a := Phone("11987654321")
	assert.Equal(t, "phone", a.Key)
	assert.Equal(t, "11*******21", a.Value.String())
}

func TestErr(t *testing.T) {
	assert.Equal(t, "boom", Err(errors.New("boom")).Value.String())
	assert.Equal(t, "", Err(nil).Value.String())
}
