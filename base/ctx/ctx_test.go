package ctx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWithValue(t *testing.T) {
	c := Background()
	c = WithValue(c, "requestID", "abc-123")
	assert.Equal(t, "abc-123", c.Value("requestID"))
}

func TestWithValues(t *testing.T) {
	c := Background()
	c = WithValues(c, map[string]interface{}{
		"signer": "0x1",
		"admin":  "0x2",
	})
	assert.Equal(t, "0x1", c.Value("signer"))
	assert.Equal(t, "0x2", c.Value("admin"))
}

func TestWithTimeout(t *testing.T) {
	c, cancel := WithTimeout(Background(), time.Millisecond)
	defer cancel()
	<-c.Done()
	assert.Error(t, c.Err())
}
