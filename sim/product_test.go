package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProduct_Other(t *testing.T) {
	assert.Equal(t, BB, WB.Other())
	assert.Equal(t, WB, BB.Other())
}
