package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectRejectsEmptyURL(t *testing.T) {
	pool, err := Connect(context.Background(), "")
	assert.Error(t, err)
	assert.Nil(t, pool)
}

func TestConnectRejectsMalformedURL(t *testing.T) {
	pool, err := Connect(context.Background(), "not-a-url://///")
	assert.Error(t, err)
	assert.Nil(t, pool)
}
