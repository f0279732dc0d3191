package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQRRenderProducesPNG(t *testing.T) {
	svc := NewQRService()

	png, err := svc.Render("http://localhost:8080/redeem?token=abc", 128, 128)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestQRRenderEmptyPayload(t *testing.T) {
	svc := NewQRService()

	_, err := svc.Render("", 128, 128)
	assert.Error(t, err)
}

func TestQRRenderDefaultsSize(t *testing.T) {
	svc := NewQRService()

	png, err := svc.Render("payload", 0, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, png)
}
