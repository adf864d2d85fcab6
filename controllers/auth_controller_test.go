package controllers

import (
	"testing"
	"time"

	"github.com/brightstack/learnhubbackend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestRefreshTokenRecordStoresHashOnly(t *testing.T) {
	t.Setenv("JWT_REFRESH_SECRET", "test-refresh-secret")

	userID := bson.NewObjectID()
	raw, err := utils.GenerateRefreshToken(userID.Hex())
	require.NoError(t, err)

	now := time.Now().UTC()
	rec := newRefreshTokenRecord(userID, raw, now)

	// the raw token stays in the client cookie; the database only ever
	// sees its digest
	assert.NotEqual(t, raw, rec.TokenHash)
	assert.Equal(t, utils.HashToken(raw), rec.TokenHash)
	assert.Len(t, rec.TokenHash, 64)

	assert.Equal(t, userID, rec.UserID)
	assert.True(t, rec.ExpiresAt.After(now))
	assert.Nil(t, rec.RevokedAt)
}
