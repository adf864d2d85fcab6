package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlug(t *testing.T) {
	assert.Equal(t, "go-for-beginners", GenerateSlug("Go for Beginners"))
	assert.Equal(t, "cafe-guide", GenerateSlug("Café Guide"))
	assert.Equal(t, "api-v2-reference", GenerateSlug("  API v2: Reference!  "))
	assert.Equal(t, "", GenerateSlug("???"))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-password", hash)

	assert.NoError(t, CheckPassword(hash, "s3cret-password"))
	assert.Error(t, CheckPassword(hash, "wrong-password"))
}

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateAccessToken("user-1", "user@example.com", "USER", time.Minute)
	require.NoError(t, err)

	claims, err := ValidateToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "USER", claims.Role)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateAccessToken("user-1", "user@example.com", "USER", time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, "other-secret")
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateAccessToken("user-1", "user@example.com", "USER", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, "test-secret")
	assert.Error(t, err)
}

func TestResetToken(t *testing.T) {
	raw, hash := GenerateResetToken()
	require.NotEmpty(t, raw)
	require.NotEmpty(t, hash)

	// raw token never equals the stored hash, and hashing is deterministic
	assert.NotEqual(t, raw, hash)
	assert.Equal(t, hash, HashToken(raw))
	assert.NotEqual(t, hash, HashToken("some-other-token"))

	// two requests never share a token
	raw2, hash2 := GenerateResetToken()
	assert.NotEqual(t, raw, raw2)
	assert.NotEqual(t, hash, hash2)
}

func TestResetTokenTTLDefaultsToOneHour(t *testing.T) {
	t.Setenv("RESET_TOKEN_TTL_MINUTES", "")
	assert.Equal(t, time.Hour, ResetTokenTTL())

	t.Setenv("RESET_TOKEN_TTL_MINUTES", "30")
	assert.Equal(t, 30*time.Minute, ResetTokenTTL())

	t.Setenv("RESET_TOKEN_TTL_MINUTES", "-5")
	assert.Equal(t, time.Hour, ResetTokenTTL())
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 20, ParseIntDefault("", 20))
	assert.Equal(t, 7, ParseIntDefault("7", 20))
	assert.Equal(t, 20, ParseIntDefault("abc", 20))
}

func TestParseBoolQuery(t *testing.T) {
	b, err := ParseBoolQuery("")
	require.NoError(t, err)
	assert.Nil(t, b)

	b, err = ParseBoolQuery("true")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.True(t, *b)

	_, err = ParseBoolQuery("maybe")
	assert.Error(t, err)
}

func TestEscapeRegex(t *testing.T) {
	assert.Equal(t, `c\+\+`, EscapeRegex("c++"))
	assert.Equal(t, `plain`, EscapeRegex("plain"))
}

func findCookie(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	t.Fatalf("cookie %s not set", name)
	return nil
}

func TestRefreshCookieSetAndClearSharePath(t *testing.T) {
	gin.SetMode(gin.TestMode)

	setRec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(setRec)
	SetRefreshCookie(c, "token-value")
	set := findCookie(t, setRec, "refreshToken")

	clearRec := httptest.NewRecorder()
	c, _ = gin.CreateTestContext(clearRec)
	ClearRefreshCookie(c)
	cleared := findCookie(t, clearRec, "refreshToken")

	// mismatched paths would leave the original cookie in the browser
	assert.Equal(t, set.Path, cleared.Path)
	assert.True(t, set.HttpOnly)
	assert.Negative(t, cleared.MaxAge)
	assert.Empty(t, cleared.Value)
}

func TestStringsToObjectIDs(t *testing.T) {
	ids, err := StringsToObjectIDs([]string{"64b0c8f2a2b3c4d5e6f70812"})
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, "64b0c8f2a2b3c4d5e6f70812", ids[0].Hex())

	_, err = StringsToObjectIDs([]string{"not-an-id"})
	assert.Error(t, err)
}
